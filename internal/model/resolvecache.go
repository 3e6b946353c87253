package model

import "sync"

const resolveCacheSize = 12

// resolveCache remembers the most recently resolved positions of a root
// node in a circular buffer.
type resolveCache struct {
	mu   sync.Mutex
	elts [resolveCacheSize]*ResolvedPos
	i    int
}

func (n *Node) resolveCache() *resolveCache {
	n.cacheOnce.Do(func() {
		n.cache = &resolveCache{}
	})
	return n.cache
}

func resolveCached(doc *Node, pos int) (*ResolvedPos, error) {
	cache := doc.resolveCache()
	cache.mu.Lock()
	defer cache.mu.Unlock()
	for _, elt := range cache.elts {
		if elt != nil && elt.Pos == pos {
			return elt, nil
		}
	}
	result, err := resolvePos(doc, pos)
	if err != nil {
		return nil, err
	}
	cache.elts[cache.i] = result
	cache.i = (cache.i + 1) % resolveCacheSize
	return result, nil
}
