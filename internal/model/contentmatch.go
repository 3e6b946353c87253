package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/prosetree/internal/model/automaton"
	"github.com/dshills/prosetree/internal/model/expr"
)

// MatchEdge is an outgoing edge of a ContentMatch state.
type MatchEdge struct {
	Type *NodeType
	Next *ContentMatch
}

// ContentMatch is a state of the automaton compiled from a content
// expression. It tracks how far a sequence of child types has matched.
type ContentMatch struct {
	// ValidEnd is true when content may end in this state.
	ValidEnd bool

	next []MatchEdge

	wrapMu    sync.Mutex
	wrapCache map[*NodeType]wrapResult
}

type wrapResult struct {
	types []*NodeType
	ok    bool
}

// EmptyContentMatch accepts only empty content. It is the content match of
// every leaf type.
var EmptyContentMatch = &ContentMatch{ValidEnd: true}

// nodeResolver resolves expression names against a schema's node types.
type nodeResolver struct {
	s *Schema
}

func (r nodeResolver) Resolve(name string) []int {
	if t, ok := r.s.nodes[name]; ok {
		return []int{t.id}
	}
	var ids []int
	for _, t := range r.s.nodeList {
		if t.IsInGroup(name) {
			ids = append(ids, t.id)
		}
	}
	return ids
}

func (r nodeResolver) IsInline(id int) bool {
	return r.s.nodeList[id].IsInline()
}

// compileContent parses and compiles a content expression, reusing earlier
// results for the same string.
func (s *Schema) compileContent(content string, cache map[string]*ContentMatch) (*ContentMatch, error) {
	if m, ok := cache[content]; ok {
		return m, nil
	}
	pattern, err := expr.Parse(content, nodeResolver{s})
	if err != nil {
		var syn *expr.SyntaxError
		if errors.As(err, &syn) {
			return nil, &Error{Kind: ErrGrammar, Err: syn}
		}
		return nil, &Error{Kind: ErrGrammar, Msg: "invalid content expression", Err: err}
	}
	if pattern == nil {
		cache[content] = EmptyContentMatch
		return EmptyContentMatch, nil
	}

	dfa := automaton.Compile(pattern)
	generatable := func(label int) bool {
		t := s.nodeList[label]
		return !(t.isText || t.HasRequiredAttrs())
	}
	if dead, found := automaton.FindDeadEnd(dfa, generatable); found {
		names := make([]string, len(dead.Labels))
		for i, l := range dead.Labels {
			names[i] = s.nodeList[l].Name
		}
		return nil, grammarError("Only non-generatable nodes (%s) in a required position (in content expression %q)",
			strings.Join(names, ", "), content)
	}

	states := make([]*ContentMatch, len(dfa.States))
	for i, st := range dfa.States {
		states[i] = &ContentMatch{ValidEnd: st.Accept}
	}
	for i, st := range dfa.States {
		edges := make([]MatchEdge, len(st.Transitions))
		for j, tr := range st.Transitions {
			edges[j] = MatchEdge{Type: s.nodeList[tr.Label], Next: states[tr.To]}
		}
		states[i].next = edges
	}

	s.logger.WithComponent("schema").WithFields(map[string]any{
		"expression": content,
		"states":     len(states),
	}).Debug("compiled content expression")
	cache[content] = states[0]
	return states[0], nil
}

// MatchType returns the state reached by matching a node of the given
// type, or nil.
func (m *ContentMatch) MatchType(t *NodeType) *ContentMatch {
	for _, e := range m.next {
		if e.Type == t {
			return e.Next
		}
	}
	return nil
}

// MatchFragment matches the children of frag in [start, end) and returns
// the resulting state, or nil when some child does not match.
func (m *ContentMatch) MatchFragment(frag *Fragment) *ContentMatch {
	return m.MatchFragmentRange(frag, 0, frag.ChildCount())
}

// MatchFragmentFrom matches the children of frag from start to the end.
func (m *ContentMatch) MatchFragmentFrom(frag *Fragment, start int) *ContentMatch {
	return m.MatchFragmentRange(frag, start, frag.ChildCount())
}

// MatchFragmentRange matches the children of frag in [start, end).
func (m *ContentMatch) MatchFragmentRange(frag *Fragment, start, end int) *ContentMatch {
	cur := m
	for i := start; cur != nil && i < end; i++ {
		cur = cur.MatchType(frag.Child(i).typ)
	}
	return cur
}

// InlineContent reports whether the state's content is inline.
func (m *ContentMatch) InlineContent() bool {
	return len(m.next) != 0 && m.next[0].Type.IsInline()
}

// DefaultType returns the first type that can be created here without
// attributes, or nil.
func (m *ContentMatch) DefaultType() *NodeType {
	for _, e := range m.next {
		if !(e.Type.isText || e.Type.HasRequiredAttrs()) {
			return e.Type
		}
	}
	return nil
}

// Compatible reports whether the two states accept some common type.
func (m *ContentMatch) Compatible(other *ContentMatch) bool {
	for _, a := range m.next {
		for _, b := range other.next {
			if a.Type == b.Type {
				return true
			}
		}
	}
	return false
}

// FillBefore finds nodes that can be inserted before after so that after
// matches from this state. With toEnd set the result must also reach a valid
// end. The returned fragment may be empty; ok is false when no fill exists.
func (m *ContentMatch) FillBefore(after *Fragment, toEnd bool, startIndex int) (*Fragment, bool) {
	seen := []*ContentMatch{m}
	var search func(match *ContentMatch, nodes []*Node) (*Fragment, bool)
	search = func(match *ContentMatch, nodes []*Node) (*Fragment, bool) {
		finished := match.MatchFragmentFrom(after, startIndex)
		if finished != nil && (!toEnd || finished.ValidEnd) {
			return FragmentFrom(nodes...), true
		}
		for _, e := range match.next {
			if e.Type.isText || e.Type.HasRequiredAttrs() || containsMatch(seen, e.Next) {
				continue
			}
			filler := e.Type.filler()
			if filler == nil {
				continue
			}
			seen = append(seen, e.Next)
			next := append(nodes[:len(nodes):len(nodes)], filler)
			if found, ok := search(e.Next, next); ok {
				return found, true
			}
		}
		return nil, false
	}
	return search(m, nil)
}

func containsMatch(list []*ContentMatch, m *ContentMatch) bool {
	for _, x := range list {
		if x == m {
			return true
		}
	}
	return false
}

// FindWrapping returns the shortest sequence of wrapper types, outermost
// first, that lets a node of type target appear in this state. Results are
// memoized per state.
func (m *ContentMatch) FindWrapping(target *NodeType) ([]*NodeType, bool) {
	m.wrapMu.Lock()
	defer m.wrapMu.Unlock()
	if r, ok := m.wrapCache[target]; ok {
		return r.types, r.ok
	}
	types, ok := m.computeWrapping(target)
	if m.wrapCache == nil {
		m.wrapCache = make(map[*NodeType]wrapResult)
	}
	m.wrapCache[target] = wrapResult{types: types, ok: ok}
	return types, ok
}

type wrapStep struct {
	match *ContentMatch
	typ   *NodeType
	via   *wrapStep
}

// computeWrapping runs a breadth-first search over wrapper types. Beyond the
// first hop a wrapper is only followed when the edge leading to it ends in
// a valid state.
func (m *ContentMatch) computeWrapping(target *NodeType) ([]*NodeType, bool) {
	seen := make(map[string]bool)
	active := []*wrapStep{{match: m}}
	for len(active) > 0 {
		current := active[0]
		active = active[1:]
		if current.match.MatchType(target) != nil {
			var result []*NodeType
			for step := current; step.typ != nil; step = step.via {
				result = append(result, step.typ)
			}
			for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
				result[i], result[j] = result[j], result[i]
			}
			return result, true
		}
		for _, e := range current.match.next {
			t := e.Type
			if t.IsLeaf() || t.HasRequiredAttrs() || seen[t.Name] {
				continue
			}
			if current.typ != nil && !e.Next.ValidEnd {
				continue
			}
			active = append(active, &wrapStep{match: t.contentMatch, typ: t, via: current})
			seen[t.Name] = true
		}
	}
	return nil, false
}

// EdgeCount returns the number of outgoing edges.
func (m *ContentMatch) EdgeCount() int { return len(m.next) }

// Edge returns the n-th outgoing edge. It panics when n is out of range.
func (m *ContentMatch) Edge(n int) MatchEdge {
	if n < 0 || n >= len(m.next) {
		panic(structureError("There's no %dth edge in this content match", n))
	}
	return m.next[n]
}

// String lists every reachable state as "index[*] type->target, ...",
// where * marks a valid end.
func (m *ContentMatch) String() string {
	var seen []*ContentMatch
	var scan func(*ContentMatch)
	scan = func(c *ContentMatch) {
		seen = append(seen, c)
		for _, e := range c.next {
			if !containsMatch(seen, e.Next) {
				scan(e.Next)
			}
		}
	}
	scan(m)

	indexOf := func(c *ContentMatch) int {
		for i, x := range seen {
			if x == c {
				return i
			}
		}
		return -1
	}
	lines := make([]string, len(seen))
	for i, c := range seen {
		var sb strings.Builder
		end := " "
		if c.ValidEnd {
			end = "*"
		}
		fmt.Fprintf(&sb, "%d%s ", i, end)
		for j, e := range c.next {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s->%d", e.Type.Name, indexOf(e.Next))
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}
