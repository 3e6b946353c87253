package schemadef

// mergeRaw merges src over dst. The node and mark lists are merged by
// entry name; everything else follows DeepMerge.
func mergeRaw(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, val := range src {
		if key == "nodes" || key == "marks" {
			srcList, srcOK := val.([]any)
			dstList, dstOK := dst[key].([]any)
			if srcOK && dstOK {
				dst[key] = mergeNamed(dstList, srcList)
				continue
			}
		}
		dst[key] = mergeValue(dst[key], val)
	}
	return dst
}

func mergeValue(dst, src any) any {
	srcMap, srcIsMap := src.(map[string]any)
	dstMap, dstIsMap := dst.(map[string]any)
	if srcIsMap && dstIsMap {
		return DeepMerge(dstMap, srcMap)
	}
	return src
}

// mergeNamed merges two lists of named entries. Entries of over replace
// or extend the entry of base with the same name; unmatched entries are
// appended.
func mergeNamed(base, over []any) []any {
	out := cloneSlice(base)
	index := make(map[string]int, len(out))
	for i, item := range out {
		if name, ok := entryName(item); ok {
			index[name] = i
		}
	}
	for _, item := range over {
		name, ok := entryName(item)
		if i, found := index[name]; ok && found {
			out[i] = DeepMerge(Clone(out[i].(map[string]any)), item.(map[string]any))
			continue
		}
		if ok {
			index[name] = len(out)
		}
		out = append(out, item)
	}
	return out
}

func entryName(item any) (string, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return "", false
	}
	name, ok := m["name"].(string)
	return name, ok
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			dst[key] = srcVal
			continue
		}
		dst[key] = mergeValue(dstVal, srcVal)
	}
	return dst
}

// Clone creates a deep copy of a definition map.
func Clone(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return Clone(v)
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}
