package model

func replace(rFrom, rTo *ResolvedPos, slice *Slice) (*Node, error) {
	if slice.OpenStart > rFrom.Depth {
		return nil, spliceError("Inserted content deeper than insertion position")
	}
	if rFrom.Depth-slice.OpenStart != rTo.Depth-slice.OpenEnd {
		return nil, spliceError("Inconsistent open depths")
	}
	if err := slice.checkOpenDepths(); err != nil {
		return nil, err
	}
	return replaceOuter(rFrom, rTo, slice, 0)
}

func replaceOuter(rFrom, rTo *ResolvedPos, slice *Slice, depth int) (*Node, error) {
	index, node := rFrom.Index(depth), rFrom.Node(depth)
	switch {
	case index == rTo.Index(depth) && depth < rFrom.Depth-slice.OpenStart:
		inner, err := replaceOuter(rFrom, rTo, slice, depth+1)
		if err != nil {
			return nil, err
		}
		return node.Copy(node.content.ReplaceChild(index, inner)), nil
	case slice.Content.Size() == 0:
		content, err := replaceTwoWay(rFrom, rTo, depth)
		if err != nil {
			return nil, err
		}
		return closeNode(node, content)
	case slice.OpenStart == 0 && slice.OpenEnd == 0 && rFrom.Depth == depth && rTo.Depth == depth:
		parent := rFrom.Parent()
		content := parent.content
		return closeNode(parent, content.Cut(0, rFrom.ParentOffset).Append(slice.Content).Append(content.CutFrom(rTo.ParentOffset)))
	default:
		start, end, err := prepareSliceForReplace(slice, rFrom)
		if err != nil {
			return nil, err
		}
		content, err := replaceThreeWay(rFrom, start, end, rTo, depth)
		if err != nil {
			return nil, err
		}
		return closeNode(node, content)
	}
}

func checkJoin(main, sub *Node) error {
	if !sub.typ.CompatibleContent(main.typ) {
		return spliceError("Cannot join %s onto %s", sub.typ.Name, main.typ.Name)
	}
	return nil
}

func joinable(before, after *ResolvedPos, depth int) (*Node, error) {
	node := before.Node(depth)
	if err := checkJoin(node, after.Node(depth)); err != nil {
		return nil, err
	}
	return node, nil
}

// addNode appends child to target, merging it into a preceding text node
// with the same markup.
func addNode(child *Node, target []*Node) []*Node {
	last := len(target) - 1
	if last >= 0 && child.IsText() && child.SameMarkup(target[last]) {
		target[last] = child.WithText(target[last].text + child.text)
		return target
	}
	return append(target, child)
}

// addRange appends the children of the node at depth that lie between
// start and end. A nil start means the beginning of the node and a nil end
// its end.
func addRange(start, end *ResolvedPos, depth int, target []*Node) []*Node {
	ref := end
	if ref == nil {
		ref = start
	}
	node := ref.Node(depth)
	startIndex, endIndex := 0, node.ChildCount()
	if end != nil {
		endIndex = end.Index(depth)
	}
	if start != nil {
		startIndex = start.Index(depth)
		if start.Depth > depth {
			startIndex++
		} else if start.TextOffset() > 0 {
			target = addNode(start.NodeAfter(), target)
			startIndex++
		}
	}
	for i := startIndex; i < endIndex; i++ {
		target = addNode(node.Child(i), target)
	}
	if end != nil && end.Depth == depth && end.TextOffset() > 0 {
		target = addNode(end.NodeBefore(), target)
	}
	return target
}

func closeNode(node *Node, content *Fragment) (*Node, error) {
	if err := node.typ.CheckContent(content); err != nil {
		return nil, &Error{Kind: ErrSplice, Err: err}
	}
	return node.Copy(content), nil
}

func replaceThreeWay(rFrom, start, end, rTo *ResolvedPos, depth int) (*Fragment, error) {
	var openStart, openEnd *Node
	var err error
	if rFrom.Depth > depth {
		if openStart, err = joinable(rFrom, start, depth+1); err != nil {
			return nil, err
		}
	}
	if rTo.Depth > depth {
		if openEnd, err = joinable(end, rTo, depth+1); err != nil {
			return nil, err
		}
	}

	content := addRange(nil, rFrom, depth, nil)
	if openStart != nil && openEnd != nil && start.Index(depth) == end.Index(depth) {
		if err := checkJoin(openStart, openEnd); err != nil {
			return nil, err
		}
		inner, err := replaceThreeWay(rFrom, start, end, rTo, depth+1)
		if err != nil {
			return nil, err
		}
		closed, err := closeNode(openStart, inner)
		if err != nil {
			return nil, err
		}
		content = addNode(closed, content)
	} else {
		if openStart != nil {
			inner, err := replaceTwoWay(rFrom, start, depth+1)
			if err != nil {
				return nil, err
			}
			closed, err := closeNode(openStart, inner)
			if err != nil {
				return nil, err
			}
			content = addNode(closed, content)
		}
		content = addRange(start, end, depth, content)
		if openEnd != nil {
			inner, err := replaceTwoWay(end, rTo, depth+1)
			if err != nil {
				return nil, err
			}
			closed, err := closeNode(openEnd, inner)
			if err != nil {
				return nil, err
			}
			content = addNode(closed, content)
		}
	}
	content = addRange(rTo, nil, depth, content)
	return fragmentOf(content), nil
}

func replaceTwoWay(rFrom, rTo *ResolvedPos, depth int) (*Fragment, error) {
	content := addRange(nil, rFrom, depth, nil)
	if rFrom.Depth > depth {
		t, err := joinable(rFrom, rTo, depth+1)
		if err != nil {
			return nil, err
		}
		inner, err := replaceTwoWay(rFrom, rTo, depth+1)
		if err != nil {
			return nil, err
		}
		closed, err := closeNode(t, inner)
		if err != nil {
			return nil, err
		}
		content = addNode(closed, content)
	}
	content = addRange(rTo, nil, depth, content)
	return fragmentOf(content), nil
}

// prepareSliceForReplace wraps the slice content in the ancestors of along
// so that its open start and end can be resolved as positions.
func prepareSliceForReplace(slice *Slice, along *ResolvedPos) (start, end *ResolvedPos, err error) {
	extra := along.Depth - slice.OpenStart
	node := along.Node(extra).Copy(slice.Content)
	for i := extra - 1; i >= 0; i-- {
		node = along.Node(i).Copy(FragmentFrom(node))
	}
	if start, err = node.ResolveNoCache(slice.OpenStart + extra); err != nil {
		return nil, nil, err
	}
	if end, err = node.ResolveNoCache(node.content.size - slice.OpenEnd - extra); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}
