package model

func findDiffStart(a, b *Fragment, pos int) (int, bool) {
	for i := 0; ; i++ {
		if i == a.ChildCount() || i == b.ChildCount() {
			if a.ChildCount() == b.ChildCount() {
				return 0, false
			}
			return pos, true
		}
		childA, childB := a.Child(i), b.Child(i)
		if childA == childB {
			pos += childA.NodeSize()
			continue
		}
		if !childA.SameMarkup(childB) {
			return pos, true
		}
		if childA.IsText() && childA.text != childB.text {
			ra, rb := []rune(childA.text), []rune(childB.text)
			for j := 0; j < len(ra) && j < len(rb) && ra[j] == rb[j]; j++ {
				pos++
			}
			return pos, true
		}
		if childA.content.size > 0 || childB.content.size > 0 {
			if inner, ok := findDiffStart(childA.content, childB.content, pos+1); ok {
				return inner, true
			}
		}
		pos += childA.NodeSize()
	}
}

func findDiffEnd(a, b *Fragment, posA, posB int) (int, int, bool) {
	iA, iB := a.ChildCount(), b.ChildCount()
	for {
		if iA == 0 || iB == 0 {
			if iA == iB {
				return 0, 0, false
			}
			return posA, posB, true
		}
		iA--
		iB--
		childA, childB := a.Child(iA), b.Child(iB)
		size := childA.NodeSize()
		if childA == childB {
			posA -= size
			posB -= size
			continue
		}
		if !childA.SameMarkup(childB) {
			return posA, posB, true
		}
		if childA.IsText() && childA.text != childB.text {
			ra, rb := []rune(childA.text), []rune(childB.text)
			minSize := min(len(ra), len(rb))
			for same := 0; same < minSize && ra[len(ra)-same-1] == rb[len(rb)-same-1]; same++ {
				posA--
				posB--
			}
			return posA, posB, true
		}
		if childA.content.size > 0 || childB.content.size > 0 {
			if innerA, innerB, ok := findDiffEnd(childA.content, childB.content, posA-1, posB-1); ok {
				return innerA, innerB, true
			}
		}
		posA -= size
		posB -= size
	}
}
