package automaton

// DeadEnd describes a reachable state from which no acceptable content can
// be generated.
type DeadEnd struct {
	State  int
	Labels []int
}

// FindDeadEnd walks every state reachable from the start state and returns
// the first one that is not accepting and whose outgoing labels are all
// rejected by generatable.
func FindDeadEnd(d *DFA, generatable func(label int) bool) (DeadEnd, bool) {
	work := []int{0}
	seen := map[int]bool{0: true}
	for i := 0; i < len(work); i++ {
		state := d.States[work[i]]
		dead := !state.Accept
		labels := make([]int, 0, len(state.Transitions))
		for _, t := range state.Transitions {
			labels = append(labels, t.Label)
			if dead && generatable(t.Label) {
				dead = false
			}
			if !seen[t.To] {
				seen[t.To] = true
				work = append(work, t.To)
			}
		}
		if dead {
			return DeadEnd{State: work[i], Labels: labels}, true
		}
	}
	return DeadEnd{}, false
}
