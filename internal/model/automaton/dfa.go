package automaton

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/prosetree/internal/model/expr"
)

// Transition is a labeled edge of the DFA.
type Transition struct {
	Label int
	To    int
}

// State is a DFA state.
type State struct {
	Accept      bool
	Transitions []Transition
}

// DFA is a deterministic automaton. States[0] is the start state.
type DFA struct {
	States []State
}

// Compile builds the DFA for a pattern.
func Compile(p *expr.Pattern) *DFA {
	return Determinize(NFA(p))
}

// Determinize converts an NFA into a DFA by subset construction.
func Determinize(n *NFAGraph) *DFA {
	d := &determinizer{nfa: n, labeled: make(map[string]int)}
	d.explore(d.nullFrom(0))
	return &DFA{States: d.states}
}

type determinizer struct {
	nfa     *NFAGraph
	labeled map[string]int
	states  []State
}

// nullFrom returns the epsilon closure of node, sorted in descending order.
// A state whose only edge is a single epsilon edge is passed through and
// left out of the closure.
func (d *determinizer) nullFrom(node int) []int {
	var result []int
	seen := make(map[int]bool)
	var scan func(int)
	scan = func(node int) {
		if seen[node] {
			return
		}
		seen[node] = true
		edges := d.nfa.States[node]
		if len(edges) == 1 && edges[0].Label == Epsilon {
			scan(edges[0].To)
			return
		}
		result = append(result, node)
		for _, e := range edges {
			if e.Label == Epsilon {
				scan(e.To)
			}
		}
	}
	scan(node)
	sortDesc(result)
	return result
}

func sortDesc(s []int) {
	sort.Sort(sort.Reverse(sort.IntSlice(s)))
}

func setKey(states []int) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

type labeledSet struct {
	label  int
	states []int
}

func (d *determinizer) explore(states []int) int {
	var out []*labeledSet
	for _, node := range states {
		for _, e := range d.nfa.States[node] {
			if e.Label == Epsilon {
				continue
			}
			var set *labeledSet
			for _, o := range out {
				if o.label == e.Label {
					set = o
					break
				}
			}
			for _, target := range d.nullFrom(e.To) {
				if set == nil {
					set = &labeledSet{label: e.Label}
					out = append(out, set)
				}
				if !containsInt(set.states, target) {
					set.states = append(set.states, target)
				}
			}
		}
	}

	index := len(d.states)
	d.states = append(d.states, State{Accept: containsInt(states, d.nfa.Accept())})
	d.labeled[setKey(states)] = index

	for _, o := range out {
		sortDesc(o.states)
		next, ok := d.labeled[setKey(o.states)]
		if !ok {
			next = d.explore(o.states)
		}
		d.states[index].Transitions = append(d.states[index].Transitions, Transition{Label: o.label, To: next})
	}
	return index
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Matches runs the DFA over a sequence of labels and reports whether it ends
// in an accepting state.
func (d *DFA) Matches(labels []int) bool {
	state := 0
	for _, l := range labels {
		next := -1
		for _, t := range d.States[state].Transitions {
			if t.Label == l {
				next = t.To
				break
			}
		}
		if next < 0 {
			return false
		}
		state = next
	}
	return d.States[state].Accept
}
