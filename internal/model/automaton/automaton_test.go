package automaton

import (
	"reflect"
	"testing"

	"github.com/dshills/prosetree/internal/model/expr"
)

const (
	a = iota
	b
	c
)

func TestNFAAcceptIsLast(t *testing.T) {
	n := NFA(expr.Seq(expr.Name(a), expr.Name(b)))
	if got := len(n.States[n.Accept()]); got != 0 {
		t.Errorf("accept state has %d edges, want 0", got)
	}
	for i, edges := range n.States {
		for _, e := range edges {
			if e.To < 0 || e.To >= len(n.States) {
				t.Errorf("state %d has unconnected edge %+v", i, e)
			}
		}
	}
}

func TestCompileMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern *expr.Pattern
		accept  [][]int
		reject  [][]int
	}{
		{
			name:    "nil",
			pattern: nil,
			accept:  [][]int{{}},
			reject:  [][]int{{a}},
		},
		{
			name:    "plus",
			pattern: expr.Plus(expr.Name(a)),
			accept:  [][]int{{a}, {a, a}, {a, a, a}},
			reject:  [][]int{{}, {b}, {a, b}},
		},
		{
			name:    "star",
			pattern: expr.Star(expr.Name(a)),
			accept:  [][]int{{}, {a}, {a, a}},
			reject:  [][]int{{b}},
		},
		{
			name:    "opt",
			pattern: expr.Seq(expr.Opt(expr.Name(a)), expr.Name(b)),
			accept:  [][]int{{b}, {a, b}},
			reject:  [][]int{{a}, {a, a, b}},
		},
		{
			name:    "choice",
			pattern: expr.Choice(expr.Name(a), expr.Name(b)),
			accept:  [][]int{{a}, {b}},
			reject:  [][]int{{}, {a, b}, {c}},
		},
		{
			name:    "seq",
			pattern: expr.Seq(expr.Name(a), expr.Name(b), expr.Name(c)),
			accept:  [][]int{{a, b, c}},
			reject:  [][]int{{a, b}, {a, c, b}},
		},
		{
			name:    "exact range",
			pattern: expr.Range(2, 2, expr.Name(a)),
			accept:  [][]int{{a, a}},
			reject:  [][]int{{a}, {a, a, a}},
		},
		{
			name:    "bounded range",
			pattern: expr.Range(1, 3, expr.Name(a)),
			accept:  [][]int{{a}, {a, a}, {a, a, a}},
			reject:  [][]int{{}, {a, a, a, a}},
		},
		{
			name:    "open range",
			pattern: expr.Range(2, expr.Unbounded, expr.Name(a)),
			accept:  [][]int{{a, a}, {a, a, a, a, a}},
			reject:  [][]int{{a}},
		},
		{
			name:    "zero range",
			pattern: expr.Seq(expr.Range(0, 2, expr.Name(a)), expr.Name(b)),
			accept:  [][]int{{b}, {a, b}, {a, a, b}},
			reject:  [][]int{{a, a, a, b}},
		},
		{
			name:    "nested",
			pattern: expr.Star(expr.Seq(expr.Name(a), expr.Opt(expr.Name(b)))),
			accept:  [][]int{{}, {a}, {a, b}, {a, a, b, a}},
			reject:  [][]int{{b}, {a, b, b}},
		},
		{
			name:    "star of opt",
			pattern: expr.Star(expr.Opt(expr.Name(a))),
			accept:  [][]int{{}, {a}, {a, a}},
			reject:  [][]int{{b}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compile(tt.pattern)
			for _, in := range tt.accept {
				if !d.Matches(in) {
					t.Errorf("Matches(%v) = false, want true", in)
				}
			}
			for _, in := range tt.reject {
				if d.Matches(in) {
					t.Errorf("Matches(%v) = true, want false", in)
				}
			}
		})
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	p := expr.Seq(expr.Plus(expr.Choice(expr.Name(a), expr.Name(b))), expr.Opt(expr.Name(c)))
	first, second := Compile(p), Compile(p)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("compiling the same pattern twice produced different automata")
	}
	for _, s := range first.States {
		seen := map[int]bool{}
		for _, tr := range s.Transitions {
			if seen[tr.Label] {
				t.Fatalf("state has two transitions on label %d", tr.Label)
			}
			seen[tr.Label] = true
		}
	}
}

func TestPlusStateCount(t *testing.T) {
	// a+ needs a start state and one looping accepting state.
	d := Compile(expr.Plus(expr.Name(a)))
	if len(d.States) != 2 {
		t.Fatalf("got %d states, want 2", len(d.States))
	}
	if d.States[0].Accept || !d.States[1].Accept {
		t.Errorf("accept flags = %v, %v", d.States[0].Accept, d.States[1].Accept)
	}
	if got := d.States[1].Transitions; len(got) != 1 || got[0].To != 1 {
		t.Errorf("loop transitions = %+v", got)
	}
}

func TestTransitionOrderFollowsExpression(t *testing.T) {
	d := Compile(expr.Choice(expr.Name(c), expr.Name(a), expr.Name(b)))
	var labels []int
	for _, tr := range d.States[0].Transitions {
		labels = append(labels, tr.Label)
	}
	if !reflect.DeepEqual(labels, []int{c, a, b}) {
		t.Errorf("labels = %v, want [c a b]", labels)
	}
}

func TestFindDeadEnd(t *testing.T) {
	generatable := func(label int) bool { return label != b }

	if _, found := FindDeadEnd(Compile(expr.Seq(expr.Name(a), expr.Name(b))), generatable); !found {
		t.Errorf("expected a dead end after a when b is not generatable")
	}

	dead, found := FindDeadEnd(Compile(expr.Plus(expr.Name(b))), generatable)
	if !found {
		t.Fatalf("expected a dead end for b+")
	}
	if dead.State != 0 || !reflect.DeepEqual(dead.Labels, []int{b}) {
		t.Errorf("dead end = %+v", dead)
	}

	if _, found := FindDeadEnd(Compile(expr.Star(expr.Name(b))), generatable); found {
		t.Errorf("b* can always end, no dead end expected")
	}
	if _, found := FindDeadEnd(Compile(expr.Plus(expr.Choice(expr.Name(a), expr.Name(b)))), generatable); found {
		t.Errorf("(a|b)+ can be satisfied with a")
	}
}
