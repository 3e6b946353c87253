package automaton

import "github.com/dshills/prosetree/internal/model/expr"

// Epsilon labels an edge that consumes no input.
const Epsilon = -1

// unset marks an edge whose target has not been connected yet.
const unset = -1

// Edge is a transition of the NFA.
type Edge struct {
	Label int // type id, or Epsilon
	To    int
}

// NFAGraph is a nondeterministic automaton. State 0 is the entry state and
// the last state is the single accepting state.
type NFAGraph struct {
	States [][]Edge
}

// Accept returns the index of the accepting state.
func (n *NFAGraph) Accept() int {
	return len(n.States) - 1
}

// edgeRef points at an edge whose target is still to be connected.
type edgeRef struct {
	from, index int
}

type nfaBuilder struct {
	states [][]Edge
}

func (b *nfaBuilder) node() int {
	b.states = append(b.states, nil)
	return len(b.states) - 1
}

func (b *nfaBuilder) edge(from, to, label int) edgeRef {
	b.states[from] = append(b.states[from], Edge{Label: label, To: to})
	return edgeRef{from: from, index: len(b.states[from]) - 1}
}

func (b *nfaBuilder) connect(edges []edgeRef, to int) {
	for _, e := range edges {
		b.states[e.from][e.index].To = to
	}
}

// NFA builds a nondeterministic automaton for p using Thompson's
// construction. A nil pattern accepts only the empty sequence.
func NFA(p *expr.Pattern) *NFAGraph {
	b := &nfaBuilder{}
	b.node()
	if p == nil {
		b.edge(0, b.node(), Epsilon)
		return &NFAGraph{States: b.states}
	}
	exits := b.compile(p, 0)
	b.connect(exits, b.node())
	return &NFAGraph{States: b.states}
}

// compile adds the states for p starting at from and returns the dangling
// exit edges.
func (b *nfaBuilder) compile(p *expr.Pattern, from int) []edgeRef {
	switch p.Kind {
	case expr.KindChoice:
		var out []edgeRef
		for _, e := range p.Exprs {
			out = append(out, b.compile(e, from)...)
		}
		return out

	case expr.KindSeq:
		for i := 0; ; i++ {
			next := b.compile(p.Exprs[i], from)
			if i == len(p.Exprs)-1 {
				return next
			}
			from = b.node()
			b.connect(next, from)
		}

	case expr.KindStar:
		loop := b.node()
		b.edge(from, loop, Epsilon)
		b.connect(b.compile(p.Expr, loop), loop)
		return []edgeRef{b.edge(loop, unset, Epsilon)}

	case expr.KindPlus:
		loop := b.node()
		b.connect(b.compile(p.Expr, from), loop)
		b.connect(b.compile(p.Expr, loop), loop)
		return []edgeRef{b.edge(loop, unset, Epsilon)}

	case expr.KindOpt:
		return append([]edgeRef{b.edge(from, unset, Epsilon)}, b.compile(p.Expr, from)...)

	case expr.KindRange:
		cur := from
		for i := 0; i < p.Min; i++ {
			next := b.node()
			b.connect(b.compile(p.Expr, cur), next)
			cur = next
		}
		if p.Max == expr.Unbounded {
			b.connect(b.compile(p.Expr, cur), cur)
		} else {
			for i := p.Min; i < p.Max; i++ {
				next := b.node()
				b.edge(cur, next, Epsilon)
				b.connect(b.compile(p.Expr, cur), next)
				cur = next
			}
		}
		return []edgeRef{b.edge(cur, unset, Epsilon)}

	case expr.KindName:
		return []edgeRef{b.edge(from, unset, p.Type)}
	}
	panic("automaton: unknown pattern kind " + p.Kind.String())
}
