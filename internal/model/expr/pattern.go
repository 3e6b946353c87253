package expr

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a Pattern.
type Kind uint8

const (
	// KindChoice matches any one of Exprs.
	KindChoice Kind = iota
	// KindSeq matches Exprs in order.
	KindSeq
	// KindPlus matches Expr one or more times.
	KindPlus
	// KindStar matches Expr zero or more times.
	KindStar
	// KindOpt matches Expr zero or one time.
	KindOpt
	// KindRange matches Expr between Min and Max times.
	KindRange
	// KindName matches a single node of type Type.
	KindName
)

// Unbounded is the Max of a range without an upper limit.
const Unbounded = -1

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	case KindSeq:
		return "seq"
	case KindPlus:
		return "plus"
	case KindStar:
		return "star"
	case KindOpt:
		return "opt"
	case KindRange:
		return "range"
	case KindName:
		return "name"
	default:
		return "unknown"
	}
}

// Pattern is a node of the content expression tree. Patterns are never
// modified after parsing.
type Pattern struct {
	Kind  Kind
	Exprs []*Pattern // choice, seq
	Expr  *Pattern   // plus, star, opt, range
	Min   int        // range
	Max   int        // range; Unbounded for no upper limit
	Type  int        // name; id assigned by the Resolver
}

// Name returns a pattern matching a single type.
func Name(id int) *Pattern { return &Pattern{Kind: KindName, Type: id} }

// Choice returns a pattern matching one of the given alternatives.
func Choice(exprs ...*Pattern) *Pattern { return &Pattern{Kind: KindChoice, Exprs: exprs} }

// Seq returns a pattern matching the given patterns in order.
func Seq(exprs ...*Pattern) *Pattern { return &Pattern{Kind: KindSeq, Exprs: exprs} }

// Plus returns a pattern matching p one or more times.
func Plus(p *Pattern) *Pattern { return &Pattern{Kind: KindPlus, Expr: p} }

// Star returns a pattern matching p zero or more times.
func Star(p *Pattern) *Pattern { return &Pattern{Kind: KindStar, Expr: p} }

// Opt returns a pattern matching p zero or one time.
func Opt(p *Pattern) *Pattern { return &Pattern{Kind: KindOpt, Expr: p} }

// Range returns a pattern matching p between min and max times.
func Range(min, max int, p *Pattern) *Pattern {
	return &Pattern{Kind: KindRange, Min: min, Max: max, Expr: p}
}

// String renders the pattern using numeric type ids.
func (p *Pattern) String() string {
	var sb strings.Builder
	p.write(&sb)
	return sb.String()
}

func (p *Pattern) write(sb *strings.Builder) {
	switch p.Kind {
	case KindChoice, KindSeq:
		sep := " "
		if p.Kind == KindChoice {
			sep = " | "
		}
		sb.WriteByte('(')
		for i, e := range p.Exprs {
			if i > 0 {
				sb.WriteString(sep)
			}
			e.write(sb)
		}
		sb.WriteByte(')')
	case KindPlus:
		p.Expr.write(sb)
		sb.WriteByte('+')
	case KindStar:
		p.Expr.write(sb)
		sb.WriteByte('*')
	case KindOpt:
		p.Expr.write(sb)
		sb.WriteByte('?')
	case KindRange:
		p.Expr.write(sb)
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(p.Min))
		if p.Max != p.Min {
			sb.WriteByte(',')
			if p.Max != Unbounded {
				sb.WriteString(strconv.Itoa(p.Max))
			}
		}
		sb.WriteByte('}')
	case KindName:
		sb.WriteByte('#')
		sb.WriteString(strconv.Itoa(p.Type))
	}
}
