package expr

import "strconv"

// Resolver maps names in an expression to type ids.
type Resolver interface {
	// Resolve returns the id of the type with the given name or, if there is
	// none, the ids of every type in the group with that name. An empty
	// result means the name is unknown.
	Resolve(name string) []int

	// IsInline reports whether the type with the given id is inline.
	IsInline(id int) bool
}

// Parse parses a content expression. An expression without tokens yields a
// nil pattern, which matches only empty content.
func Parse(s string, r Resolver) (*Pattern, error) {
	st := &stream{expr: s, tokens: Tokenize(s), resolver: r}
	if _, ok := st.next(); !ok {
		return nil, nil
	}
	p, err := parseExpr(st)
	if err != nil {
		return nil, err
	}
	if _, ok := st.next(); ok {
		return nil, st.err("Unexpected trailing text")
	}
	return p, nil
}

func parseExpr(st *stream) (*Pattern, error) {
	var exprs []*Pattern
	for {
		seq, err := parseSeq(st)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, seq)
		if !st.eat("|") {
			break
		}
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return Choice(exprs...), nil
}

func parseSeq(st *stream) (*Pattern, error) {
	var exprs []*Pattern
	for {
		sub, err := parseSubscript(st)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, sub)
		next, ok := st.next()
		if !ok || next == ")" || next == "|" {
			break
		}
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return Seq(exprs...), nil
}

func parseSubscript(st *stream) (*Pattern, error) {
	p, err := parseAtom(st)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case st.eat("+"):
			p = Plus(p)
		case st.eat("*"):
			p = Star(p)
		case st.eat("?"):
			p = Opt(p)
		case st.eat("{"):
			p, err = parseRange(st, p)
			if err != nil {
				return nil, err
			}
		default:
			return p, nil
		}
	}
}

func parseNum(st *stream) (int, error) {
	next, ok := st.next()
	if !ok {
		return 0, st.err("Expected number, got end of expression")
	}
	if !isNumber(next) {
		return 0, st.err("Expected number, got")
	}
	n, err := strconv.Atoi(next)
	if err != nil {
		return 0, st.err("Expected number, got")
	}
	st.pos++
	return n, nil
}

func parseRange(st *stream, p *Pattern) (*Pattern, error) {
	min, err := parseNum(st)
	if err != nil {
		return nil, err
	}
	max := min
	if st.eat(",") {
		if next, ok := st.next(); ok && next != "}" {
			max, err = parseNum(st)
			if err != nil {
				return nil, err
			}
			if max < min {
				st.pos--
				return nil, st.err("Invalid range, maximum is below minimum")
			}
		} else {
			max = Unbounded
		}
	}
	if !st.eat("}") {
		return nil, st.err("Unclosed braced range")
	}
	return Range(min, max, p), nil
}

func parseAtom(st *stream) (*Pattern, error) {
	if st.eat("(") {
		p, err := parseExpr(st)
		if err != nil {
			return nil, err
		}
		if !st.eat(")") {
			return nil, st.err("Missing closing paren")
		}
		return p, nil
	}
	next, ok := st.next()
	if !ok {
		return nil, st.err("Unexpected end of expression")
	}
	if !isWord(next) {
		return nil, st.err("Unexpected token")
	}
	ids := st.resolver.Resolve(next)
	if len(ids) == 0 {
		return nil, st.err("No node type or group")
	}
	exprs := make([]*Pattern, 0, len(ids))
	for _, id := range ids {
		mode := 2
		if st.resolver.IsInline(id) {
			mode = 1
		}
		if st.inline == 0 {
			st.inline = mode
		} else if st.inline != mode {
			return nil, st.err("Mixing inline and block content")
		}
		exprs = append(exprs, Name(id))
	}
	st.pos++
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return Choice(exprs...), nil
}
