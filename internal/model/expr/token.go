package expr

import "unicode"

// Tokenize splits a content expression into tokens. Runs of word characters
// form a single token; any other non-space character stands on its own.
func Tokenize(s string) []string {
	var tokens []string
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isWordRune(r):
			start := i
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			tokens = append(tokens, string(runes[start:i]))
		default:
			tokens = append(tokens, string(r))
			i++
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isWord(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

func isNumber(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stream is a cursor over the tokens of one expression.
type stream struct {
	expr   string
	tokens []string
	pos    int

	resolver Resolver
	inline   int // 0 unknown, 1 inline, 2 block
}

func (s *stream) next() (string, bool) {
	if s.pos >= len(s.tokens) {
		return "", false
	}
	return s.tokens[s.pos], true
}

func (s *stream) eat(tok string) bool {
	if next, ok := s.next(); ok && next == tok {
		s.pos++
		return true
	}
	return false
}

func (s *stream) err(msg string) error {
	tok, _ := s.next()
	return &SyntaxError{Msg: msg, Token: tok, Expr: s.expr}
}
