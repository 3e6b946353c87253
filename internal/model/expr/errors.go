package expr

import "fmt"

// SyntaxError describes a malformed content expression.
type SyntaxError struct {
	// Msg describes what went wrong.
	Msg string

	// Token is the offending token. Empty at the end of the input.
	Token string

	// Expr is the full expression being parsed.
	Expr string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s (in content expression %q)", e.Msg, e.Expr)
	}
	return fmt.Sprintf("%s %q (in content expression %q)", e.Msg, e.Token, e.Expr)
}
