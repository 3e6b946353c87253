// Package expr parses content expressions into a pattern tree.
//
// A content expression is a small regular language over node type names that
// describes which children a node may hold:
//
//	paragraph+
//	heading paragraph*
//	(paragraph | blockquote){1,3}
//	inline*
//
// Names resolve against a Resolver, either to a single node type or, when no
// type carries that name, to every type in the group of that name. The
// resulting Pattern is handed to the automaton package for compilation.
//
// Grammar:
//
//	expr      := seq ('|' seq)*
//	seq       := subscript*
//	subscript := atom ('+' | '*' | '?' | '{' range '}')*
//	range     := NUM | NUM ',' | NUM ',' NUM
//	atom      := NAME | '(' expr ')'
package expr
