// Package automaton compiles content expression patterns into finite
// automata.
//
// Compilation runs in two steps. NFA performs a Thompson construction over
// the pattern tree, producing an array of states whose edges are either
// labeled with a type id or are epsilon edges. Determinize then runs the
// subset construction, yielding a DFA whose states are identified by sets of
// NFA states.
//
// Edge order is significant: it follows the order in which alternatives
// appear in the expression, and callers rely on it when they need to pick a
// default type or synthesize filler content.
package automaton
