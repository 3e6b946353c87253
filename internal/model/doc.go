// Package model provides an immutable, schema-constrained document tree.
//
// A Schema declares node and mark types. Every node type carries a content
// expression that is compiled into a ContentMatch automaton, which decides
// which sequences of children the type accepts. Documents are trees of Node
// values whose children are held in Fragment values. Both are immutable and
// share structure between versions.
//
// Positions in a document are integers. Entering or leaving an element node
// counts as one position, each rune of text counts as one, and leaf nodes
// other than text count as one:
//
//	doc(paragraph("ab"), horizontal_rule)
//	0   1            3 4               5
//
// Key features:
//   - Content expressions compiled through an NFA into a DFA per type
//   - Automatic content completion and wrapper search on the automaton
//   - Positions resolved into ancestor paths with a per-document cache
//   - Structural diffing of fragments
//   - Replacing ranges with slices while keeping every node valid
//   - A JSON wire format that round trips
//
// Basic usage:
//
//	s, err := model.NewSchema(spec)
//	doc, err := s.NodeFromJSON(data)
//	slice, err := doc.Slice(3, 7, false)
//	doc2, err := doc.Replace(1, 2, slice)
//
// Values are safe for concurrent reads. The only mutable state, the
// position cache and the wrapping memo, is guarded internally.
package model
