package model_test

import (
	"testing"

	"github.com/dshills/prosetree/internal/model"
	. "github.com/dshills/prosetree/internal/model/testschema"
)

func sample() *Tagged {
	return Doc(P("a", Em("b")), P("hello"), Blockquote(H1("bye")))
}

func TestFindDiffStart(t *testing.T) {
	tests := []struct {
		name string
		a, b *Tagged
	}{
		{"one node is longer", Doc(P("a", Em("b")), P("hello"), Blockquote(H1("bye")), "<a>"), Doc(P("a", Em("b")), P("hello"), Blockquote(H1("bye")), P("oops"))},
		{"one node is shorter", Doc(P("a", Em("b")), P("hello"), Blockquote(H1("bye")), "<a>", P("oops")), sample()},
		{"differing marks", Doc(P("a<a>", Em("b"))), Doc(P("a", Strong("b")))},
		{"longer text", Doc(P("foo<a>bar", Em("b"))), Doc(P("foo", Em("b")))},
		{"different character", Doc(P("foo<a>bar")), Doc(P("foocar"))},
		{"different node type", Doc(P("a"), "<a>", P("b")), Doc(P("a"), H1("b"))},
		{"difference at the start", Doc("<a>", P("b")), Doc(H1("b"))},
		{"different attribute", Doc(P("a"), "<a>", H1("foo")), Doc(P("a"), H2("foo"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Content().FindDiffStart(tt.b.Content(), 0)
			if !ok || got != tt.a.Tag["a"] {
				t.Errorf("FindDiffStart() = %d, %v, want %d", got, ok, tt.a.Tag["a"])
			}
		})
	}
}

func TestFindDiffEnd(t *testing.T) {
	tests := []struct {
		name string
		a, b *Tagged
	}{
		{"second doc is longer", Doc("<a>", P("a", Em("b")), P("hello"), Blockquote(H1("bye"))), Doc(P("oops"), P("a", Em("b")), P("hello"), Blockquote(H1("bye")))},
		{"second doc is shorter", Doc(P("oops"), "<a>", P("a", Em("b")), P("hello"), Blockquote(H1("bye"))), sample()},
		{"differing marks", Doc(P("a", Em("b"), "<a>c")), Doc(P("a", Strong("b"), "c"))},
		{"longer text", Doc(P("bar<a>foo", Em("b"))), Doc(P("foo", Em("b")))},
		{"different character", Doc(P("foob<a>ar")), Doc(P("foocar"))},
		{"different node type", Doc(P("a"), "<a>", P("b")), Doc(H1("a"), P("b"))},
		{"difference at the end", Doc(P("b"), "<a>"), Doc(H1("b"))},
		{"similar start", Doc("<a>", P("hello")), Doc(P("hey"), P("hello"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.a.Content(), tt.b.Content()
			got, _, ok := a.FindDiffEnd(b, a.Size(), b.Size())
			if !ok || got != tt.a.Tag["a"] {
				t.Errorf("FindDiffEnd() = %d, %v, want %d", got, ok, tt.a.Tag["a"])
			}
		})
	}
}

func TestFindDiffIdentical(t *testing.T) {
	a, b := sample().Content(), sample().Content()
	if pos, ok := a.FindDiffStart(b, 0); ok {
		t.Errorf("FindDiffStart() = %d, want no difference", pos)
	}
	if _, _, ok := a.FindDiffEnd(b, a.Size(), b.Size()); ok {
		t.Error("FindDiffEnd() found a difference in identical fragments")
	}
}

func TestFindDiffText(t *testing.T) {
	a := model.FragmentFrom(mustText(t, "abcdef"))
	b := model.FragmentFrom(mustText(t, "abcdxf"))
	if pos, ok := a.FindDiffStart(b, 0); !ok || pos != 4 {
		t.Errorf("FindDiffStart() = %d, %v, want 4", pos, ok)
	}
	endA, endB, ok := a.FindDiffEnd(b, a.Size(), b.Size())
	if !ok || endA != 5 || endB != 5 {
		t.Errorf("FindDiffEnd() = %d, %d, %v, want 5, 5", endA, endB, ok)
	}

	// Offsets count characters, not bytes.
	c := model.FragmentFrom(mustText(t, "héllo"))
	d := model.FragmentFrom(mustText(t, "héllø"))
	if pos, ok := c.FindDiffStart(d, 0); !ok || pos != 4 {
		t.Errorf("FindDiffStart() with multi-byte text = %d, %v, want 4", pos, ok)
	}
}

func TestFindDiffEndOffsets(t *testing.T) {
	a := Doc(P("a"), P("b")).Content()
	b := Doc(P("xyz"), P("a"), P("b")).Content()
	endA, endB, ok := a.FindDiffEnd(b, a.Size(), b.Size())
	if !ok || endA != 0 || endB != 5 {
		t.Errorf("FindDiffEnd() = %d, %d, %v, want 0, 5", endA, endB, ok)
	}
}
