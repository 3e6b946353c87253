package expr

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeResolver resolves names against a fixed table.
type fakeResolver struct {
	types  map[string]int
	groups map[string][]int
	inline map[int]bool
}

func (r fakeResolver) Resolve(name string) []int {
	if id, ok := r.types[name]; ok {
		return []int{id}
	}
	return r.groups[name]
}

func (r fakeResolver) IsInline(id int) bool { return r.inline[id] }

var testResolver = fakeResolver{
	types: map[string]int{
		"paragraph": 0,
		"heading":   1,
		"quote":     2,
		"text":      3,
		"image":     4,
	},
	groups: map[string][]int{
		"block":  {0, 1, 2},
		"inline": {3, 4},
	},
	inline: map[int]bool{3: true, 4: true},
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"paragraph+", []string{"paragraph", "+"}},
		{"heading{1,3}", []string{"heading", "{", "1", ",", "3", "}"}},
		{"(a | b)*", []string{"(", "a", "|", "b", ")", "*"}},
		{"  a   b_c  ", []string{"a", "b_c"}},
		{"a-b", []string{"a", "-", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"paragraph", "#0"},
		{"paragraph+", "#0+"},
		{"paragraph*", "#0*"},
		{"paragraph?", "#0?"},
		{"heading paragraph", "(#1 #0)"},
		{"heading | paragraph", "(#1 | #0)"},
		{"heading{2}", "#1{2}"},
		{"heading{1,3}", "#1{1,3}"},
		{"heading{1,}", "#1{1,}"},
		{"block+", "(#0 | #1 | #2)+"},
		{"(heading paragraph)+ quote?", "((#1 #0)+ #2?)"},
		{"paragraph+*", "#0+*"},
		{"inline*", "(#3 | #4)*"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Parse(tt.input, testResolver)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "  "} {
		p, err := Parse(input, testResolver)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if p != nil {
			t.Errorf("Parse(%q) = %v, want nil", input, p)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
		token string
	}{
		{"paragraph)", "Unexpected trailing text", ")"},
		{"(paragraph", "Missing closing paren", ""},
		{"foo", "No node type or group", "foo"},
		{"paragraph text", "Mixing inline and block content", "text"},
		{"heading{x}", "Expected number, got", "x"},
		{"heading{3,1}", "Invalid range, maximum is below minimum", "1"},
		{"heading{1", "Unclosed braced range", ""},
		{"heading{-1}", "Expected number, got", "-"},
		{"+", "Unexpected token", "+"},
		{"paragraph |", "Unexpected end of expression", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input, testResolver)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error %v is not a *SyntaxError", err)
			}
			if se.Msg != tt.msg {
				t.Errorf("Msg = %q, want %q", se.Msg, tt.msg)
			}
			if se.Token != tt.token {
				t.Errorf("Token = %q, want %q", se.Token, tt.token)
			}
			if !strings.Contains(err.Error(), tt.input) {
				t.Errorf("error %q does not mention the expression", err)
			}
		})
	}
}
