package pmd

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadDocumentUnwrapsEnvelope(t *testing.T) {
	doc := `[{"IPTC:ObjectName": "The Title", "IPTC:Urgency": 5}]`

	obj, err := LoadDocument(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := obj.Len(); got != 2 {
		t.Fatalf("Expected 2 fields, got %d", got)
	}
	n, ok := obj.Get("IPTC:ObjectName")
	if !ok {
		t.Fatal("Expected IPTC:ObjectName to be present")
	}
	s, ok := n.(Scalar)
	if !ok {
		t.Fatalf("Expected a scalar, got %T", n)
	}
	if s.Value != "The Title" {
		t.Errorf("Expected 'The Title', got %v", s.Value)
	}
}

func TestLoadDocumentKeepsKeyOrder(t *testing.T) {
	doc := `[{"b": 1, "a": 2, "c": 3, "a2": 4}]`

	obj, err := LoadDocument(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"b", "a", "c", "a2"}
	got := obj.Keys()
	if len(got) != len(want) {
		t.Fatalf("Expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Key %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestLoadDocumentShapes(t *testing.T) {
	doc := `[{
		"title": "x",
		"location": {"city": "Paris", "country": "France"},
		"creators": [{"name": "A"}, {"name": "B"}],
		"keywords": ["k1", "k2"]
	}]`

	obj, err := LoadDocument(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if n, _ := obj.Get("location"); n != nil {
		if _, ok := n.(*Object); !ok {
			t.Errorf("Expected location to be an Object, got %T", n)
		}
	}
	n, _ := obj.Get("creators")
	list, ok := n.(List)
	if !ok {
		t.Fatalf("Expected creators to be a List, got %T", n)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 creators, got %d", len(list))
	}
	if _, ok := list[0].(*Object); !ok {
		t.Errorf("Expected creator element to be an Object, got %T", list[0])
	}
	n, _ = obj.Get("keywords")
	if kw, ok := n.(List); !ok || len(kw) != 2 {
		t.Errorf("Expected keywords to be a 2-element List, got %v", n)
	}
}

func TestLoadDocumentMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "object root", doc: `{"a": 1}`},
		{name: "empty envelope", doc: `[]`},
		{name: "scalar first element", doc: `["nope"]`},
		{name: "invalid JSON", doc: `[{"a": }]`},
		{name: "empty input", doc: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDocument(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("Expected ErrMalformedDocument, got %v", err)
			}
		})
	}
}

func TestScalarEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Scalar
		want bool
	}{
		{name: "equal strings", a: Scalar{Value: "x"}, b: Scalar{Value: "x"}, want: true},
		{name: "different strings", a: Scalar{Value: "x"}, b: Scalar{Value: "y"}, want: false},
		{name: "equal numbers", a: Scalar{Value: 5.0}, b: Scalar{Value: 5.0}, want: true},
		{name: "number vs string", a: Scalar{Value: 5.0}, b: Scalar{Value: "5"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScalarString(t *testing.T) {
	tests := []struct {
		name string
		in   Scalar
		want string
	}{
		{name: "string", in: Scalar{Value: "abc"}, want: "abc"},
		{name: "integer number", in: Scalar{Value: 5.0}, want: "5"},
		{name: "fractional number", in: Scalar{Value: 2.5}, want: "2.5"},
		{name: "bool", in: Scalar{Value: true}, want: "true"},
		{name: "null", in: Scalar{Value: nil}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
