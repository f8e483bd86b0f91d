package doctree

import (
	"strings"
	"testing"
)

func TestDecode_SimplifyShape(t *testing.T) {
	input := `{"TYPE":"document","VALUE":[{"TYPE":"body","VALUE":[
		{"TYPE":"paragraph","VALUE":[{"TYPE":"text","VALUE":"Hello"}]},
		{"TYPE":"table","VALUE":[{"TYPE":"table-row","VALUE":[{"TYPE":"table-cell","VALUE":"x"}]}]}
	]}]}`
	n, err := Decode([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	children := BodyChildren(n)
	if len(children) != 2 {
		t.Fatalf("expected 2 body children, got %d", len(children))
	}
	p, ok := children[0].(*Container)
	if !ok || p.Kind != KindParagraph {
		t.Fatalf("expected paragraph container, got %#v", children[0])
	}
	seq, ok := p.Payload.(Seq)
	if !ok || len(seq) != 1 || seq[0] != Text("Hello") {
		t.Errorf("expected paragraph payload [Text(Hello)], got %#v", p.Payload)
	}
}

func TestDecode_LegacySpelling(t *testing.T) {
	n, err := Decode([]byte(`{"type":"paragraph","value":["a",{"type":"text","value":"b"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := n.(*Container)
	if !ok || c.Kind != KindParagraph {
		t.Fatalf("expected paragraph container, got %#v", n)
	}
	if got := PlainText(c); got != "ab" {
		t.Errorf("expected plain text %q, got %q", "ab", got)
	}
}

func TestDecode_MissingFields(t *testing.T) {
	n, err := Decode([]byte(`{"TYPE":"paragraph"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := n.(*Container)
	if c.Payload != nil {
		t.Errorf("expected nil payload, got %#v", c.Payload)
	}

	n, err = Decode([]byte(`{"VALUE":"orphan"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c = n.(*Container)
	if c.Kind.Known() {
		t.Errorf("expected unknown kind, got %q", c.Kind)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"TYPE":`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestEncode_CanonicalShape(t *testing.T) {
	doc := Document(Paragraph("a < b"), New(Kind("sdt"), nil))
	b, err := Encode(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"TYPE":"document","VALUE":[{"TYPE":"body","VALUE":[{"TYPE":"paragraph","VALUE":[{"TYPE":"text","VALUE":"a < b"}]},{"TYPE":"sdt","VALUE":[]}]}]}`
	if string(b) != want {
		t.Errorf("unexpected encoding:\n got %s\nwant %s", b, want)
	}
}

func TestEncodeDecode_PreservesUnknownKind(t *testing.T) {
	doc := Document(New(Kind("custom-box"), Seq{Text("inner")}))
	s, err := EncodeIndent(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(s, "\n  ") {
		t.Errorf("expected indented output, got %s", s)
	}
	back, err := Decode([]byte(s))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	children := BodyChildren(back)
	if len(children) != 1 || children[0].(*Container).Kind != "custom-box" {
		t.Errorf("expected custom-box child, got %#v", children)
	}
}

func TestBodyChildren_Shapes(t *testing.T) {
	tests := []struct {
		name string
		in   Node
		want int
	}{
		{"nil", nil, 0},
		{"bare seq", Seq{Paragraph("a"), Paragraph("b")}, 2},
		{"document without body", New(KindDocument, Seq{Paragraph("a")}), 1},
		{"single paragraph", Paragraph("a"), 1},
		{"empty body", Document(), 0},
	}
	for _, tt := range tests {
		if got := len(BodyChildren(tt.in)); got != tt.want {
			t.Errorf("%s: expected %d children, got %d", tt.name, tt.want, got)
		}
	}
}

func TestPlainText_SeparatesBlocks(t *testing.T) {
	doc := Document(Paragraph("One"), Paragraph("Two  three"))
	if got := PlainText(doc); got != "One Two three" {
		t.Errorf("expected %q, got %q", "One Two three", got)
	}
}
