package magicstring

import (
	"strings"
	"testing"
)

func TestBufferReplacePreservesSurroundingText(t *testing.T) {
	src := "import foo from 'bar';\nconsole.log(foo);\n"
	b := New(src)
	b.Replace(0, 22, "const foo = require('bar');")
	got := b.String()
	want := "const foo = require('bar');\nconsole.log(foo);\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBufferRemove(t *testing.T) {
	b := New("export default 42;")
	b.Remove(0, 15)
	if got := b.String(); got != "42;" {
		t.Errorf("got %q, want %q", got, "42;")
	}
}

func TestBufferInsertAtSamePositionAsRemoveRendersFirst(t *testing.T) {
	src := "let x = 1;"
	b := New(src)
	b.Remove(0, 10)
	b.Insert(0, "var x = 1;")
	if got := b.String(); got != "var x = 1;" {
		t.Errorf("got %q, want %q", got, "var x = 1;")
	}
}

func TestBufferEditsComposeRegardlessOfCallOrder(t *testing.T) {
	src := "aaaa bbbb cccc"
	b1 := New(src)
	b1.Replace(0, 4, "AAAA")
	b1.Replace(10, 14, "CCCC")

	b2 := New(src)
	b2.Replace(10, 14, "CCCC")
	b2.Replace(0, 4, "AAAA")

	if b1.String() != b2.String() {
		t.Errorf("edit order changed the result: %q vs %q", b1.String(), b2.String())
	}
	want := "AAAA bbbb CCCC"
	if got := b1.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBufferPrependAppend(t *testing.T) {
	b := New("body")
	b.Prepend("define(function () {\n")
	b.Append("\n});")
	want := "define(function () {\nbody\n});"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBufferTrim(t *testing.T) {
	b := New("  \n  export const x = 1;\n\n  ")
	b.Trim()
	want := "export const x = 1;"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBufferIndentWithoutExclusions(t *testing.T) {
	b := New("line one\nline two\n")
	b.Indent("  ", nil)
	want := "  line one\n  line two\n"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBundleConcatenatesChunksInOrder(t *testing.T) {
	bd := NewBundle("\n")
	bd.AddChunk("a.js", New("var a = 1;"))
	bd.AddChunk("b.js", New("var b = 2;"))
	want := "var a = 1;\nvar b = 2;"
	if got := bd.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateMapProducesOneSourceAndVersion3(t *testing.T) {
	b := New("const x = 1;\nconst y = 2;\n")
	m := b.GenerateMap("input.js", "output.js", true)
	if m.Version != 3 {
		t.Errorf("expected version 3, got %d", m.Version)
	}
	if len(m.Sources) != 1 || m.Sources[0] != "input.js" {
		t.Errorf("unexpected sources: %v", m.Sources)
	}
	if m.Mappings == "" {
		t.Error("expected non-empty mappings for untouched multi-line source")
	}
	if len(m.SourcesContent) != 1 || m.SourcesContent[0] != b.Original() {
		t.Error("expected sourcesContent to carry the original text")
	}
}

func TestEncodeVLQRoundTripsKnownValues(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{16, "gB"},
	}
	for _, c := range cases {
		var sb strings.Builder
		encodeVLQ(&sb, c.n)
		if sb.String() != c.want {
			t.Errorf("encodeVLQ(%d) = %q, want %q", c.n, sb.String(), c.want)
		}
	}
}
