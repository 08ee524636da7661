package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{"no cr", "a\nb\n", "a\nb\n", false},
		{"crlf pairs", "a\r\nb\r\n", "a\nb\n", true},
		{"lone cr kept", "a\rb", "a\rb", false},
		{"mixed", "a\r\nb\rc\n", "a\nb\rc\n", true},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		got, changed := normalizeCRLF([]byte(tt.in))
		if string(got) != tt.want || changed != tt.changed {
			t.Errorf("%s: normalizeCRLF(%q) = %q, %v; want %q, %v",
				tt.name, tt.in, got, changed, tt.want, tt.changed)
		}
	}
}

func TestRemoveBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("text")...)
	got, had := removeBOM(withBOM)
	if !had || !bytes.Equal(got, []byte("text")) {
		t.Fatalf("removeBOM = %q, %v", got, had)
	}

	plain := []byte("text")
	got, had = removeBOM(plain)
	if had || !bytes.Equal(got, plain) {
		t.Fatalf("removeBOM on plain content = %q, %v", got, had)
	}

	short := []byte{0xEF, 0xBB}
	if _, had := removeBOM(short); had {
		t.Fatalf("truncated BOM must not be stripped")
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("one\ntwo\nthree")
	idx := buildLineIndex(content)

	tests := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 1, 4}, // the newline itself
		{4, 2, 1},
		{6, 2, 3},
		{8, 3, 1},
		{12, 3, 5},
	}
	for _, tt := range tests {
		got := toLineCol(idx, tt.off)
		if got.Line != tt.line || got.Col != tt.col {
			t.Errorf("toLineCol(%d) = %d:%d, want %d:%d", tt.off, got.Line, got.Col, tt.line, tt.col)
		}
	}

	if got := toLineCol(nil, 7); got.Line != 1 || got.Col != 8 {
		t.Errorf("single-line document: got %d:%d", got.Line, got.Col)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath("a//b/../c.src"); got != "a/c.src" {
		t.Fatalf("normalizePath = %q", got)
	}
	if got := normalizePath(""); got != "" {
		t.Fatalf("empty path must stay empty, got %q", got)
	}
}
