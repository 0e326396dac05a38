package preview

import (
	"strings"
	"testing"
)

func TestTableFragmentEscapesCells(t *testing.T) {
	frag := TableFragment([][]string{
		{"scene", "<script>"},
		{"a&b", "<img>"},
	})
	if strings.Contains(frag, "<script>") || strings.Contains(frag, "<img>") {
		t.Fatalf("fragment leaked unescaped markup: %s", frag)
	}
	if !strings.Contains(frag, "&lt;script&gt;") {
		t.Fatalf("expected escaped header, got: %s", frag)
	}
	if !strings.Contains(frag, "a&amp;b") {
		t.Fatalf("expected escaped cell, got: %s", frag)
	}
}

func TestTableFragmentLimitsRows(t *testing.T) {
	rows := [][]string{{"scene"}}
	for i := 0; i < 50; i++ {
		rows = append(rows, []string{"r"})
	}
	frag := TableFragment(rows)
	if got := strings.Count(frag, "<td>"); got != maxRows {
		t.Fatalf("fragment has %d cells, want %d", got, maxRows)
	}
}

func TestTableFragmentEmpty(t *testing.T) {
	if frag := TableFragment(nil); frag != "" {
		t.Fatalf("empty input must produce empty fragment, got %q", frag)
	}
}
