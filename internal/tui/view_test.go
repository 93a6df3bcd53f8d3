package tui

import (
	"strings"
	"testing"

	"github.com/mimiwrp/crispnews/internal/news"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello world", 20, "hello world"},
		{"breaks on words", "one two three four", 9, "one two\nthree\nfour"},
		{"zero width passthrough", "hello", 0, "hello"},
		{"collapses whitespace", "a  b\n c", 10, "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrap(tt.in, tt.width); got != tt.want {
				t.Errorf("wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestRenderArticleLineTruncates(t *testing.T) {
	art := news.Article{Title: strings.Repeat("x", 100), Source: "Reuters"}
	line := renderArticleLine(art, 40, false)
	if !strings.Contains(line, "…") {
		t.Errorf("expected truncation ellipsis in %q", line)
	}
	if !strings.Contains(line, "Reuters") {
		t.Errorf("expected source name in %q", line)
	}
}

func TestRenderArticleLineSelectionMarker(t *testing.T) {
	art := news.Article{Title: "short"}
	if line := renderArticleLine(art, 40, true); !strings.Contains(line, ">") {
		t.Errorf("selected line missing marker: %q", line)
	}
	if line := renderArticleLine(art, 40, false); strings.Contains(line, ">") {
		t.Errorf("unselected line has marker: %q", line)
	}
}
