package budget

import (
	"strings"
	"testing"
)

func TestResolveKnownTiers(t *testing.T) {
	tests := []struct {
		minutes      int
		articleCount int
		paragraphs   int
		totalWords   int
	}{
		{1, 3, 1, 180},
		{3, 8, 3, 540},
		{5, 12, 5, 800},
	}

	for _, tt := range tests {
		b := Resolve(tt.minutes)
		if b.Minutes != tt.minutes {
			t.Errorf("Resolve(%d).Minutes = %d", tt.minutes, b.Minutes)
		}
		if b.ArticleCount != tt.articleCount {
			t.Errorf("Resolve(%d).ArticleCount = %d, want %d", tt.minutes, b.ArticleCount, tt.articleCount)
		}
		if b.Paragraphs != tt.paragraphs {
			t.Errorf("Resolve(%d).Paragraphs = %d, want %d", tt.minutes, b.Paragraphs, tt.paragraphs)
		}
		if b.TotalWords != tt.totalWords {
			t.Errorf("Resolve(%d).TotalWords = %d, want %d", tt.minutes, b.TotalWords, tt.totalWords)
		}
		if b.Structure == "" {
			t.Errorf("Resolve(%d) has empty structure directive", tt.minutes)
		}
	}
}

func TestResolveUnknownFallsBackToOneMinute(t *testing.T) {
	for _, minutes := range []int{0, 2, 4, 10, -1} {
		b := Resolve(minutes)
		if b.Minutes != 1 {
			t.Errorf("Resolve(%d) should fall back to the 1-minute tier, got %d", minutes, b.Minutes)
		}
	}
}

func TestWordsConsistent(t *testing.T) {
	for _, minutes := range Durations() {
		b := Resolve(minutes)
		if b.Paragraphs*b.WordsPerParagraph != b.TotalWords {
			t.Errorf("tier %d: %d paragraphs x %d words != %d total",
				minutes, b.Paragraphs, b.WordsPerParagraph, b.TotalWords)
		}
	}
}

func TestStructureMentionsParagraphCount(t *testing.T) {
	b := Resolve(3)
	if !strings.Contains(b.Structure, "3 paragraphs") {
		t.Errorf("structure directive should name the paragraph count: %q", b.Structure)
	}
}
