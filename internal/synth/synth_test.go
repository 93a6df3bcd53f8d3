package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mimiwrp/crispnews/internal/budget"
	"github.com/mimiwrp/crispnews/internal/config"
	"github.com/mimiwrp/crispnews/internal/news"
)

func sampleArticles(n int) []news.Article {
	articles := make([]news.Article, n)
	for i := range articles {
		articles[i] = news.Article{
			Title:       fmt.Sprintf("Story %d headline", i+1),
			Description: fmt.Sprintf("Details for story %d.", i+1),
			URL:         fmt.Sprintf("https://example.com/%d", i+1),
		}
	}
	return articles
}

func TestBuildPromptEmbedsFramingAndDigests(t *testing.T) {
	articles := sampleArticles(8)
	b := budget.Resolve(3)

	prompt := BuildPrompt(articles, news.CategoryTechnology, b)

	if !strings.Contains(prompt, "technology innovations and industry updates") {
		t.Error("expected technology framing phrase in prompt")
	}
	if !strings.Contains(prompt, b.Structure) {
		t.Error("expected structure directive embedded verbatim")
	}
	if !strings.Contains(prompt, "approximately 540 words") {
		t.Error("expected total word budget in prompt")
	}
	for i, a := range articles {
		if !strings.Contains(prompt, fmt.Sprintf("%d. %s", i+1, a.Title)) {
			t.Errorf("expected digest for article %d", i+1)
		}
	}
}

func TestBuildPromptUnknownCategoryUsesGenericFraming(t *testing.T) {
	prompt := BuildPrompt(sampleArticles(3), news.Category("weather"), budget.Resolve(1))
	if !strings.Contains(prompt, "current news") {
		t.Error("expected generic framing for unknown category")
	}
}

func TestBuildPromptSingleParagraphNotPluralized(t *testing.T) {
	prompt := BuildPrompt(sampleArticles(3), news.CategoryHighlights, budget.Resolve(1))
	if !strings.Contains(prompt, "Write exactly 1 paragraph\n") {
		t.Error("expected singular paragraph wording for the 1-minute tier")
	}
}

func geminiSynthesizer(t *testing.T, handler http.HandlerFunc) *Synthesizer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := &Synthesizer{
		gen: &geminiProvider{
			apiKey:  "k",
			model:   "gemini-1.5-flash-latest",
			baseURL: srv.URL,
			client:  &http.Client{Timeout: 5 * time.Second},
		},
		log: zerolog.Nop(),
	}
	return s
}

func TestSynthesizeSuccessTrims(t *testing.T) {
	s := geminiSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  A clean briefing.\n"}]}}]}`))
	})

	got := s.Synthesize(context.Background(), sampleArticles(3), news.CategoryHighlights, 1)
	if got != "A clean briefing." {
		t.Errorf("expected trimmed text, got %q", got)
	}
}

func TestSynthesizeSendsBufferedTokenBudget(t *testing.T) {
	var gotMax int
	s := geminiSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotMax = req.GenerationConfig.MaxOutputTokens
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	s.Synthesize(context.Background(), sampleArticles(8), news.CategoryTechnology, 3)

	// ceil(540 * 1.4)
	if gotMax != 756 {
		t.Errorf("expected 756 max output tokens for the 3-minute tier, got %d", gotMax)
	}
}

func TestSynthesizeFallbackOnServerError(t *testing.T) {
	s := geminiSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	articles := sampleArticles(4)
	got := s.Synthesize(context.Background(), articles, news.CategoryScience, 3)

	if got == "" {
		t.Fatal("fallback must be non-empty")
	}
	for _, a := range articles {
		if !strings.Contains(got, a.Title) {
			t.Errorf("fallback should contain title %q", a.Title)
		}
	}
}

func TestSynthesizeFallbackOnMalformedBody(t *testing.T) {
	s := geminiSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	articles := sampleArticles(2)
	got := s.Synthesize(context.Background(), articles, news.CategorySports, 1)
	if !strings.Contains(got, articles[0].Title) || !strings.Contains(got, articles[1].Title) {
		t.Errorf("expected fallback with all titles, got %q", got)
	}
}

func TestSynthesizeFallbackOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	s := &Synthesizer{
		gen: &geminiProvider{apiKey: "k", model: "m", baseURL: url, client: &http.Client{Timeout: time.Second}},
		log: zerolog.Nop(),
	}

	got := s.Synthesize(context.Background(), sampleArticles(1), news.CategoryHighlights, 1)
	if !strings.Contains(got, "Story 1 headline") {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestFallbackOnlySynthesizer(t *testing.T) {
	s := NewFallbackOnly(zerolog.Nop())
	got := s.Synthesize(context.Background(), sampleArticles(2), news.CategoryBusiness, 3)
	if !strings.HasPrefix(got, "Unable to generate briefing.") {
		t.Errorf("expected headline fallback, got %q", got)
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(&config.AIConfig{Provider: "claude"}, "key", zerolog.Nop())
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(&config.AIConfig{Provider: "gemini"}, "", zerolog.Nop())
	if err == nil {
		t.Error("expected error for missing key")
	}
}

func TestOpenAIProviderParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"openai briefing"}}]}`))
	}))
	defer srv.Close()

	p := &openaiProvider{apiKey: "k", model: "gpt-4o-mini", baseURL: srv.URL, client: srv.Client()}
	got, err := p.Generate(context.Background(), "prompt", 100)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "openai briefing" {
		t.Errorf("unexpected text: %q", got)
	}
}
