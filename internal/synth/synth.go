// Package synth turns a set of articles and a duration budget into one
// narrated briefing text via a generative-text provider. Synthesis never
// fails upward: any provider problem resolves to a deterministic fallback
// built from the article titles.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mimiwrp/crispnews/internal/budget"
	"github.com/mimiwrp/crispnews/internal/config"
	"github.com/mimiwrp/crispnews/internal/news"
)

// tokenBuffer pads the output-token ceiling above the word budget. The
// ratio controls truncation risk, so it is fixed.
const tokenBuffer = 1.4

const (
	temperature = 0.7
	topP        = 0.8
	topK        = 10
)

// Generator is one generative-text backend.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type Synthesizer struct {
	gen Generator
	log zerolog.Logger
}

// New creates a Synthesizer from the given AI config.
func New(cfg *config.AIConfig, apiKey string, logger zerolog.Logger) (*Synthesizer, error) {
	if cfg == nil || apiKey == "" {
		return nil, fmt.Errorf("AI not configured")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch cfg.Provider {
	case "gemini":
		model := cfg.Model
		if model == "" {
			model = "gemini-1.5-flash-latest"
		}
		return &Synthesizer{gen: &geminiProvider{apiKey: apiKey, model: model, client: client}, log: logger}, nil
	case "openai":
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &Synthesizer{gen: &openaiProvider{apiKey: apiKey, model: model, client: client}, log: logger}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (valid: gemini, openai)", cfg.Provider)
	}
}

// NewFallbackOnly creates a Synthesizer with no generative backend; every
// briefing uses the headline fallback.
func NewFallbackOnly(logger zerolog.Logger) *Synthesizer {
	return &Synthesizer{log: logger}
}

var categoryFraming = map[news.Category]string{
	news.CategoryHighlights: "the most important news of the day",
	news.CategoryTechnology: "technology innovations and industry updates",
	news.CategoryBusiness:   "business developments and corporate news",
	news.CategoryScience:    "scientific discoveries and research",
	news.CategorySports:     "sports news and highlights",
}

func framingFor(category news.Category) string {
	if f, ok := categoryFraming[category]; ok {
		return f
	}
	return "current news"
}

// Synthesize returns the briefing narrative. It never returns an error; the
// caller always gets displayable text.
func (s *Synthesizer) Synthesize(ctx context.Context, articles []news.Article, category news.Category, minutes int) string {
	b := budget.Resolve(minutes)

	if s.gen == nil {
		return fallbackText(articles)
	}

	prompt := BuildPrompt(articles, category, b)
	maxTokens := int(math.Ceil(float64(b.TotalWords) * tokenBuffer))

	text, err := s.gen.Generate(ctx, prompt, maxTokens)
	if err != nil {
		s.log.Warn().Err(err).
			Str("category", string(category)).
			Int("minutes", minutes).
			Msg("briefing synthesis failed, using fallback")
		return fallbackText(articles)
	}
	return strings.TrimSpace(text)
}

// BuildPrompt assembles the generation prompt from the category framing,
// the budget's structure directive, and numbered article digests.
func BuildPrompt(articles []news.Article, category news.Category, b budget.Budget) string {
	plural := ""
	if b.Paragraphs > 1 {
		plural = "s"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a professional news briefing about %s.\n\n", framingFor(category))
	fmt.Fprintf(&sb, "STRUCTURE REQUIREMENTS:\n%s\n\n", b.Structure)
	sb.WriteString("FORMATTING REQUIREMENTS:\n")
	fmt.Fprintf(&sb, "- Write exactly %d paragraph%s\n", b.Paragraphs, plural)
	fmt.Fprintf(&sb, "- Each paragraph should be approximately %d words\n", b.WordsPerParagraph)
	fmt.Fprintf(&sb, "- Total length: approximately %d words\n", b.TotalWords)
	sb.WriteString("- Use smooth transitions between paragraphs with phrases like \"Meanwhile,\" \"In related news,\" \"Additionally,\" etc.\n")
	sb.WriteString("- Start each paragraph with a clear topic sentence\n")
	sb.WriteString("- Write in a professional, news anchor style\n\n")
	sb.WriteString("CONTENT GUIDELINES:\n")
	sb.WriteString("- Focus on the most newsworthy and impactful stories first\n")
	sb.WriteString("- Include specific details, numbers, and context where available\n")
	sb.WriteString("- Connect related stories logically\n")
	sb.WriteString("- End with forward-looking context or implications\n\n")
	fmt.Fprintf(&sb, "Here are the %d articles to synthesize:\n\n", len(articles))

	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. %s\n%s\n\n", i+1, a.Title, digest(a))
	}

	fmt.Fprintf(&sb, "Remember: Write exactly %d paragraph%s, approximately %d words total.", b.Paragraphs, plural, b.TotalWords)
	return sb.String()
}

func digest(a news.Article) string {
	if a.Description != "" {
		return a.Description
	}
	if a.Content != "" {
		return truncateRunes(a.Content, 200)
	}
	return "No description available"
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func fallbackText(articles []news.Article) string {
	titles := make([]string, 0, len(articles))
	for _, a := range articles {
		titles = append(titles, a.Title)
	}
	return "Unable to generate briefing. Here are the key stories: " + strings.Join(titles, "; ")
}

// --- Gemini provider ---

type geminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *geminiProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, _ := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
			TopP:            topP,
			TopK:            topK,
		},
	})

	base := g.baseURL
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta"
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini API %d: %s", resp.StatusCode, string(b))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("unexpected gemini response structure")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// --- OpenAI provider ---

type openaiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
	TopP        float64         `json:"top_p"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *openaiProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, _ := json.Marshal(openaiRequest{
		Model:       o.model,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        topP,
	})

	base := o.baseURL
	if base == "" {
		base = "https://api.openai.com/v1"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai API %d: %s", resp.StatusCode, string(b))
	}

	var or openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", err
	}
	if len(or.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return or.Choices[0].Message.Content, nil
}
