package news

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// Article is the canonical normalized article shape. Optional fields stay
// empty when the provider omits them; they are never filled with
// placeholder text.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	Image       string    `json:"image,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// ArticleID derives a stable identity from the article link.
func ArticleID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

// providerArticle covers the field-name variants seen across headline
// providers: image vs urlToImage, source as {name} vs a bare string.
type providerArticle struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
	URL         string          `json:"url"`
	Image       string          `json:"image"`
	URLToImage  string          `json:"urlToImage"`
	PublishedAt string          `json:"publishedAt"`
	Source      json.RawMessage `json:"source"`
}

type providerResponse struct {
	Status        string            `json:"status"`
	TotalArticles int               `json:"totalArticles"`
	TotalResults  int               `json:"totalResults"`
	Articles      []providerArticle `json:"articles"`
}

func (r providerResponse) total() int {
	if r.TotalArticles > 0 {
		return r.TotalArticles
	}
	if r.TotalResults > 0 {
		return r.TotalResults
	}
	return len(r.Articles)
}

func normalizeArticle(p providerArticle) Article {
	a := Article{
		ID:          ArticleID(p.URL),
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		URL:         p.URL,
		Image:       p.Image,
	}
	if a.Image == "" {
		a.Image = p.URLToImage
	}
	a.Source = sourceName(p.Source)
	if p.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, p.PublishedAt); err == nil {
			a.PublishedAt = t
		}
	}
	return a
}

// sourceName accepts either {"name": "..."} or a bare string.
func sourceName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
		return obj.Name
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
