// Package feed pulls supplementary articles from configured RSS/Atom
// sources and normalizes them into the canonical article shape, so they can
// be merged with provider headlines.
package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mimiwrp/crispnews/internal/config"
	"github.com/mimiwrp/crispnews/internal/news"
)

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]news.Article, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
	maxAge time.Duration
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser(), maxAge: 24 * time.Hour}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]news.Article, error) {
	parsed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	now := time.Now()
	cutoff := now.Add(-f.maxAge)
	articles := make([]news.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}

		// A briefing only wants fresh items.
		if pub.Before(cutoff) {
			continue
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}
		desc = truncate(stripHTML(desc), 300)

		articles = append(articles, news.Article{
			ID:          news.ArticleID(item.Link),
			Source:      source.Name,
			Title:       item.Title,
			URL:         item.Link,
			Description: desc,
			PublishedAt: pub,
		})
	}
	return articles, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type FetchResult struct {
	Articles []news.Article
	Errors   []error
}

// FetchAll fetches every source concurrently and collects articles plus
// per-source errors.
func FetchAll(ctx context.Context, sources []config.Source) FetchResult {
	var (
		mu     sync.Mutex
		result FetchResult
		wg     sync.WaitGroup
	)

	fetcher := NewRSSFetcher()

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			articles, err := fetcher.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Articles = append(result.Articles, articles...)
		}(src)
	}

	wg.Wait()
	return result
}
