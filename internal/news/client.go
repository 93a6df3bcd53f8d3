// Package news fetches normalized headline articles from the GNews API,
// with cache-first lookups and rate-limited network fallback.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mimiwrp/crispnews/internal/budget"
	"github.com/mimiwrp/crispnews/internal/ratelimit"
)

const (
	defaultBaseURL = "https://gnews.io/api/v4"

	cachePrefix = "gnews/"
	cacheTTL    = 15 * time.Minute

	defaultCountry  = "us"
	defaultLanguage = "en"
	defaultMax      = 5

	// GNews free tier.
	defaultPerMinute = 20
	defaultPerDay    = 100
)

// Store is the durable cache capability the client writes through.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	DeleteByPrefix(prefix string) error
}

// Options tune a single headline request.
type Options struct {
	Country  string
	Language string
	Max      int
	Query    string
}

// Config holds client construction parameters.
type Config struct {
	APIKey    string
	Country   string
	Language  string
	PerMinute int
	PerDay    int
}

type Client struct {
	apiKey   string
	baseURL  string
	country  string
	language string

	store      Store
	limiter    *ratelimit.Limiter
	httpClient *http.Client
	log        zerolog.Logger
	now        func() time.Time
}

func New(cfg Config, st Store, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("news: API key is required")
	}
	if cfg.Country == "" {
		cfg.Country = defaultCountry
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = defaultPerMinute
	}
	if cfg.PerDay <= 0 {
		cfg.PerDay = defaultPerDay
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    defaultBaseURL,
		country:    cfg.Country,
		language:   cfg.Language,
		store:      st,
		limiter:    ratelimit.New(cfg.PerMinute, cfg.PerDay),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logger,
		now:        time.Now,
	}, nil
}

// cachePayload is what gets stored per normalized parameter set. The
// timestamp lives in the payload because the store has no TTL semantics.
type cachePayload struct {
	FetchedAt    time.Time `json:"fetchedAt"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// cacheKey builds a deterministic key from the request parameters. Map
// marshaling sorts keys, so identical parameter sets always collide.
func cacheKey(params map[string]string) string {
	b, _ := json.Marshal(params)
	return cachePrefix + string(b)
}

// FetchByCategory returns normalized headlines for a category. Cached
// results within the expiry window are served without a network call or a
// rate-limit charge.
func (c *Client) FetchByCategory(ctx context.Context, category Category, opts Options) ([]Article, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	topic := category.ProviderCategory()
	if !gnewsCategories[topic] {
		return nil, fmt.Errorf("%w: %q maps to unknown topic %q", ErrInvalidCategory, category, topic)
	}

	if opts.Country == "" {
		opts.Country = c.country
	}
	if opts.Language == "" {
		opts.Language = c.language
	}
	if opts.Max <= 0 {
		opts.Max = defaultMax
	}

	params := map[string]string{
		"category": topic,
		"country":  opts.Country,
		"lang":     opts.Language,
		"max":      strconv.Itoa(opts.Max),
	}
	if opts.Query != "" {
		params["q"] = opts.Query
	}

	key := cacheKey(params)
	if cached, ok := c.readCache(key); ok {
		c.log.Debug().Str("category", string(category)).Msg("serving headlines from cache")
		return cached.Articles, nil
	}

	if err := c.limiter.Allow(); err != nil {
		return nil, err
	}

	articles, total, err := c.request(ctx, params)
	if err != nil {
		return nil, err
	}

	c.writeCache(key, cachePayload{
		FetchedAt:    c.now(),
		TotalResults: total,
		Articles:     articles,
	})

	daily, _ := c.limiter.Usage()
	_, perDay := c.limiter.Limits()
	c.log.Debug().
		Str("category", string(category)).
		Int("articles", len(articles)).
		Int("daily_used", daily).
		Int("daily_limit", perDay).
		Msg("fetched headlines")

	return articles, nil
}

// FetchTimeBasedBriefing resolves the duration to an article count and
// delegates to FetchByCategory.
func (c *Client) FetchTimeBasedBriefing(ctx context.Context, category Category, minutes int) ([]Article, error) {
	b := budget.Resolve(minutes)
	return c.FetchByCategory(ctx, category, Options{Max: b.ArticleCount})
}

// ClearCache drops every cached headline response.
func (c *Client) ClearCache() error {
	return c.store.DeleteByPrefix(cachePrefix)
}

// Usage reports rate-limit consumption for status display.
func (c *Client) Usage() (daily, minute int) {
	return c.limiter.Usage()
}

func (c *Client) readCache(key string) (cachePayload, bool) {
	raw, ok, err := c.store.Get(key)
	if err != nil || !ok {
		return cachePayload{}, false
	}
	var payload cachePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.store.DeleteByPrefix(key)
		return cachePayload{}, false
	}
	if c.now().Sub(payload.FetchedAt) > cacheTTL {
		c.store.DeleteByPrefix(key)
		return cachePayload{}, false
	}
	return payload, true
}

func (c *Client) writeCache(key string, payload cachePayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.store.Set(key, raw); err != nil {
		c.log.Warn().Err(err).Msg("caching headlines failed")
	}
}

func (c *Client) request(ctx context.Context, params map[string]string) ([]Article, int, error) {
	q := url.Values{}
	q.Set("token", c.apiKey)
	for k, v := range params {
		q.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/top-headlines?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching headlines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, 0, ErrInvalidCredentials
		case http.StatusForbidden:
			return nil, 0, ErrQuotaExceeded
		case http.StatusTooManyRequests:
			return nil, 0, fmt.Errorf("provider throttled the request: %w", ratelimit.ErrRateLimited)
		default:
			return nil, 0, &ProviderError{Status: resp.StatusCode, Message: string(body)}
		}
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, 0, fmt.Errorf("decoding provider response: %w", err)
	}

	articles := make([]Article, 0, len(pr.Articles))
	for _, p := range pr.Articles {
		articles = append(articles, normalizeArticle(p))
	}
	return articles, pr.total(), nil
}
