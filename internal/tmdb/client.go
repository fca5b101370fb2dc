// Package tmdb is a throttled, caching client for The Movie Database API.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/denisok6893-rgb/vibereel/internal/logger"
	"github.com/denisok6893-rgb/vibereel/internal/metrics"
)

const (
	DefaultBaseURL     = "https://api.themoviedb.org/3"
	DefaultMinInterval = 250 * time.Millisecond
	DefaultCacheTTL    = 5 * time.Minute
	DefaultTimeout     = 10 * time.Second
	DefaultFailures    = 5
	DefaultCooldown    = 30 * time.Second

	maxBodyBytes = 8 << 20
)

var (
	// ErrNoAPIKey is returned by every call when no API key is configured.
	ErrNoAPIKey = errors.New("tmdb: api key not configured")
	// ErrUnavailable is returned without a request while the breaker is open.
	ErrUnavailable = errors.New("tmdb: temporarily unavailable")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: %s: status %d %s", e.Endpoint, e.Code, http.StatusText(e.Code))
}

type Config struct {
	APIKey      string
	BaseURL     string
	Language    string
	MinInterval time.Duration
	CacheTTL    time.Duration
	Timeout     time.Duration
	// Failures is the number of consecutive upstream failures that opens
	// the breaker for Cooldown.
	Failures uint32
	Cooldown time.Duration
}

type Client struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
	cache    Cache
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	log      logger.Logger
	metrics  *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithCache(cache Cache) Option { return func(c *Client) { c.cache = cache } }
func WithLogger(l logger.Logger) Option { return func(c *Client) { c.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(c *Client) { c.metrics = m } }

// New builds a client. Zero config durations fall back to the defaults; a
// negative MinInterval disables throttling.
func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Failures == 0 {
		cfg.Failures = DefaultFailures
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	c := &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
		http:     &http.Client{Timeout: cfg.Timeout},
		cache:    NewMemoryCache(cfg.CacheTTL),
		limiter:  rate.NewLimiter(limit, 1),
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "tmdb",
		Timeout: cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("tmdb breaker state changed",
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	return c
}

// upstreamHealthy reports whether err says nothing about TMDb itself: client
// errors other than 429 and caller cancellations do not trip the breaker.
func upstreamHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code < 500 && se.Code != http.StatusTooManyRequests
	}
	return false
}

// Popular returns /movie/popular.
func (c *Client) Popular(ctx context.Context, page int) (*Page, error) {
	return c.page(ctx, "popular", "/movie/popular", pageParams(page))
}

func (c *Client) TopRated(ctx context.Context, page int) (*Page, error) {
	return c.page(ctx, "top_rated", "/movie/top_rated", pageParams(page))
}

// Trending returns movies trending over window, "day" or "week".
func (c *Client) Trending(ctx context.Context, window string) (*Page, error) {
	if window != "day" {
		window = "week"
	}
	return c.page(ctx, "trending", "/trending/movie/"+window, url.Values{})
}

func (c *Client) Upcoming(ctx context.Context, page int) (*Page, error) {
	return c.page(ctx, "upcoming", "/movie/upcoming", pageParams(page))
}

func (c *Client) NowPlaying(ctx context.Context, page int) (*Page, error) {
	return c.page(ctx, "now_playing", "/movie/now_playing", pageParams(page))
}

func (c *Client) Search(ctx context.Context, query string, page int) (*Page, error) {
	q := pageParams(page)
	q.Set("query", query)
	return c.page(ctx, "search", "/search/movie", q)
}

// ByGenre discovers movies of one genre, most popular first.
func (c *Client) ByGenre(ctx context.Context, genreID, page int) (*Page, error) {
	q := pageParams(page)
	q.Set("with_genres", strconv.Itoa(genreID))
	q.Set("sort_by", "popularity.desc")
	return c.page(ctx, "discover", "/discover/movie", q)
}

// MovieByID returns full details, including runtime and genre objects.
func (c *Client) MovieByID(ctx context.Context, id int) (*Movie, error) {
	var m Movie
	if err := c.get(ctx, "movie", "/movie/"+strconv.Itoa(id), url.Values{}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() { c.cache.Clear() }

func (c *Client) page(ctx context.Context, name, endpoint string, q url.Values) (*Page, error) {
	var p Page
	if err := c.get(ctx, name, endpoint, q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func (c *Client) get(ctx context.Context, name, endpoint string, q url.Values, out any) (err error) {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	if c.language != "" {
		q.Set("language", c.language)
	}

	key := endpoint + "?" + q.Encode()
	if body, ok := c.cache.Get(key); ok {
		c.metrics.ObserveCache(true)
		c.log.Debug("tmdb cache hit", logger.String("key", key))
		return decode(body, out)
	}
	c.metrics.ObserveCache(false)

	defer func() { c.metrics.ObserveTMDbRequest(name, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tmdb throttle: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) { return c.fetch(ctx, endpoint, q) })
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrUnavailable, endpoint)
	}
	if err != nil {
		return err
	}
	if err := decode(body, out); err != nil {
		return err
	}
	c.cache.Set(key, body)
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	params := url.Values{}
	for k, v := range q {
		params[k] = v
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build tmdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.log.Debug("tmdb request",
		logger.String("endpoint", endpoint),
		logger.Int("status", resp.StatusCode),
		logger.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Code: resp.StatusCode, Endpoint: endpoint}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read tmdb response: %w", err)
	}
	return body, nil
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}
