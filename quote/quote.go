// Package quote picks a random programming quote for the home page.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultURL is the public programming-quotes dataset.
const DefaultURL = "https://raw.githubusercontent.com/skolakoda/programming-quotes-api/master/Data/quotes.json"

// MaxLength is the longest quote, in characters, that fits the widget.
const MaxLength = 200

// Quote is a single quote and its author.
type Quote struct {
	Text   string `json:"en"`
	Author string `json:"author"`
}

// DefaultTTL is how long a fetched quote list is reused.
const DefaultTTL = time.Hour

// retryAfter spaces out background refreshes while the source is failing.
const retryAfter = time.Minute

// Logger is satisfied by echo.Logger.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Client fetches quotes and keeps the eligible ones for TTL.
type Client struct {
	URL  string
	HTTP *http.Client
	Log  Logger
	TTL  time.Duration

	// Intn picks an index; defaults to math/rand/v2.
	Intn func(n int) int

	mu         sync.Mutex
	quotes     []Quote
	fetched    time.Time
	tried      time.Time
	refreshing bool
}

// New returns a Client for url with the given request timeout.
func New(url string, timeout time.Duration, log Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{URL: url, HTTP: &http.Client{Timeout: timeout}, Log: log, TTL: DefaultTTL}
}

// Random returns a random quote of at most MaxLength characters, fetching
// the list when the cached one is missing or stale. Any failure is logged
// and reported as ok=false.
func (c *Client) Random(ctx context.Context) (Quote, bool) {
	c.mu.Lock()
	quotes, fresh := c.quotes, c.fresh()
	c.mu.Unlock()
	if !fresh {
		loaded, err := c.load(ctx)
		switch {
		case err == nil:
			quotes = loaded
		case len(quotes) > 0:
			c.logf("fetch quotes: %v; reusing %d cached", err, len(quotes))
		default:
			c.logf("fetch quotes: %v", err)
			return Quote{}, false
		}
	}
	return c.pick(quotes), true
}

// Cached returns a random quote from the cached list without waiting on
// the network. A missing or stale list is refreshed in the background, so
// the first call after startup or expiry may report ok=false.
func (c *Client) Cached() (Quote, bool) {
	c.mu.Lock()
	quotes := c.quotes
	if !c.fresh() && !c.refreshing && time.Since(c.tried) >= retryAfter {
		c.refreshing = true
		go c.refresh()
	}
	c.mu.Unlock()
	if len(quotes) == 0 {
		return Quote{}, false
	}
	return c.pick(quotes), true
}

func (c *Client) refresh() {
	defer func() {
		c.mu.Lock()
		c.refreshing = false
		c.mu.Unlock()
	}()
	if _, err := c.load(context.Background()); err != nil {
		c.logf("refresh quotes: %v", err)
	}
}

// load fetches the list and stores the eligible quotes. The previous list
// is kept when the fetch fails.
func (c *Client) load(ctx context.Context) ([]Quote, error) {
	c.mu.Lock()
	c.tried = time.Now()
	c.mu.Unlock()

	all, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	var eligible []Quote
	for _, q := range all {
		if q.Text != "" && utf8.RuneCountInString(q.Text) <= MaxLength {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no quote of at most %d characters", MaxLength)
	}

	c.mu.Lock()
	c.quotes = eligible
	c.fetched = time.Now()
	c.mu.Unlock()
	return eligible, nil
}

// fresh reports whether the cached list can be used as is. c.mu must be held.
func (c *Client) fresh() bool {
	return len(c.quotes) > 0 && time.Since(c.fetched) < c.TTL
}

func (c *Client) pick(quotes []Quote) Quote {
	intn := c.Intn
	if intn == nil {
		intn = rand.IntN
	}
	return quotes[intn(len(quotes))]
}

func (c *Client) fetch(ctx context.Context) ([]Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var quotes []Quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return quotes, nil
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.Log != nil {
		c.Log.Errorf(format, args...)
	}
}
