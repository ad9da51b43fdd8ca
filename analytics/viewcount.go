package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// ViewsResponse is the body of GET /api/views.
type ViewsResponse struct {
	Views int `json:"views"`
}

// ViewClient reads view counts from a site's /api/views endpoint.
type ViewClient struct {
	BaseURL string
	HTTP    *http.Client
	Log     Logger
}

// Fetch returns the view count for title. Failures are logged and yield 0.
func (vc *ViewClient) Fetch(ctx context.Context, title string) int {
	n, err := vc.fetch(ctx, title)
	if err != nil {
		if vc.Log != nil {
			vc.Log.Errorf("view count for %q: %v", title, err)
		}
		return 0
	}
	return n
}

func (vc *ViewClient) fetch(ctx context.Context, title string) (int, error) {
	u := strings.TrimRight(vc.BaseURL, "/") + "/api/views?pageTitle=" + url.QueryEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	client := vc.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body ViewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	return body.Views, nil
}

// Count is a view count that starts at zero and is patched once when the
// background fetch completes.
type Count struct {
	mu    sync.RWMutex
	value int
	done  chan struct{}
}

// Value returns the current count.
func (c *Count) Value() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Done is closed once the fetch has finished or been abandoned.
func (c *Count) Done() <-chan struct{} { return c.done }

// Start fetches the count for title in the background. If ctx is cancelled
// before the response arrives the result is discarded and the count stays 0.
func (vc *ViewClient) Start(ctx context.Context, title string) *Count {
	c := &Count{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		n := vc.Fetch(ctx, title)
		if ctx.Err() != nil {
			return
		}
		c.mu.Lock()
		c.value = n
		c.mu.Unlock()
	}()
	return c
}
