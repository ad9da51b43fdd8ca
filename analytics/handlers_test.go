package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"

func postCollect(t *testing.T, h *Handler, body string, headers map[string]string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", firefoxUA)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	if err := h.Collect(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	return rec.Code
}

func TestCollectStoresVisitWithTitle(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, "salt")
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	code := postCollect(t, h, `{"path":"/blog/hello/","title":"Hello","referrer":"https://www.google.com/"}`, nil)
	if code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", code)
	}
	n, err := s.PageViews(context.Background(), "Hello", fixed.Add(-time.Hour), fixed.Add(time.Hour))
	if err != nil {
		t.Fatalf("PageViews failed: %v", err)
	}
	if n != 1 {
		t.Errorf("PageViews = %d, want 1", n)
	}
}

func TestCollectHonoursDNT(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, "salt")

	code := postCollect(t, h, `{"path":"/","title":"Home"}`, map[string]string{"DNT": "1"})
	if code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", code)
	}
	stats, err := s.GetStats(context.Background(), time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalViews != 0 {
		t.Errorf("TotalViews = %d, want 0 with DNT", stats.TotalViews)
	}
}

func TestCollectSeparatesBots(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, "salt")

	code := postCollect(t, h, `{"path":"/","title":"Home","user_agent":"Googlebot/2.1"}`, nil)
	if code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", code)
	}
	stats, err := s.GetStats(context.Background(), time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalViews != 0 || stats.BotVisits != 1 {
		t.Errorf("views/bots = %d/%d, want 0/1", stats.TotalViews, stats.BotVisits)
	}
}

func TestCollectRejectsInvalid(t *testing.T) {
	h := NewHandler(newTestStore(t), "salt")
	tests := []string{
		`not json`,
		`{"title":"no path"}`,
		`{"path":"/","duration_sec":-1}`,
		`{"path":"/` + strings.Repeat("a", maxPathLen) + `"}`,
	}
	for _, body := range tests {
		if code := postCollect(t, h, body, nil); code != http.StatusBadRequest {
			t.Errorf("Collect(%.40q) status = %d, want 400", body, code)
		}
	}
}

func TestCollectRateLimited(t *testing.T) {
	h := NewHandler(newTestStore(t), "salt")
	h.collectLimiter = newRateLimiter(1, time.Minute)

	if code := postCollect(t, h, `{"path":"/"}`, nil); code != http.StatusNoContent {
		t.Fatalf("first status = %d, want 204", code)
	}
	if code := postCollect(t, h, `{"path":"/"}`, nil); code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", code)
	}
}

func TestStatsHandler(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, "salt")
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }
	saveVisit(t, s, "v", "/", "Home", fixed)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/analytics/api/stats?period=today", nil)
	rec := httptest.NewRecorder()
	if err := h.Stats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalViews != 1 {
		t.Errorf("TotalViews = %d, want 1", stats.TotalViews)
	}
}
