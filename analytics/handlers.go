package analytics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves the local collector and its admin stats API.
type Handler struct {
	store          *Store
	salt           string
	collectLimiter *rateLimiter
	now            func() time.Time
}

// NewHandler returns a Handler. The collect endpoint allows 60 requests per
// IP per minute.
func NewHandler(store *Store, salt string) *Handler {
	return &Handler{
		store:          store,
		salt:           salt,
		collectLimiter: newRateLimiter(60, time.Minute),
		now:            time.Now,
	}
}

// CollectRequest is the body posted by collect.js.
type CollectRequest struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Referrer    string `json:"referrer"`
	ScreenSize  string `json:"screen_size"`
	UserAgent   string `json:"user_agent"`
	DurationSec int    `json:"duration_sec"`
}

const (
	maxPathLen       = 2048
	maxTitleLen      = 512
	maxReferrerLen   = 2048
	maxScreenSizeLen = 32
	maxUserAgentLen  = 512
	maxDurationSec   = 86400
)

func (r *CollectRequest) validate() error {
	switch {
	case r.Path == "":
		return fmt.Errorf("path is required")
	case len(r.Path) > maxPathLen:
		return fmt.Errorf("path exceeds %d bytes", maxPathLen)
	case len(r.Title) > maxTitleLen:
		return fmt.Errorf("title exceeds %d bytes", maxTitleLen)
	case len(r.Referrer) > maxReferrerLen:
		return fmt.Errorf("referrer exceeds %d bytes", maxReferrerLen)
	case len(r.ScreenSize) > maxScreenSizeLen:
		return fmt.Errorf("screen_size exceeds %d bytes", maxScreenSizeLen)
	case len(r.UserAgent) > maxUserAgentLen:
		return fmt.Errorf("user_agent exceeds %d bytes", maxUserAgentLen)
	case r.DurationSec < 0 || r.DurationSec > maxDurationSec:
		return fmt.Errorf("duration_sec out of range")
	}
	return nil
}

// Collect records a page view. It always answers 204 to well-formed
// requests; storage errors are only logged.
func (h *Handler) Collect(c echo.Context) error {
	ip := c.RealIP()
	if !h.collectLimiter.allow(ip) {
		return c.NoContent(http.StatusTooManyRequests)
	}
	if c.Request().Header.Get("DNT") == "1" {
		return c.NoContent(http.StatusNoContent)
	}

	var req CollectRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}
	if err := req.validate(); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}

	ctx := c.Request().Context()
	now := h.now().UTC()
	ua := req.UserAgent
	if ua == "" {
		ua = c.Request().UserAgent()
	}

	if name := BotName(ua); name != "" {
		if err := h.store.SaveBotVisit(ctx, &BotVisit{
			BotName:   name,
			IPHash:    HashIP(h.salt, ip),
			UserAgent: ua,
			Path:      req.Path,
			Timestamp: now,
		}); err != nil {
			c.Logger().Errorf("save bot visit: %v", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	visitorID := VisitorID(h.salt, ip, ua)

	// A duration marks the unload beacon of an already recorded view.
	if req.DurationSec > 0 {
		if err := h.store.UpdateVisitDuration(ctx, visitorID, req.Path, req.DurationSec); err != nil {
			c.Logger().Errorf("update visit duration: %v", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	browser, os, device := ParseUserAgent(ua)
	if err := h.store.SaveVisit(ctx, &Visit{
		VisitorID:  visitorID,
		SessionID:  SessionID(visitorID, now),
		IPHash:     HashIP(h.salt, ip),
		Browser:    browser,
		OS:         os,
		Device:     device,
		Path:       req.Path,
		Title:      req.Title,
		Referrer:   CleanReferrer(req.Referrer),
		ScreenSize: req.ScreenSize,
		Timestamp:  now,
	}); err != nil {
		c.Logger().Errorf("save visit: %v", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats returns aggregated stats as JSON for ?period=today|week|month|year.
func (h *Handler) Stats(c echo.Context) error {
	from, to := PeriodRange(h.now().UTC(), c.QueryParam("period"))
	stats, err := h.store.GetStats(c.Request().Context(), from, to)
	if err != nil {
		c.Logger().Errorf("get stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, stats)
}

// PeriodRange maps a period name to a [from, to) range ending tomorrow at
// midnight UTC. Unknown periods mean "week".
func PeriodRange(now time.Time, period string) (time.Time, time.Time) {
	days := 7
	switch period {
	case "today":
		days = 1
	case "month":
		days = 30
	case "year":
		days = 365
	}
	to := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	return to.AddDate(0, 0, -days), to
}

// RegisterRoutes mounts the public collector and the admin stats API.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMiddleware echo.MiddlewareFunc) {
	e.POST("/api/analytics/collect", h.Collect)

	admin := e.Group("/admin/analytics")
	admin.Use(authMiddleware)
	admin.GET("/api/stats", h.Stats)
}
