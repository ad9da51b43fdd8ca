package analytics

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Reporter answers "how many views has the page with this title had".
type Reporter interface {
	PageViews(ctx context.Context, title string, from, to time.Time) (int, error)
}

// NopReporter reports zero views for every page.
type NopReporter struct{}

func (NopReporter) PageViews(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

const (
	googleDataAPI   = "https://analyticsdata.googleapis.com/v1beta"
	analyticsScope  = "https://www.googleapis.com/auth/analytics.readonly"
	googleDateStamp = "2006-01-02"
)

// GoogleReporter queries the Google Analytics Data API runReport endpoint.
type GoogleReporter struct {
	PropertyID string
	BaseURL    string       // defaults to the public Data API
	Client     *http.Client // must add credentials
}

// NewGoogleReporter builds a reporter authenticated with a base64-encoded
// service-account JSON key.
func NewGoogleReporter(ctx context.Context, propertyID, credentialsB64 string) (*GoogleReporter, error) {
	if propertyID == "" {
		return nil, fmt.Errorf("analytics: google property id is required")
	}
	keyJSON, err := base64.StdEncoding.DecodeString(credentialsB64)
	if err != nil {
		return nil, fmt.Errorf("analytics: decode google credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, keyJSON, analyticsScope)
	if err != nil {
		return nil, fmt.Errorf("analytics: parse google credentials: %w", err)
	}
	return &GoogleReporter{
		PropertyID: propertyID,
		BaseURL:    googleDataAPI,
		Client:     oauth2.NewClient(ctx, creds.TokenSource),
	}, nil
}

type gaDateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type gaReportRequest struct {
	Dimensions      []gaName      `json:"dimensions"`
	Metrics         []gaName      `json:"metrics"`
	DateRanges      []gaDateRange `json:"dateRanges"`
	DimensionFilter gaFilterExpr  `json:"dimensionFilter"`
}

type gaName struct {
	Name string `json:"name"`
}

type gaFilterExpr struct {
	Filter struct {
		FieldName    string `json:"fieldName"`
		StringFilter struct {
			Value     string `json:"value"`
			MatchType string `json:"matchType"`
		} `json:"stringFilter"`
	} `json:"filter"`
}

type gaReportResponse struct {
	Rows []struct {
		MetricValues []struct {
			Value string `json:"value"`
		} `json:"metricValues"`
	} `json:"rows"`
}

// PageViews returns screenPageViews for an exact page title match.
func (g *GoogleReporter) PageViews(ctx context.Context, title string, from, to time.Time) (int, error) {
	req := gaReportRequest{
		Dimensions: []gaName{{Name: "pageTitle"}},
		Metrics:    []gaName{{Name: "screenPageViews"}},
		DateRanges: []gaDateRange{{StartDate: from.Format(googleDateStamp), EndDate: to.Format(googleDateStamp)}},
	}
	req.DimensionFilter.Filter.FieldName = "pageTitle"
	req.DimensionFilter.Filter.StringFilter.Value = title
	req.DimensionFilter.Filter.StringFilter.MatchType = "EXACT"

	body, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}
	base := g.BaseURL
	if base == "" {
		base = googleDataAPI
	}
	url := fmt.Sprintf("%s/properties/%s:runReport", base, g.PropertyID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("analytics: run report: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("analytics: run report: unexpected status %d", resp.StatusCode)
	}

	var report gaReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return 0, fmt.Errorf("analytics: decode report: %w", err)
	}
	if len(report.Rows) == 0 || len(report.Rows[0].MetricValues) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(report.Rows[0].MetricValues[0].Value)
	if err != nil {
		return 0, fmt.Errorf("analytics: parse view count: %w", err)
	}
	return n, nil
}
