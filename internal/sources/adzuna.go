package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/skillbridge/jobmatcher/internal/fetch"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	adzunaMaxPages = 3
)

// Adzuna fetches job offers from the Adzuna public API. If AppID or AppKey is
// empty, Fetch returns (nil, nil) so the round is skipped without failing the
// orchestrator.
type Adzuna struct {
	AppID   string
	AppKey  string
	Country string // "us", "gb", "fr", ...
	BaseURL string
}

// Name implements Adapter.
func (a *Adzuna) Name() string { return "adzuna" }

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	RedirectURL  string `json:"redirect_url"`
	Created      string `json:"created"`
	ContractTime string `json:"contract_time"`
}

// Fetch pages through the Adzuna search results for the query and location,
// stopping at the last page or adzunaMaxPages.
func (a *Adzuna) Fetch(ctx context.Context, query, location string) ([]RawRecord, error) {
	if a.AppID == "" || a.AppKey == "" {
		return nil, nil
	}

	var records []RawRecord
	for page := 1; page <= adzunaMaxPages; page++ {
		batch, err := a.fetchPage(ctx, query, location, page)
		if err != nil {
			return records, fmt.Errorf("adzuna page %d: %w", page, err)
		}
		records = append(records, batch...)
		if len(batch) < adzunaPageSize {
			break
		}
	}
	return records, nil
}

func (a *Adzuna) fetchPage(ctx context.Context, query, location string, page int) ([]RawRecord, error) {
	base := a.BaseURL
	if base == "" {
		base = adzunaBaseURL
	}
	endpoint := fmt.Sprintf("%s/%s/search/%d", base, a.Country, page)

	params := url.Values{}
	params.Set("app_id", a.AppID)
	params.Set("app_key", a.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", query)
	params.Set("where", location)
	params.Set("content-type", "application/json")

	body, err := fetch.URL(ctx, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp adzunaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	records := make([]RawRecord, 0, len(resp.Results))
	for _, r := range resp.Results {
		record := RawRecord{
			"title":       r.Title,
			"description": r.Description,
			"company":     r.Company.DisplayName,
			"location":    r.Location.DisplayName,
			"url":         r.RedirectURL,
			"job_type":    r.ContractTime,
			"source":      "adzuna",
		}
		if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
			record["epoch"] = t.Unix()
		}
		records = append(records, record)
	}
	return records, nil
}
