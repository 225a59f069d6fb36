package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skillbridge/jobmatcher/internal/fetch"
)

const arbeitnowURL = "https://www.arbeitnow.com/api/job-board-api"

// Arbeitnow fetches the Arbeitnow job board API.
type Arbeitnow struct {
	BaseURL string
}

// Name implements Adapter.
func (a *Arbeitnow) Name() string { return "arbeitnow" }

// Fetch retrieves the Arbeitnow feed. The response wraps the listing array in
// either a "data" or a "jobs" envelope depending on API version.
func (a *Arbeitnow) Fetch(ctx context.Context, query, location string) ([]RawRecord, error) {
	url := a.BaseURL
	if url == "" {
		url = arbeitnowURL
	}

	body, err := fetch.URL(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []RawRecord `json:"data"`
		Jobs []RawRecord `json:"jobs"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("arbeitnow: failed to decode feed: %w", err)
	}

	payload := envelope.Data
	if len(payload) == 0 {
		payload = envelope.Jobs
	}

	for _, record := range payload {
		record["source"] = "arbeitnow"
	}
	return payload, nil
}
