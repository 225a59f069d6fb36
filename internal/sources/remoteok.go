package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skillbridge/jobmatcher/internal/fetch"
)

const remoteOKURL = "https://remoteok.io/api"

// RemoteOK fetches the RemoteOK public API feed.
type RemoteOK struct {
	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string
}

// Name implements Adapter.
func (r *RemoteOK) Name() string { return "remoteok" }

// Fetch retrieves the RemoteOK feed. The feed has no query parameters; query
// and location are ignored. The first element is sometimes an API-notice meta
// object without job fields and is skipped.
func (r *RemoteOK) Fetch(ctx context.Context, query, location string) ([]RawRecord, error) {
	url := r.BaseURL
	if url == "" {
		url = remoteOKURL
	}

	body, err := fetch.URL(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	var payload []RawRecord
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("remoteok: failed to decode feed: %w", err)
	}

	records := make([]RawRecord, 0, len(payload))
	for i, record := range payload {
		if i == 0 && firstString(record, "title", "position", "name") == "" {
			continue
		}
		record["source"] = "remoteok"
		records = append(records, record)
	}
	return records, nil
}
