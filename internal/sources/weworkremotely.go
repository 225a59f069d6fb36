package sources

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skillbridge/jobmatcher/internal/fetch"
)

const weWorkRemotelyURL = "https://weworkremotely.com/remote-jobs"

// WeWorkRemotely scrapes the We Work Remotely listing page. It is the only
// HTML-based adapter; the rest consume JSON APIs.
type WeWorkRemotely struct {
	BaseURL string
}

// Name implements Adapter.
func (w *WeWorkRemotely) Name() string { return "weworkremotely" }

// Fetch parses the listing page into raw records. The board has no search
// API; query and location are ignored.
func (w *WeWorkRemotely) Fetch(ctx context.Context, query, location string) ([]RawRecord, error) {
	url := w.BaseURL
	if url == "" {
		url = weWorkRemotelyURL
	}

	body, err := fetch.URL(ctx, url, &fetch.Options{
		Timeout:   fetch.DefaultTimeout,
		UserAgent: fetch.DefaultUserAgent,
		Headers:   map[string]string{"Accept": "text/html"},
	})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &fetch.Error{URL: url, Message: "failed to parse listing HTML", Cause: err}
	}

	var records []RawRecord
	doc.Find("section.jobs article li").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("span.title").First().Text())
		if title == "" {
			return
		}

		record := RawRecord{
			"title":   title,
			"company": strings.TrimSpace(item.Find("span.company").First().Text()),
			"region":  strings.TrimSpace(item.Find("span.region").First().Text()),
			"source":  "weworkremotely",
		}

		if href, ok := item.Find("a").First().Attr("href"); ok && href != "" {
			if strings.HasPrefix(href, "/") {
				href = "https://weworkremotely.com" + href
			}
			record["link"] = href
		}

		records = append(records, record)
	})

	return records, nil
}
