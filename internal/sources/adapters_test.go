package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRemoteOKSkipsLeadingMetaObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"legal": "API terms notice"},
			{"title": "Go Developer", "company": "Acme", "url": "https://acme.example/1"}
		]`))
	}))
	defer srv.Close()

	adapter := &RemoteOK{BaseURL: srv.URL}
	records, err := adapter.Fetch(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Go Developer", records[0]["title"])
	assert.Equal(t, "remoteok", records[0]["source"])
}

func TestRemoteOKHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := &RemoteOK{BaseURL: srv.URL}
	_, err := adapter.Fetch(context.Background(), "", "")
	assert.Error(t, err)
}

func TestArbeitnowDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"title": "Backend Engineer", "company_name": "Initech"}]}`))
	}))
	defer srv.Close()

	adapter := &Arbeitnow{BaseURL: srv.URL}
	records, err := adapter.Fetch(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Backend Engineer", records[0]["title"])
	assert.Equal(t, "arbeitnow", records[0]["source"])
}

func TestArbeitnowJobsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs": [{"title": "Data Engineer"}]}`))
	}))
	defer srv.Close()

	adapter := &Arbeitnow{BaseURL: srv.URL}
	records, err := adapter.Fetch(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Data Engineer", records[0]["title"])
}

func TestAdzunaWithoutCredentials(t *testing.T) {
	adapter := &Adzuna{}
	records, err := adapter.Fetch(context.Background(), "golang", "berlin")
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestWeWorkRemotelyParsesListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><section class="jobs"><article><ul>
			<li>
				<a href="/remote-jobs/acme-go-developer">
					<span class="title">Go Developer</span>
					<span class="company">Acme</span>
					<span class="region">Anywhere</span>
				</a>
			</li>
			<li><span class="title"></span></li>
		</ul></article></section></body></html>`))
	}))
	defer srv.Close()

	adapter := &WeWorkRemotely{BaseURL: srv.URL}
	records, err := adapter.Fetch(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Go Developer", records[0]["title"])
	assert.Equal(t, "Acme", records[0]["company"])
	assert.Equal(t, "Anywhere", records[0]["region"])
	assert.Equal(t, "https://weworkremotely.com/remote-jobs/acme-go-developer", records[0]["link"])
}

// failingAdapter always errors, to prove one bad source never aborts the rest.
type failingAdapter struct{}

func (failingAdapter) Name() string { return "failing" }
func (failingAdapter) Fetch(ctx context.Context, query, location string) ([]RawRecord, error) {
	return nil, assert.AnError
}

type staticAdapter struct{ records []RawRecord }

func (staticAdapter) Name() string { return "static" }
func (s staticAdapter) Fetch(ctx context.Context, query, location string) ([]RawRecord, error) {
	return s.records, nil
}

func TestOrchestratorCollectsAcrossFailures(t *testing.T) {
	o := NewOrchestrator([]Adapter{
		failingAdapter{},
		staticAdapter{records: []RawRecord{{"title": "Go Developer"}}},
		staticAdapter{records: []RawRecord{{"title": "Data Engineer"}}},
	}, time.Second, zap.NewNop())

	records := o.FetchAll(context.Background(), "", "")
	assert.Len(t, records, 2)
}
