package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"airqualitypredict/internal/airquality"
)

type openaqPage struct {
	Meta struct {
		Found int `json:"found"`
	} `json:"meta"`
	Results []openaqEntry `json:"results"`
}

type openaqEntry struct {
	Date struct {
		UTC time.Time `json:"utc"`
	} `json:"date"`
	Value    float64 `json:"value"`
	Location string  `json:"location"`
	Unit     string  `json:"unit"`
}

func openaqEntryAt(ts time.Time, value float64, location, unit string) openaqEntry {
	e := openaqEntry{Value: value, Location: location, Unit: unit}
	e.Date.UTC = ts
	return e
}

func newTestOpenAQSource(srv *httptest.Server, day time.Time) *OpenAQSource {
	src := NewOpenAQSource(srv.Client(), OpenAQConfig{
		BaseURL:   srv.URL,
		City:      "Skopje",
		Country:   "MK",
		Parameter: "pm25",
		DateFrom:  day,
		DateTo:    day.AddDate(0, 0, 7),
	})
	src.httpCfg.Backoff.InitialInterval = time.Millisecond
	return src
}

func TestOpenAQPaginatesUntilFound(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var queries []url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		queries = append(queries, q)

		// Two records per page, four in total; the found threshold must
		// stop the loop after the second page.
		offset := 0
		if q.Get("page") == "2" {
			offset = 2
		}
		var page openaqPage
		page.Meta.Found = 4
		for i := 0; i < 2; i++ {
			ts := base.Add(time.Duration(offset+i) * time.Hour)
			page.Results = append(page.Results, openaqEntryAt(ts, float64(10+offset+i), "Centar", airquality.Unit))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	src := newTestOpenAQSource(srv, base)
	src.pageLimit = 2

	got, err := src.FetchMeasurements(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i, m := range got {
		require.Equal(t, base.Add(time.Duration(i)*time.Hour), m.Timestamp)
		require.Equal(t, float64(10+i), m.Value)
		require.Equal(t, "Centar", m.Location)
	}

	require.Len(t, queries, 2)
	require.Equal(t, "1", queries[0].Get("page"))
	require.Equal(t, "2", queries[1].Get("page"))
	for _, q := range queries {
		require.Equal(t, "Skopje", q.Get("city"))
		require.Equal(t, "MK", q.Get("country"))
		require.Equal(t, "pm25", q.Get("parameter"))
		require.Equal(t, "2", q.Get("limit"))
		require.Equal(t, "datetime", q.Get("order_by"))
		require.Equal(t, "2024-01-01", q.Get("date_from"))
		require.Equal(t, "2024-01-08", q.Get("date_to"))
	}
}

func TestOpenAQStopsOnEmptyPage(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		// No usable found count: the loop must stop on the first empty page.
		var page openaqPage
		if r.URL.Query().Get("page") == "1" {
			page.Results = []openaqEntry{
				openaqEntryAt(base, 12.5, "Centar", airquality.Unit),
				openaqEntryAt(base.Add(time.Hour), 13.1, "", ""),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	got, err := newTestOpenAQSource(srv, base).FetchMeasurements(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Len(t, got, 2)

	// Missing location and unit fall back to defaults.
	require.Equal(t, "unknown", got[1].Location)
	require.Equal(t, airquality.Unit, got[1].Unit)
}

func TestOpenAQRetriesTransientServerError(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var page openaqPage
		page.Meta.Found = 1
		page.Results = []openaqEntry{openaqEntryAt(base, 42.0, "Centar", airquality.Unit)}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	got, err := newTestOpenAQSource(srv, base).FetchMeasurements(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Len(t, got, 1)
	require.Equal(t, 42.0, got[0].Value)
}
