package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"airqualitypredict/internal/airquality"
)

// OpenAQConfig identifies what to pull from the OpenAQ measurements API.
type OpenAQConfig struct {
	BaseURL   string
	City      string
	Country   string
	Parameter string
	DateFrom  time.Time
	DateTo    time.Time
}

// OpenAQSource pulls pollutant measurements from the OpenAQ v2 API,
// paginating until the reported total is exhausted.
type OpenAQSource struct {
	name      string
	cfg       OpenAQConfig
	pageLimit int
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
}

func NewOpenAQSource(client *http.Client, cfg OpenAQConfig) *OpenAQSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openaq",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenAQSource{
		name:      "openaq",
		cfg:       cfg,
		pageLimit: 10000,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (s *OpenAQSource) Name() string {
	return s.name
}

// FetchMeasurements pages through /measurements and flattens the nested
// payload into Measurement values. A successful call that finds no data
// returns an empty slice and no error; the collector treats that as its own
// outcome.
func (s *OpenAQSource) FetchMeasurements(ctx context.Context) ([]airquality.Measurement, error) {
	var all []airquality.Measurement
	page := 1

	for {
		buildRequest := func() (*http.Request, error) {
			values := url.Values{}
			values.Set("city", s.cfg.City)
			values.Set("country", s.cfg.Country)
			values.Set("parameter", s.cfg.Parameter)
			values.Set("date_from", s.cfg.DateFrom.Format("2006-01-02"))
			values.Set("date_to", s.cfg.DateTo.Format("2006-01-02"))
			values.Set("limit", strconv.Itoa(s.pageLimit))
			values.Set("page", strconv.Itoa(page))
			values.Set("order_by", "datetime")

			u := fmt.Sprintf("%s/measurements?%s", s.cfg.BaseURL, values.Encode())
			req, err := http.NewRequest(http.MethodGet, u, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Accept", "application/json")
			return req, nil
		}

		resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
		if err != nil {
			return nil, err
		}

		var payload struct {
			Meta struct {
				Found int `json:"found"`
			} `json:"meta"`
			Results []struct {
				Date struct {
					UTC time.Time `json:"utc"`
				} `json:"date"`
				Value    float64 `json:"value"`
				Location string  `json:"location"`
				Unit     string  `json:"unit"`
			} `json:"results"`
		}

		err = json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding openaq page %d: %w", page, err)
		}

		if len(payload.Results) == 0 {
			break
		}

		for _, r := range payload.Results {
			location := r.Location
			if location == "" {
				location = "unknown"
			}
			unit := r.Unit
			if unit == "" {
				unit = airquality.Unit
			}
			all = append(all, airquality.Measurement{
				Timestamp: r.Date.UTC.UTC(),
				Value:     r.Value,
				Location:  location,
				Unit:      unit,
			})
		}

		log.Printf("openaq: page %d: got %d records (total: %d)", page, len(payload.Results), len(all))

		if payload.Meta.Found > 0 && len(all) >= payload.Meta.Found {
			break
		}
		page++
	}

	return all, nil
}
