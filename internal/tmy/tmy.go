// Package tmy acquires and prepares the Typical Meteorological Year series
// that drives a simulation run: fetch from the PVGIS service, cache on disk,
// and interpolate the hourly samples down to the simulation bucket.
package tmy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// DefaultEndpoint is the PVGIS TMY API.
const DefaultEndpoint = "https://re.jrc.ec.europa.eu/api/tmy"

// Sample is one point of the ambient series.
type Sample struct {
	Timestamp       time.Time `json:"timestamp"`
	AmbientTempC    float64   `json:"ambient_temperature_c"`
	RelHumidityPerc float64   `json:"relative_humidity_perc"`
}

var ErrEmptySeries = errors.New("tmy: empty series")

// Client fetches TMY data over HTTP. The zero value uses the default
// endpoint and http.DefaultClient.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

type pvgisResponse struct {
	Outputs struct {
		TMYHourly []pvgisHour `json:"tmy_hourly"`
	} `json:"outputs"`
}

type pvgisHour struct {
	Time string  `json:"time(UTC)"`
	T2m  float64 `json:"T2m"`
	RH   float64 `json:"RH"`
}

// Fetch downloads the hourly TMY series for a location. Only ambient
// temperature and relative humidity are kept; timestamps are rebased onto a
// synthetic non-leap year so the series is location-independent in time.
func (c *Client) Fetch(ctx context.Context, latitude, longitude float64) ([]Sample, error) {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	url := fmt.Sprintf("%s?lat=%f&lon=%f&outputformat=json", endpoint, latitude, longitude)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("tmy: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmy: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmy: fetch: unexpected status %s", resp.Status)
	}

	var decoded pvgisResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("tmy: decode response: %w", err)
	}
	hours := decoded.Outputs.TMYHourly
	if len(hours) == 0 {
		return nil, ErrEmptySeries
	}

	samples := make([]Sample, len(hours))
	start := yearStart()
	for i, h := range hours {
		samples[i] = Sample{
			Timestamp:       start.Add(time.Duration(i) * time.Hour),
			AmbientTempC:    h.T2m,
			RelHumidityPerc: h.RH,
		}
	}
	return samples, nil
}

// Get returns the cached series at cachePath if present, otherwise fetches
// and caches it.
func (c *Client) Get(ctx context.Context, cachePath string, latitude, longitude float64) ([]Sample, error) {
	if cachePath != "" {
		samples, err := Load(cachePath)
		if err == nil {
			return samples, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	samples, err := c.Fetch(ctx, latitude, longitude)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := Save(cachePath, samples); err != nil {
			return nil, err
		}
	}
	return samples, nil
}

// Load reads a cached series from disk.
func Load(path string) ([]Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tmy: read cache: %w", err)
	}
	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("tmy: parse cache: %w", err)
	}
	if len(samples) == 0 {
		return nil, ErrEmptySeries
	}
	return samples, nil
}

// Save writes the series to disk as JSON.
func Save(path string, samples []Sample) error {
	data, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("tmy: encode cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("tmy: write cache: %w", err)
	}
	return nil
}

// Interpolate expands an hourly series to the given bucket spacing with
// linear interpolation, keeping the total span of one year. The tail of the
// last hour interpolates toward the first sample, closing the annual cycle.
func Interpolate(hourly []Sample, bucket time.Duration) ([]Sample, error) {
	if len(hourly) == 0 {
		return nil, ErrEmptySeries
	}
	if bucket <= 0 || bucket > time.Hour || time.Hour%bucket != 0 {
		return nil, fmt.Errorf("tmy: bucket %v must evenly divide one hour", bucket)
	}
	if bucket == time.Hour {
		out := make([]Sample, len(hourly))
		copy(out, hourly)
		return out, nil
	}

	perHour := int(time.Hour / bucket)
	out := make([]Sample, 0, len(hourly)*perHour)
	for i, cur := range hourly {
		next := hourly[(i+1)%len(hourly)]
		for j := 0; j < perHour; j++ {
			frac := float64(j) / float64(perHour)
			out = append(out, Sample{
				Timestamp:       cur.Timestamp.Add(time.Duration(j) * bucket),
				AmbientTempC:    lerp(cur.AmbientTempC, next.AmbientTempC, frac),
				RelHumidityPerc: lerp(cur.RelHumidityPerc, next.RelHumidityPerc, frac),
			})
		}
	}
	return out, nil
}

func lerp(a, b, frac float64) float64 {
	return a + (b-a)*frac
}

// yearStart is the origin of the synthetic non-leap model year.
func yearStart() time.Time {
	return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
}
