package tmy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
)

const pvgisBody = `{
	"outputs": {
		"tmy_hourly": [
			{"time(UTC)": "20070101:0000", "T2m": 2.5, "RH": 85.0},
			{"time(UTC)": "20070101:0100", "T2m": 2.1, "RH": 86.5},
			{"time(UTC)": "20070101:0200", "T2m": 1.8, "RH": 88.0}
		]
	}
}`

func newPVGISServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("outputformat") != "json" {
			http.Error(w, "expected json output format", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(pvgisBody))
	}))
}

func TestFetchRebasesTimestamps(t *testing.T) {
	srv := newPVGISServer(t)
	defer srv.Close()

	c := &Client{Endpoint: srv.URL}
	samples, err := c.Fetch(context.Background(), 48.85, 2.35)
	if err != nil {
		t.Fatal(err)
	}

	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if got := samples[0].Timestamp; !got.Equal(yearStart()) {
		t.Errorf("first timestamp %v, want %v", got, yearStart())
	}
	if got := samples[2].Timestamp; !got.Equal(yearStart().Add(2 * time.Hour)) {
		t.Errorf("third timestamp %v, want %v", got, yearStart().Add(2*time.Hour))
	}
	if samples[1].AmbientTempC != 2.1 || samples[1].RelHumidityPerc != 86.5 {
		t.Errorf("second sample %+v, want T=2.1 RH=86.5", samples[1])
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "sea location", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL}
	if _, err := c.Fetch(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestGetPrefersCache(t *testing.T) {
	cached := []Sample{
		{Timestamp: yearStart(), AmbientTempC: -1.5, RelHumidityPerc: 90},
	}
	path := filepath.Join(t.TempDir(), "tmy.json")
	if err := Save(path, cached); err != nil {
		t.Fatal(err)
	}

	// No server behind the endpoint; a fetch attempt would fail loudly.
	c := &Client{Endpoint: "http://127.0.0.1:1"}
	samples, err := c.Get(context.Background(), path, 48.85, 2.35)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 || samples[0].AmbientTempC != -1.5 {
		t.Fatalf("expected cached sample back, got %+v", samples)
	}
}

func TestGetFetchesAndCaches(t *testing.T) {
	srv := newPVGISServer(t)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "tmy.json")
	c := &Client{Endpoint: srv.URL}

	samples, err := c.Get(context.Background(), path, 48.85, 2.35)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("expected cache written, got %v", err)
	}
	if len(reloaded) != 3 || reloaded[0].AmbientTempC != 2.5 {
		t.Fatalf("cache roundtrip mismatch: %+v", reloaded)
	}
}

func TestInterpolate(t *testing.T) {
	hourly := []Sample{
		{Timestamp: yearStart(), AmbientTempC: 0, RelHumidityPerc: 80},
		{Timestamp: yearStart().Add(time.Hour), AmbientTempC: 2, RelHumidityPerc: 90},
	}

	out, err := Interpolate(hourly, 30*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(out))
	}

	if out[1].AmbientTempC != 1 || out[1].RelHumidityPerc != 85 {
		t.Errorf("midpoint = %+v, want T=1 RH=85", out[1])
	}
	if got := out[1].Timestamp; !got.Equal(yearStart().Add(30 * time.Minute)) {
		t.Errorf("midpoint timestamp %v, want %v", got, yearStart().Add(30*time.Minute))
	}
	// The tail of the last hour closes the cycle toward the first sample.
	if out[3].AmbientTempC != 1 {
		t.Errorf("wrap sample = %v, want 1", out[3].AmbientTempC)
	}
}

func TestInterpolateHourKeepsSeries(t *testing.T) {
	hourly := []Sample{{AmbientTempC: 1}, {AmbientTempC: 2}}
	out, err := Interpolate(hourly, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].AmbientTempC != 1 || out[1].AmbientTempC != 2 {
		t.Fatalf("expected unchanged series, got %+v", out)
	}
}

func TestInterpolateErrors(t *testing.T) {
	if _, err := Interpolate(nil, 30*time.Minute); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Got %v, want %v", err, ErrEmptySeries)
	}
	if _, err := Interpolate([]Sample{{}}, 7*time.Minute); err == nil {
		t.Error("expected error for bucket not dividing the hour")
	}
	if _, err := Interpolate([]Sample{{}}, 2*time.Hour); err == nil {
		t.Error("expected error for bucket above one hour")
	}
}
