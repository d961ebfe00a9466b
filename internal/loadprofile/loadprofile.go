// Package loadprofile produces the annual electrical load series whose
// throughput losses are injected into the battery as heat. Profiles are
// either generated synthetically or read from an hourly CSV export.
package loadprofile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"
)

// HoursPerYear is the length of a non-leap annual hourly profile.
const HoursPerYear = 8760

// joulesPerKWh converts electrical energy to Joules.
const joulesPerKWh = 3_600_000

// Point is one entry of the load series.
type Point struct {
	Timestamp    time.Time
	EnergyUseKWh float64
}

var (
	ErrEmptyProfile      = errors.New("loadprofile: empty profile")
	ErrNonPositiveDemand = errors.New("loadprofile: daily demand must be positive")
)

// Params configures synthetic profile generation.
type Params struct {
	DailyKWh  float64
	DailyStd  float64 // std-dev of the shared per-day variability
	HourlyStd float64 // std-dev of the per-hour variability
}

func (p Params) Validate() error {
	if p.DailyKWh <= 0 {
		return ErrNonPositiveDemand
	}
	return nil
}

// Generate builds a synthetic hourly profile for one year: a flat base of
// DailyKWh/24 per hour scaled by 1 + dailyDeviation + hourlyDeviation, where
// the daily deviation is shared by all hours of a day. Deterministic for a
// given rng.
func Generate(p Params, rng *rand.Rand) ([]Point, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	baseKWh := p.DailyKWh / 24
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	points := make([]Point, HoursPerYear)
	var dailyDeviation float64
	for i := range points {
		if i%24 == 0 {
			dailyDeviation = rng.NormFloat64() * p.DailyStd
		}
		factor := 1 + dailyDeviation + rng.NormFloat64()*p.HourlyStd
		points[i] = Point{
			Timestamp:    start.Add(time.Duration(i) * time.Hour),
			EnergyUseKWh: baseKWh * factor,
		}
	}
	return points, nil
}

// ReadCSV parses an hourly profile with a header row and
// "Datetime,Energy_Use_kWh" columns. Leap days are dropped so the profile
// lines up with the synthetic model year.
func ReadCSV(r io.Reader) ([]Point, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("loadprofile: parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyProfile
	}

	points := make([]Point, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("loadprofile: row needs 2 columns, got %d", len(row))
		}
		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			// smart-meter exports commonly omit the zone
			ts, err = time.Parse("2006-01-02 15:04:05", row[0])
			if err != nil {
				return nil, fmt.Errorf("loadprofile: parse timestamp %q: %w", row[0], err)
			}
		}
		if ts.Month() == time.February && ts.Day() == 29 {
			continue
		}
		kwh, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("loadprofile: parse energy %q: %w", row[1], err)
		}
		points = append(points, Point{Timestamp: ts, EnergyUseKWh: kwh})
	}
	if len(points) == 0 {
		return nil, ErrEmptyProfile
	}
	return points, nil
}

// ReadFile is ReadCSV over a file on disk.
func ReadFile(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadprofile: open: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// Interpolate expands an hourly profile to the given bucket spacing. Energy
// values are linearly interpolated then divided by the buckets-per-hour
// factor, so the per-bucket energies of an hour sum to that hour's energy.
func Interpolate(hourly []Point, bucket time.Duration) ([]Point, error) {
	if len(hourly) == 0 {
		return nil, ErrEmptyProfile
	}
	if bucket <= 0 || bucket > time.Hour || time.Hour%bucket != 0 {
		return nil, fmt.Errorf("loadprofile: bucket %v must evenly divide one hour", bucket)
	}
	if bucket == time.Hour {
		out := make([]Point, len(hourly))
		copy(out, hourly)
		return out, nil
	}

	perHour := int(time.Hour / bucket)
	division := float64(perHour)
	out := make([]Point, 0, len(hourly)*perHour)
	for i, cur := range hourly {
		next := hourly[(i+1)%len(hourly)]
		for j := 0; j < perHour; j++ {
			frac := float64(j) / float64(perHour)
			kwh := cur.EnergyUseKWh + (next.EnergyUseKWh-cur.EnergyUseKWh)*frac
			out = append(out, Point{
				Timestamp:    cur.Timestamp.Add(time.Duration(j) * bucket),
				EnergyUseKWh: kwh / division,
			})
		}
	}
	return out, nil
}

// ThroughputLossJoules converts an electrical energy use to the heat in
// Joules dissipated inside the battery at the given loss fraction.
func ThroughputLossJoules(energyKWh, lossFraction float64) float64 {
	return energyKWh * joulesPerKWh * lossFraction
}
