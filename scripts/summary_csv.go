// Command summary_csv condenses a results CSV into one row per day:
// minimum and mean battery temperature, heater-on minutes, and heater energy.
// Useful for eyeballing a year-long run without loading half a million rows.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"
)

type dayStats struct {
	count       int
	sumTempC    float64
	minTempC    float64
	heaterOnMin float64
	heaterJ     float64
}

func main() {
	var inPath, outPath string
	flag.StringVar(&inPath, "in", "battbox_results.csv", "results CSV to summarize")
	flag.StringVar(&outPath, "out", "battbox_summary.csv", "per-day summary CSV to write")
	flag.Parse()

	if err := summarize(inPath, outPath); err != nil {
		log.Fatal(err)
	}
}

func summarize(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inPath, err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("parse %s: %w", inPath, err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("%s holds no data rows", inPath)
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[name] = i
	}
	for _, name := range []string{"Datetime", "Battery_Temp_C", "Battery_Heater_Input_J"} {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("%s misses column %q", inPath, name)
		}
	}

	var bucket time.Duration
	days := map[string]*dayStats{}
	var prev time.Time
	for rowIdx, row := range rows[1:] {
		ts, err := time.Parse(time.RFC3339, row[cols["Datetime"]])
		if err != nil {
			return fmt.Errorf("row %d: parse datetime: %w", rowIdx+2, err)
		}
		if rowIdx == 1 {
			bucket = ts.Sub(prev)
		}
		prev = ts

		tempC, err := strconv.ParseFloat(row[cols["Battery_Temp_C"]], 64)
		if err != nil {
			return fmt.Errorf("row %d: parse battery temp: %w", rowIdx+2, err)
		}
		heaterJ, err := strconv.ParseFloat(row[cols["Battery_Heater_Input_J"]], 64)
		if err != nil {
			return fmt.Errorf("row %d: parse heater energy: %w", rowIdx+2, err)
		}

		day := ts.Format("2006-01-02")
		st, ok := days[day]
		if !ok {
			st = &dayStats{minTempC: tempC}
			days[day] = st
		}
		st.count++
		st.sumTempC += tempC
		if tempC < st.minTempC {
			st.minTempC = tempC
		}
		st.heaterJ += heaterJ
		if heaterJ > 0 {
			st.heaterOnMin += bucket.Minutes()
		}
	}

	keys := make([]string, 0, len(days))
	for day := range days {
		keys = append(keys, day)
	}
	sort.Strings(keys)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	defer writer.Flush()

	if err := writer.Write([]string{
		"Date", "Battery_Temp_Min_C", "Battery_Temp_Mean_C", "Heater_On_Minutes", "Heater_Energy_kWh",
	}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, day := range keys {
		st := days[day]
		if err := writer.Write([]string{
			day,
			fmt.Sprintf("%.2f", st.minTempC),
			fmt.Sprintf("%.2f", st.sumTempC/float64(st.count)),
			fmt.Sprintf("%.0f", st.heaterOnMin),
			fmt.Sprintf("%.3f", st.heaterJ/3_600_000),
		}); err != nil {
			return fmt.Errorf("write row for %s: %w", day, err)
		}
	}
	return nil
}
