// Package results persists the per-timestep ledger produced by a run.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Agrid-Dev/battbox/internal/sim"
)

// Column names mirror the ledger fields; downstream tooling keys on them.
var header = []string{
	"Datetime",
	"Ambient_Temperature_C",
	"Relative_Humidity_Perc",
	"Battery_Temp_C",
	"Box_Inner_Temp_C",
	"Box_Outer_Temp_C",
	"Battery_Heater_Input_J",
	"Battery_Losses_Input_J",
	"Battery_Net_Energy_J",
	"Battery_Cond_to_Box_Inner_Energy_J",
	"Battery_Conv_to_Box_Inner_Energy_J",
	"Battery_Radi_to_Box_Inner_Energy_J",
	"Heater_to_Battery_Energy_J",
	"Heater_to_Wall_Energy_J",
	"Box_Inner_Net_Energy_J",
	"Box_Inner_Cond_to_Battery_Energy_J",
	"Box_Inner_Conv_to_Battery_Energy_J",
	"Box_Inner_Radi_to_Battery_Energy_J",
	"Box_Inner_to_Box_Outer_Energy_J",
	"Box_Outer_Net_Energy_J",
	"Box_Outer_to_Box_Inner_Energy_J",
	"Box_Outer_Cond_to_Environment_Energy_J",
	"Box_Outer_Conv_to_Environment_Energy_J",
	"Box_Outer_Radi_to_Environment_Energy_J",
	"Box_Outer_Cond_from_Environment_Energy_J",
	"Box_Outer_Conv_from_Environment_Energy_J",
	"Box_Outer_Radi_from_Environment_Energy_J",
}

// WriteCSV streams the records as CSV, one row per timestep.
func WriteCSV(w io.Writer, records []sim.Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("results: write header: %w", err)
	}

	row := make([]string, len(header))
	for _, rec := range records {
		row[0] = rec.Timestamp.Format(time.RFC3339)
		for i, v := range []float64{
			rec.AmbientTempC,
			rec.RelHumidityPerc,
			rec.BatteryTempC,
			rec.BoxInnerTempC,
			rec.BoxOuterTempC,
			rec.BatteryHeaterInputJ,
			rec.BatteryLossesInputJ,
			rec.BatteryNetEnergyJ,
			rec.BatteryCondToBoxInnerJ,
			rec.BatteryConvToBoxInnerJ,
			rec.BatteryRadiToBoxInnerJ,
			rec.HeaterToBatteryJ,
			rec.HeaterToBoxInnerJ,
			rec.BoxInnerNetEnergyJ,
			rec.BoxInnerCondToBatteryJ,
			rec.BoxInnerConvToBatteryJ,
			rec.BoxInnerRadiToBatteryJ,
			rec.BoxInnerToBoxOuterJ,
			rec.BoxOuterNetEnergyJ,
			rec.BoxOuterToBoxInnerJ,
			rec.BoxOuterCondToEnvJ,
			rec.BoxOuterConvToEnvJ,
			rec.BoxOuterRadiToEnvJ,
			rec.BoxOuterCondFromEnvJ,
			rec.BoxOuterConvFromEnvJ,
			rec.BoxOuterRadiFromEnvJ,
		} {
			row[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("results: write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("results: flush: %w", err)
	}
	return nil
}

// WriteFile writes the records to a CSV file at path.
func WriteFile(path string, records []sim.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("results: create %s: %w", path, err)
	}

	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("results: close %s: %w", path, err)
	}
	return nil
}
