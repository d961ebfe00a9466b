// Package sim contains the time-stepping engine that advances the coupled
// battery / inner-wall / outer-wall temperatures over an ambient series and
// records every directional energy flow per timestep.
package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/Agrid-Dev/battbox/internal/heatflow"
	"github.com/Agrid-Dev/battbox/internal/thermal"
)

// HeaterParams configures the heater pad and its hysteresis behavior.
type HeaterParams struct {
	Enabled         bool
	ThresholdTempC  float64       // inner wall temperature that triggers the heater
	PowerW          float64
	MinOn           time.Duration // dwell floor once triggered
	BatteryTransfer float64       // fraction of heater power injected into the battery
}

func (h HeaterParams) Validate() error {
	if h.PowerW < 0 {
		return ErrNegativeHeaterPower
	}
	if h.BatteryTransfer < 0 || h.BatteryTransfer > 1 {
		return ErrInvalidBatteryTransfer
	}
	if h.MinOn < 0 {
		return ErrNegativeHeaterMinOn
	}
	return nil
}

// Params configures one simulation run.
type Params struct {
	Network      thermal.Network
	BucketPeriod time.Duration // must match the sample spacing of the ambient series
	Heater       HeaterParams

	BatteryEmissivity      float64
	ThroughputLossFraction float64 // fraction of heater energy lost as battery heat
}

func (p Params) Validate() error {
	if p.BucketPeriod <= 0 {
		return ErrNonPositiveBucket
	}
	if p.BatteryEmissivity <= 0 || p.BatteryEmissivity > 1 {
		return ErrInvalidEmissivity
	}
	if p.ThroughputLossFraction < 0 || p.ThroughputLossFraction >= 1 {
		return ErrInvalidLossFraction
	}
	return p.Heater.Validate()
}

// Sample is one timestep of external input: ambient conditions plus the
// battery throughput loss already converted to Joules by the load layer.
type Sample struct {
	Timestamp       time.Time
	AmbientTempC    float64
	RelHumidityPerc float64
	LossInputJ      float64
}

// State is the mutable per-run triple plus the heater state machine. One
// instance lives for the duration of a run; Step mutates it in place.
type State struct {
	BatteryTempC  float64
	BoxInnerTempC float64
	BoxOuterTempC float64

	heaterOn      bool
	heaterElapsed int
}

// NewState initializes all three temperatures to the first ambient sample,
// heater off.
func NewState(initialTempC float64) State {
	return State{
		BatteryTempC:  initialTempC,
		BoxInnerTempC: initialTempC,
		BoxOuterTempC: initialTempC,
	}
}

// HeaterOn reports whether the heater is currently in the ON state.
func (s *State) HeaterOn() bool { return s.heaterOn }

// Engine advances the state one bucket at a time. It is strictly sequential:
// every flow within a step sees the temperatures already mutated by the flows
// before it, and every step sees the state left by the previous one.
type Engine struct {
	p            Params
	minOnSteps   int
	heaterPowerJ float64
}

// New validates the run parameters and prepares the engine. The heater dwell
// floor is converted to whole timesteps once, so the hysteresis is
// independent of the bucket duration.
func New(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		p:            p,
		minOnSteps:   int(math.Round(p.Heater.MinOn.Seconds() / p.BucketPeriod.Seconds())),
		heaterPowerJ: p.Heater.PowerW * p.BucketPeriod.Seconds(),
	}, nil
}

// Run executes the full series in one synchronous pass. The run is
// all-or-nothing: a non-finite temperature aborts with an error and no
// partial results.
func (e *Engine) Run(series []Sample) ([]Record, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}

	state := NewState(series[0].AmbientTempC)
	records := make([]Record, len(series))
	for i, sample := range series {
		records[i] = e.Step(&state, sample)
		if !state.finite() {
			return nil, fmt.Errorf("%w at step %d (%s)", ErrNonFiniteTemperature, i, sample.Timestamp)
		}
	}
	return records, nil
}

func (s *State) finite() bool {
	for _, t := range []float64{s.BatteryTempC, s.BoxInnerTempC, s.BoxOuterTempC} {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return false
		}
	}
	return true
}

// Step advances the state by one bucket and returns the flow ledger for it.
// The stage order below is part of the contract and must not be reordered:
// each stage reads the temperatures as mutated by the stages before it.
func (e *Engine) Step(st *State, sample Sample) Record {
	net := e.p.Network
	dt := e.p.BucketPeriod
	heater := e.p.Heater

	rec := Record{
		Timestamp:           sample.Timestamp,
		AmbientTempC:        sample.AmbientTempC,
		RelHumidityPerc:     sample.RelHumidityPerc,
		BatteryLossesInputJ: sample.LossInputJ,
		BatteryNetEnergyJ:   sample.LossInputJ,
	}

	// Stage 1: dwell bookkeeping. The heater only turns off once it has been
	// on for the configured number of steps; temperature is not consulted.
	if st.heaterOn {
		if st.heaterElapsed < e.minOnSteps {
			st.heaterElapsed++
		} else {
			st.heaterOn = false
			st.heaterElapsed = 0
		}
	}

	// Stage 2: trigger check and heater injection. Re-triggering restarts the
	// dwell floor. The battery receives its share of heater power plus the
	// throughput losses and a loss fraction of the heater power; the inner
	// wall receives the remainder of the heater power.
	if heater.Enabled && st.BoxInnerTempC <= heater.ThresholdTempC {
		st.heaterOn = true
		st.heaterElapsed = 0
	}
	if heater.Enabled && st.heaterOn {
		toBatteryJ := e.heaterPowerJ * heater.BatteryTransfer
		toWallJ := e.heaterPowerJ * (1 - heater.BatteryTransfer)
		heaterLossJ := e.heaterPowerJ * e.p.ThroughputLossFraction

		rec.BatteryHeaterInputJ += e.heaterPowerJ
		rec.BatteryLossesInputJ += heaterLossJ
		batteryInjectionJ := rec.BatteryLossesInputJ + toBatteryJ

		rec.BatteryNetEnergyJ += heaterLossJ + toBatteryJ
		rec.HeaterToBatteryJ += toBatteryJ
		rec.HeaterToBoxInnerJ += toWallJ
		rec.BoxInnerNetEnergyJ += toWallJ

		st.BatteryTempC = heatflow.ApplyDelta(
			st.BatteryTempC, batteryInjectionJ, net.BatteryHeatCap, net.BatteryMassKg)
		st.BoxInnerTempC = heatflow.ApplyDelta(
			st.BoxInnerTempC, toWallJ, net.WallHeatCapacity, net.WallMassKg)
	}

	// Stage 3: battery → inner wall conduction. Skipped while the inner wall
	// is at or under the heater threshold; in that regime the heater loss
	// fraction substitutes for the conductive term.
	if st.BoxInnerTempC > heater.ThresholdTempC {
		condJ := heatflow.Flow(st.BatteryTempC, st.BoxInnerTempC, net.BatteryConductiveRes, dt)

		rec.BatteryCondToBoxInnerJ += condJ
		rec.BatteryNetEnergyJ -= condJ
		rec.BoxInnerCondToBatteryJ -= condJ
		rec.BoxInnerNetEnergyJ += condJ

		st.BatteryTempC = heatflow.ApplyDelta(
			st.BatteryTempC, -condJ, net.BatteryHeatCap, net.BatteryMassKg)
		st.BoxInnerTempC = heatflow.ApplyDelta(
			st.BoxInnerTempC, condJ, net.WallHeatCapacity, net.WallMassKg)
	}

	// Stage 4: battery → inner wall convection, always active.
	convJ := heatflow.Flow(st.BatteryTempC, st.BoxInnerTempC, net.BatteryConvectiveRes, dt)

	st.BatteryTempC = heatflow.ApplyDelta(
		st.BatteryTempC, -convJ, net.BatteryHeatCap, net.BatteryMassKg)
	st.BoxInnerTempC = heatflow.ApplyDelta(
		st.BoxInnerTempC, convJ, net.WallHeatCapacity, net.WallMassKg)

	rec.BatteryConvToBoxInnerJ += convJ
	rec.BatteryNetEnergyJ -= convJ
	rec.BoxInnerConvToBatteryJ -= convJ
	rec.BoxInnerNetEnergyJ += convJ

	// Stage 5: enclosed radiative exchange between battery and inner wall.
	radiJ := heatflow.EnclosedRadiativeFlow(
		net.TotalBatteryAreaM2, net.TotalBoxAreaM2,
		e.p.BatteryEmissivity, net.InnerEmissivity,
		st.BatteryTempC, st.BoxInnerTempC, dt)

	st.BatteryTempC = heatflow.ApplyDelta(
		st.BatteryTempC, -radiJ, net.BatteryHeatCap, net.BatteryMassKg)
	st.BoxInnerTempC = heatflow.ApplyDelta(
		st.BoxInnerTempC, radiJ, net.WallHeatCapacity, net.WallMassKg)

	rec.BatteryRadiToBoxInnerJ += radiJ
	rec.BatteryNetEnergyJ -= radiJ
	rec.BoxInnerRadiToBatteryJ -= radiJ
	rec.BoxInnerNetEnergyJ += radiJ

	// Stage 6: inner wall → outer wall conduction through the composite wall.
	wallJ := heatflow.Flow(st.BoxInnerTempC, st.BoxOuterTempC, net.BoxCompositeRes, dt)

	rec.BoxInnerToBoxOuterJ += wallJ
	rec.BoxInnerNetEnergyJ -= wallJ
	rec.BoxOuterToBoxInnerJ -= wallJ
	rec.BoxOuterNetEnergyJ += wallJ

	st.BoxInnerTempC = heatflow.ApplyDelta(
		st.BoxInnerTempC, -wallJ, net.WallHeatCapacity, net.WallMassKg)
	st.BoxOuterTempC = heatflow.ApplyDelta(
		st.BoxOuterTempC, wallJ, net.WallHeatCapacity, net.WallMassKg)

	// Stage 7: outer wall → environment over three independent channels, all
	// computed against the same ambient sample, with a single combined
	// temperature update.
	envConvJ := heatflow.Flow(st.BoxOuterTempC, sample.AmbientTempC, net.BoxOuterConvectiveRes, dt)
	envCondJ := heatflow.Flow(st.BoxOuterTempC, sample.AmbientTempC, net.BoxOuterConductiveRes, dt)
	envRadiJ := heatflow.RadiativeFlow(
		net.TotalBoxAreaM2, net.OuterEmissivity, st.BoxOuterTempC, sample.AmbientTempC, dt)
	envTotalJ := envConvJ + envCondJ + envRadiJ

	st.BoxOuterTempC = heatflow.ApplyDelta(
		st.BoxOuterTempC, -envTotalJ, net.WallHeatCapacity, net.WallMassKg)

	rec.BoxOuterConvToEnvJ += envConvJ
	rec.BoxOuterConvFromEnvJ -= envConvJ
	rec.BoxOuterCondToEnvJ += envCondJ
	rec.BoxOuterCondFromEnvJ -= envCondJ
	rec.BoxOuterRadiToEnvJ += envRadiJ
	rec.BoxOuterRadiFromEnvJ -= envRadiJ
	rec.BoxOuterNetEnergyJ -= envTotalJ

	rec.BatteryTempC = st.BatteryTempC
	rec.BoxInnerTempC = st.BoxInnerTempC
	rec.BoxOuterTempC = st.BoxOuterTempC
	return rec
}
