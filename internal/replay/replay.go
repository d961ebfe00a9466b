// Package replay steps a simulation run in wall-clock time and exposes the
// live state to the controllers, turning the batch engine into a mock
// battery-box device that integrations can poll and tune.
package replay

import (
	"context"
	"sync"
	"time"

	"github.com/Agrid-Dev/battbox/internal/sim"
)

// Snapshot is the externally visible state of the replay.
type Snapshot struct {
	Timestamp       time.Time
	AmbientTempC    float64
	RelHumidityPerc float64

	BatteryTempC  float64
	BoxInnerTempC float64
	BoxOuterTempC float64

	HeaterOn         bool
	HeaterEnabled    bool
	HeaterThresholdC float64

	Step int
}

// Replay owns one engine run and advances it one bucket per tick.
type Replay struct {
	mu     sync.RWMutex
	params sim.Params
	series []sim.Sample

	engine *sim.Engine
	state  sim.State
	step   int
	last   sim.Record
}

// New prepares a replay over the given series. The series must be non-empty
// and parameters valid; both are checked by the engine constructor.
func New(params sim.Params, series []sim.Sample) (*Replay, error) {
	engine, err := sim.New(params)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, sim.ErrEmptySeries
	}
	return &Replay{
		params: params,
		series: series,
		engine: engine,
		state:  sim.NewState(series[0].AmbientTempC),
	}, nil
}

// Get returns the current snapshot.
func (r *Replay) Get() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sample := r.series[r.step%len(r.series)]
	return Snapshot{
		Timestamp:        sample.Timestamp,
		AmbientTempC:     sample.AmbientTempC,
		RelHumidityPerc:  sample.RelHumidityPerc,
		BatteryTempC:     r.state.BatteryTempC,
		BoxInnerTempC:    r.state.BoxInnerTempC,
		BoxOuterTempC:    r.state.BoxOuterTempC,
		HeaterOn:         r.state.HeaterOn(),
		HeaterEnabled:    r.params.Heater.Enabled,
		HeaterThresholdC: r.params.Heater.ThresholdTempC,
		Step:             r.step,
	}
}

// SetHeaterEnabled toggles the heater for subsequent steps.
func (r *Replay) SetHeaterEnabled(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params.Heater.Enabled = on
	r.rebuild()
}

// SetHeaterThreshold changes the trigger temperature for subsequent steps.
// The threshold must stay within the physical range of the model.
func (r *Replay) SetHeaterThreshold(tempC float64) error {
	if tempC < -40 || tempC > 60 {
		return ErrThresholdOutOfRange
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params.Heater.ThresholdTempC = tempC
	r.rebuild()
	return nil
}

// rebuild refreshes the engine after a parameter change. Only heater fields
// change at runtime, so this cannot fail once New succeeded.
func (r *Replay) rebuild() {
	engine, err := sim.New(r.params)
	if err != nil {
		return
	}
	r.engine = engine
}

// Tick advances the replay by one bucket, wrapping around at the end of the
// series so the device keeps producing data indefinitely.
func (r *Replay) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	sample := r.series[r.step%len(r.series)]
	r.last = r.engine.Step(&r.state, sample)
	r.step++
}

// Run advances the replay on the given wall-clock interval until the context
// is canceled.
func (r *Replay) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Tick()
		}
	}
}
