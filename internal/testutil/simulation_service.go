package testutil

import "github.com/Agrid-Dev/battbox/internal/replay"

// FakeSimulationService is a reusable fake implementing
// ports.SimulationService. Put ONLY what multiple test packages need here.
type FakeSimulationService struct {
	S replay.Snapshot

	SetHeaterEnabledCalled bool
	SetHeaterEnabledArg    bool

	SetHeaterThresholdCalled bool
	SetHeaterThresholdArg    float64
	SetHeaterThresholdErr    error
}

func NewFakeSimulationService() *FakeSimulationService {
	return &FakeSimulationService{
		S: replay.Snapshot{
			AmbientTempC:     2.5,
			RelHumidityPerc:  85,
			BatteryTempC:     8.25,
			BoxInnerTempC:    6.5,
			BoxOuterTempC:    3.75,
			HeaterEnabled:    true,
			HeaterThresholdC: 5.0,
		},
	}
}

func (f *FakeSimulationService) Get() replay.Snapshot { return f.S }

func (f *FakeSimulationService) SetHeaterEnabled(on bool) {
	f.SetHeaterEnabledCalled = true
	f.SetHeaterEnabledArg = on
	f.S.HeaterEnabled = on
}

func (f *FakeSimulationService) SetHeaterThreshold(v float64) error {
	f.SetHeaterThresholdCalled = true
	f.SetHeaterThresholdArg = v
	if f.SetHeaterThresholdErr != nil {
		return f.SetHeaterThresholdErr
	}
	f.S.HeaterThresholdC = v
	return nil
}
