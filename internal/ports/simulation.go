package ports

import "github.com/Agrid-Dev/battbox/internal/replay"

// SimulationService is the control-plane port used by controllers
// (HTTP/MQTT/Modbus) to observe and tune a live replay.
type SimulationService interface {
	Get() replay.Snapshot
	SetHeaterEnabled(bool)
	SetHeaterThreshold(float64) error
}
