package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Agrid-Dev/battbox/internal/ports"
	"github.com/Agrid-Dev/battbox/internal/replay"
)

type Server struct {
	svc      ports.SimulationService
	srv      *http.Server
	deviceID string
}

// New returns a runnable server.
func New(svc ports.SimulationService, addr string, deviceID string) *Server {
	mux := http.NewServeMux()
	s := &Server{svc: svc, deviceID: deviceID}

	// Read
	mux.HandleFunc("GET /v1", s.handleGet)

	// Write: one endpoint per variable
	mux.HandleFunc("POST /v1/heater_enabled", s.handlePostHeaterEnabled)
	mux.HandleFunc("POST /v1/heater_threshold", s.handlePostHeaterThreshold)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ---- DTOs ----

type snapshotDTO struct {
	DeviceID         string  `json:"device_id"`
	Timestamp        string  `json:"timestamp"`
	AmbientTempC     float64 `json:"ambient_temperature_c"`
	RelHumidityPerc  float64 `json:"relative_humidity_perc"`
	BatteryTempC     float64 `json:"battery_temperature_c"`
	BoxInnerTempC    float64 `json:"box_inner_temperature_c"`
	BoxOuterTempC    float64 `json:"box_outer_temperature_c"`
	HeaterOn         bool    `json:"heater_on"`
	HeaterEnabled    bool    `json:"heater_enabled"`
	HeaterThresholdC float64 `json:"heater_threshold_c"`
	Step             int     `json:"step"`
}

func toDTO(s replay.Snapshot) snapshotDTO {
	return snapshotDTO{
		Timestamp:        s.Timestamp.Format(time.RFC3339),
		AmbientTempC:     s.AmbientTempC,
		RelHumidityPerc:  s.RelHumidityPerc,
		BatteryTempC:     s.BatteryTempC,
		BoxInnerTempC:    s.BoxInnerTempC,
		BoxOuterTempC:    s.BoxOuterTempC,
		HeaterOn:         s.HeaterOn,
		HeaterEnabled:    s.HeaterEnabled,
		HeaterThresholdC: s.HeaterThresholdC,
		Step:             s.Step,
	}
}

// ---- Handlers ----

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request) {
	s.respondSnapshot(w)
}

func (s *Server) handlePostHeaterEnabled(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v bool) error {
		s.svc.SetHeaterEnabled(v)
		return nil
	})
}

func (s *Server) handlePostHeaterThreshold(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetHeaterThreshold(v)
	})
}

// ---- generic helpers ----
func (s *Server) respondSnapshot(w http.ResponseWriter) {
	dto := toDTO(s.svc.Get())
	dto.DeviceID = s.deviceID
	writeJSON(w, http.StatusOK, dto)
}

func postValue[T any](s *Server, w http.ResponseWriter, r *http.Request, apply func(T) error) {
	dec := json.NewDecoder(r.Body)
	var req struct {
		Value *T `json:"value"`
	}
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Value == nil {
		writeErr(w, http.StatusBadRequest, "missing field 'value'")
		return
	}

	if err := apply(*req.Value); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondSnapshot(w)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
