package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Agrid-Dev/battbox/cmd/app"
	httpctrl "github.com/Agrid-Dev/battbox/internal/controllers/http"
	modbusctrl "github.com/Agrid-Dev/battbox/internal/controllers/modbus"
	mqttctrl "github.com/Agrid-Dev/battbox/internal/controllers/mqtt"
	"github.com/Agrid-Dev/battbox/internal/loadprofile"
	"github.com/Agrid-Dev/battbox/internal/replay"
	"github.com/Agrid-Dev/battbox/internal/results"
	"github.com/Agrid-Dev/battbox/internal/sim"
	"github.com/Agrid-Dev/battbox/internal/thermal"
	"github.com/Agrid-Dev/battbox/internal/tmy"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file (.yaml/.yml/.json)")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	series, err := buildSeries(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	thermalParams, err := cfg.ThermalParams()
	if err != nil {
		log.Fatal(err)
	}
	network, err := thermal.Build(thermalParams)
	if err != nil {
		log.Fatal(err)
	}
	params := cfg.SimParams(network)

	engine, err := sim.New(params)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("running %d buckets of %s", len(series), cfg.BucketPeriod())
	records, err := engine.Run(series)
	if err != nil {
		log.Fatal(err)
	}
	if err := results.WriteFile(cfg.Output.CSVPath, records); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d records to %s", len(records), cfg.Output.CSVPath)

	if !cfg.Replay.Enabled {
		return
	}
	if err := serve(ctx, cfg, params, series); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

// buildSeries assembles the per-bucket input series: ambient conditions from
// the TMY service and battery throughput losses from the load profile.
func buildSeries(ctx context.Context, cfg app.Config) ([]sim.Sample, error) {
	client := &tmy.Client{Endpoint: cfg.TMY.Endpoint}
	weather, err := client.Get(ctx, cfg.TMY.CachePath, cfg.Location.Latitude, cfg.Location.Longitude)
	if err != nil {
		return nil, err
	}
	weather, err = tmy.Interpolate(weather, cfg.BucketPeriod())
	if err != nil {
		return nil, err
	}

	var load []loadprofile.Point
	if cfg.Load.CSVPath != "" {
		load, err = loadprofile.ReadFile(cfg.Load.CSVPath)
	} else {
		load, err = loadprofile.Generate(loadprofile.Params{
			DailyKWh:  cfg.Load.DailyKWh,
			DailyStd:  cfg.Load.DailyStd,
			HourlyStd: cfg.Load.HourlyStd,
		}, rand.New(rand.NewSource(cfg.Load.Seed)))
	}
	if err != nil {
		return nil, err
	}
	load, err = loadprofile.Interpolate(load, cfg.BucketPeriod())
	if err != nil {
		return nil, err
	}

	n := len(weather)
	if len(load) < n {
		n = len(load)
	}
	series := make([]sim.Sample, n)
	for i := range series {
		series[i] = sim.Sample{
			Timestamp:       weather[i].Timestamp,
			AmbientTempC:    weather[i].AmbientTempC,
			RelHumidityPerc: weather[i].RelHumidityPerc,
			LossInputJ: loadprofile.ThroughputLossJoules(
				load[i].EnergyUseKWh, cfg.Sim.ThroughputLossFraction),
		}
	}
	return series, nil
}

// serve replays the run in wall-clock time behind the enabled controllers
// until the context is canceled.
func serve(ctx context.Context, cfg app.Config, params sim.Params, series []sim.Sample) error {
	rep, err := replay.New(params, series)
	if err != nil {
		return err
	}

	interval := cfg.Replay.TickInterval
	if interval <= 0 {
		interval = time.Second
	}

	runners := []func(context.Context) error{
		func(ctx context.Context) error { return rep.Run(ctx, interval) },
	}

	if cfg.Controllers.HTTP.Enabled {
		srv := httpctrl.New(rep, cfg.Controllers.HTTP.Addr, cfg.DeviceID)
		runners = append(runners, srv.Run)
		log.Printf("http listening on %s", cfg.Controllers.HTTP.Addr)
	}
	if cfg.Controllers.MQTT.Enabled {
		ctrl, err := mqttctrl.New(rep, mqttctrl.Config{
			DeviceID:        cfg.DeviceID,
			BrokerURL:       cfg.Controllers.MQTT.BrokerURL,
			ClientID:        cfg.Controllers.MQTT.ClientID,
			BaseTopic:       cfg.Controllers.MQTT.BaseTopic,
			QoS:             cfg.Controllers.MQTT.QoS,
			RetainSnapshot:  cfg.Controllers.MQTT.RetainSnapshot,
			PublishInterval: cfg.Controllers.MQTT.PublishInterval,
			Username:        cfg.Controllers.MQTT.Username,
			Password:        cfg.Controllers.MQTT.Password,
		})
		if err != nil {
			return err
		}
		runners = append(runners, ctrl.Run)
		log.Printf("mqtt publishing to %s", cfg.Controllers.MQTT.BrokerURL)
	}
	if cfg.Controllers.MODBUS.Enabled {
		ctrl, err := modbusctrl.New(rep, modbusctrl.Config{
			DeviceID:     cfg.DeviceID,
			Addr:         cfg.Controllers.MODBUS.Addr,
			UnitID:       cfg.Controllers.MODBUS.UnitID,
			SyncInterval: cfg.Controllers.MODBUS.SyncInterval,
		})
		if err != nil {
			return err
		}
		runners = append(runners, ctrl.Run)
		log.Printf("modbus listening on %s", cfg.Controllers.MODBUS.Addr)
	}

	errCh := make(chan error, len(runners))
	for _, run := range runners {
		go func(run func(context.Context) error) {
			errCh <- run(ctx)
		}(run)
	}
	return <-errCh
}
