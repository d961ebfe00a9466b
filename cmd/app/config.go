// Package app holds the configuration surface shared by the binaries:
// defaults, file and environment loading, and the conversion into the
// parameter structs of the simulation packages.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/Agrid-Dev/battbox/internal/geometry"
	"github.com/Agrid-Dev/battbox/internal/materials"
	"github.com/Agrid-Dev/battbox/internal/sim"
	"github.com/Agrid-Dev/battbox/internal/thermal"
)

// EnvPrefix guards which environment variables are considered overrides.
const EnvPrefix = "BATTBOX_"

type Config struct {
	DeviceID string `koanf:"device_id"`

	Location LocationConfig `koanf:"location"`
	TMY      TMYConfig      `koanf:"tmy"`
	Load     LoadProfileConfig `koanf:"load"`
	Battery  BatteryConfig  `koanf:"battery"`
	Box      BoxConfig      `koanf:"box"`
	Heater   HeaterConfig   `koanf:"heater"`
	Sim      SimConfig      `koanf:"sim"`
	Output   OutputConfig   `koanf:"output"`
	Replay   ReplayConfig   `koanf:"replay"`

	Controllers struct {
		HTTP   HTTPConfig   `koanf:"http"`
		MQTT   MQTTConfig   `koanf:"mqtt"`
		MODBUS ModbusConfig `koanf:"modbus"`
	} `koanf:"controllers"`
}

type LocationConfig struct {
	Latitude  float64 `koanf:"latitude"`
	Longitude float64 `koanf:"longitude"`
}

type TMYConfig struct {
	CachePath string `koanf:"cache_path"`
	Endpoint  string `koanf:"endpoint"`
}

type LoadProfileConfig struct {
	DailyKWh  float64 `koanf:"daily_kwh"`
	DailyStd  float64 `koanf:"daily_std"`
	HourlyStd float64 `koanf:"hourly_std"`
	Seed      int64   `koanf:"seed"`
	CSVPath   string  `koanf:"csv_path"` // overrides the synthetic profile
}

type BatteryConfig struct {
	LengthM      float64 `koanf:"length_m"`
	WidthM       float64 `koanf:"width_m"`
	HeightM      float64 `koanf:"height_m"`
	MassKg       float64 `koanf:"mass_kg"`
	HeatCapacity float64 `koanf:"heat_capacity"`
	Emissivity   float64 `koanf:"emissivity"`
	FaceMask     []int   `koanf:"face_mask"`
}

type LayerConfig struct {
	Material   string  `koanf:"material"`
	ThicknessM float64 `koanf:"thickness_m"`
}

type BoxConfig struct {
	LengthM  float64       `koanf:"length_m"`
	WidthM   float64       `koanf:"width_m"`
	HeightM  float64       `koanf:"height_m"`
	Layers   []LayerConfig `koanf:"layers"` // inner liner first, 1 or 2 entries
	FaceMask []int         `koanf:"face_mask"`
}

type HeaterConfig struct {
	Enabled         bool    `koanf:"enabled"`
	ThresholdC      float64 `koanf:"threshold_c"`
	PowerW          float64 `koanf:"power_w"`
	MinOnMinutes    float64 `koanf:"min_on_minutes"`
	BatteryTransfer float64 `koanf:"battery_transfer"`
}

type SimConfig struct {
	BucketMinutes          int     `koanf:"bucket_minutes"`
	ThroughputLossFraction float64 `koanf:"throughput_loss_fraction"`
}

type OutputConfig struct {
	CSVPath string `koanf:"csv_path"`
}

type ReplayConfig struct {
	Enabled      bool          `koanf:"enabled"`
	TickInterval time.Duration `koanf:"tick_interval"`
}

type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type MQTTConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BrokerURL       string        `koanf:"broker_url"`
	ClientID        string        `koanf:"client_id"`
	BaseTopic       string        `koanf:"base_topic"`
	QoS             byte          `koanf:"qos"`
	RetainSnapshot  bool          `koanf:"retain_snapshot"`
	PublishInterval time.Duration `koanf:"publish_interval"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
}

type ModbusConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Addr         string        `koanf:"addr"`
	UnitID       byte          `koanf:"unit_id"`
	SyncInterval time.Duration `koanf:"sync_interval"`
}

// Defaults mirrors a small sealed lead-acid pack in a plywood/polystyrene box.
func Defaults() Config {
	var cfg Config
	cfg.DeviceID = "default"

	cfg.Location = LocationConfig{Latitude: 48.85, Longitude: 2.35}
	cfg.TMY = TMYConfig{CachePath: "tmy_cache.json"}
	cfg.Load = LoadProfileConfig{DailyKWh: 10, DailyStd: 0.1, HourlyStd: 0.05, Seed: 1}

	cfg.Battery = BatteryConfig{
		LengthM:      0.48,
		WidthM:       0.17,
		HeightM:      0.24,
		MassKg:       30,
		HeatCapacity: 900,
		Emissivity:   0.9,
	}
	cfg.Box = BoxConfig{
		LengthM: 0.6,
		WidthM:  0.4,
		HeightM: 0.4,
		Layers: []LayerConfig{
			{Material: "polystyrene", ThicknessM: 0.05},
			{Material: "plywood", ThicknessM: 0.015},
		},
	}
	cfg.Heater = HeaterConfig{
		Enabled:         true,
		ThresholdC:      5,
		PowerW:          50,
		MinOnMinutes:    30,
		BatteryTransfer: 0.5,
	}
	cfg.Sim = SimConfig{BucketMinutes: 10, ThroughputLossFraction: 0.05}
	cfg.Output = OutputConfig{CSVPath: "battbox_results.csv"}
	cfg.Replay = ReplayConfig{TickInterval: 1 * time.Second}

	cfg.Controllers.HTTP.Addr = ":8080"
	cfg.Controllers.MQTT.PublishInterval = 1 * time.Second
	cfg.Controllers.MODBUS.UnitID = 1
	return cfg
}

// LoadConfig layers defaults, an optional yaml/json file, and BATTBOX_*
// environment overrides, in that order.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("load config %s: %w", path, err)
			}
			// Config file missing → defaults plus env only.
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKeyTransform(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return kyaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config extension %q", ext)
	}
}

// envSections are the config sections an environment key may address. Longer
// names are listed first so CONTROLLERS_HTTP_ADDR resolves before a bare
// section match could.
var envSections = []string{
	"controllers_http",
	"controllers_mqtt",
	"controllers_modbus",
	"location",
	"tmy",
	"load",
	"battery",
	"box",
	"heater",
	"sim",
	"output",
	"replay",
}

// envKeyTransform maps SECTION_SUB_KEY environment names onto the dotted
// config paths, e.g. CONTROLLERS_HTTP_ADDR → controllers.http.addr and
// HEATER_THRESHOLD_C → heater.threshold_c. Keys that address no known
// section pass through lowercased.
func envKeyTransform(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, section := range envSections {
		prefix := section + "_"
		if !strings.HasPrefix(k, prefix) || len(k) == len(prefix) {
			continue
		}
		dotted := strings.ReplaceAll(section, "_", ".")
		return dotted + "." + strings.TrimPrefix(k, prefix)
	}
	return k
}

// ThermalParams resolves the material names and assembles the network
// parameters.
func (c Config) ThermalParams() (thermal.Params, error) {
	if n := len(c.Box.Layers); n < 1 || n > 2 {
		return thermal.Params{}, fmt.Errorf("box needs 1 or 2 layers, got %d", n)
	}

	layers := make([]thermal.Layer, len(c.Box.Layers))
	for i, lc := range c.Box.Layers {
		props, err := materials.Lookup(lc.Material)
		if err != nil {
			return thermal.Params{}, err
		}
		layers[i] = thermal.Layer{
			ThicknessM:   lc.ThicknessM,
			Conductivity: props.Conductivity,
			HeatCapacity: props.HeatCapacity,
			Density:      props.Density,
			Emissivity:   props.Emissivity,
		}
	}

	return thermal.Params{
		Battery: geometry.Dimensions{
			LengthM: c.Battery.LengthM,
			WidthM:  c.Battery.WidthM,
			HeightM: c.Battery.HeightM,
		},
		Box: geometry.Dimensions{
			LengthM: c.Box.LengthM,
			WidthM:  c.Box.WidthM,
			HeightM: c.Box.HeightM,
		},
		BatteryMask:         faceMask(c.Battery.FaceMask),
		BoxMask:             faceMask(c.Box.FaceMask),
		Layers:              layers,
		BatteryMassKg:       c.Battery.MassKg,
		BatteryHeatCapacity: c.Battery.HeatCapacity,
	}, nil
}

// SimParams combines a built network with the run settings.
func (c Config) SimParams(network thermal.Network) sim.Params {
	return sim.Params{
		Network:      network,
		BucketPeriod: c.BucketPeriod(),
		Heater: sim.HeaterParams{
			Enabled:         c.Heater.Enabled,
			ThresholdTempC:  c.Heater.ThresholdC,
			PowerW:          c.Heater.PowerW,
			MinOn:           time.Duration(c.Heater.MinOnMinutes * float64(time.Minute)),
			BatteryTransfer: c.Heater.BatteryTransfer,
		},
		BatteryEmissivity:      c.Battery.Emissivity,
		ThroughputLossFraction: c.Sim.ThroughputLossFraction,
	}
}

// BucketPeriod is the simulation timestep.
func (c Config) BucketPeriod() time.Duration {
	return time.Duration(c.Sim.BucketMinutes) * time.Minute
}

func faceMask(values []int) geometry.FaceMask {
	if len(values) == 0 {
		return nil
	}
	return geometry.FaceMask(values)
}
