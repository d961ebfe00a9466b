package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Agrid-Dev/battbox/internal/thermal"
)

func testNetwork() thermal.Network {
	cfg := Defaults()
	p, err := cfg.ThermalParams()
	if err != nil {
		panic(err)
	}
	n, err := thermal.Build(p)
	if err != nil {
		panic(err)
	}
	return n
}

func TestEnvKeyTransform_TopLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DEVICE_ID", "device_id"},
		{"ADDR", "addr"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnvKeyTransform_Controllers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CONTROLLERS_HTTP_ADDR", "controllers.http.addr"},
		{"CONTROLLERS_MQTT_PUBLISH_INTERVAL", "controllers.mqtt.publish_interval"},
		{"CONTROLLERS_MODBUS_UNIT_ID", "controllers.modbus.unit_id"},
		{"CONTROLLERS_HTTP", "controllers_http"}, // not enough parts -> fallback
		{"controllers_HTTP_addr", "controllers.http.addr"},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnvKeyTransform_Sections(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HEATER_THRESHOLD_C", "heater.threshold_c"},
		{"HEATER_MIN_ON_MINUTES", "heater.min_on_minutes"},
		{"BATTERY_HEAT_CAPACITY", "battery.heat_capacity"},
		{"LOCATION_LATITUDE", "location.latitude"},
		{"SIM_BUCKET_MINUTES", "sim.bucket_minutes"},
		{"TMY_CACHE_PATH", "tmy.cache_path"},
		{"HEATER", "heater"}, // not enough parts -> passthrough
		{"OUTPUT_CSV_PATH", "output.csv_path"},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DeviceID != "default" {
		t.Errorf("DeviceID = %q, want default", cfg.DeviceID)
	}
	if cfg.Sim.BucketMinutes != 10 {
		t.Errorf("BucketMinutes = %d, want 10", cfg.Sim.BucketMinutes)
	}
	if cfg.Controllers.HTTP.Addr != ":8080" {
		t.Errorf("HTTP addr = %q, want :8080", cfg.Controllers.HTTP.Addr)
	}
	if len(cfg.Box.Layers) != 2 || cfg.Box.Layers[0].Material != "polystyrene" {
		t.Errorf("unexpected default layers: %+v", cfg.Box.Layers)
	}
}

func TestLoadConfigYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data, err := yaml.Marshal(map[string]any{
		"device_id": "box7",
		"heater": map[string]any{
			"threshold_c": 4,
		},
		"box": map[string]any{
			"layers": []map[string]any{
				{"material": "pir", "thickness_m": 0.04},
			},
		},
		"controllers": map[string]any{
			"http": map[string]any{
				"enabled": true,
				"addr":    ":9090",
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DeviceID != "box7" {
		t.Errorf("DeviceID = %q, want box7", cfg.DeviceID)
	}
	if cfg.Heater.ThresholdC != 4 {
		t.Errorf("ThresholdC = %v, want 4", cfg.Heater.ThresholdC)
	}
	if len(cfg.Box.Layers) != 1 || cfg.Box.Layers[0].Material != "pir" {
		t.Errorf("layers = %+v, want the single pir layer", cfg.Box.Layers)
	}
	if cfg.Controllers.HTTP.Addr != ":9090" || !cfg.Controllers.HTTP.Enabled {
		t.Errorf("http controller = %+v, want enabled on :9090", cfg.Controllers.HTTP)
	}
	// Untouched sections keep their defaults.
	if cfg.Battery.MassKg != 30 {
		t.Errorf("battery mass = %v, want default 30", cfg.Battery.MassKg)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("BATTBOX_HEATER_THRESHOLD_C", "7.5")
	t.Setenv("BATTBOX_DEVICE_ID", "from-env")
	t.Setenv("BATTBOX_CONTROLLERS_HTTP_ADDR", ":7070")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Heater.ThresholdC != 7.5 {
		t.Errorf("ThresholdC = %v, want 7.5", cfg.Heater.ThresholdC)
	}
	if cfg.DeviceID != "from-env" {
		t.Errorf("DeviceID = %q, want from-env", cfg.DeviceID)
	}
	if cfg.Controllers.HTTP.Addr != ":7070" {
		t.Errorf("HTTP addr = %q, want :7070", cfg.Controllers.HTTP.Addr)
	}
}

func TestLoadConfigUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestThermalParams(t *testing.T) {
	cfg := Defaults()

	p, err := cfg.ThermalParams()
	if err != nil {
		t.Fatal(err)
	}

	if len(p.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(p.Layers))
	}
	// polystyrene resolved from the reference table
	if p.Layers[0].Conductivity != 0.04 || p.Layers[0].ThicknessM != 0.05 {
		t.Errorf("inner layer = %+v, want polystyrene at 0.05 m", p.Layers[0])
	}
	if p.BatteryMassKg != 30 || p.BatteryHeatCapacity != 900 {
		t.Errorf("battery = %v kg / %v J/kgK, want 30/900", p.BatteryMassKg, p.BatteryHeatCapacity)
	}
	if p.Battery.LengthM != 0.48 || p.Box.LengthM != 0.6 {
		t.Errorf("dimensions not mapped: %+v / %+v", p.Battery, p.Box)
	}
}

func TestThermalParamsErrors(t *testing.T) {
	t.Run("unknown material", func(t *testing.T) {
		cfg := Defaults()
		cfg.Box.Layers[0].Material = "unobtainium"
		if _, err := cfg.ThermalParams(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("no layers", func(t *testing.T) {
		cfg := Defaults()
		cfg.Box.Layers = nil
		if _, err := cfg.ThermalParams(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestSimParams(t *testing.T) {
	cfg := Defaults()
	cfg.Heater.MinOnMinutes = 30

	p := cfg.SimParams(testNetwork())

	if p.BucketPeriod != 10*time.Minute {
		t.Errorf("BucketPeriod = %v, want 10m", p.BucketPeriod)
	}
	if p.Heater.MinOn != 30*time.Minute {
		t.Errorf("MinOn = %v, want 30m", p.Heater.MinOn)
	}
	if p.Heater.ThresholdTempC != 5 || p.Heater.PowerW != 50 {
		t.Errorf("heater = %+v, want threshold 5 / power 50", p.Heater)
	}
	if p.BatteryEmissivity != 0.9 || p.ThroughputLossFraction != 0.05 {
		t.Errorf("emissivity/loss = %v/%v, want 0.9/0.05", p.BatteryEmissivity, p.ThroughputLossFraction)
	}
}
