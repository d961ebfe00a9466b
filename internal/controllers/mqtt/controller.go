package mqttctrl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Agrid-Dev/battbox/internal/ports"
)

type Config struct {
	// Identity
	DeviceID string

	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS             byte
	RetainSnapshot  bool
	PublishInterval time.Duration

	Username string
	Password string
}

type Controller struct {
	svc ports.SimulationService
	cfg Config

	client mqtt.Client
}

func New(svc ports.SimulationService, cfg Config) (*Controller, error) {
	// ---- defaults ----

	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}

	if cfg.DeviceID == "" {
		return nil, errors.New("mqtt: DeviceID is required")
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "battbox/" + cfg.DeviceID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "battbox-" + cfg.DeviceID
	}
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = 1 * time.Second
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Controller{
		svc: svc,
		cfg: cfg,
	}, nil
}

func (c *Controller) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(c.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	// Subscribe when connected/reconnected.
	opts.OnConnect = func(cl mqtt.Client) {
		// Subscribe to all set commands under BaseTopic.
		topic := c.topic("set/+")
		token := cl.Subscribe(topic, c.cfg.QoS, c.onMessage)
		token.Wait()
		// If subscribe fails, paho exposes token.Error().
	}

	c.client = mqtt.NewClient(opts)
	tok := c.client.Connect()
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}

	// Publish loop: publish snapshot on interval, and only when changed.
	ticker := time.NewTicker(c.cfg.PublishInterval)
	defer ticker.Stop()

	// publish immediately once
	last := c.svc.Get()
	c.publishSnapshot()

	for {
		select {
		case <-ctx.Done():
			c.client.Disconnect(250)
			return ctx.Err()

		case <-ticker.C:
			cur := c.svc.Get()
			if !reflect.DeepEqual(cur, last) {
				c.publishSnapshot()
				last = cur
			}
		}
	}
}

func (c *Controller) publishSnapshot() {
	s := c.svc.Get()
	dto := snapshotDTO{
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
	b, _ := json.Marshal(dto)
	c.client.Publish(c.topic("snapshot"), c.cfg.QoS, c.cfg.RetainSnapshot, b)
}

type snapshotDTO struct {
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

// Command payload format: {"value": ...}
type valueReq[T any] struct {
	Value *T `json:"value"`
}

func (c *Controller) onMessage(_ mqtt.Client, msg mqtt.Message) {
	// topic format: <base>/set/<field>
	t := msg.Topic()
	prefix := c.cfg.BaseTopic + "/set/"
	if !strings.HasPrefix(t, prefix) {
		return
	}
	field := strings.TrimPrefix(t, prefix)

	payload := msg.Payload()

	// Dispatch by field
	switch field {
	case "heater_enabled":
		v, err := decodeValueStrict[bool](payload)
		if err != nil {
			return
		}
		c.svc.SetHeaterEnabled(v)

	case "heater_threshold":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetHeaterThreshold(v)
	}
}

func (c *Controller) topic(suffix string) string {
	return strings.TrimRight(c.cfg.BaseTopic, "/") + "/" + suffix
}

func decodeValueStrict[T any](b []byte) (T, error) {
	var zero T
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var req valueReq[T]
	if err := dec.Decode(&req); err != nil {
		return zero, err
	}
	if req.Value == nil {
		return zero, errors.New("missing field 'value'")
	}
	return *req.Value, nil
}
