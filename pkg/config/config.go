package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fluidlab/gofluid/pkg/channel"
)

// Config represents the application configuration.
type Config struct {
	Serial   SerialConfig    `yaml:"serial"`
	Sampling SamplingConfig  `yaml:"sampling"`
	Channels []ChannelConfig `yaml:"channels"`
	Sim      SimConfig       `yaml:"sim"`
}

// SerialConfig contains serial link configuration. Durations are plain
// millisecond integers so the file stays hand-editable.
type SerialConfig struct {
	Port          string `yaml:"port"`  // empty means discover by description match
	Match         string `yaml:"match"` // substring to look for in port descriptions
	BaudRate      int    `yaml:"baud_rate"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
	OpenGraceMs   int    `yaml:"open_grace_ms"` // opening the port resets the board
}

// SamplingConfig contains acquisition parameters.
type SamplingConfig struct {
	SamplePeriodMs  int `yaml:"sample_period_ms"`
	DisplayPeriodMs int `yaml:"display_period_ms"` // never shorter than the sample period
	SettleMs        int `yaml:"settle_ms"`         // wait between request and read
	Window          int `yaml:"window"`            // values retained per channel
}

// ChannelConfig declares one telemetry channel in acquisition order.
type ChannelConfig struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"` // "uint" or "float32"
}

// SimConfig contains simulated board configuration.
type SimConfig struct {
	BaseFlow   float64 `yaml:"base_flow"`   // center of the simulated flow signal (mL/min)
	FlowSwing  float64 `yaml:"flow_swing"`  // sine amplitude around the base
	PeriodMs   int     `yaml:"period_ms"`   // full sine period
	NoiseLevel float64 `yaml:"noise_level"` // jitter on the analog counts
}

// ReadTimeout returns the per-read timeout as a duration.
func (c SerialConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

// OpenGrace returns the post-open settle delay as a duration.
func (c SerialConfig) OpenGrace() time.Duration {
	return time.Duration(c.OpenGraceMs) * time.Millisecond
}

// SamplePeriod returns the acquisition cadence as a duration.
func (c SamplingConfig) SamplePeriod() time.Duration {
	return time.Duration(c.SamplePeriodMs) * time.Millisecond
}

// DisplayPeriod returns the presentation cadence as a duration.
func (c SamplingConfig) DisplayPeriod() time.Duration {
	return time.Duration(c.DisplayPeriodMs) * time.Millisecond
}

// Settle returns the request settle delay as a duration.
func (c SamplingConfig) Settle() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

// Period returns the sim signal period as a duration.
func (c SimConfig) Period() time.Duration {
	return time.Duration(c.PeriodMs) * time.Millisecond
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:          "", // discover by description match
			Match:         "Arduino",
			BaudRate:      9600,
			ReadTimeoutMs: 50,
			OpenGraceMs:   2000,
		},
		Sampling: SamplingConfig{
			SamplePeriodMs:  100,
			DisplayPeriodMs: 110,
			SettleMs:        20,
			Window:          50,
		},
		Channels: []ChannelConfig{
			{ID: "A0", Kind: "uint"},
			{ID: "A1", Kind: "uint"},
			{ID: "FS", Kind: "float32"},
		},
		Sim: SimConfig{
			BaseFlow:   6.0,
			FlowSwing:  1.5,
			PeriodMs:   8000,
			NoiseLevel: 4,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Registry builds the channel registry declared by the configuration,
// preserving declaration order.
func (c *Config) Registry() (*channel.Registry, error) {
	channels := make([]channel.Channel, 0, len(c.Channels))
	for _, cc := range c.Channels {
		kind, err := channel.ParseKind(cc.Kind)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", cc.ID, err)
		}
		channels = append(channels, channel.Channel{ID: channel.ID(cc.ID), Kind: kind})
	}

	reg, err := channel.NewRegistry(channels...)
	if err != nil {
		return nil, fmt.Errorf("invalid channel list: %w", err)
	}
	return reg, nil
}

// ensureDefaults ensures that all required fields have default values if
// missing. The serial port is deliberately left alone: an empty port
// selects discovery.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Match == "" {
		c.Serial.Match = def.Serial.Match
	}
	if c.Serial.BaudRate <= 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.ReadTimeoutMs <= 0 {
		c.Serial.ReadTimeoutMs = def.Serial.ReadTimeoutMs
	}
	if c.Serial.OpenGraceMs <= 0 {
		c.Serial.OpenGraceMs = def.Serial.OpenGraceMs
	}

	if c.Sampling.SamplePeriodMs <= 0 {
		c.Sampling.SamplePeriodMs = def.Sampling.SamplePeriodMs
	}
	if c.Sampling.DisplayPeriodMs <= 0 {
		c.Sampling.DisplayPeriodMs = def.Sampling.DisplayPeriodMs
	}
	// Presenting faster than sampling would only repaint identical data.
	if c.Sampling.DisplayPeriodMs < c.Sampling.SamplePeriodMs {
		c.Sampling.DisplayPeriodMs = c.Sampling.SamplePeriodMs
	}
	if c.Sampling.SettleMs <= 0 {
		c.Sampling.SettleMs = def.Sampling.SettleMs
	}
	if c.Sampling.Window <= 0 {
		c.Sampling.Window = def.Sampling.Window
	}

	if len(c.Channels) == 0 {
		c.Channels = def.Channels
	}

	if c.Sim.BaseFlow == 0 {
		c.Sim.BaseFlow = def.Sim.BaseFlow
	}
	if c.Sim.FlowSwing == 0 {
		c.Sim.FlowSwing = def.Sim.FlowSwing
	}
	if c.Sim.PeriodMs <= 0 {
		c.Sim.PeriodMs = def.Sim.PeriodMs
	}
	if c.Sim.NoiseLevel == 0 {
		c.Sim.NoiseLevel = def.Sim.NoiseLevel
	}
}
