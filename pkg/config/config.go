package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial     SerialConfig     `yaml:"serial"`
	Filter     FilterConfig     `yaml:"filter"`
	Thermistor ThermistorConfig `yaml:"thermistor"`
	Light      LightConfig      `yaml:"light"`
	Report     ReportConfig     `yaml:"report"`
	Mock       MockConfig       `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// FilterConfig contains the per-channel IIR filter weights and the ambient
// light dark-coercion threshold. A weight w out of 256 gives a cutoff of
// Fs / (2 * pi * 256/w) at the 400 sps scan rate.
type FilterConfig struct {
	ReferenceWeight  int32  `yaml:"reference_weight"`
	ThermistorWeight int32  `yaml:"thermistor_weight"`
	LightWeight      int32  `yaml:"light_weight"`
	DarkThreshold    uint16 `yaml:"dark_threshold"`
}

// ThermistorConfig contains the Beta-model thermistor constants.
type ThermistorConfig struct {
	RReference float64 `yaml:"r_reference"` // series reference resistor (ohm)
	BConstant  float64 `yaml:"b_constant"`  // Beta constant (kelvin)
	RInfinity  float64 `yaml:"r_infinity"`  // R0 * e^(-B/T0)
}

// LightConfig contains the ambient light sensor calibration.
type LightConfig struct {
	Offset        int32 `yaml:"offset"`         // dark offset in percent
	LowThreshold  uint8 `yaml:"low_threshold"`  // LED on below this percent
	HighThreshold uint8 `yaml:"high_threshold"` // LED off above this percent
}

// ReportConfig contains status reporting parameters.
type ReportConfig struct {
	Divider int `yaml:"divider"` // drain cycles per status line
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	BatchInterval     time.Duration `yaml:"batch_interval"`      // time between readiness signals
	SamplesPerChannel int           `yaml:"samples_per_channel"` // samples per channel per batch
	ReferenceCount    uint16        `yaml:"reference_count"`     // simulated reference resistor ADC count
	MeanTemperature   float32       `yaml:"mean_temperature"`    // simulated mean temperature (deg C)
	TemperatureSwing  float32       `yaml:"temperature_swing"`   // simulated temperature amplitude (deg C)
	TemperaturePeriod time.Duration `yaml:"temperature_period"`  // simulated temperature cycle
	LightPeriod       time.Duration `yaml:"light_period"`        // simulated light cycle
	NoiseLevel        float32       `yaml:"noise_level"`         // noise amplitude in ADC counts
}

// Default returns a default configuration matching the reference board: a
// 10k NCP18XH103F03RB thermistor divider and an ALS photo-transistor, each
// channel scanned at 400 sps.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: 115200,
		},
		Filter: FilterConfig{
			ReferenceWeight:  160, // cutoff ~40 Hz
			ThermistorWeight: 160, // cutoff ~40 Hz
			LightWeight:      4,   // cutoff ~1 Hz
			DarkThreshold:    0xFFF0,
		},
		Thermistor: ThermistorConfig{
			RReference: 10000,
			BConstant:  3380,
			RInfinity:  0.1192855,
		},
		Light: LightConfig{
			Offset:        20,
			LowThreshold:  45,
			HighThreshold: 55,
		},
		Report: ReportConfig{
			Divider: 5, // one line per 500 ms at the 100 ms batch cadence
		},
		Mock: MockConfig{
			BatchInterval:     100 * time.Millisecond,
			SamplesPerChannel: 40,
			ReferenceCount:    2000,
			MeanTemperature:   25.0,
			TemperatureSwing:  4.0,
			TemperaturePeriod: 60 * time.Second,
			LightPeriod:       30 * time.Second,
			NoiseLevel:        2.0,
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

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Filter.ReferenceWeight == 0 {
		c.Filter.ReferenceWeight = def.Filter.ReferenceWeight
	}
	if c.Filter.ThermistorWeight == 0 {
		c.Filter.ThermistorWeight = def.Filter.ThermistorWeight
	}
	if c.Filter.LightWeight == 0 {
		c.Filter.LightWeight = def.Filter.LightWeight
	}
	if c.Filter.DarkThreshold == 0 {
		c.Filter.DarkThreshold = def.Filter.DarkThreshold
	}

	if c.Thermistor.RReference == 0 {
		c.Thermistor.RReference = def.Thermistor.RReference
	}
	if c.Thermistor.BConstant == 0 {
		c.Thermistor.BConstant = def.Thermistor.BConstant
	}
	if c.Thermistor.RInfinity == 0 {
		c.Thermistor.RInfinity = def.Thermistor.RInfinity
	}

	if c.Light.LowThreshold == 0 {
		c.Light.LowThreshold = def.Light.LowThreshold
	}
	if c.Light.HighThreshold == 0 {
		c.Light.HighThreshold = def.Light.HighThreshold
	}

	if c.Report.Divider == 0 {
		c.Report.Divider = def.Report.Divider
	}

	if c.Mock.BatchInterval == 0 {
		c.Mock.BatchInterval = def.Mock.BatchInterval
	}
	if c.Mock.SamplesPerChannel == 0 {
		c.Mock.SamplesPerChannel = def.Mock.SamplesPerChannel
	}
	if c.Mock.ReferenceCount == 0 {
		c.Mock.ReferenceCount = def.Mock.ReferenceCount
	}
	if c.Mock.TemperaturePeriod == 0 {
		c.Mock.TemperaturePeriod = def.Mock.TemperaturePeriod
	}
	if c.Mock.LightPeriod == 0 {
		c.Mock.LightPeriod = def.Mock.LightPeriod
	}
}
