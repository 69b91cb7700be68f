package controller

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// SerialPortNone selects the in-process simulated module instead of a serial connection
	SerialPortNone = "None (simulated)"

	defaultBaudRate = "115200"
	defaultModuleID = "SIMULATED"

	defaultSimulatedMagnetStep = 1000
)

// Config selects how the host reaches a flap module and where results are recorded
type Config struct {
	SerialPort string `yaml:"serial_port"`
	BaudRate   string `yaml:"baud_rate"`

	// JournalAddr is the base URL of a journal server. Measurements are not recorded when it is empty
	JournalAddr string `yaml:"journal_addr"`

	// SettingsFile persists the settings of the simulated module. An empty value keeps them in memory
	SettingsFile string `yaml:"settings_file"`
	ModuleID     string `yaml:"module_id"`

	Simulation SimulationConfig `yaml:"simulation"`
}

// SimulationConfig places the wheel and magnet of the simulated module, in physical steps
type SimulationConfig struct {
	StartStep  int64 `yaml:"start_step"`
	MagnetStep int64 `yaml:"magnet_step"`
}

// ConfigFromEnv reads SERIAL_PORT, BAUD_RATE, JOURNAL_ADDR, SETTINGS_FILE, and MODULE_ID
func ConfigFromEnv() Config {
	return Config{
		SerialPort:   os.Getenv("SERIAL_PORT"),
		BaudRate:     os.Getenv("BAUD_RATE"),
		JournalAddr:  os.Getenv("JOURNAL_ADDR"),
		SettingsFile: os.Getenv("SETTINGS_FILE"),
		ModuleID:     os.Getenv("MODULE_ID"),
	}
}

// LoadConfig reads a YAML config file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "error reading config")
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "error parsing config %q", path)
	}

	return cfg, nil
}

// Simulated is true when no serial port is selected
func (c Config) Simulated() bool {
	return c.SerialPort == "" || c.SerialPort == SerialPortNone
}

// Validate checks the config without changing it
func (c Config) Validate() error {
	if c.BaudRate != "" {
		baud, err := strconv.Atoi(c.BaudRate)
		if err != nil || baud <= 0 {
			return errors.Errorf("invalid baud_rate %q", c.BaudRate)
		}
	}

	if c.Simulated() {
		return nil
	}

	if c.SettingsFile != "" {
		return errors.New("settings_file only applies to the simulated module")
	}

	return nil
}

// Normalize fills in defaults. It must be called after Validate.
func (c *Config) Normalize() {
	if c.BaudRate == "" {
		c.BaudRate = defaultBaudRate
	}
	if c.Simulated() {
		c.SerialPort = SerialPortNone
		if c.ModuleID == "" {
			c.ModuleID = defaultModuleID
		}
		if c.Simulation == (SimulationConfig{}) {
			c.Simulation.MagnetStep = defaultSimulatedMagnetStep
		}
	}
}

func (c Config) baudRate() int {
	baud, _ := strconv.Atoi(c.BaudRate)
	return baud
}
