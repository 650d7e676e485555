package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"panelctl/internal/panel"
)

// SPIConfig selects the serial port used to reach the panel command
// channel through the bridge.
type SPIConfig struct {
	// Port is the periph.io SPI port name; empty selects the system
	// default (typically /dev/spidev0.0).
	Port string `yaml:"port" json:"port"`
	// Hz is the bus clock. 0 falls back to a conservative 2MHz.
	Hz int64 `yaml:"hz" json:"hz"`
}

// PinsConfig names the GPIO lines around the panel. Names follow
// periph.io conventions ("GPIO23" style BCM names on a Raspberry Pi).
type PinsConfig struct {
	// Reset is the panel reset line. Driven high to release the controller.
	Reset string `yaml:"reset" json:"reset"`
	// Power is the rail enable line.
	Power string `yaml:"power" json:"power"`
	// PowerActiveLow marks boards whose rail enable is inverted.
	PowerActiveLow bool `yaml:"power_active_low" json:"power_active_low"`
	// DC is the data/command select of the serial bridge.
	DC string `yaml:"dc" json:"dc"`
	// Aux is the secondary enable line claimed transiently during power
	// transitions. Empty disables it.
	Aux string `yaml:"aux" json:"aux"`
}

// ScheduleConfig holds cron-style specs for unattended blanking. Empty
// specs disable the corresponding job.
type ScheduleConfig struct {
	// Off blanks the display (disable).
	Off string `yaml:"off" json:"off"`
	// On wakes it again (enable).
	On string `yaml:"on" json:"on"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the control API.
	Listen string `yaml:"listen" json:"listen"`

	// Revision selects the hardware-revision policy: "a" or "b".
	Revision string `yaml:"revision" json:"revision"`

	SPI  SPIConfig  `yaml:"spi" json:"spi"`
	Pins PinsConfig `yaml:"pins" json:"pins"`

	// Brightness is applied after a successful enable. 0..255.
	Brightness int `yaml:"brightness" json:"brightness"`

	// Diagnostics turns on the post-init read-back regardless of revision.
	Diagnostics bool `yaml:"diagnostics" json:"diagnostics"`

	Schedule ScheduleConfig `yaml:"schedule" json:"schedule"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   "127.0.0.1:8080",
		Revision: "a",
		SPI:      SPIConfig{Port: "", Hz: 2_000_000},
		Pins: PinsConfig{
			Reset: "GPIO24",
			Power: "GPIO23",
			DC:    "GPIO25",
			Aux:   "GPIO11",
		},
		Brightness: 255,
		LogLevel:   "info",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	switch strings.ToLower(c.Revision) {
	case "a", "b":
		c.Revision = strings.ToLower(c.Revision)
	default:
		c.Revision = "a"
	}
	if c.SPI.Hz <= 0 {
		c.SPI.Hz = 2_000_000
	}
	if c.Brightness <= 0 || c.Brightness > 255 {
		c.Brightness = 255
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Profile returns the panel revision policy selected by this config, with
// the diagnostics override applied.
func (c *Config) Profile() (panel.Profile, error) {
	var prof panel.Profile
	switch c.Revision {
	case "a":
		prof = panel.RevisionA()
	case "b":
		prof = panel.RevisionB()
	default:
		return prof, fmt.Errorf("config: unknown panel revision %q", c.Revision)
	}
	if c.Diagnostics {
		prof.DiagnosticRead = true
	}
	return prof, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path, atomically
// via a temp file + rename, with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".panelctl-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
