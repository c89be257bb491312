package config

import (
	"encoding/json"
	"os"
)

// DefaultPath is the config file used when none is given.
const DefaultPath = "annotator.json"

// Config holds runtime configuration for the annotator.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug      bool   `json:"debug"`
	DatasetDir string `json:"dataset_dir"`

	// Interaction
	MinBoxSize float64 `json:"min_box_size"`
	HandleSize float64 `json:"handle_size"`

	// Display
	MaxDisplayW      int  `json:"max_display_w"`
	MaxDisplayH      int  `json:"max_display_h"`
	RenderIntervalMs int  `json:"render_interval_ms"`
	DarkMode         bool `json:"dark_mode"`

	// Navigation persistence
	LastIndex int `json:"last_index"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		DatasetDir:       "dataset",
		MinBoxSize:       10,
		HandleSize:       8,
		MaxDisplayW:      1280,
		MaxDisplayH:      800,
		RenderIntervalMs: 16,
		DarkMode:         false,
		LastIndex:        0,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.DatasetDir == "" {
		c.DatasetDir = "dataset"
	}
	if c.MinBoxSize <= 0 {
		c.MinBoxSize = 10
	}
	if c.HandleSize <= 0 {
		c.HandleSize = 8
	}
	if c.MaxDisplayW < 100 {
		c.MaxDisplayW = 1280
	}
	if c.MaxDisplayH < 100 {
		c.MaxDisplayH = 800
	}
	if c.RenderIntervalMs <= 0 {
		c.RenderIntervalMs = 16
	}
	if c.RenderIntervalMs > 1000 {
		c.RenderIntervalMs = 1000
	}
	if c.LastIndex < 0 {
		c.LastIndex = 0
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
