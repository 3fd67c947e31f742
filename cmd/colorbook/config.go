package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the optional TOML configuration. Command-line flags override
// its values.
//
//	template = "flower"
//	format = "jpeg"
//	scale = 2
//	background = "#FFFFFF"
type Config struct {
	Template   string  `toml:"template"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Script     string  `toml:"script"`
	Output     string  `toml:"output"`
	Format     string  `toml:"format"`
	Scale      float64 `toml:"scale"`
	Background string  `toml:"background"`
	Verbose    bool    `toml:"verbose"`
}

func defaultConfig() Config {
	return Config{
		Width:  600,
		Height: 400,
		Format: "png",
		Scale:  1,
	}
}

// loadConfig reads path over the defaults. Unknown keys are an error.
func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}
