// Package config loads the CLI's YAML configuration. Every clustering
// field is optional; absent fields inherit the engine defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iahmedov/supercluster"
)

// Config is the top-level YAML schema.
type Config struct {
	Cluster Cluster `yaml:"cluster"`
	Server  Server  `yaml:"server"`
}

// Cluster mirrors supercluster.Options.
type Cluster struct {
	MinZoom    int     `yaml:"min_zoom"`
	MaxZoom    int     `yaml:"max_zoom"`
	MinPoints  int     `yaml:"min_points"`
	Radius     float64 `yaml:"radius"`
	Extent     float64 `yaml:"extent"`
	NodeSize   int     `yaml:"node_size"`
	GenerateID bool    `yaml:"generate_id"`
}

// Server configures the serve command.
type Server struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8081"},
	}
}

// Resolve finds the config file to load: an explicit path must exist,
// otherwise ./supercluster.yaml is used when present, otherwise the
// empty string signals the built-in defaults.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	if _, err := os.Stat("supercluster.yaml"); err == nil {
		return "supercluster.yaml", nil
	}
	return "", nil
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Options converts the cluster section into engine options; zero
// fields stay zero and pick up the engine defaults in New.
func (c Cluster) Options() supercluster.Options {
	return supercluster.Options{
		MinZoom:    c.MinZoom,
		MaxZoom:    c.MaxZoom,
		MinPoints:  c.MinPoints,
		Radius:     c.Radius,
		Extent:     c.Extent,
		NodeSize:   c.NodeSize,
		GenerateID: c.GenerateID,
	}
}
