package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/eoslab/internal/eos"
	"github.com/san-kum/eoslab/internal/substance"
)

const (
	DefaultModel    = "PR"
	DefaultMolecule = "water"
	DefaultT        = 373.15  // K
	DefaultP        = 1.01325 // bar
	DefaultFormat   = "text"
	DefaultPMin     = 0.1 // bar
	DefaultPMax     = 100 // bar
	DefaultPoints   = 60
)

var ErrInvalidConfig = errors.New("config: invalid")

var formats = []string{"text", "json", "yaml", "csv"}

// Config describes one solve. Pressures are in bar.
type Config struct {
	Model    string         `yaml:"model"`
	Molecule string         `yaml:"molecule,omitempty"`
	Tc       float64        `yaml:"tc,omitempty"`
	Pc       float64        `yaml:"pc,omitempty"`
	Omega    float64        `yaml:"omega,omitempty"`
	T        float64        `yaml:"t"`
	P        float64        `yaml:"p"`
	ZSplit   float64        `yaml:"z_split,omitempty"`
	Format   string         `yaml:"format"`
	Isotherm IsothermConfig `yaml:"isotherm"`
}

type IsothermConfig struct {
	PMin   float64 `yaml:"p_min"`
	PMax   float64 `yaml:"p_max"`
	Points int     `yaml:"points"`
	Log    bool    `yaml:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    DefaultModel,
		Molecule: DefaultMolecule,
		T:        DefaultT,
		P:        DefaultP,
		ZSplit:   eos.DefaultZSplit,
		Format:   DefaultFormat,
		Isotherm: IsothermConfig{
			PMin:   DefaultPMin,
			PMax:   DefaultPMax,
			Points: DefaultPoints,
			Log:    true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the model, output format and isotherm grid. Physical
// inputs are checked by eos when solving.
func (c *Config) Validate() error {
	if _, err := eos.ParseModel(c.Model); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !isFormat(c.Format) {
		return fmt.Errorf("%w: format %q (available: %s)", ErrInvalidConfig, c.Format, strings.Join(formats, ", "))
	}
	iso := c.Isotherm
	if iso.Points < 2 {
		return fmt.Errorf("%w: isotherm needs at least 2 points, got %d", ErrInvalidConfig, iso.Points)
	}
	if !(iso.PMin > 0) || !(iso.PMax > iso.PMin) {
		return fmt.Errorf("%w: isotherm range must satisfy 0 < p_min < p_max, got [%g, %g]", ErrInvalidConfig, iso.PMin, iso.PMax)
	}
	return nil
}

func isFormat(f string) bool {
	for _, known := range formats {
		if f == known {
			return true
		}
	}
	return false
}

// GetModel parses the configured model.
func (c *Config) GetModel() (eos.Model, error) {
	return eos.ParseModel(c.Model)
}

// State resolves the critical constants and returns the solve inputs in SI
// units. Explicit Tc and Pc override the molecule table.
func (c *Config) State() (eos.State, error) {
	if c.Tc > 0 || c.Pc > 0 || c.Molecule == "" {
		return eos.State{
			Tc:    c.Tc,
			Pc:    c.Pc * eos.Bar,
			Omega: c.Omega,
			T:     c.T,
			P:     c.P * eos.Bar,
		}, nil
	}
	s, err := substance.Lookup(c.Molecule)
	if err != nil {
		return eos.State{}, err
	}
	return s.State(c.T, c.P), nil
}

// Options returns the classification options.
func (c *Config) Options() eos.Options {
	return eos.Options{ZSplit: c.ZSplit}
}
