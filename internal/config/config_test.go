package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/eoslab/internal/eos"
	"github.com/san-kum/eoslab/internal/substance"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "PR" {
		t.Errorf("expected model PR, got %s", cfg.Model)
	}
	if cfg.ZSplit != eos.DefaultZSplit {
		t.Errorf("expected z_split %v, got %v", eos.DefaultZSplit, cfg.ZSplit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("water-boiling")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.T != 373.15 {
		t.Errorf("expected T 373.15, got %f", cfg.T)
	}
	if cfg.Format != DefaultFormat {
		t.Errorf("expected defaults under preset, got format %q", cfg.Format)
	}

	cfg.T = 1
	if Presets["water-boiling"].T != 373.15 {
		t.Error("GetPreset must not alias the preset table")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		cfg := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
		m, err := cfg.GetModel()
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		st, err := cfg.State()
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		if _, err := eos.Solve(m, st); err != nil {
			t.Errorf("preset %s does not solve: %v", name, err)
		}
	}
}

func TestState(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want eos.State
	}{
		{
			name: "explicit constants in bar",
			cfg:  Config{Tc: 500, Pc: 40, Omega: 0.2, T: 400, P: 2},
			want: eos.State{Tc: 500, Pc: 40e5, Omega: 0.2, T: 400, P: 2e5},
		},
		{
			name: "constants override molecule",
			cfg:  Config{Molecule: "water", Tc: 500, Pc: 40, T: 400, P: 2},
			want: eos.State{Tc: 500, Pc: 40e5, T: 400, P: 2e5},
		},
		{
			name: "molecule",
			cfg:  Config{Molecule: "CO2", T: 300, P: 50},
			want: eos.State{Tc: 304.13, Pc: 73.77e5, Omega: 0.224, T: 300, P: 50e5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.State()
			if err != nil {
				t.Fatal(err)
			}
			for _, f := range [][2]float64{
				{got.Tc, tt.want.Tc},
				{got.Pc, tt.want.Pc},
				{got.Omega, tt.want.Omega},
				{got.T, tt.want.T},
				{got.P, tt.want.P},
			} {
				if math.Abs(f[0]-f[1]) > 1e-9*math.Max(1, math.Abs(f[1])) {
					t.Errorf("got %+v, want %+v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestStateUnknownMolecule(t *testing.T) {
	cfg := Config{Molecule: "kryptonite", T: 300, P: 1}
	if _, err := cfg.State(); !errors.Is(err, substance.ErrUnknown) {
		t.Errorf("expected substance.ErrUnknown, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"full model name", func(c *Config) { c.Model = "Soave-Redlich-Kwong" }, true},
		{"unknown model", func(c *Config) { c.Model = "BWR" }, false},
		{"unknown format", func(c *Config) { c.Format = "xml" }, false},
		{"single point", func(c *Config) { c.Isotherm.Points = 1 }, false},
		{"inverted range", func(c *Config) { c.Isotherm.PMin, c.Isotherm.PMax = 10, 1 }, false},
		{"zero pmin", func(c *Config) { c.Isotherm.PMin = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eoslab.yaml")

	cfg := DefaultConfig()
	cfg.Model = "SRK"
	cfg.Molecule = "propane"
	cfg.T = 320
	cfg.Isotherm.Points = 25
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model != "SRK" || loaded.Molecule != "propane" || loaded.T != 320 || loaded.Isotherm.Points != 25 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("model: RK\nt: 250\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "RK" || cfg.T != 250 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.P != DefaultP || cfg.Format != DefaultFormat || cfg.Isotherm.Points != DefaultPoints {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("model: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
