package config

import "sort"

var Presets = map[string]*Config{
	"water-boiling": {
		Model: "PR", Molecule: "water", T: 373.15, P: 1.01325,
	},
	"water-steam": {
		Model: "PR", Molecule: "water", T: 573.15, P: 10,
	},
	"co2-critical": {
		Model: "SRK", Molecule: "carbon dioxide", T: 304.13, P: 73.77,
	},
	"co2-dense": {
		Model: "PR", Molecule: "carbon dioxide", T: 310, P: 150,
	},
	"methane-pipeline": {
		Model: "SRK", Molecule: "methane", T: 288.15, P: 70,
	},
	"propane-tank": {
		Model: "PR", Molecule: "propane", T: 293.15, P: 8.5,
	},
	"nitrogen-ideal": {
		Model: "vdW", Molecule: "nitrogen", T: 300, P: 1,
	},
}

// GetPreset returns a copy of the named preset over the defaults, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Model = p.Model
	cfg.Molecule = p.Molecule
	cfg.Tc, cfg.Pc, cfg.Omega = p.Tc, p.Pc, p.Omega
	cfg.T, cfg.P = p.T, p.P
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
