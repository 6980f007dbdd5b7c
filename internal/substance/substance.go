// Package substance holds the built-in table of pure-component critical
// constants.
package substance

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/san-kum/eoslab/internal/eos"
)

var ErrUnknown = errors.New("substance: unknown molecule")

//go:embed molecules.csv
var table []byte

// Substance is one row of the table. Pc is in bar.
type Substance struct {
	Name    string  `json:"name" yaml:"name"`
	Formula string  `json:"formula" yaml:"formula"`
	Tc      float64 `json:"critical_temp" yaml:"critical_temp"`
	Pc      float64 `json:"critical_pressure" yaml:"critical_pressure"`
	Omega   float64 `json:"acentric_factor" yaml:"acentric_factor"`
}

// State builds an eos.State at temperature t (K) and pressure p (bar).
func (s Substance) State(t, p float64) eos.State {
	return eos.State{
		Tc:    s.Tc,
		Pc:    s.Pc * eos.Bar,
		Omega: s.Omega,
		T:     t,
		P:     p * eos.Bar,
	}
}

var (
	loadOnce  sync.Once
	loaded    []Substance
	index     map[string]int
	loadError error
)

func load() {
	loaded, loadError = parse(table)
	if loadError != nil {
		return
	}
	index = make(map[string]int, 2*len(loaded))
	for i, s := range loaded {
		index[strings.ToLower(s.Name)] = i
		index[strings.ToLower(s.Formula)] = i
	}
}

func parse(data []byte) ([]Substance, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("substance: read table: %w", err)
	}
	if len(records) < 2 {
		return nil, errors.New("substance: empty table")
	}

	out := make([]Substance, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 5 {
			return nil, fmt.Errorf("substance: line %d: expected 5 fields, got %d", i+2, len(rec))
		}
		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j+2]), 64)
			if err != nil {
				return nil, fmt.Errorf("substance: line %d: %w", i+2, err)
			}
			vals[j] = v
		}
		out = append(out, Substance{
			Name:    strings.TrimSpace(rec[0]),
			Formula: strings.TrimSpace(rec[1]),
			Tc:      vals[0],
			Pc:      vals[1],
			Omega:   vals[2],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Lookup finds a molecule by name or formula, case-insensitively.
func Lookup(name string) (Substance, error) {
	loadOnce.Do(load)
	if loadError != nil {
		return Substance{}, loadError
	}
	i, ok := index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Substance{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return loaded[i], nil
}

// All returns the table sorted by name.
func All() []Substance {
	loadOnce.Do(load)
	out := make([]Substance, len(loaded))
	copy(out, loaded)
	return out
}

// Names returns the molecule names in table order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

// EstimateOmega estimates the acentric factor from the normal boiling point
// tb (K) with the Lee-Kesler vapor pressure correlation. pc is in bar.
func EstimateOmega(tb, tc, pc float64) float64 {
	pbr := 1.01325 / pc
	tbr := tb / tc
	num := math.Log(pbr) - 5.92714 + 6.09648/tbr + 1.28862*math.Log(tbr) - 0.169347*math.Pow(tbr, 6)
	den := 15.2518 - 15.6875/tbr - 13.4721*math.Log(tbr) + 0.43577*math.Pow(tbr, 6)
	return num / den
}
