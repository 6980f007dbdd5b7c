// Package export writes solve results and sweeps as JSON, YAML, CSV and SVG.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/eoslab/internal/analysis"
	"github.com/san-kum/eoslab/internal/eos"
)

// Record is the exported form of one result. All values are SI.
type Record struct {
	Model  string         `json:"model" yaml:"model"`
	Name   string         `json:"name" yaml:"name"`
	State  eos.State      `json:"state" yaml:"state"`
	A      float64        `json:"A" yaml:"A"`
	B      float64        `json:"B" yaml:"B"`
	Roots  []float64      `json:"roots" yaml:"roots"`
	Liquid *eos.Departure `json:"liquid,omitempty" yaml:"liquid,omitempty"`
	Vapor  *eos.Departure `json:"vapor,omitempty" yaml:"vapor,omitempty"`
}

func NewRecord(res *eos.Result) Record {
	return Record{
		Model:  res.Model.String(),
		Name:   res.Model.Name(),
		State:  res.State,
		A:      res.Coefficients.A,
		B:      res.Coefficients.B,
		Roots:  res.Roots,
		Liquid: res.Liquid,
		Vapor:  res.Vapor,
	}
}

func records(results []*eos.Result) any {
	if len(results) == 1 {
		return NewRecord(results[0])
	}
	out := make([]Record, len(results))
	for i, r := range results {
		out[i] = NewRecord(r)
	}
	return out
}

// JSON writes one record, or a list when given several results.
func JSON(w io.Writer, results ...*eos.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records(results))
}

// YAML writes one record, or a list when given several results.
func YAML(w io.Writer, results ...*eos.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(results)); err != nil {
		return err
	}
	return enc.Close()
}

var csvHeader = []string{"model", "t", "p", "phase", "z", "v", "du_dep", "dh_dep", "ds_dep", "dg_dep", "phi"}

// CSV writes one row per populated branch.
func CSV(w io.Writer, results ...*eos.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, res := range results {
		for _, br := range res.Branches() {
			row := []string{
				res.Model.String(),
				formatFloat(res.State.T),
				formatFloat(res.State.P),
				br.Phase.String(),
				formatFloat(br.Z),
				formatFloat(br.V),
				formatFloat(br.U),
				formatFloat(br.H),
				formatFloat(br.S),
				formatFloat(br.G),
				formatFloat(br.Phi),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// IsothermCSV writes one row per pressure. Missing branches leave empty
// cells; failed points carry the error text.
func IsothermCSV(w io.Writer, points []analysis.IsothermPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"p", "z_liquid", "z_vapor", "phi_liquid", "phi_vapor", "error"}); err != nil {
		return err
	}
	for _, pt := range points {
		row := []string{formatFloat(pt.P), "", "", "", "", ""}
		if pt.Liquid != nil {
			row[1], row[3] = formatFloat(pt.Liquid.Z), formatFloat(pt.Liquid.Phi)
		}
		if pt.Vapor != nil {
			row[2], row[4] = formatFloat(pt.Vapor.Z), formatFloat(pt.Vapor.Phi)
		}
		if pt.Err != nil {
			row[5] = pt.Err.Error()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
