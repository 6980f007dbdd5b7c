package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/eoslab/internal/analysis"
	"github.com/san-kum/eoslab/internal/eos"
)

var water = eos.State{Tc: 647.1, Pc: 220.64e5, Omega: 0.344, T: 373.15, P: 101325}

func solve(t *testing.T, m eos.Model, st eos.State) *eos.Result {
	t.Helper()
	res, err := eos.Solve(m, st)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	return res
}

func TestJSON(t *testing.T) {
	res := solve(t, eos.PR, water)

	var buf bytes.Buffer
	if err := JSON(&buf, res); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["model"] != "PR" || got["name"] != "Peng-Robinson" {
		t.Errorf("model fields: %v, %v", got["model"], got["name"])
	}
	vapor, ok := got["vapor"].(map[string]any)
	if !ok {
		t.Fatal("missing vapor branch")
	}
	for _, key := range []string{"phase", "z", "v", "du_dep", "dh_dep", "ds_dep", "dg_dep", "phi"} {
		if _, ok := vapor[key]; !ok {
			t.Errorf("vapor missing %q", key)
		}
	}
	if vapor["phase"] != "vapor" {
		t.Errorf("phase = %v", vapor["phase"])
	}
}

func TestJSONList(t *testing.T) {
	a := solve(t, eos.PR, water)
	b := solve(t, eos.SRK, water)

	var buf bytes.Buffer
	if err := JSON(&buf, a, b); err != nil {
		t.Fatal(err)
	}
	var got []Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("expected a list: %v", err)
	}
	if len(got) != 2 || got[1].Model != "SRK" {
		t.Fatalf("unexpected records %+v", got)
	}
	if got[0].Vapor == nil || got[0].Vapor.Phase != eos.Vapor {
		t.Errorf("vapor branch did not decode: %+v", got[0].Vapor)
	}
	if got[0].Liquid == nil || got[0].Liquid.Phase != eos.Liquid {
		t.Errorf("liquid branch did not decode: %+v", got[0].Liquid)
	}
}

func TestYAML(t *testing.T) {
	res := solve(t, eos.VDW, eos.State{Tc: 126.2, Pc: 33.98e5, T: 300, P: 1e5})

	var buf bytes.Buffer
	if err := YAML(&buf, res); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if got["model"] != "vdW" {
		t.Errorf("model = %v", got["model"])
	}
	if _, ok := got["liquid"]; ok {
		t.Error("absent liquid branch should be omitted")
	}
	if !strings.Contains(buf.String(), "phase: vapor") {
		t.Errorf("phase not written as text:\n%s", buf.String())
	}
}

func TestCSV(t *testing.T) {
	two := solve(t, eos.PR, water)
	one := solve(t, eos.PR, eos.State{Tc: 190.56, Pc: 45.99e5, Omega: 0.011, T: 300, P: 1e5})

	var buf bytes.Buffer
	if err := CSV(&buf, two, one); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header = %v", rows[0])
	}
	phases := []string{rows[1][3], rows[2][3], rows[3][3]}
	if phases[0] != "liquid" || phases[1] != "vapor" || phases[2] != "vapor" {
		t.Errorf("phases = %v", phases)
	}
}

func TestIsothermCSV(t *testing.T) {
	points := []analysis.IsothermPoint{
		{P: 1e5, Vapor: &eos.Departure{Z: 0.98, Phi: 0.97}},
		{P: 2e5, Liquid: &eos.Departure{Z: 0.01, Phi: 0.5}, Vapor: &eos.Departure{Z: 0.9, Phi: 0.9}},
		{P: -1, Err: errors.New("bad pressure")},
	}

	var buf bytes.Buffer
	if err := IsothermCSV(&buf, points); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[1][1] != "" || rows[1][2] != "0.98" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][1] != "0.01" || rows[2][4] != "0.9" {
		t.Errorf("row 2 = %v", rows[2])
	}
	if rows[3][5] != "bad pressure" {
		t.Errorf("row 3 = %v", rows[3])
	}
}

func TestIsothermSVG(t *testing.T) {
	st := water
	st.T = 450
	grid, err := analysis.PressureGrid(1e4, 1e7, 30, true)
	if err != nil {
		t.Fatal(err)
	}
	points, err := analysis.Isotherm(context.Background(), eos.NewSolver(eos.DefaultOptions()), eos.PR, st, grid)
	if err != nil {
		t.Fatal(err)
	}

	svg := IsothermSVG(points, 640, 400, true)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	for _, id := range []string{`id="liquid"`, `id="vapor"`} {
		if !strings.Contains(svg, id) {
			t.Errorf("missing %s", id)
		}
	}
}

func TestSeriesToSVG(t *testing.T) {
	tests := []struct {
		name   string
		series []Series
		paths  int
		moves  int
	}{
		{"too few points", []Series{{Name: "a", Points: []Point{{0, 1}}}}, 0, 0},
		{"single line", []Series{{Name: "a", Points: []Point{{0, 0}, {1, 1}, {2, 4}}}}, 1, 1},
		{"gap splits the line", []Series{{Name: "a", Points: []Point{{0, 0}, {1, nan()}, {2, 4}, {3, 9}}}}, 1, 2},
		{"empty series skipped", []Series{
			{Name: "a", Points: []Point{{0, 0}, {1, 1}}},
			{Name: "b", Points: []Point{{0, nan()}}},
		}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := SeriesToSVG(tt.series, 100, 100)
			if tt.paths == 0 {
				if svg != "" {
					t.Errorf("expected empty output, got %q", svg)
				}
				return
			}
			if got := strings.Count(svg, "<path"); got != tt.paths {
				t.Errorf("paths = %d, want %d", got, tt.paths)
			}
			if got := strings.Count(svg, "M"); got != tt.moves {
				t.Errorf("moves = %d, want %d", got, tt.moves)
			}
		})
	}
}

func nan() float64 { return math.NaN() }
