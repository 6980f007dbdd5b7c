// Package batch runs scripted sets of solves from YAML case files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/eoslab/internal/eos"
	"github.com/san-kum/eoslab/internal/log"
	"github.com/san-kum/eoslab/internal/substance"
)

var ErrEmptyScenario = errors.New("batch: scenario has no cases")

// Scenario is a named list of cases
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cases       []Case `yaml:"cases"`
}

// Case is a single solve. Either Molecule or Tc and Pc must be set;
// explicit constants win. Pressures are in bar.
type Case struct {
	Name     string  `yaml:"name"`
	Model    string  `yaml:"model"`
	Molecule string  `yaml:"molecule,omitempty"`
	Tc       float64 `yaml:"tc,omitempty"`
	Pc       float64 `yaml:"pc,omitempty"`
	Omega    float64 `yaml:"omega,omitempty"`
	T        float64 `yaml:"t"`
	P        float64 `yaml:"p"`
}

// CaseResult pairs a case with its outcome. Err is set instead of Result
// when the case failed.
type CaseResult struct {
	Case   Case
	Result *eos.Result
	Err    error
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("batch: parse scenario: %w", err)
	}
	if len(scenario.Cases) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// State resolves the case to solve inputs in SI units.
func (c Case) State() (eos.State, error) {
	if c.Tc > 0 || c.Pc > 0 {
		return eos.State{Tc: c.Tc, Pc: c.Pc * eos.Bar, Omega: c.Omega, T: c.T, P: c.P * eos.Bar}, nil
	}
	if c.Molecule == "" {
		return eos.State{}, fmt.Errorf("batch: case %q names neither a molecule nor critical constants", c.Name)
	}
	s, err := substance.Lookup(c.Molecule)
	if err != nil {
		return eos.State{}, err
	}
	return s.State(c.T, c.P), nil
}

// Run solves every case concurrently. Results keep the case order and a
// failing case does not stop the others.
func Run(ctx context.Context, scenario *Scenario, solver *eos.Solver) ([]CaseResult, error) {
	results := make([]CaseResult, len(scenario.Cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, c := range scenario.Cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runCase(solver, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			log.Warnw("batch case failed", "scenario", scenario.Name, "case", i+1, "name", r.Case.Name, "error", r.Err)
		}
	}
	log.Infow("batch complete", "scenario", scenario.Name, "cases", len(results), "failed", failed)
	return results, nil
}

func runCase(solver *eos.Solver, c Case) CaseResult {
	out := CaseResult{Case: c}

	m, err := eos.ParseModel(c.Model)
	if err != nil {
		out.Err = err
		return out
	}
	st, err := c.State()
	if err != nil {
		out.Err = err
		return out
	}
	out.Result, out.Err = solver.Solve(m, st)
	return out
}

// Failed counts the failed cases.
func Failed(results []CaseResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
