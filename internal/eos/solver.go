package eos

import (
	"errors"
	"math"

	"github.com/san-kum/eoslab/internal/cubic"
)

const (
	// DefaultZSplit separates a lone liquid-like root from a vapor-like one.
	// It is a policy knob, not a physical law.
	DefaultZSplit = 0.25

	// DefaultMergeTol is the relative distance under which roots coincide.
	DefaultMergeTol = 1e-7
)

// Options tunes root classification. Zero fields take the defaults. A
// negative ZSplit sends every lone root to vapor.
type Options struct {
	ZSplit   float64 `json:"z_split" yaml:"z_split"`
	MergeTol float64 `json:"merge_tol" yaml:"merge_tol"`
}

func DefaultOptions() Options {
	return Options{
		ZSplit:   DefaultZSplit,
		MergeTol: DefaultMergeTol,
	}
}

func (o Options) withDefaults() Options {
	if o.ZSplit == 0 || math.IsNaN(o.ZSplit) {
		o.ZSplit = DefaultZSplit
	}
	if o.MergeTol <= 0 {
		o.MergeTol = DefaultMergeTol
	}
	return o
}

// Result is the outcome of one solve. At least one of Liquid and Vapor is
// set.
type Result struct {
	Model        Model        `json:"model" yaml:"model"`
	State        State        `json:"state" yaml:"state"`
	Coefficients Coefficients `json:"coefficients" yaml:"coefficients"`
	Roots        cubic.Roots  `json:"roots" yaml:"roots"`
	Liquid       *Departure   `json:"liquid,omitempty" yaml:"liquid,omitempty"`
	Vapor        *Departure   `json:"vapor,omitempty" yaml:"vapor,omitempty"`
}

// Branches returns the populated branches, liquid first.
func (r *Result) Branches() []Departure {
	out := make([]Departure, 0, 2)
	if r.Liquid != nil {
		out = append(out, *r.Liquid)
	}
	if r.Vapor != nil {
		out = append(out, *r.Vapor)
	}
	return out
}

// Solver runs the full pipeline with fixed classification options.
type Solver struct {
	opts Options
}

func NewSolver(opts Options) *Solver {
	return &Solver{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (s *Solver) Options() Options {
	return s.opts
}

var defaultSolver = NewSolver(DefaultOptions())

// Solve runs the default solver.
func Solve(m Model, st State) (*Result, error) {
	return defaultSolver.Solve(m, st)
}

// Solve derives the cubic for st, solves and classifies its roots and
// evaluates the departure functions of each populated branch. Errors wrap
// ErrInvalidInput or ErrNoPhysicalRoot.
func (s *Solver) Solve(m Model, st State) (*Result, error) {
	coef, err := Derive(m, st)
	if err != nil {
		return nil, err
	}

	set := Roots(coef)
	cls, err := Classify(set, s.opts)
	if err != nil {
		var re *RootError
		if errors.As(err, &re) {
			re.Model, re.T, re.P = m, st.T, st.P
		}
		return nil, err
	}

	res := &Result{
		Model:        m,
		State:        st,
		Coefficients: coef,
		Roots:        set.Z,
	}
	if cls.Liquid != nil {
		if res.Liquid, err = branch(coef, *cls.Liquid, Liquid); err != nil {
			return nil, err
		}
	}
	if cls.Vapor != nil {
		if res.Vapor, err = branch(coef, *cls.Vapor, Vapor); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func branch(coef Coefficients, z float64, phase Phase) (*Departure, error) {
	dep, err := Departures(coef, z)
	if err != nil {
		return nil, err
	}
	dep.Phase = phase
	return &dep, nil
}
