package analysis

import "github.com/san-kum/eoslab/internal/eos"

type Comparison struct {
	Model  eos.Model   `json:"model"`
	Result *eos.Result `json:"result,omitempty"`
	Err    error       `json:"-"`
}

// Compare solves st with every model, in model order.
func Compare(s *eos.Solver, st eos.State) []Comparison {
	models := eos.Models()
	out := make([]Comparison, len(models))
	for i, m := range models {
		res, err := s.Solve(m, st)
		out[i] = Comparison{Model: m, Result: res, Err: err}
	}
	return out
}
