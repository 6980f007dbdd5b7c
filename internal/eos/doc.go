// Package eos computes pure-substance state properties from cubic equations
// of state.
//
// Four models are supported, each described by its shape constants (u, w)
// and its α(T) function:
//
//   - [VDW]: van der Waals, u=0, w=0, α=1
//   - [RK]: Redlich-Kwong, u=1, w=0, α=Tr^-0.5
//   - [SRK]: Soave-Redlich-Kwong, u=1, w=0, Soave α
//   - [PR]: Peng-Robinson, u=2, w=-1, Soave-form α with the PR κ
//
// A solve runs forward through four stages, each producing a new value:
//
//	coef, _ := eos.Derive(model, state)     // a, b, α, dα/dT, A, B, cubic in Z
//	set := eos.Roots(coef)                  // real roots + admissibility (Z > B)
//	cls, _ := eos.Classify(set, opts)       // liquid / vapor, middle root dropped
//	dep, _ := eos.Departures(coef, z)       // ΔU, ΔH, ΔS, ΔG, φ for one branch
//
// [Solve] and [Solver.Solve] thread the stages together and are the only
// entry points callers normally need.
//
// # Units
//
// SI throughout: K, Pa, m³/mol, J/mol, J/(mol·K). Departures are real-fluid
// minus ideal-gas values at the same T and P.
//
// # Thread Safety
//
// Every function is pure. A [Solver] holds only immutable options and may be
// shared between goroutines.
package eos
