package eos

import (
	"errors"
	"fmt"

	"github.com/san-kum/eoslab/internal/cubic"
)

// Domain errors for solve operations.
var (
	// ErrInvalidInput indicates a non-positive or non-finite Tc, Pc, T or P.
	ErrInvalidInput = errors.New("eos: invalid input")

	// ErrNoPhysicalRoot indicates the cubic has no admissible volume at the
	// requested conditions.
	ErrNoPhysicalRoot = errors.New("eos: no physical root")

	// ErrUnknownModel indicates a model name that does not parse.
	ErrUnknownModel = errors.New("eos: unknown model")
)

// InputError names the field that failed validation.
type InputError struct {
	Field string
	Value float64
}

func (e *InputError) Error() string {
	return fmt.Sprintf("eos: invalid input: %s must be positive and finite, got %g", e.Field, e.Value)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// RootError wraps ErrNoPhysicalRoot with the conditions that produced it.
type RootError struct {
	Model Model
	T, P  float64
	Roots cubic.Roots
	B     float64

	// Reason is set when a branch failed after classification.
	Reason string
}

func (e *RootError) Error() string {
	msg := fmt.Sprintf("eos: no physical root for %s at T=%g K, P=%g Pa (roots %v, B=%g)", e.Model, e.T, e.P, []float64(e.Roots), e.B)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *RootError) Unwrap() error {
	return ErrNoPhysicalRoot
}
