// Package analysis builds sweeps and derived quantities on top of eos.
//
//   - [Isotherm]: compressibility and fugacity along a pressure grid at fixed T
//   - [SaturationPressure]: vapor pressure by equal-fugacity iteration
//   - [Compare]: every model at one state
//
// # Saturation
//
// Below Tc the liquid and vapor branches coexist where their fugacity
// coefficients agree:
//
//	sat, err := analysis.SaturationPressure(ctx, solver, eos.PR, st, analysis.SaturationOptions{})
//	if errors.Is(err, analysis.ErrNoSaturation) {
//	    // supercritical, or the two-root window was lost
//	}
package analysis
