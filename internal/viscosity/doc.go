// Package viscosity implements the temperature and medium corrections applied
// to particle sizes measured by nanoparticle tracking analysis.
//
// Tracking analysis measures a diffusion coefficient and converts it to a
// diameter through the Stokes-Einstein relation, so the reported size depends
// on the sample temperature and the viscosity of the suspending medium:
//
//   - [WaterViscosity]: empirical Vogel-Fulcher-Tammann fit for pure water
//   - [Medium]: closed table of suspending media and their relative viscosity
//   - [CorrectionFactor]: size multiplier that maps a measured diameter to
//     the diameter expected at a reference condition
//   - [HydrodynamicDiameter], [DiffusionCoefficient]: Stokes-Einstein helpers
//
// # Example
//
//	c := viscosity.CorrectionFactor(37, 25, "PBS")
//	corrected := c.Apply(112.0)
//	fmt.Println(c.Breakdown())
//
// All functions are pure and safe for concurrent use.
package viscosity
