package collision

import "github.com/milk9111/collide2d/geom"

// SolverStrategy selects the contact solver.
type SolverStrategy string

const (
	SolverArcade    SolverStrategy = "arcade"
	SolverRealistic SolverStrategy = "realistic"
)

// DynamicTreeConfig tunes leaf fattening in the broadphase tree.
type DynamicTreeConfig struct {
	// BoundsPadding is added on every side when a leaf is re-inserted.
	BoundsPadding float64
	// VelocityMultiplier scales the velocity-proportional fattening.
	VelocityMultiplier float64
}

// Config holds every tunable of the simulation. The systems read it once per
// tick, so edits land on the next tick.
type Config struct {
	Enabled bool
	Gravity geom.Vector
	Solver  SolverStrategy

	DefaultMass float64

	PositionIterations int
	VelocityIterations int
	Slop               float64
	SteeringFactor     float64
	WarmStart          bool

	BodiesCanSleepByDefault bool
	SleepEpsilon            float64
	WakeThreshold           float64
	SleepBias               float64

	CheckForFastBodies             bool
	DisableMinimumSpeedForFastBody bool
	SurfaceEpsilon                 float64

	DynamicTree DynamicTreeConfig
}

// DefaultConfig returns the arcade defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		Solver:             SolverArcade,
		DefaultMass:        10,
		PositionIterations: 3,
		VelocityIterations: 8,
		Slop:               1,
		SteeringFactor:     0.2,
		WarmStart:          true,
		SleepEpsilon:       0.07,
		WakeThreshold:      0.07 * 3,
		SleepBias:          0.9,
		CheckForFastBodies: true,
		SurfaceEpsilon:     0.1,
		DynamicTree: DynamicTreeConfig{
			BoundsPadding:      5,
			VelocityMultiplier: 2,
		},
	}
}
