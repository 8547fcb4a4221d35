package collision

import (
	"time"

	"github.com/milk9111/collide2d/geom"
)

// EulerIntegrator steps a transform by its motion. It reuses scratch
// vectors between calls and must not be shared across goroutines.
type EulerIntegrator struct {
	pos   geom.Vector
	vel   geom.Vector
	scale geom.Vector
}

func NewEulerIntegrator() *EulerIntegrator {
	return &EulerIntegrator{}
}

// Integrate advances tx by elapsed using totalAcc in place of motion.Acc.
func (in *EulerIntegrator) Integrate(tx *Transform, motion *Motion, totalAcc geom.Vector, elapsed time.Duration) {
	if tx == nil || motion == nil {
		return
	}
	seconds := elapsed.Seconds()

	if motion.Inertia != 0 {
		motion.AngularVelocity += motion.Torque * (1 / motion.Inertia) * seconds
	}
	tx.SetRotation(tx.Rotation() + motion.AngularVelocity*seconds)

	in.pos = tx.Pos()
	in.vel = motion.Vel.Mult(seconds)
	in.pos = in.pos.Add(in.vel).Add(totalAcc.Mult(0.5 * seconds * seconds))
	tx.SetPos(in.pos)

	motion.Vel = motion.Vel.Add(totalAcc.Mult(seconds))

	if motion.ScaleFactor != geom.Zero {
		in.scale = tx.Scale().Add(motion.ScaleFactor.Mult(seconds))
		tx.SetScale(in.scale)
	}
}
