package collision

import "errors"

var (
	ErrUnknownShape  = errors.New("collision: unknown shape pair")
	ErrTooFewPoints  = errors.New("collision: polygon needs at least 3 points")
	ErrDegenerateRay = errors.New("collision: ray has no direction")
)
