package component

// Input is the per-tick player intent, written by the input system.
type Input struct {
	MoveX       float64
	Jump        bool
	JumpPressed bool
}

var InputComponent = NewComponent[Input]()

// Controllable lets Input drive an Active body.
type Controllable struct {
	Speed     float64
	JumpSpeed float64
}

var ControllableComponent = NewComponent[Controllable]()
