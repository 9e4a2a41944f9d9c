package component

import "github.com/milk9111/strafe/movement"

// Input stores the movement keys held this frame.
type Input struct {
	Frame movement.InputFrame
}

var InputComponent = NewComponent[Input]()
