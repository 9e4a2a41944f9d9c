package movement

import "math"

const (
	DefaultMaxFrame = 0.05
	DefaultSubsteps = 5
)

// Stepper is anything advanced in fixed substeps.
type Stepper interface {
	Step(in InputFrame, dt float64) error
}

// Substepper clamps a frame delta to MaxFrame seconds and splits it into
// Steps equal substeps.
type Substepper struct {
	MaxFrame float64
	Steps    int
}

func NewSubstepper() Substepper {
	return Substepper{MaxFrame: DefaultMaxFrame, Steps: DefaultSubsteps}
}

// Split returns the substep length and count for a frame. A frame that is
// not a positive finite number yields no substeps.
func (s Substepper) Split(frame float64) (dt float64, n int) {
	if !(frame > 0) || math.IsInf(frame, 1) {
		return 0, 0
	}
	steps := s.Steps
	if steps <= 0 {
		steps = DefaultSubsteps
	}
	maxFrame := s.MaxFrame
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrame
	}
	return math.Min(maxFrame, frame) / float64(steps), steps
}

// Advance runs every substep of frame on st with the same input.
func (s Substepper) Advance(st Stepper, in InputFrame, frame float64) error {
	dt, n := s.Split(frame)
	for i := 0; i < n; i++ {
		if err := st.Step(in, dt); err != nil {
			return err
		}
	}
	return nil
}
