package system

import (
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
	"github.com/milk9111/strafe/movement"
	"github.com/rs/zerolog/log"
)

// PhaseChange is the payload of ecs.EventPhaseChanged.
type PhaseChange struct {
	From   movement.Phase
	To     movement.Phase
	Jumped bool
}

// MovementSystem advances every movement controller by the world's frame
// delta, split into the controller's substeps, and mirrors the result into
// the entity's Transform.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	frame := w.FrameDelta()

	ecs.ForEach2(w, component.MovementComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, m *component.Movement, input *component.Input) {
		c := m.Controller
		if c == nil {
			return
		}

		dt, n := m.Substeps.Split(frame)
		for i := 0; i < n; i++ {
			if err := c.Step(input.Frame, dt); err != nil {
				log.Error().Err(err).Stringer("entity", e).Float64("dt", dt).Msg("movement step rejected")
				return
			}
			s.publishPhase(w, e, m)
		}

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = c.Position()
			if look, ok := ecs.Get(w, e, component.LookComponent.Kind()); ok {
				t.Yaw, t.Pitch = look.Yaw, look.Pitch
			}
		}
	})
}

// publishPhase reports ground state transitions; substeps can land and take
// off again within one frame, so it runs after every step. A held jump lands
// and relaunches inside a single step, which leaves the phase Airborne; that
// hop is reported as a landing followed by a jump.
func (s *MovementSystem) publishPhase(w *ecs.World, e ecs.Entity, m *component.Movement) {
	next := m.Controller.Phase()
	jumped := m.Controller.Jumped()

	if jumped && m.Phase == movement.PhaseAirborne {
		s.pushPhase(w, e, PhaseChange{From: movement.PhaseAirborne, To: movement.PhaseGrounded})
		s.pushPhase(w, e, PhaseChange{From: movement.PhaseGrounded, To: next, Jumped: true})
		m.Phase = next
		return
	}
	if next == m.Phase {
		return
	}
	s.pushPhase(w, e, PhaseChange{From: m.Phase, To: next, Jumped: jumped})
	m.Phase = next
}

func (s *MovementSystem) pushPhase(w *ecs.World, e ecs.Entity, change PhaseChange) {
	w.Events().Push(ecs.Event{Kind: ecs.EventPhaseChanged, Entity: e, Data: change})
	log.Debug().
		Stringer("entity", e).
		Stringer("from", change.From).
		Stringer("to", change.To).
		Bool("jumped", change.Jumped).
		Msg("phase changed")
}
