package system

import (
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
	"github.com/rs/zerolog/log"
)

type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

// Update puts players with a pending RespawnRequest back at their spawn with
// no momentum. It runs before the movement system so the reset frame
// integrates from the spawn point.
func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.RespawnRequestComponent.Kind(), func(e ecs.Entity, _ *component.RespawnRequest) {
		defer ecs.Remove(w, e, component.RespawnRequestComponent.Kind())

		m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
		if !ok || m.Controller == nil {
			return
		}
		m.Controller.Teleport(m.Spawn)
		m.Phase = m.Controller.Phase()
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = m.Spawn
		}
		log.Debug().Stringer("entity", e).Msg("respawned")
	})
}
