package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

// NewPlayerAt builds the player prefab and moves its spawn to pos.
func NewPlayerAt(w *ecs.World, pos mgl64.Vec3) (ecs.Entity, error) {
	e, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}
	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	if !ok {
		return 0, fmt.Errorf("player: prefab has no movement component")
	}
	m.Spawn = pos
	m.Controller.Teleport(pos)
	m.Phase = m.Controller.Phase()
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.Position = pos
	}
	return e, nil
}
