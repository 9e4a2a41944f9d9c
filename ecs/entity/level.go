package entity

import "github.com/milk9111/strafe/ecs"

func NewLevel(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "level.yaml")
}
