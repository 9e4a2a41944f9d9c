package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/movement"
)

// Movement binds a movement controller to an entity.
type Movement struct {
	Controller *movement.Controller
	Substeps   movement.Substepper
	Phase      movement.Phase

	// Spawn is where a RespawnRequest puts the player back.
	Spawn mgl64.Vec3
}

var MovementComponent = NewComponent[Movement]()
