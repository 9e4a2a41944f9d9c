package component

// RespawnRequest marks a player to be put back at its spawn with no
// momentum. RespawnSystem consumes it before movement steps.
type RespawnRequest struct{}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
