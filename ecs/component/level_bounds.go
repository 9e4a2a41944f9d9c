package component

// LevelBounds describes the ground grid drawn under the player: a square of
// Width world units split into Cell sized squares, centered on the origin.
type LevelBounds struct {
	Width float64
	Cell  float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
