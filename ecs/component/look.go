package component

// Look owns an entity's view angles in radians. Yaw 0 faces -Z, positive
// pitch looks up.
type Look struct {
	Yaw         float64
	Pitch       float64
	Sensitivity float64
	PitchLimit  float64
	Captured    bool
}

// Angles lets a Look drive a movement controller directly.
func (l *Look) Angles() (float64, float64) {
	if l == nil {
		return 0, 0
	}
	return l.Yaw, l.Pitch
}

var LookComponent = NewComponent[Look]()
