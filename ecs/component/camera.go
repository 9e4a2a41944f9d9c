package component

// Camera is the top-down debug view. Center is in world X/Z and eases
// toward the target each frame.
type Camera struct {
	TargetName string
	Zoom       float64
	Smoothness float64
	CenterX    float64
	CenterZ    float64
}

var CameraComponent = NewComponent[Camera]()
