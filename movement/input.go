package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// InputFrame is the set of movement keys held during one step.
type InputFrame struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool
}

// Axes returns the signed forward and side axes, each in {-1, 0, 1}.
func (in InputFrame) Axes() (forward, side float64) {
	if in.Forward {
		forward++
	}
	if in.Back {
		forward--
	}
	if in.Right {
		side++
	}
	if in.Left {
		side--
	}
	return forward, side
}

// Orientation supplies the current look angles in radians. Yaw 0 faces -Z.
type Orientation interface {
	Angles() (yaw, pitch float64)
}

// Angles is a fixed Orientation.
type Angles struct {
	Yaw   float64
	Pitch float64
}

func (a Angles) Angles() (float64, float64) {
	return a.Yaw, a.Pitch
}

var worldUp = mgl64.Vec3{0, 1, 0}

// LookDirection returns the unit view direction for yaw then pitch.
func LookDirection(yaw, pitch float64) mgl64.Vec3 {
	cp := math.Cos(pitch)
	return mgl64.Vec3{-math.Sin(yaw) * cp, math.Sin(pitch), -math.Cos(yaw) * cp}
}

// ForwardVector is the view direction flattened onto the ground plane.
func ForwardVector(yaw, pitch float64) mgl64.Vec3 {
	dir := LookDirection(yaw, pitch)
	dir[1] = 0
	flat := normalize(dir)
	if flat == (mgl64.Vec3{}) {
		// looking straight up or down
		return mgl64.Vec3{-math.Sin(yaw), 0, -math.Cos(yaw)}
	}
	return flat
}

// SideVector points to the right of ForwardVector.
func SideVector(yaw, pitch float64) mgl64.Vec3 {
	return ForwardVector(yaw, pitch).Cross(worldUp)
}

// Wish is the movement the player asks for before physics is applied.
type Wish struct {
	Velocity  mgl64.Vec3
	Direction mgl64.Vec3
	Speed     float64
}

// WishFromInput turns held keys and facing into a horizontal wish.
func WishFromInput(in InputFrame, yaw, pitch float64, cfg Config) Wish {
	fwdAxis, sideAxis := in.Axes()
	forward := fwdAxis * cfg.ForwardMove
	side := sideAxis * cfg.SideMove

	fv := ForwardVector(yaw, pitch)
	sv := SideVector(yaw, pitch)

	vel := fv.Mul(forward).Add(sv.Mul(side))
	vel[1] = 0

	dir := normalize(vel)
	var speed float64
	if dir != (mgl64.Vec3{}) {
		speed = cfg.WishSpeed
	}
	return Wish{Velocity: vel, Direction: dir, Speed: speed}
}

// normalize returns v scaled to unit length, or the zero vector.
func normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
