package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
)

// mouseRadiansPerPixel is the look speed at sensitivity 1.
const mouseRadiansPerPixel = 1.0 / 500

// LookSystem turns mouse motion into yaw and pitch while the cursor is
// captured. Clicking captures, Escape releases.
type LookSystem struct {
	lastX, lastY int
	tracking     bool
}

func NewLookSystem() *LookSystem {
	return &LookSystem{}
}

func (s *LookSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	capture := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	release := inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	switch {
	case release:
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	case capture:
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}
	captured := ebiten.CursorMode() == ebiten.CursorModeCaptured

	x, y := ebiten.CursorPosition()
	dx, dy := 0, 0
	if captured && s.tracking {
		dx, dy = x-s.lastX, y-s.lastY
	}
	s.lastX, s.lastY = x, y
	s.tracking = captured

	ecs.ForEach(w, component.LookComponent.Kind(), func(_ ecs.Entity, look *component.Look) {
		look.Captured = captured
		applyMouseDelta(look, float64(dx), float64(dy))
	})
}

// applyMouseDelta turns the view by a cursor delta in pixels. Moving right
// turns right and moving down looks down; pitch stays inside PitchLimit.
func applyMouseDelta(look *component.Look, dx, dy float64) {
	sens := look.Sensitivity
	if sens <= 0 {
		sens = 1
	}
	look.Yaw = wrapAngle(look.Yaw - dx*mouseRadiansPerPixel*sens)
	look.Pitch -= dy * mouseRadiansPerPixel * sens

	limit := look.PitchLimit
	if limit <= 0 || limit >= math.Pi/2 {
		limit = math.Pi/2 - 0.01
	}
	look.Pitch = math.Max(-limit, math.Min(limit, look.Pitch))
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
