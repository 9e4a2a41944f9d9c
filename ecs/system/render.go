package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
	"github.com/milk9111/strafe/movement"
	"golang.org/x/image/colornames"
)

const (
	playerRadius  = 16.0
	facingLength  = 48.0
	velocityScale = 0.25
)

// RenderSystem draws a top-down view of the ground grid and the players,
// plus a text HUD. It also tallies phase events for the HUD.
type RenderSystem struct {
	camEntity ecs.Entity
	jumps     int
	landings  int
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

// Update counts this frame's jumps and landings.
func (r *RenderSystem) Update(w *ecs.World) {
	if r == nil || w == nil {
		return
	}
	for _, evt := range w.Events().Peek() {
		if evt.Kind != ecs.EventPhaseChanged {
			continue
		}
		change, ok := evt.Data.(PhaseChange)
		if !ok {
			continue
		}
		if change.Jumped {
			r.jumps++
		}
		if change.To == movement.PhaseGrounded {
			r.landings++
		}
	}
}

// view maps world X/Z onto the screen around the camera center.
type view struct {
	centerX, centerZ float64
	zoom             float64
	halfW, halfH     float64
}

func (v view) toScreen(x, z float64) (float32, float32) {
	return float32((x-v.centerX)*v.zoom + v.halfW), float32((z-v.centerZ)*v.zoom + v.halfH)
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(colornames.Black)

	if !ecs.IsAlive(w, r.camEntity) {
		if camEntity, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}
	b := screen.Bounds()
	v := view{zoom: 1, halfW: float64(b.Dx()) / 2, halfH: float64(b.Dy()) / 2}
	if cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind()); ok {
		v.centerX, v.centerZ = cam.CenterX, cam.CenterZ
		if cam.Zoom > 0 {
			v.zoom = cam.Zoom
		}
	}

	ecs.ForEach(w, component.LevelBoundsComponent.Kind(), func(_ ecs.Entity, lb *component.LevelBounds) {
		drawGrid(screen, v, lb)
	})

	line := 0
	ecs.ForEach2(w, component.MovementComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.Movement, t *component.Transform) {
		drawPlayer(screen, v, m, t)
		r.drawHUD(screen, e, m, line)
		line++
	})

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f  jumps: %d  landings: %d  [click: look, esc: release, R: respawn]",
		ebiten.ActualFPS(), ebiten.ActualTPS(), r.jumps, r.landings), 8, b.Dy()-20)
}

func drawGrid(screen *ebiten.Image, v view, lb *component.LevelBounds) {
	half := lb.Width / 2
	lines := int(lb.Width / lb.Cell)
	for i := 0; i <= lines; i++ {
		c := -half + float64(i)*lb.Cell
		clr := color.Color(colornames.Dimgray)
		if math.Abs(c) < lb.Cell/2 {
			clr = colornames.Gray
		}
		x0, y0 := v.toScreen(c, -half)
		x1, y1 := v.toScreen(c, half)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, false)
		x0, y0 = v.toScreen(-half, c)
		x1, y1 = v.toScreen(half, c)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, false)
	}
}

func drawPlayer(screen *ebiten.Image, v view, m *component.Movement, t *component.Transform) {
	pos := t.Position
	px, py := v.toScreen(pos.X(), pos.Z())

	// shadow stays on the ground, the body grows with height
	height := 0.0
	if m.Controller != nil {
		height = math.Max(0, pos.Y()-m.Controller.Config().GroundHeight)
	}
	vector.DrawFilledCircle(screen, px, py, float32(playerRadius*v.zoom), colornames.Darkslategray, true)
	body := colornames.Crimson
	if m.Phase == movement.PhaseAirborne {
		body = colornames.Orange
	}
	radius := float32((playerRadius + height*0.1) * v.zoom)
	vector.DrawFilledCircle(screen, px, py, radius*0.8, body, true)

	fwd := movement.ForwardVector(t.Yaw, t.Pitch)
	fx, fy := v.toScreen(pos.X()+fwd.X()*facingLength, pos.Z()+fwd.Z()*facingLength)
	vector.StrokeLine(screen, px, py, fx, fy, 2, colornames.White, true)

	if m.Controller != nil {
		vel := m.Controller.Velocity()
		vx, vy := v.toScreen(pos.X()+vel.X()*velocityScale, pos.Z()+vel.Z()*velocityScale)
		vector.StrokeLine(screen, px, py, vx, vy, 2, colornames.Limegreen, true)
	}
}

func (r *RenderSystem) drawHUD(screen *ebiten.Image, e ecs.Entity, m *component.Movement, line int) {
	if m.Controller == nil {
		return
	}
	st := m.Controller.State()
	text := fmt.Sprintf("player %s  pos (%.1f, %.1f, %.1f)  speed %.1f  hspeed %.1f  vy %.1f  %s",
		e, st.Position.X(), st.Position.Y(), st.Position.Z(),
		st.Velocity.Len(), m.Controller.HorizontalSpeed(), st.Velocity.Y(), m.Phase)
	ebitenutil.DebugPrintAt(screen, text, 8, 8+line*16)
}
