package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
	"github.com/milk9111/strafe/movement"
	"github.com/rs/zerolog/log"
)

const stickDeadzone = 0.35

// InputSystem samples held movement keys into every Input component. Keys
// are level-held: holding jump keeps jumping on each landing.
type InputSystem struct{}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	frame := movement.InputFrame{
		Forward: ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Back:    ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:    ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:   ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Jump:    ebiten.IsKeyPressed(ebiten.KeySpace),
	}
	respawn := inpututil.IsKeyJustPressed(ebiten.KeyR)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		frame = mergeStick(frame, lx, ly)
		frame.Jump = frame.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		respawn = respawn || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	applyInput(w, frame, respawn)
}

// applyInput stores frame on every Input and queues a respawn when asked.
func applyInput(w *ecs.World, frame movement.InputFrame, respawn bool) {
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.Frame = frame
		if !respawn {
			return
		}
		if err := ecs.Add(w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{}); err != nil {
			log.Debug().Err(err).Stringer("entity", e).Msg("respawn request dropped")
		}
	})
}

// mergeStick folds an analog stick into the digital movement keys. The
// controller only knows held or not held, so past the deadzone the stick
// counts as a key press.
func mergeStick(frame movement.InputFrame, x, y float64) movement.InputFrame {
	if x < -stickDeadzone {
		frame.Left = true
	}
	if x > stickDeadzone {
		frame.Right = true
	}
	if y < -stickDeadzone {
		frame.Forward = true
	}
	if y > stickDeadzone {
		frame.Back = true
	}
	return frame
}
