package system

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
	"github.com/milk9111/strafe/ecs/entity"
	"github.com/milk9111/strafe/movement"
	"github.com/milk9111/strafe/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecNear(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-9, msgAndArgs...)
}

func prefabDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := prefabs.Dir()
	prefabs.SetDir(dir)
	t.Cleanup(func() { prefabs.SetDir(prev) })
	return dir
}

func newPlayerWorld(t *testing.T) (*ecs.World, ecs.Entity) {
	t.Helper()
	prefabDir(t)
	w := ecs.NewWorld()
	e, err := entity.NewPlayer(w)
	require.NoError(t, err)
	return w, e
}

func runFrame(w *ecs.World, s *ecs.Scheduler, delta float64) {
	w.BeginFrame(delta)
	s.Update(w)
}

func TestMovementSystemSubstepsFrame(t *testing.T) {
	w, e := newPlayerWorld(t)
	input, _ := ecs.Get(w, e, component.InputComponent.Kind())
	input.Frame = movement.InputFrame{Forward: true}

	sched := ecs.NewScheduler(NewMovementSystem())
	runFrame(w, sched, 1.0/60)

	m, _ := ecs.Get(w, e, component.MovementComponent.Kind())
	ref := movement.NewController(movement.DefaultConfig(), mgl64.Vec3{0, 64, 0}, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, ref.Step(movement.InputFrame{Forward: true}, 1.0/300))
	}
	assertVecNear(t, ref.Velocity(), m.Controller.Velocity())

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, m.Controller.Position(), tr.Position)
	assert.Less(t, tr.Position.Z(), 0.0)
}

func TestMovementSystemClampsLongFrames(t *testing.T) {
	w, e := newPlayerWorld(t)
	input, _ := ecs.Get(w, e, component.InputComponent.Kind())
	input.Frame = movement.InputFrame{Forward: true}

	sched := ecs.NewScheduler(NewMovementSystem())
	runFrame(w, sched, 2.0)

	m, _ := ecs.Get(w, e, component.MovementComponent.Kind())
	ref := movement.NewController(movement.DefaultConfig(), mgl64.Vec3{0, 64, 0}, nil)
	require.NoError(t, movement.NewSubstepper().Advance(ref, movement.InputFrame{Forward: true}, 0.05))
	assertVecNear(t, ref.Position(), m.Controller.Position())
}

func TestMovementSystemPublishesPhaseChanges(t *testing.T) {
	w, e := newPlayerWorld(t)
	input, _ := ecs.Get(w, e, component.InputComponent.Kind())
	input.Frame = movement.InputFrame{Jump: true}

	var events []ecs.Event
	collect := collectEvents(&events)
	sched := ecs.NewScheduler(NewMovementSystem(), collect)

	runFrame(w, sched, 1.0/60)
	require.Len(t, events, 1)
	change, ok := events[0].Data.(PhaseChange)
	require.True(t, ok)
	assert.Equal(t, e, events[0].Entity)
	assert.Equal(t, PhaseChange{From: movement.PhaseGrounded, To: movement.PhaseAirborne, Jumped: true}, change)

	input.Frame = movement.InputFrame{}
	landed := false
	for i := 0; i < 120 && !landed; i++ {
		events = events[:0]
		runFrame(w, sched, 1.0/60)
		for _, evt := range events {
			if c := evt.Data.(PhaseChange); c.To == movement.PhaseGrounded {
				landed = true
				assert.False(t, c.Jumped)
			}
		}
	}
	assert.True(t, landed, "player should land within two seconds")
}

func TestMovementSystemReportsEveryHeldJump(t *testing.T) {
	w, e := newPlayerWorld(t)
	input, _ := ecs.Get(w, e, component.InputComponent.Kind())
	input.Frame = movement.InputFrame{Jump: true}

	var events []ecs.Event
	render := NewRenderSystem()
	sched := ecs.NewScheduler(NewMovementSystem(), collectEvents(&events), render)

	ref := movement.NewController(movement.DefaultConfig(), mgl64.Vec3{0, 64, 0}, nil)
	st := movement.NewSubstepper()
	wantJumps := 0
	for i := 0; i < 600; i++ {
		runFrame(w, sched, 1.0/60)

		dt, n := st.Split(1.0 / 60)
		for k := 0; k < n; k++ {
			require.NoError(t, ref.Step(movement.InputFrame{Jump: true}, dt))
			if ref.Jumped() {
				wantJumps++
			}
		}
	}
	require.Greater(t, wantJumps, 1, "holding jump should hop repeatedly")

	jumps, landings := 0, 0
	for _, evt := range events {
		c := evt.Data.(PhaseChange)
		if c.Jumped {
			jumps++
			assert.Equal(t, movement.PhaseAirborne, c.To)
		}
		if c.To == movement.PhaseGrounded {
			landings++
			assert.Equal(t, movement.PhaseAirborne, c.From)
		}
	}
	assert.Equal(t, wantJumps, jumps)
	assert.Equal(t, wantJumps-1, landings, "every hop after the first lands first")
	assert.Equal(t, wantJumps, render.jumps)
	assert.Equal(t, landings, render.landings)
}

type eventCollector struct {
	out *[]ecs.Event
}

func (c eventCollector) Update(w *ecs.World) {
	*c.out = append(*c.out, w.Events().Peek()...)
}

func collectEvents(out *[]ecs.Event) eventCollector {
	return eventCollector{out: out}
}

func TestTuningSystemReload(t *testing.T) {
	w, e := newPlayerWorld(t)
	dir := prefabs.Dir()
	m, _ := ecs.Get(w, e, component.MovementComponent.Kind())
	m.Controller.Teleport(mgl64.Vec3{5, 64, 5})

	changes := make(chan string, 4)
	sys := NewTuningSystem("player.yaml", changes, nil)

	write := func(body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "player.yaml"), []byte(body), 0o644))
	}

	write("components:\n  movement:\n    gravity: 400\n    jump_height: 100\n    substeps: 8\n")
	changes <- "camera.yaml"
	sys.Update(w)
	assert.Equal(t, 800.0, m.Controller.Config().Gravity, "unrelated files are ignored")

	changes <- "player.yaml"
	changes <- "player.yaml"
	sys.Update(w)
	cfg := m.Controller.Config()
	assert.Equal(t, 400.0, cfg.Gravity)
	assert.InDelta(t, math.Sqrt(2*400*100), cfg.JumpImpulse(), 1e-9)
	assert.Equal(t, 8, m.Substeps.Steps)
	assert.Equal(t, mgl64.Vec3{5, 64, 5}, m.Controller.Position(), "reload keeps kinematic state")

	write("components:\n  movement:\n    friction: -3\n")
	changes <- "player.yaml"
	sys.Update(w)
	assert.Equal(t, 400.0, m.Controller.Config().Gravity, "rejected tuning keeps the previous config")

	close(changes)
	sys.Update(w)
}

func TestRespawnSystem(t *testing.T) {
	w, e := newPlayerWorld(t)
	m, _ := ecs.Get(w, e, component.MovementComponent.Kind())
	m.Controller.Teleport(mgl64.Vec3{100, 500, -40})
	m.Phase = movement.PhaseAirborne

	require.NoError(t, ecs.Add(w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{}))
	NewRespawnSystem().Update(w)

	assert.Equal(t, m.Spawn, m.Controller.Position())
	assert.Equal(t, mgl64.Vec3{}, m.Controller.Velocity())
	assert.Equal(t, movement.PhaseGrounded, m.Phase)
	assert.False(t, ecs.Has(w, e, component.RespawnRequestComponent.Kind()))
}

func TestCameraFollowsNamedTarget(t *testing.T) {
	w, e := newPlayerWorld(t)
	cam, err := entity.NewCamera(w)
	require.NoError(t, err)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.Position = mgl64.Vec3{100, 64, -200}

	c, _ := ecs.Get(w, cam, component.CameraComponent.Kind())
	c.Smoothness = 0.5

	sys := NewCameraSystem()
	sys.Update(w)
	assert.InDelta(t, 50, c.CenterX, 1e-9)
	assert.InDelta(t, -100, c.CenterZ, 1e-9)

	c.Smoothness = 0
	sys.Update(w)
	assert.InDelta(t, 100, c.CenterX, 1e-9)
	assert.InDelta(t, -200, c.CenterZ, 1e-9)
}

func TestApplyMouseDelta(t *testing.T) {
	cases := []struct {
		name      string
		look      component.Look
		dx, dy    float64
		wantYaw   float64
		wantPitch float64
	}{
		{"right_turns_right", component.Look{Sensitivity: 1}, 50, 0, -0.1, 0},
		{"down_looks_down", component.Look{Sensitivity: 1}, 0, 100, 0, -0.2},
		{"sensitivity_scales", component.Look{Sensitivity: 2}, -25, 0, 0.1, 0},
		{"pitch_clamped", component.Look{Sensitivity: 1, PitchLimit: 1}, 0, -5000, 0, 1},
		{"default_limit", component.Look{Sensitivity: 1}, 0, 5000, 0, -(math.Pi/2 - 0.01)},
		{"yaw_wraps", component.Look{Sensitivity: 1, Yaw: math.Pi - 0.05}, -50, 0, -math.Pi + 0.05, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			look := tc.look
			applyMouseDelta(&look, tc.dx, tc.dy)
			assert.InDelta(t, tc.wantYaw, look.Yaw, 1e-9)
			assert.InDelta(t, tc.wantPitch, look.Pitch, 1e-9)
		})
	}
}

func TestApplyInputQueuesRespawn(t *testing.T) {
	w, e := newPlayerWorld(t)
	frame := movement.InputFrame{Forward: true, Jump: true}

	applyInput(w, frame, false)
	input, _ := ecs.Get(w, e, component.InputComponent.Kind())
	assert.Equal(t, frame, input.Frame)
	assert.False(t, ecs.Has(w, e, component.RespawnRequestComponent.Kind()))

	applyInput(w, movement.InputFrame{}, true)
	assert.Equal(t, movement.InputFrame{}, input.Frame)
	assert.True(t, ecs.Has(w, e, component.RespawnRequestComponent.Kind()))

	NewRespawnSystem().Update(w)
	assert.False(t, ecs.Has(w, e, component.RespawnRequestComponent.Kind()))
}

func TestMergeStick(t *testing.T) {
	f := mergeStick(movement.InputFrame{}, -0.8, -0.9)
	assert.Equal(t, movement.InputFrame{Left: true, Forward: true}, f)

	f = mergeStick(movement.InputFrame{Jump: true}, 0.1, 0.2)
	assert.Equal(t, movement.InputFrame{Jump: true}, f, "deadzone leaves keys alone")
}

func TestRenderSystemTalliesPhaseEvents(t *testing.T) {
	w := ecs.NewWorld()
	r := NewRenderSystem()

	w.Events().Push(ecs.Event{Kind: ecs.EventPhaseChanged, Data: PhaseChange{From: movement.PhaseGrounded, To: movement.PhaseAirborne, Jumped: true}})
	w.Events().Push(ecs.Event{Kind: ecs.EventPhaseChanged, Data: PhaseChange{From: movement.PhaseAirborne, To: movement.PhaseGrounded}})
	w.Events().Push(ecs.Event{Kind: ecs.EventTuningLoaded, Data: TuningLoaded{Prefab: "player.yaml"}})
	r.Update(w)

	assert.Equal(t, 1, r.jumps)
	assert.Equal(t, 1, r.landings)

	v := view{centerX: 10, centerZ: -10, zoom: 2, halfW: 100, halfH: 50}
	x, y := v.toScreen(10, -10)
	assert.Equal(t, float32(100), x)
	assert.Equal(t, float32(50), y)
}
