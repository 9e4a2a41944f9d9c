package movement

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidDeltaTime = errors.New("movement: delta time must be a finite positive number")

// minFrictionSpeed is the speed below which friction leaves velocity alone.
const minFrictionSpeed = 0.1

// Phase is the controller's ground state.
type Phase uint8

const (
	PhaseGrounded Phase = iota
	PhaseAirborne
)

func (p Phase) String() string {
	switch p {
	case PhaseGrounded:
		return "grounded"
	case PhaseAirborne:
		return "airborne"
	default:
		return "unknown"
	}
}

// State is the kinematic state owned by a Controller.
type State struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	OnGround bool
}

// GroundProbe decides whether a position counts as standing on the ground.
type GroundProbe interface {
	Grounded(pos mgl64.Vec3) bool
}

// HeightProbe treats everything at or below Height as ground. It stands in
// for real collision.
type HeightProbe struct {
	Height float64
}

func (p HeightProbe) Grounded(pos mgl64.Vec3) bool {
	return pos.Y() <= p.Height
}

// Controller integrates one player's movement.
type Controller struct {
	cfg   Config
	state State
	look  Orientation
	probe GroundProbe

	jumped bool
}

// NewController creates a controller at rest at spawn. look may be nil, in
// which case the player faces yaw 0.
func NewController(cfg Config, spawn mgl64.Vec3, look Orientation) *Controller {
	c := &Controller{
		cfg:  cfg,
		look: look,
	}
	c.state.Position = spawn
	c.state.OnGround = c.groundProbe().Grounded(spawn)
	c.cfg.JumpImpulse()
	return c
}

// Config returns a copy of the active tuning.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// Retune swaps in new tuning. The cached jump impulse carries over unless
// gravity or jump height changed.
func (c *Controller) Retune(next Config) {
	if c == nil {
		return
	}
	next.impulse = c.cfg.impulse
	c.cfg = next
	c.cfg.JumpImpulse()
}

// SetGroundProbe replaces the height threshold ground check. nil restores it.
func (c *Controller) SetGroundProbe(p GroundProbe) {
	if c == nil {
		return
	}
	c.probe = p
}

// SetOrientation replaces the facing source.
func (c *Controller) SetOrientation(look Orientation) {
	if c == nil {
		return
	}
	c.look = look
}

// State returns a copy of the kinematic state.
func (c *Controller) State() State {
	if c == nil {
		return State{}
	}
	return c.state
}

func (c *Controller) Position() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.state.Position
}

func (c *Controller) Velocity() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.state.Velocity
}

func (c *Controller) OnGround() bool {
	if c == nil {
		return false
	}
	return c.state.OnGround
}

// Phase reports the ground state decided by the last step.
func (c *Controller) Phase() Phase {
	if c == nil {
		return PhaseAirborne
	}
	if c.state.OnGround {
		return PhaseGrounded
	}
	return PhaseAirborne
}

// Jumped reports whether the last step launched a jump.
func (c *Controller) Jumped() bool {
	if c == nil {
		return false
	}
	return c.jumped
}

// HorizontalSpeed is the speed on the ground plane.
func (c *Controller) HorizontalSpeed() float64 {
	if c == nil {
		return 0
	}
	v := c.state.Velocity
	return math.Hypot(v.X(), v.Z())
}

// Teleport moves the player and clears momentum.
func (c *Controller) Teleport(pos mgl64.Vec3) {
	if c == nil {
		return
	}
	c.state.Position = pos
	c.state.Velocity = mgl64.Vec3{}
	c.state.OnGround = c.groundProbe().Grounded(pos)
	c.jumped = false
}

// Step advances the player by one substep of dt seconds. Callers split
// frames with a Substepper; the integrator is explicit Euler and its
// behaviour depends on the step size.
func (c *Controller) Step(in InputFrame, dt float64) error {
	if c == nil {
		return nil
	}
	if !(dt > 0) || math.IsInf(dt, 1) {
		return ErrInvalidDeltaTime
	}

	yaw, pitch := c.angles()
	wish := WishFromInput(in, yaw, pitch, c.cfg)

	c.state.OnGround = c.groundProbe().Grounded(c.state.Position)
	c.jumped = false

	if in.Jump && c.state.OnGround {
		c.state.Velocity[1] = c.cfg.JumpImpulse()
		c.state.OnGround = false
		c.jumped = true
	}

	if !c.state.OnGround {
		c.state.Velocity[1] -= c.cfg.Gravity * dt
		c.airAccelerate(wish.Direction, wish.Speed, dt)
	} else {
		c.state.Velocity[1] = 0
		c.friction(dt)
		c.accelerate(wish.Direction, wish.Speed, dt)
	}

	c.state.Position = c.state.Position.Add(c.state.Velocity.Mul(dt))
	return nil
}

// accelerate pushes velocity toward wishSpeed along dir. Speed already at or
// above wishSpeed in that direction is left for friction to bleed off.
func (c *Controller) accelerate(dir mgl64.Vec3, wishSpeed, dt float64) {
	current := c.state.Velocity.Dot(dir)
	add := wishSpeed - current
	if add <= 0 {
		return
	}
	accel := c.cfg.Acceleration * wishSpeed * c.cfg.SurfaceFriction * dt
	if accel > add {
		accel = add
	}
	c.state.Velocity = c.state.Velocity.Add(dir.Mul(accel))
}

// airAccelerate caps the gain along dir at MaxAirSpeed but scales the rate by
// the uncapped wish speed, which is what makes air strafing work.
func (c *Controller) airAccelerate(dir mgl64.Vec3, wishSpeed, dt float64) {
	capped := math.Min(c.cfg.MaxAirSpeed, wishSpeed)
	current := c.state.Velocity.Dot(dir)
	add := capped - current
	if add <= 0 {
		return
	}
	accel := c.cfg.AirAcceleration * wishSpeed * c.cfg.SurfaceFriction * dt
	if accel > add {
		accel = add
	}
	c.state.Velocity = c.state.Velocity.Add(dir.Mul(accel))
}

// friction scales velocity down without changing its direction. Below
// StopSpeed the drop is computed as if moving at StopSpeed, so the player
// comes to a full stop instead of sliding forever.
func (c *Controller) friction(dt float64) {
	speed := c.state.Velocity.Len()
	if speed < minFrictionSpeed {
		return
	}
	control := math.Max(speed, c.cfg.StopSpeed)
	drop := control * c.cfg.Friction * c.cfg.SurfaceFriction * dt

	newSpeed := math.Max(0, speed-drop)
	if newSpeed != speed {
		c.state.Velocity = c.state.Velocity.Mul(newSpeed / speed)
	}
}

func (c *Controller) angles() (float64, float64) {
	if c.look == nil {
		return 0, 0
	}
	return c.look.Angles()
}

func (c *Controller) groundProbe() GroundProbe {
	if c.probe != nil {
		return c.probe
	}
	return HeightProbe{Height: c.cfg.GroundHeight}
}
