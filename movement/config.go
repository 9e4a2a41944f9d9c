package movement

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("movement: invalid config")

// Config holds the tuning for one controller. Units are world units and
// seconds.
type Config struct {
	ForwardMove     float64
	SideMove        float64
	WishSpeed       float64
	MaxAirSpeed     float64
	Acceleration    float64
	AirAcceleration float64
	SurfaceFriction float64
	Friction        float64
	StopSpeed       float64
	Gravity         float64
	JumpHeight      float64
	GroundHeight    float64

	impulse jumpImpulse
}

// jumpImpulse caches sqrt(2*gravity*height) for the inputs it was derived from.
type jumpImpulse struct {
	gravity float64
	height  float64
	value   float64
	ok      bool
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		ForwardMove:     400,
		SideMove:        400,
		WishSpeed:       260,
		MaxAirSpeed:     30,
		Acceleration:    5,
		AirAcceleration: 1000,
		SurfaceFriction: 1,
		Friction:        4,
		StopSpeed:       75,
		Gravity:         800,
		JumpHeight:      56,
		GroundHeight:    64,
	}
}

// JumpImpulse returns the vertical speed needed to reach JumpHeight under
// Gravity. The value is only recomputed when either input changed.
func (c *Config) JumpImpulse() float64 {
	if c == nil {
		return 0
	}
	if c.impulse.ok && c.impulse.gravity == c.Gravity && c.impulse.height == c.JumpHeight {
		return c.impulse.value
	}
	c.impulse = jumpImpulse{
		gravity: c.Gravity,
		height:  c.JumpHeight,
		value:   math.Sqrt(2 * c.Gravity * c.JumpHeight),
		ok:      true,
	}
	return c.impulse.value
}

// SetGravity updates gravity; the jump impulse follows on next use.
func (c *Config) SetGravity(g float64) {
	if c == nil {
		return
	}
	c.Gravity = g
}

// SetJumpHeight updates the jump height; the jump impulse follows on next use.
func (c *Config) SetJumpHeight(h float64) {
	if c == nil {
		return
	}
	c.JumpHeight = h
}

// Validate rejects tuning the integrator cannot run with.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"forward_move", c.ForwardMove},
		{"side_move", c.SideMove},
		{"wish_speed", c.WishSpeed},
		{"max_air_speed", c.MaxAirSpeed},
		{"acceleration", c.Acceleration},
		{"air_acceleration", c.AirAcceleration},
		{"surface_friction", c.SurfaceFriction},
		{"friction", c.Friction},
		{"stop_speed", c.StopSpeed},
		{"gravity", c.Gravity},
		{"jump_height", c.JumpHeight},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidConfig, f.name, f.value)
		}
	}
	if c.Gravity == 0 {
		return fmt.Errorf("%w: gravity must be positive", ErrInvalidConfig)
	}
	if math.IsNaN(c.GroundHeight) || math.IsInf(c.GroundHeight, 0) {
		return fmt.Errorf("%w: ground_height is not finite", ErrInvalidConfig)
	}
	return nil
}
