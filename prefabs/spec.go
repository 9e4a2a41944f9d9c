package prefabs

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/movement"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadFile decodes a YAML file by path, outside the prefab directory.
func LoadFile[T any](path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("prefabs: read %s: %w", path, err)
	}
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", path, err)
	}
	return spec, nil
}

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
}

func (s TransformComponentSpec) Position() mgl64.Vec3 {
	return mgl64.Vec3{s.X, s.Y, s.Z}
}

type LookComponentSpec struct {
	Sensitivity float64 `yaml:"sensitivity"`
	PitchLimit  float64 `yaml:"pitch_limit"`
}

// MovementComponentSpec mirrors movement.Config. Omitted fields fall back to
// movement.DefaultConfig.
type MovementComponentSpec struct {
	ForwardMove     *float64 `yaml:"forward_move"`
	SideMove        *float64 `yaml:"side_move"`
	WishSpeed       *float64 `yaml:"wish_speed"`
	MaxAirSpeed     *float64 `yaml:"max_air_speed"`
	Acceleration    *float64 `yaml:"acceleration"`
	AirAcceleration *float64 `yaml:"air_acceleration"`
	SurfaceFriction *float64 `yaml:"surface_friction"`
	Friction        *float64 `yaml:"friction"`
	StopSpeed       *float64 `yaml:"stop_speed"`
	Gravity         *float64 `yaml:"gravity"`
	JumpHeight      *float64 `yaml:"jump_height"`
	GroundHeight    *float64 `yaml:"ground_height"`

	Substeps int     `yaml:"substeps"`
	MaxFrame float64 `yaml:"max_frame"`
}

// Config resolves the spec against the defaults and validates the result.
func (s MovementComponentSpec) Config() (movement.Config, error) {
	cfg := movement.DefaultConfig()
	overrides := []struct {
		src *float64
		dst *float64
	}{
		{s.ForwardMove, &cfg.ForwardMove},
		{s.SideMove, &cfg.SideMove},
		{s.WishSpeed, &cfg.WishSpeed},
		{s.MaxAirSpeed, &cfg.MaxAirSpeed},
		{s.Acceleration, &cfg.Acceleration},
		{s.AirAcceleration, &cfg.AirAcceleration},
		{s.SurfaceFriction, &cfg.SurfaceFriction},
		{s.Friction, &cfg.Friction},
		{s.StopSpeed, &cfg.StopSpeed},
		{s.Gravity, &cfg.Gravity},
		{s.JumpHeight, &cfg.JumpHeight},
		{s.GroundHeight, &cfg.GroundHeight},
	}
	for _, o := range overrides {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	if err := cfg.Validate(); err != nil {
		return movement.Config{}, fmt.Errorf("prefabs: movement: %w", err)
	}
	return cfg, nil
}

// Substepper returns the frame split for this spec.
func (s MovementComponentSpec) Substepper() movement.Substepper {
	st := movement.NewSubstepper()
	if s.Substeps > 0 {
		st.Steps = s.Substeps
	}
	if s.MaxFrame > 0 {
		st.MaxFrame = s.MaxFrame
	}
	return st
}

type CameraComponentSpec struct {
	Target     string  `yaml:"target"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}

type LevelBoundsComponentSpec struct {
	Width float64 `yaml:"width"`
	Cell  float64 `yaml:"cell"`
}

// MovementSpecFromPrefab pulls the movement section out of an entity prefab.
func MovementSpecFromPrefab(filename string) (MovementComponentSpec, error) {
	spec, err := LoadEntityBuildSpec(filename)
	if err != nil {
		return MovementComponentSpec{}, err
	}
	raw, ok := spec.Components["movement"]
	if !ok {
		return MovementComponentSpec{}, fmt.Errorf("prefabs: %s has no movement component", filename)
	}
	out, err := DecodeComponentSpec[MovementComponentSpec](raw)
	if err != nil {
		return MovementComponentSpec{}, fmt.Errorf("prefabs: decode movement in %s: %w", filename, err)
	}
	return out, nil
}

// TransformSpecFromPrefab pulls the transform section out of an entity prefab.
func TransformSpecFromPrefab(filename string) (TransformComponentSpec, error) {
	spec, err := LoadEntityBuildSpec(filename)
	if err != nil {
		return TransformComponentSpec{}, err
	}
	out, err := DecodeComponentSpec[TransformComponentSpec](spec.Components["transform"])
	if err != nil {
		return TransformComponentSpec{}, fmt.Errorf("prefabs: decode transform in %s: %w", filename, err)
	}
	return out, nil
}
