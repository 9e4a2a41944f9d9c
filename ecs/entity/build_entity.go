package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
	"github.com/milk9111/strafe/movement"
	"github.com/milk9111/strafe/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":   addPlayerTag,
	"camera_tag":   addCameraTag,
	"name":         addName,
	"transform":    addTransform,
	"look":         addLook,
	"input":        addInput,
	"movement":     addMovement,
	"camera":       addCamera,
	"level_bounds": addLevelBounds,
}

// movement reads the spawn from transform and facing from look, so those
// are built first.
var componentBuildOrder = []string{
	"player_tag",
	"camera_tag",
	"name",
	"transform",
	"look",
	"input",
	"movement",
	"camera",
	"level_bounds",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	names := make([]string, 0, len(spec.Components))
	for _, name := range componentBuildOrder {
		if _, ok := spec.Components[name]; ok {
			names = append(names, name)
		}
	}
	var unknown []string
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, unknown[0])
	}

	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addName(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[component.Name](raw)
	if err != nil {
		return fmt.Errorf("decode name spec: %w", err)
	}
	return ecs.Add(w, e, component.NameComponent.Kind(), &spec)
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: spec.Position(),
		Yaw:      spec.Yaw,
		Pitch:    spec.Pitch,
	})
}

type lookSpec = prefabs.LookComponentSpec

// defaultPitchLimit stops just short of straight up or down.
const defaultPitchLimit = 1.5607963267948966

func addLook(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[lookSpec](raw)
	if err != nil {
		return fmt.Errorf("decode look spec: %w", err)
	}
	if spec.Sensitivity <= 0 {
		spec.Sensitivity = 1
	}
	if spec.PitchLimit <= 0 {
		spec.PitchLimit = defaultPitchLimit
	}
	look := &component.Look{
		Sensitivity: spec.Sensitivity,
		PitchLimit:  spec.PitchLimit,
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		look.Yaw = t.Yaw
		look.Pitch = t.Pitch
	}
	return ecs.Add(w, e, component.LookComponent.Kind(), look)
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type movementSpec = prefabs.MovementComponentSpec

func addMovement(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[movementSpec](raw)
	if err != nil {
		return fmt.Errorf("decode movement spec: %w", err)
	}
	cfg, err := spec.Config()
	if err != nil {
		return err
	}

	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("movement needs a transform for its spawn point")
	}
	var look movement.Orientation
	if l, ok := ecs.Get(w, e, component.LookComponent.Kind()); ok {
		look = l
	}

	c := movement.NewController(cfg, t.Position, look)
	return ecs.Add(w, e, component.MovementComponent.Kind(), &component.Movement{
		Controller: c,
		Substeps:   spec.Substepper(),
		Phase:      c.Phase(),
		Spawn:      t.Position,
	})
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.Zoom <= 0 {
		spec.Zoom = 1
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		TargetName: spec.Target,
		Zoom:       spec.Zoom,
		Smoothness: spec.Smoothness,
	})
}

type levelBoundsSpec = prefabs.LevelBoundsComponentSpec

func addLevelBounds(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[levelBoundsSpec](raw)
	if err != nil {
		return fmt.Errorf("decode level bounds spec: %w", err)
	}
	if spec.Width <= 0 || spec.Cell <= 0 {
		return fmt.Errorf("level bounds need positive width and cell, got %g/%g", spec.Width, spec.Cell)
	}
	return ecs.Add(w, e, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width: spec.Width,
		Cell:  spec.Cell,
	})
}
