package entity

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
	"github.com/milk9111/strafe/movement"
	"github.com/milk9111/strafe/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPrefabDir(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	prev := prefabs.Dir()
	prefabs.SetDir(dir)
	t.Cleanup(func() { prefabs.SetDir(prev) })
}

func TestBuildPlayerPrefab(t *testing.T) {
	withPrefabDir(t, nil)
	w := ecs.NewWorld()

	e, err := NewPlayer(w)
	require.NoError(t, err)

	assert.True(t, ecs.Has(w, e, component.PlayerTagComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.InputComponent.Kind()))

	name, ok := ecs.Get(w, e, component.NameComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "player", name.Value)

	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	require.True(t, ok)
	require.NotNil(t, m.Controller)
	assert.True(t, m.Controller.OnGround(), "default spawn sits on the ground threshold")
	assert.Equal(t, mgl64.Vec3{0, 64, 0}, m.Spawn)
	assert.Equal(t, 5, m.Substeps.Steps)

	look, ok := ecs.Get(w, e, component.LookComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1.0, look.Sensitivity)

	// the controller reads the live Look component
	look.Yaw = math.Pi / 2
	require.NoError(t, m.Controller.Step(movement.InputFrame{Forward: true}, 1.0/300))
	v := m.Controller.Velocity()
	assert.Less(t, v.X(), 0.0, "yaw of a quarter turn faces -X")
	assert.InDelta(t, 0, v.Z(), 1e-9)
}

func TestNewPlayerAt(t *testing.T) {
	withPrefabDir(t, nil)
	w := ecs.NewWorld()

	pos := mgl64.Vec3{10, 300, -5}
	e, err := NewPlayerAt(w, pos)
	require.NoError(t, err)

	m, _ := ecs.Get(w, e, component.MovementComponent.Kind())
	assert.Equal(t, pos, m.Controller.Position())
	assert.False(t, m.Controller.OnGround())
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, pos, tr.Position)
}

func TestBuildEntityErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown_component", "components:\n  jetpack: {}\n"},
		{"no_components", "name: empty\n"},
		{"movement_without_transform", "components:\n  movement: {}\n"},
		{"bad_tuning", "components:\n  transform: {y: 64}\n  movement:\n    gravity: -1\n"},
		{"bad_bounds", "components:\n  level_bounds:\n    width: 0\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withPrefabDir(t, map[string]string{"broken.yaml": tc.body})
			w := ecs.NewWorld()

			_, err := BuildEntity(w, "broken.yaml")
			require.Error(t, err)
			assert.Empty(t, ecs.Entities(w), "failed builds must not leave entities behind")
		})
	}
}

func TestCameraAndLevelPrefabs(t *testing.T) {
	withPrefabDir(t, nil)
	w := ecs.NewWorld()

	cam, err := NewCamera(w)
	require.NoError(t, err)
	c, ok := ecs.Get(w, cam, component.CameraComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "player", c.TargetName)

	lvl, err := NewLevel(w)
	require.NoError(t, err)
	b, ok := ecs.Get(w, lvl, component.LevelBoundsComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 3000.0, b.Width)
	assert.Equal(t, 64.0, b.Cell)
}
