package system

import (
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/component"
	"github.com/milk9111/strafe/prefabs"
	"github.com/rs/zerolog/log"
)

// TuningLoaded is the payload of ecs.EventTuningLoaded.
type TuningLoaded struct {
	Prefab string
}

// TuningSystem re-reads the player prefab when it changes on disk and pushes
// the new movement tuning into live controllers. Position and velocity are
// kept; a bad file is logged and the old tuning stays.
type TuningSystem struct {
	prefab  string
	changes <-chan string
	errs    <-chan error
}

// NewTuningSystem listens on changes, which carries changed prefab base
// names (see prefabs.Watcher). errs may be nil.
func NewTuningSystem(prefab string, changes <-chan string, errs <-chan error) *TuningSystem {
	return &TuningSystem{prefab: prefab, changes: changes, errs: errs}
}

func (s *TuningSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	reload := false
	for drained := false; !drained; {
		select {
		case name, ok := <-s.changes:
			if !ok {
				s.changes = nil
				continue
			}
			if name == s.prefab {
				reload = true
			}
		case err, ok := <-s.errs:
			if !ok {
				s.errs = nil
				continue
			}
			log.Warn().Err(err).Msg("prefab watcher error")
		default:
			drained = true
		}
	}
	if reload {
		s.Reload(w)
	}
}

// Reload applies the prefab's movement section to every player now.
func (s *TuningSystem) Reload(w *ecs.World) bool {
	spec, err := prefabs.MovementSpecFromPrefab(s.prefab)
	if err != nil {
		log.Error().Err(err).Str("prefab", s.prefab).Msg("tuning reload failed")
		return false
	}
	cfg, err := spec.Config()
	if err != nil {
		log.Error().Err(err).Str("prefab", s.prefab).Msg("tuning rejected")
		return false
	}
	substeps := spec.Substepper()

	count := 0
	ecs.ForEach2(w, component.MovementComponent.Kind(), component.PlayerTagComponent.Kind(), func(_ ecs.Entity, m *component.Movement, _ *component.PlayerTag) {
		if m.Controller == nil {
			return
		}
		m.Controller.Retune(cfg)
		m.Substeps = substeps
		count++
	})

	w.Events().Push(ecs.Event{Kind: ecs.EventTuningLoaded, Data: TuningLoaded{Prefab: s.prefab}})
	log.Info().
		Str("prefab", s.prefab).
		Int("players", count).
		Float64("gravity", cfg.Gravity).
		Float64("jump_impulse", cfg.JumpImpulse()).
		Int("substeps", substeps.Steps).
		Msg("tuning reloaded")
	return true
}
