package main

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/strafe/ecs"
	"github.com/milk9111/strafe/ecs/entity"
	"github.com/milk9111/strafe/ecs/system"
	"github.com/milk9111/strafe/prefabs"
	"github.com/rs/zerolog/log"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	playerPrefab = "player.yaml"
)

type Game struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	render    *system.RenderSystem
	watcher   *prefabs.Watcher

	last time.Time
}

func NewGame(watch bool) (*Game, error) {
	g := &Game{
		world:  ecs.NewWorld(),
		render: system.NewRenderSystem(),
	}

	if _, err := entity.NewLevel(g.world); err != nil {
		return nil, fmt.Errorf("build level: %w", err)
	}
	if _, err := entity.NewCamera(g.world); err != nil {
		return nil, fmt.Errorf("build camera: %w", err)
	}
	if _, err := entity.NewPlayer(g.world); err != nil {
		return nil, fmt.Errorf("build player: %w", err)
	}

	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewLookSystem(),
	)
	if watch {
		w, err := prefabs.NewWatcher(prefabs.Dir())
		if err != nil {
			log.Warn().Err(err).Str("dir", prefabs.Dir()).Msg("prefab watching disabled")
		} else {
			g.watcher = w
			g.scheduler.Add(system.NewTuningSystem(playerPrefab, w.Events, w.Errors))
			log.Info().Str("dir", prefabs.Dir()).Msg("watching prefabs")
		}
	}

	g.scheduler.Add(system.NewRespawnSystem())
	g.scheduler.Add(system.NewMovementSystem())
	g.scheduler.Add(system.NewCameraSystem())
	g.scheduler.Add(g.render)
	return g, nil
}

func (g *Game) Update() error {
	now := time.Now()
	delta := 1.0 / float64(ebiten.TPS())
	if !g.last.IsZero() {
		delta = now.Sub(g.last).Seconds()
	}
	g.last = now

	g.world.BeginFrame(delta)
	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Warn().Err(err).Msg("close prefab watcher")
		}
	}
}
