package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/strafe/prefabs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Prefabs string `help:"Directory of prefab YAML overriding the embedded defaults." default:"prefabs" type:"path"`
	Watch   bool   `help:"Reload movement tuning when the player prefab changes on disk."`
	Debug   bool   `help:"Enable debug logging (phase changes, tuning details)."`
	Monitor bool   `help:"Use the first monitor instead of the primary one." short:"m"`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	kong.Parse(&CLI,
		kong.Name("strafe"),
		kong.Description("first-person air-strafing movement sandbox"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	prefabs.SetDir(CLI.Prefabs)

	if CLI.Monitor {
		if monitors := ebiten.AppendMonitors(nil); len(monitors) > 0 {
			ebiten.SetMonitor(monitors[0])
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("strafe")

	if err := run(); err != nil {
		writeError(err)
	}
}

// run owns the game so the prefab watcher is closed on every exit path.
func run() error {
	game, err := NewGame(CLI.Watch)
	if err != nil {
		return err
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Error().Err(err).Msg("game exited")
		return err
	}
	return nil
}
