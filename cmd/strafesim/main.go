package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/milk9111/strafe/prefabs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Script  string `arg:"" name:"script" help:"YAML input script to replay." type:"existingfile"`
	Prefabs string `help:"Prefab directory overriding the embedded defaults." default:"prefabs" type:"path"`
	Prefab  string `help:"Prefab whose movement section tunes the controller." default:"player.yaml"`
	Every   int    `help:"Log the state every N frames (0 disables per-frame output)." default:"0"`
	Summary bool   `help:"Log a summary when the script finishes." default:"true" negatable:""`
	Debug   bool   `help:"Enable debug logging."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	kong.Parse(&CLI,
		kong.Name("strafesim"),
		kong.Description("replay a scripted input sequence through the movement controller"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := run(); err != nil {
		writeError(err)
	}
}

func run() error {
	prefabs.SetDir(CLI.Prefabs)

	spec, err := prefabs.MovementSpecFromPrefab(CLI.Prefab)
	if err != nil {
		return err
	}
	cfg, err := spec.Config()
	if err != nil {
		return err
	}

	script, err := LoadScript(CLI.Script)
	if err != nil {
		return err
	}

	runner := NewRunner(cfg, spec.Substepper(), script.SpawnPoint(cfg))
	log.Debug().
		Str("script", CLI.Script).
		Int("segments", len(script.Segments)).
		Int("substeps", runner.Substeps.Steps).
		Float64("jump_impulse", cfg.JumpImpulse()).
		Msg("replaying")

	sum, err := runner.Run(script, func(s Sample) {
		if CLI.Every <= 0 || s.Frame%CLI.Every != 0 {
			return
		}
		p, v := s.State.Position, s.State.Velocity
		log.Info().
			Int("frame", s.Frame).
			Float64("t", s.Time).
			Floats64("pos", []float64{p.X(), p.Y(), p.Z()}).
			Floats64("vel", []float64{v.X(), v.Y(), v.Z()}).
			Float64("hspeed", s.HSpeed).
			Stringer("phase", s.Phase).
			Msg("frame")
	})
	if err != nil {
		return err
	}

	if CLI.Summary {
		log.Info().
			Int("frames", sum.Frames).
			Float64("duration", sum.Duration).
			Float64("peak_hspeed", sum.PeakHSpeed).
			Float64("final_hspeed", sum.FinalHSpeed).
			Float64("airtime", sum.Airtime).
			Int("jumps", sum.Jumps).
			Float64("distance", sum.Distance).
			Msg("summary")
	}
	return nil
}
