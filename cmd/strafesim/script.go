package main

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/movement"
	"github.com/milk9111/strafe/prefabs"
)

const defaultFrameDT = 1.0 / 60

var errEmptyScript = errors.New("script has no segments")

// Script is a sequence of input segments replayed against one controller.
type Script struct {
	Spawn    *[3]float64 `yaml:"spawn"`
	Segments []Segment   `yaml:"segments"`
}

// Segment holds the same keys for Frames frames. Yaw is absolute and
// YawRate turns per second, both in degrees. A nil Yaw keeps the heading.
type Segment struct {
	Frames  int      `yaml:"frames"`
	FrameDT float64  `yaml:"frame_dt"`
	Keys    []string `yaml:"keys"`
	Yaw     *float64 `yaml:"yaw"`
	YawRate float64  `yaml:"yaw_rate"`
	Pitch   float64  `yaml:"pitch"`
}

func LoadScript(path string) (Script, error) {
	s, err := prefabs.LoadFile[Script](path)
	if err != nil {
		return Script{}, err
	}
	if err := s.Validate(); err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s Script) Validate() error {
	if len(s.Segments) == 0 {
		return errEmptyScript
	}
	for i, seg := range s.Segments {
		if seg.Frames <= 0 {
			return fmt.Errorf("segment %d: frames must be positive", i)
		}
		if seg.FrameDT < 0 || math.IsNaN(seg.FrameDT) || math.IsInf(seg.FrameDT, 0) {
			return fmt.Errorf("segment %d: bad frame_dt %v", i, seg.FrameDT)
		}
		if _, err := seg.Input(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

func (s Script) SpawnPoint(cfg movement.Config) mgl64.Vec3 {
	if s.Spawn == nil {
		return mgl64.Vec3{0, cfg.GroundHeight, 0}
	}
	return mgl64.Vec3(*s.Spawn)
}

func (seg Segment) frameDT() float64 {
	if seg.FrameDT == 0 {
		return defaultFrameDT
	}
	return seg.FrameDT
}

// Input maps key names onto an input frame.
func (seg Segment) Input() (movement.InputFrame, error) {
	var in movement.InputFrame
	for _, k := range seg.Keys {
		switch strings.ToLower(k) {
		case "w", "forward", "up":
			in.Forward = true
		case "s", "back", "down":
			in.Back = true
		case "a", "left":
			in.Left = true
		case "d", "right":
			in.Right = true
		case "space", "jump":
			in.Jump = true
		default:
			return movement.InputFrame{}, fmt.Errorf("unknown key %q", k)
		}
	}
	return in, nil
}

// Sample is the controller state after one frame.
type Sample struct {
	Frame  int
	Time   float64
	State  movement.State
	HSpeed float64
	Yaw    float64
	Phase  movement.Phase
}

// Summary aggregates a whole run.
type Summary struct {
	Frames      int
	Duration    float64
	PeakHSpeed  float64
	FinalHSpeed float64
	Airtime     float64
	Jumps       int
	Distance    float64
}

// Runner replays a script. Every frame is split by the substepper the same
// way the game loop splits its frames.
type Runner struct {
	Controller *movement.Controller
	Substeps   movement.Substepper
	look       *movement.Angles
}

func NewRunner(cfg movement.Config, substeps movement.Substepper, spawn mgl64.Vec3) *Runner {
	look := &movement.Angles{}
	return &Runner{
		Controller: movement.NewController(cfg, spawn, look),
		Substeps:   substeps,
		look:       look,
	}
}

// Run plays every segment and calls emit after each frame; emit may be nil.
func (r *Runner) Run(s Script, emit func(Sample)) (Summary, error) {
	var sum Summary
	start := r.Controller.Position()
	t := 0.0
	frame := 0

	for i, seg := range s.Segments {
		in, err := seg.Input()
		if err != nil {
			return sum, fmt.Errorf("segment %d: %w", i, err)
		}
		if seg.Yaw != nil {
			r.look.Yaw = mgl64.DegToRad(*seg.Yaw)
		}
		r.look.Pitch = mgl64.DegToRad(seg.Pitch)
		dt := seg.frameDT()

		for f := 0; f < seg.Frames; f++ {
			r.look.Yaw += mgl64.DegToRad(seg.YawRate) * dt

			step, n := r.Substeps.Split(dt)
			for k := 0; k < n; k++ {
				if err := r.Controller.Step(in, step); err != nil {
					return sum, fmt.Errorf("segment %d frame %d: %w", i, f, err)
				}
				if r.Controller.Jumped() {
					sum.Jumps++
				}
				if !r.Controller.OnGround() {
					sum.Airtime += step
				}
			}

			frame++
			t += dt
			hs := r.Controller.HorizontalSpeed()
			sum.PeakHSpeed = math.Max(sum.PeakHSpeed, hs)
			if emit != nil {
				emit(Sample{Frame: frame, Time: t, State: r.Controller.State(), HSpeed: hs, Yaw: r.look.Yaw, Phase: r.Controller.Phase()})
			}
		}
	}

	sum.Frames = frame
	sum.Duration = t
	sum.FinalHSpeed = r.Controller.HorizontalSpeed()
	d := r.Controller.Position().Sub(start)
	sum.Distance = math.Hypot(d.X(), d.Z())
	return sum, nil
}
