// Command simulate replays a recorded input file headlessly and reports what
// the character did.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/younwookim/adventurer/internal/application/replay"
	"github.com/younwookim/adventurer/internal/application/system"
	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/domain/entity"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
)

var errNoReplay = errors.New("no replay file given")

type options struct {
	ConfigDir string
	Replay    string
	Stage     string
	Backend   string
	Settle    int
	Verbose   bool
}

// summary is the outcome of one simulated run
type summary struct {
	Stage       string
	Backend     string
	Ticks       int
	Steps       int
	Hits        int
	Hidden      int
	Targets     int
	Transitions int
	Final       character.State
	Position    character.Vec
	Cleared     bool
}

func (s summary) String() string {
	return fmt.Sprintf("stage %s (%s): %d ticks, %d steps, %d transitions, %d hits, %d/%d targets hidden, final %s at (%.2f, %.2f)",
		s.Stage, s.Backend, s.Ticks, s.Steps, s.Transitions, s.Hits, s.Hidden, s.Targets,
		s.Final, s.Position.X, s.Position.Y)
}

func main() {
	var opts options
	flag.StringVar(&opts.ConfigDir, "config", "cmd/game/configs", "Config directory")
	flag.StringVar(&opts.Replay, "replay", "", "Replay file to play back")
	flag.StringVar(&opts.Stage, "stage", "", "Override the recorded stage")
	flag.StringVar(&opts.Backend, "backend", "", "Override the recorded physics backend")
	flag.IntVar(&opts.Settle, "settle", 60, "Idle ticks to run after the last recorded frame")
	flag.BoolVar(&opts.Verbose, "v", false, "Log every state transition")
	flag.Parse()

	s, err := run(opts)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
	log.Print(s)
	if s.Cleared {
		log.Print("Stage cleared")
	}
}

func run(opts options) (summary, error) {
	if opts.Replay == "" {
		return summary{}, errNoReplay
	}

	data, err := replay.LoadReplay(opts.Replay)
	if err != nil {
		return summary{}, err
	}

	loader := config.NewLoader(opts.ConfigDir)
	cfg, err := loader.LoadAll()
	if err != nil {
		return summary{}, err
	}

	stageName := data.Stage
	if opts.Stage != "" {
		stageName = opts.Stage
	}
	stageCfg, err := loader.LoadStage(stageName)
	if err != nil {
		return summary{}, err
	}

	backend := data.Backend
	if opts.Backend != "" {
		backend = opts.Backend
	}
	if data.FixedDt > 0 && data.FixedDt != cfg.Physics.Physics.FixedDelta {
		log.Printf("Recorded with fixed delta %v, simulating with %v", data.FixedDt, cfg.Physics.Physics.FixedDelta)
	}

	session, err := system.NewSession(cfg, stageCfg, backend)
	if err != nil {
		return summary{}, err
	}

	s := summary{
		Stage:   stageName,
		Backend: session.Backend,
		Targets: len(session.Targets.Targets()),
	}

	ctrl := session.Controller
	ctrl.OnTransition = func(from, to character.State) {
		s.Transitions++
		if opts.Verbose {
			log.Printf("tick %d: %s -> %s", ctrl.Ticks(), from, to)
		}
	}
	session.Targets.OnHide = func(t *entity.Target) {
		s.Hidden++
		if opts.Verbose {
			log.Printf("tick %d: target %d hidden", ctrl.Ticks(), t.ID)
		}
	}

	dt := 1.0 / float64(cfg.Physics.Display.Framerate)
	replayer := replay.NewReplayer(*data)
	for !replayer.Done() {
		session.Tick(replayer.GetInput(), dt)
	}
	for i := 0; i < opts.Settle; i++ {
		session.Tick(system.InputState{}, dt)
	}

	s.Ticks = ctrl.Ticks()
	s.Steps = ctrl.Steps()
	s.Hits = ctrl.Hits()
	s.Final = ctrl.Machine().State()
	s.Position = ctrl.Body().Position()
	s.Cleared = session.Cleared()
	return s, nil
}
