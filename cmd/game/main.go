package main

import (
	"flag"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/adventurer/internal/application/game"
	"github.com/younwookim/adventurer/internal/application/scene/playing"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
)

func main() {
	opts, err := config.LoadOptions()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	// Command line flags override the environment
	flag.StringVar(&opts.ConfigDir, "config", opts.ConfigDir, "Load configs from this directory and reload tuning on change")
	flag.StringVar(&opts.Stage, "stage", opts.Stage, "Stage to play (stages/<name>.tmx or .json)")
	flag.StringVar(&opts.Backend, "backend", opts.Backend, "Physics backend: chipmunk or kinematic")
	flag.BoolVar(&opts.Debug, "debug", opts.Debug, "Draw the attack volume")
	flag.StringVar(&opts.Record, "record", opts.Record, "Record input to file (e.g., -record replay.json)")
	flag.Parse()

	loader, err := newLoader(opts.ConfigDir)
	if err != nil {
		log.Fatalf("Failed to open configs: %v", err)
	}

	cfg, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	stageCfg, err := loader.LoadStage(opts.Stage)
	if err != nil {
		log.Fatalf("Failed to load stage: %v", err)
	}

	sceneOpts := playing.Options{
		Backend:    opts.Backend,
		Debug:      opts.Debug,
		RecordPath: opts.Record,
		Loader:     loader,
	}

	if opts.ConfigDir != "" {
		watcher, err := config.NewWatcher(opts.ConfigDir)
		if err != nil {
			log.Fatalf("Failed to watch configs: %v", err)
		}
		defer func() { _ = watcher.Close() }()
		go func() {
			for err := range watcher.Errors {
				log.Printf("Config watcher: %v", err)
			}
		}()
		sceneOpts.Reload = watcher.Events
		log.Printf("Watching %s for tuning changes", opts.ConfigDir)
	}

	play, err := playing.New(cfg, stageCfg, sceneOpts)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	display := cfg.Physics.Display
	g := game.New(play, display.ScreenWidth, display.ScreenHeight, display.Framerate)

	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Adventurer")
	ebiten.SetTPS(display.Framerate)

	err = ebiten.RunGame(g)
	g.Close()
	if err != nil {
		log.Fatalf("Game ended: %v", err)
	}
}

// newLoader reads configs from dir, or from the embedded copy when dir is empty
func newLoader(dir string) (*config.Loader, error) {
	if dir != "" {
		return config.NewLoader(dir), nil
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, err
	}
	return config.NewFSLoader(fsys, ""), nil
}
