package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

const (
	physicsFile    = "physics.json"
	entitiesFile   = "entities.yaml"
	animationsFile = "animations.yaml"
	stagesDir      = "stages"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Physics    *PhysicsConfig
	Entities   *EntitiesConfig
	Animations *AnimationsConfig
}

// Loader loads game configuration files using fs.FS interface.
// The decoder is picked by file extension.
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the on-disk directory, empty for embedded configs
func (l *Loader) BasePath() string {
	return l.basePath
}

// LoadPhysics loads physics.json
func (l *Loader) LoadPhysics() (*PhysicsConfig, error) {
	var cfg PhysicsConfig
	if err := l.decode(physicsFile, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEntities loads entities.yaml
func (l *Loader) LoadEntities() (*EntitiesConfig, error) {
	var cfg EntitiesConfig
	if err := l.decode(entitiesFile, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadAnimations loads animations.yaml
func (l *Loader) LoadAnimations() (*AnimationsConfig, error) {
	var cfg AnimationsConfig
	if err := l.decode(animationsFile, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadStage loads a stage by name. A Tiled map (stages/<name>.tmx) wins over stages/<name>.json.
func (l *Loader) LoadStage(name string) (*StageConfig, error) {
	tmx := path.Join(stagesDir, name+".tmx")
	if _, err := fs.Stat(l.fsys, tmx); err == nil {
		return l.loadTiledStage(name, tmx)
	}

	var cfg StageConfig
	if err := l.decode(path.Join(stagesDir, name+".json"), &cfg); err != nil {
		return nil, fmt.Errorf("failed to load stage %s: %w", name, err)
	}
	return &cfg, nil
}

// LoadAll loads all base configurations (physics, entities, animations)
func (l *Loader) LoadAll() (*GameConfig, error) {
	physics, err := l.LoadPhysics()
	if err != nil {
		return nil, err
	}

	entities, err := l.LoadEntities()
	if err != nil {
		return nil, err
	}

	animations, err := l.LoadAnimations()
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Physics:    physics,
		Entities:   entities,
		Animations: animations,
	}, nil
}

func (l *Loader) decode(name string, v any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	switch path.Ext(name) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	case ".json":
		err = json.Unmarshal(data, v)
	default:
		err = errors.New("unsupported format")
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
