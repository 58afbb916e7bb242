package system

import (
	"fmt"

	"github.com/younwookim/adventurer/internal/application/animation"
	"github.com/younwookim/adventurer/internal/domain/entity"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
	"github.com/younwookim/adventurer/internal/infrastructure/physics"
)

// Session is one playthrough of a stage: the physics world, the character and its targets.
type Session struct {
	Stage      *entity.Stage
	Geometry   StageGeometry
	World      physics.World
	Controller *Controller
	Targets    *TargetSystem
	Backend    string
}

// NewSession builds a stage and everything on it. An empty backend uses the
// one named in the physics config.
func NewSession(cfg *config.GameConfig, stageCfg *config.StageConfig, backend string) (*Session, error) {
	settings := cfg.Physics.Physics
	if backend == "" {
		backend = settings.Backend
	}

	stage := LoadStage(stageCfg)
	g := NewStageGeometry(stage, settings.PixelsPerUnit)

	world, err := NewPhysicsWorld(backend, g.WorldConfig(stage, settings.Gravity))
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}
	BuildGround(world, stage, g)

	ctrl, err := NewController(&cfg.Entities.Character, settings.FixedDelta,
		g.Point(stage.SpawnX, stage.SpawnY), world, animation.ClipsFromConfig(cfg.Animations))
	if err != nil {
		return nil, fmt.Errorf("create character: %w", err)
	}

	targets := NewTargetSystem(world, cfg.Entities.Targets)
	if err := targets.SpawnStage(stage, g); err != nil {
		return nil, fmt.Errorf("spawn targets: %w", err)
	}

	if backend == "" {
		backend = BackendChipmunk
	}
	return &Session{
		Stage:      stage,
		Geometry:   g,
		World:      world,
		Controller: ctrl,
		Targets:    targets,
		Backend:    backend,
	}, nil
}

// Tick runs one logic tick of dt seconds
func (s *Session) Tick(in InputState, dt float64) {
	s.Controller.LogicTick(in, dt)
	s.Targets.Update(dt)
}

// Cleared reports whether every target has played its die clip and hidden
func (s *Session) Cleared() bool {
	targets := s.Targets.Targets()
	for _, t := range targets {
		if t.State() != entity.TargetHidden {
			return false
		}
	}
	return len(targets) > 0
}
