package system

import (
	"errors"
	"fmt"

	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/domain/entity"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
	"github.com/younwookim/adventurer/internal/infrastructure/physics"
)

// ErrUnknownTarget is returned when a stage spawns a target kind with no config
var ErrUnknownTarget = errors.New("unknown target kind")

// TargetSystem owns the attackable targets and their physics shapes
type TargetSystem struct {
	world   physics.World
	kinds   map[string]config.TargetConfig
	targets []*entity.Target
	removes map[entity.EntityID]func()
	nextID  entity.EntityID

	// Event callbacks
	OnHurt func(t *entity.Target)
	OnHide func(t *entity.Target)
}

// NewTargetSystem creates a new target system
func NewTargetSystem(world physics.World, kinds map[string]config.TargetConfig) *TargetSystem {
	return &TargetSystem{
		world:   world,
		kinds:   kinds,
		targets: make([]*entity.Target, 0, 8),
		removes: make(map[entity.EntityID]func()),
	}
}

// Spawn places a target standing on feet (bottom-center, world units)
func (s *TargetSystem) Spawn(kind string, feet character.Vec) (*entity.Target, error) {
	cfg, ok := s.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownTarget)
	}

	s.nextID++
	target := entity.NewTarget(s.nextID, kind, feet.X-cfg.Width/2, feet.Y, cfg.Width, cfg.Height)
	target.DieDuration = cfg.DieDuration
	target.OnHurt = s.hurt
	target.OnHide = s.hide

	x, y, w, h := target.GetHitbox()
	s.removes[target.ID] = s.world.AddTarget(character.BoxFromMin(x, y, w, h), target)
	s.targets = append(s.targets, target)
	return target, nil
}

// SpawnStage spawns every target the stage declares
func (s *TargetSystem) SpawnStage(stage *entity.Stage, g StageGeometry) error {
	for _, spawn := range stage.Targets {
		if _, err := s.Spawn(spawn.Kind, g.Point(spawn.X, spawn.Y)); err != nil {
			return err
		}
	}
	return nil
}

// Update advances every target's die clip
func (s *TargetSystem) Update(dt float64) {
	for _, t := range s.targets {
		t.Update(dt)
	}
}

// Targets returns all spawned targets, hidden ones included
func (s *TargetSystem) Targets() []*entity.Target {
	return s.targets
}

// Standing returns how many targets have not been hit
func (s *TargetSystem) Standing() int {
	n := 0
	for _, t := range s.targets {
		if t.IsAlive() {
			n++
		}
	}
	return n
}

func (s *TargetSystem) hurt(t *entity.Target) {
	if s.OnHurt != nil {
		s.OnHurt(t)
	}
}

// hide takes the target out of the physics space so later attacks miss it.
func (s *TargetSystem) hide(t *entity.Target) {
	if remove, ok := s.removes[t.ID]; ok {
		remove()
		delete(s.removes, t.ID)
	}
	if s.OnHide != nil {
		s.OnHide(t)
	}
}
