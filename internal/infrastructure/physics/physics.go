// Package physics defines the world contract shared by the physics backends.
//
// World coordinates are y-up in world units. Each backend converts to its own
// internal space (scaled pixels, and y-down for grid-based backends).
package physics

import (
	"errors"
	"fmt"

	"github.com/younwookim/adventurer/internal/domain/character"
)

const (
	// DefaultProbeLength is the ground ray length below the feet.
	DefaultProbeLength = 0.05
	// DefaultPixelsPerUnit is the internal scale when none is configured.
	DefaultPixelsPerUnit = 32.0
	// DefaultMass is used when a body spec has no mass.
	DefaultMass = 1.0
)

var (
	ErrInvalidBody   = errors.New("physics: invalid body spec")
	ErrInvalidWorld  = errors.New("physics: invalid world config")
	ErrCharacterUsed = errors.New("physics: character already spawned")
)

// Config describes the simulated world.
type Config struct {
	Gravity       float64 // y-up acceleration in units/s², usually negative
	Width, Height float64 // world bounds in units
	PixelsPerUnit float64 // internal scale
}

// Normalize fills defaults and validates the config.
func (c Config) Normalize() (Config, error) {
	if c.PixelsPerUnit == 0 {
		c.PixelsPerUnit = DefaultPixelsPerUnit
	}
	if c.PixelsPerUnit < 0 {
		return c, fmt.Errorf("pixels per unit %v: %w", c.PixelsPerUnit, ErrInvalidWorld)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return c, fmt.Errorf("bounds %vx%v: %w", c.Width, c.Height, ErrInvalidWorld)
	}
	return c, nil
}

// BodySpec describes the character's dynamic body.
type BodySpec struct {
	Position character.Vec // collider center
	Size     character.Vec
	Mass     float64

	// GroundCheck is the probe origin relative to the center. Zero means the feet.
	GroundCheck character.Vec
	ProbeLength float64
}

// Normalize fills defaults and validates the spec.
func (s BodySpec) Normalize() (BodySpec, error) {
	if s.Size.X <= 0 || s.Size.Y <= 0 {
		return s, fmt.Errorf("size %vx%v: %w", s.Size.X, s.Size.Y, ErrInvalidBody)
	}
	if s.Mass == 0 {
		s.Mass = DefaultMass
	}
	if s.Mass < 0 {
		return s, fmt.Errorf("mass %v: %w", s.Mass, ErrInvalidBody)
	}
	if s.GroundCheck == (character.Vec{}) {
		s.GroundCheck = character.Vec{X: 0, Y: -s.Size.Y / 2}
	}
	if s.ProbeLength <= 0 {
		s.ProbeLength = DefaultProbeLength
	}
	return s, nil
}

// Character is the spawned character body together with its ground probe.
type Character interface {
	character.Body
	character.GroundProbe
	Size() character.Vec
	// Teleport moves the body and clears its velocity.
	Teleport(pos character.Vec)
}

// World is a physics space holding one character, static ground and targets.
type World interface {
	character.OverlapQuery

	// SpawnCharacter creates the character body. Only one character per world.
	SpawnCharacter(spec BodySpec) (Character, error)
	// AddGround adds static, solid ground.
	AddGround(box character.Box)
	// AddTarget adds a non-solid box returned by OverlapBox with its data.
	// The returned func removes it; calling it twice is harmless.
	AddTarget(box character.Box, data any) (remove func())
	// Step advances the simulation by dt seconds.
	Step(dt float64)
}
