package system

import (
	"errors"
	"fmt"

	"github.com/younwookim/adventurer/internal/application/animation"
	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
	"github.com/younwookim/adventurer/internal/infrastructure/physics"
)

// Frame events the attack clip must declare.
const (
	EventAttack       = "Attack"
	EventFinishAttack = "FinishAttack"
)

// maxStepsPerTick bounds catch-up work after a long frame.
const maxStepsPerTick = 5

// fixedEpsilon absorbs float drift when the accumulator lands on a step boundary.
const fixedEpsilon = 1e-9

var ErrNilWorld = errors.New("nil physics world")

// Controller wires the character state machine to physics and animation.
// LogicTick runs once per rendered frame and drives the fixed physics step.
type Controller struct {
	world   physics.World
	body    physics.Character
	machine *character.Machine
	anim    *animation.Controller

	fixedDelta  float64
	accumulator float64
	ticks       int
	steps       int
	hits        int

	// Event callbacks
	OnTransition func(from, to character.State)
	OnAttackHit  func(hit int)
}

// NewController spawns the character body at feet (bottom-center, world units)
// and binds the attack clip events to the state machine.
func NewController(cfg *config.CharacterConfig, fixedDelta float64, feet character.Vec, world physics.World, clips []animation.Clip) (*Controller, error) {
	if world == nil {
		return nil, ErrNilWorld
	}
	if cfg == nil {
		return nil, fmt.Errorf("nil character config: %w", character.ErrInvalidConfig)
	}

	size := character.Vec{X: cfg.Collider.Width, Y: cfg.Collider.Height}
	body, err := world.SpawnCharacter(physics.BodySpec{
		Position:    character.Vec{X: feet.X, Y: feet.Y + size.Y/2},
		Size:        size,
		Mass:        cfg.Mass,
		GroundCheck: character.Vec{X: cfg.GroundCheck.OffsetX, Y: cfg.GroundCheck.OffsetY},
		ProbeLength: cfg.GroundCheck.Length,
	})
	if err != nil {
		return nil, fmt.Errorf("spawn character: %w", err)
	}

	resolver, err := character.NewAttackResolver(world, character.AttackArea{
		Offset: character.Vec{X: cfg.AttackArea.OffsetX, Y: cfg.AttackArea.OffsetY},
		Size:   character.Vec{X: cfg.AttackArea.Width, Y: cfg.AttackArea.Height},
	})
	if err != nil {
		return nil, err
	}

	anim, err := animation.NewController(clips, character.TriggerIdle)
	if err != nil {
		return nil, err
	}

	machine, err := character.New(character.Config{
		Speed:         cfg.Speed,
		JumpForce:     cfg.JumpForce,
		FixedDelta:    fixedDelta,
		FallThreshold: cfg.FallThreshold,
	}, body, anim, resolver)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		world:      world,
		body:       body,
		machine:    machine,
		anim:       anim,
		fixedDelta: fixedDelta,
	}
	machine.OnTransition = c.transition
	anim.On(EventAttack, c.attackHit)
	anim.On(EventFinishAttack, machine.FinishAttack)

	return c, nil
}

// LogicTick samples ground and velocity, advances the state machine and the
// animation, then runs as many fixed physics steps as dt has accumulated.
func (c *Controller) LogicTick(in InputState, dt float64) {
	c.ticks++

	c.machine.LogicTick(character.MotionInput{
		Axis:          in.Axis,
		JumpPressed:   in.JumpPressed,
		AttackPressed: in.AttackPressed,
		Grounded:      c.body.Grounded(),
		VelocityY:     c.body.Velocity().Y,
	})
	c.anim.Update()

	c.accumulator += dt
	steps := 0
	for c.accumulator+fixedEpsilon >= c.fixedDelta {
		if steps == maxStepsPerTick {
			c.accumulator = 0
			break
		}
		c.PhysicsTick()
		c.accumulator -= c.fixedDelta
		steps++
	}
}

// PhysicsTick applies the state machine's velocity command and steps the world once.
func (c *Controller) PhysicsTick() {
	c.body.SetVelocity(c.machine.PhysicsTick())
	c.world.Step(c.fixedDelta)
	c.steps++
}

// SetTuning updates speed and jump force; non-positive values are kept.
func (c *Controller) SetTuning(speed, jumpForce float64) {
	c.machine.SetTuning(speed, jumpForce)
}

// Respawn moves the character to feet and resets it to Idle.
func (c *Controller) Respawn(feet character.Vec) {
	c.body.Teleport(character.Vec{X: feet.X, Y: feet.Y + c.body.Size().Y/2})
	c.machine.Reset()
	c.anim.SetTrigger(character.TriggerIdle)
	c.accumulator = 0
}

// Machine returns the character state machine
func (c *Controller) Machine() *character.Machine { return c.machine }

// Body returns the character body
func (c *Controller) Body() physics.Character { return c.body }

// Animation returns the animation controller
func (c *Controller) Animation() *animation.Controller { return c.anim }

// Ticks returns the number of logic ticks run
func (c *Controller) Ticks() int { return c.ticks }

// Steps returns the number of physics steps run
func (c *Controller) Steps() int { return c.steps }

// Hits returns how many targets have been notified so far
func (c *Controller) Hits() int { return c.hits }

// AttackVolume returns the attack box for the debug gizmo
func (c *Controller) AttackVolume() character.Box { return c.machine.AttackVolume() }

func (c *Controller) attackHit() {
	n := c.machine.AttackHit()
	c.hits += n
	if c.OnAttackHit != nil {
		c.OnAttackHit(n)
	}
}

func (c *Controller) transition(from, to character.State) {
	if c.OnTransition != nil {
		c.OnTransition(from, to)
	}
}
