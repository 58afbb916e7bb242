// Package character implements the platformer character's state machine and
// melee attack resolution.
//
// The package contains no loop or scheduler. A host calls LogicTick once per
// rendered frame, PhysicsTick once per fixed step, and forwards the attack
// animation's hit and end frames to AttackHit and FinishAttack.
package character

import (
	"errors"
	"fmt"
	"math"
)

// DefaultFallThreshold is the downward speed past which an airborne character falls.
const DefaultFallThreshold = 0.5

var (
	ErrNilBody       = errors.New("character: nil body")
	ErrNilAnimator   = errors.New("character: nil animator")
	ErrNilResolver   = errors.New("character: nil attack resolver")
	ErrInvalidConfig = errors.New("character: invalid config")
)

// Config holds the movement tuning of a character.
type Config struct {
	Speed         float64 // horizontal speed at full axis (units/s)
	JumpForce     float64 // force integrated over one fixed step on jump
	FixedDelta    float64 // fixed physics step (s)
	FallThreshold float64 // vy < -FallThreshold counts as falling; 0 uses the default
}

// Machine owns the character state and facing, and decides the velocity command.
type Machine struct {
	cfg      Config
	body     Body
	animator Animator
	resolver *AttackResolver

	state  State
	facing Facing
	axis   float64

	// OnTransition is called after every actual state change.
	OnTransition func(from, to State)
}

// New creates a state machine. Missing collaborators are reported immediately.
func New(cfg Config, body Body, animator Animator, resolver *AttackResolver) (*Machine, error) {
	if body == nil {
		return nil, ErrNilBody
	}
	if animator == nil {
		return nil, ErrNilAnimator
	}
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if cfg.Speed <= 0 {
		return nil, fmt.Errorf("speed %v: %w", cfg.Speed, ErrInvalidConfig)
	}
	if cfg.JumpForce <= 0 {
		return nil, fmt.Errorf("jump force %v: %w", cfg.JumpForce, ErrInvalidConfig)
	}
	if cfg.FixedDelta <= 0 {
		return nil, fmt.Errorf("fixed delta %v: %w", cfg.FixedDelta, ErrInvalidConfig)
	}
	if cfg.FallThreshold == 0 {
		cfg.FallThreshold = DefaultFallThreshold
	}

	return &Machine{
		cfg:      cfg,
		body:     body,
		animator: animator,
		resolver: resolver,
		state:    Idle,
		facing:   FacingRight,
	}, nil
}

// State returns the current state
func (m *Machine) State() State { return m.state }

// Facing returns the current facing direction
func (m *Machine) Facing() Facing { return m.facing }

// Axis returns the horizontal axis sampled on the last logic tick
func (m *Machine) Axis() float64 { return m.axis }

// Config returns the active tuning
func (m *Machine) Config() Config { return m.cfg }

// SetTuning replaces speed and jump force, keeping everything else.
// Non-positive values are ignored.
func (m *Machine) SetTuning(speed, jumpForce float64) {
	if speed > 0 {
		m.cfg.Speed = speed
	}
	if jumpForce > 0 {
		m.cfg.JumpForce = jumpForce
	}
}

// LogicTick advances the state machine by one rendered frame.
func (m *Machine) LogicTick(in MotionInput) {
	m.axis = clampAxis(in.Axis)
	m.flip()

	if m.state == Attacking {
		return
	}

	switch {
	case in.AttackPressed && in.Grounded:
		m.changeState(Attacking)
	case in.JumpPressed && in.Grounded:
		m.jump()
	case m.axis == 0 && m.state != Jumping && in.Grounded:
		m.changeState(Idle)
	case math.Abs(m.axis) > 0 && in.Grounded:
		m.changeState(Running)
	case !in.Grounded && in.VelocityY < -m.cfg.FallThreshold:
		m.changeState(Falling)
	}
}

// PhysicsTick returns the velocity command for the current fixed step.
// The vertical component passes the body's velocity through.
func (m *Machine) PhysicsTick() Vec {
	vy := m.body.Velocity().Y
	if m.state == Attacking {
		return Vec{X: 0, Y: vy}
	}
	return Vec{X: m.axis * m.cfg.Speed, Y: vy}
}

// AttackHit is the attack animation's hit-frame callback. It runs the hit
// query unconditionally and returns the number of targets notified.
func (m *Machine) AttackHit() int {
	return m.resolver.Resolve(m.body.Position(), m.facing)
}

// FinishAttack is the attack animation's end-frame callback.
func (m *Machine) FinishAttack() {
	m.changeState(Idle)
}

// AttackVolume returns the attack box at the current position and facing.
func (m *Machine) AttackVolume() Box {
	return m.resolver.Volume(m.body.Position(), m.facing)
}

// Reset puts the machine back to its initial state without emitting a trigger.
func (m *Machine) Reset() {
	m.state = Idle
	m.facing = FacingRight
	m.axis = 0
}

func (m *Machine) flip() {
	if m.axis > 0 && m.facing == FacingLeft {
		m.facing = FacingRight
	} else if m.axis < 0 && m.facing == FacingRight {
		m.facing = FacingLeft
	}
}

func (m *Machine) jump() {
	// Drop any vertical motion so gravity does not eat into the jump.
	v := m.body.Velocity()
	m.body.SetVelocity(Vec{X: v.X, Y: 0})
	m.body.ApplyImpulse(Vec{X: 0, Y: m.cfg.JumpForce * m.cfg.FixedDelta})

	m.changeState(Jumping)
}

func (m *Machine) changeState(next State) {
	if next == m.state {
		return
	}

	prev := m.state
	m.state = next
	m.animator.SetTrigger(next.Trigger())

	if m.OnTransition != nil {
		m.OnTransition(prev, next)
	}
}

func clampAxis(a float64) float64 {
	if math.IsNaN(a) {
		return 0
	}
	return math.Max(-1, math.Min(1, a))
}
