package entity

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TargetState is the lifecycle of an attackable target
type TargetState int

const (
	TargetStanding TargetState = iota
	TargetDying
	TargetHidden
)

// String returns the string representation of the target state
func (s TargetState) String() string {
	switch s {
	case TargetStanding:
		return "Standing"
	case TargetDying:
		return "Dying"
	case TargetHidden:
		return "Hidden"
	default:
		return "Unknown"
	}
}

// DefaultDieDuration is the length of the die clip in seconds.
const DefaultDieDuration = 0.5

// Target is a training dummy that dies when hit and hides once the die clip ends.
type Target struct {
	ID     EntityID
	Kind   string
	X, Y   float64 // bottom-left corner in world units
	W, H   float64
	Active bool

	DieDuration float64

	state TargetState
	fade  *gween.Tween
	alpha float64

	// Callbacks
	OnHurt func(t *Target)
	OnHide func(t *Target)
}

// NewTarget creates a standing target
func NewTarget(id EntityID, kind string, x, y, w, h float64) *Target {
	return &Target{
		ID:          id,
		Kind:        kind,
		X:           x,
		Y:           y,
		W:           w,
		H:           h,
		Active:      true,
		DieDuration: DefaultDieDuration,
		alpha:       1,
	}
}

// Hurt starts the die clip. Only the first hit counts.
func (t *Target) Hurt() {
	if t.state != TargetStanding {
		return
	}
	t.state = TargetDying
	if t.OnHurt != nil {
		t.OnHurt(t)
	}

	if t.DieDuration <= 0 {
		t.Hide()
		return
	}
	t.fade = gween.New(1, 0, float32(t.DieDuration), ease.Linear)
}

// Update advances the die clip by dt seconds
func (t *Target) Update(dt float64) {
	if t.state != TargetDying || t.fade == nil {
		return
	}

	alpha, finished := t.fade.Update(float32(dt))
	t.alpha = float64(alpha)
	if finished {
		t.Hide()
	}
}

// Hide deactivates the target. It runs on the die clip's last frame.
func (t *Target) Hide() {
	if t.state == TargetHidden {
		return
	}
	t.state = TargetHidden
	t.Active = false
	t.alpha = 0
	t.fade = nil

	if t.OnHide != nil {
		t.OnHide(t)
	}
}

// State returns the lifecycle state
func (t *Target) State() TargetState { return t.state }

// Alpha returns the render opacity in [0, 1]
func (t *Target) Alpha() float64 { return t.alpha }

// IsAlive returns true until the target has been hurt
func (t *Target) IsAlive() bool {
	return t.Active && t.state == TargetStanding
}

// GetHitbox returns the hitbox in world coordinates
func (t *Target) GetHitbox() (x, y, w, h float64) {
	return t.X, t.Y, t.W, t.H
}
