package character

// State is the character's discrete motion/animation state.
// Exactly one state is active at any time.
type State int

const (
	Idle State = iota
	Running
	Jumping
	Falling
	Attacking
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Jumping:
		return "Jumping"
	case Falling:
		return "Falling"
	case Attacking:
		return "Attacking"
	default:
		return "Unknown"
	}
}

// Trigger is a one-shot named signal sent to the animation collaborator.
type Trigger string

const (
	TriggerIdle   Trigger = "Idle"
	TriggerRun    Trigger = "Run"
	TriggerJump   Trigger = "Jump"
	TriggerFall   Trigger = "Fall"
	TriggerAttack Trigger = "Attack"
	TriggerDie    Trigger = "Die"
)

// Trigger returns the animation trigger emitted when entering the state.
func (s State) Trigger() Trigger {
	switch s {
	case Idle:
		return TriggerIdle
	case Running:
		return TriggerRun
	case Jumping:
		return TriggerJump
	case Falling:
		return TriggerFall
	case Attacking:
		return TriggerAttack
	default:
		return ""
	}
}

// Facing is the horizontal direction the character looks at (+1 right, -1 left).
type Facing int

const (
	FacingLeft  Facing = -1
	FacingRight Facing = 1
)

// String returns "Right" or "Left"
func (f Facing) String() string {
	if f == FacingLeft {
		return "Left"
	}
	return "Right"
}

// MotionInput is the per-tick snapshot handed to the state machine.
type MotionInput struct {
	Axis          float64 // horizontal axis in [-1, 1]
	JumpPressed   bool    // jump key went down this tick
	AttackPressed bool    // attack button went down this tick
	Grounded      bool    // result of the ground probe
	VelocityY     float64 // current vertical velocity (y-up)
}
