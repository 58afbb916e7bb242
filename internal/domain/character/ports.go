package character

// Body is the character's physics body as seen by the state machine.
type Body interface {
	Position() Vec
	Velocity() Vec
	SetVelocity(v Vec)
	// ApplyImpulse changes momentum instantly (Δv = impulse / mass).
	ApplyImpulse(impulse Vec)
}

// GroundProbe answers whether a short downward probe beneath the feet hits ground.
type GroundProbe interface {
	Grounded() bool
}

// OverlapQuery returns every collidable entity overlapping the box at call time.
// Order follows the underlying spatial index.
type OverlapQuery interface {
	OverlapBox(box Box) []any
}

// Animator accepts named triggers for the external animation state machine.
type Animator interface {
	SetTrigger(t Trigger)
}

// Attackable is implemented by anything that can be hit by a melee attack.
type Attackable interface {
	Hurt()
}
