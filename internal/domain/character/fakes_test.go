package character

// fakeBody records every velocity write and impulse in call order.
type fakeBody struct {
	pos      Vec
	vel      Vec
	calls    []string
	impulses []Vec
}

func (b *fakeBody) Position() Vec { return b.pos }
func (b *fakeBody) Velocity() Vec { return b.vel }

func (b *fakeBody) SetVelocity(v Vec) {
	b.vel = v
	b.calls = append(b.calls, "set")
}

func (b *fakeBody) ApplyImpulse(impulse Vec) {
	// unit mass
	b.vel = b.vel.Add(impulse)
	b.impulses = append(b.impulses, impulse)
	b.calls = append(b.calls, "impulse")
}

type fakeAnimator struct {
	triggers []Trigger
}

func (a *fakeAnimator) SetTrigger(t Trigger) {
	a.triggers = append(a.triggers, t)
}

type fakeQuery struct {
	results []any
	boxes   []Box
}

func (q *fakeQuery) OverlapBox(box Box) []any {
	q.boxes = append(q.boxes, box)
	return q.results
}

type dummy struct {
	name  string
	hurts int
}

func (d *dummy) Hurt() { d.hurts++ }

// wall is collidable but not attackable.
type wall struct{}

// valueTarget is attackable through a value receiver and is comparable.
type valueTarget struct {
	counter *int
}

func (v valueTarget) Hurt() { *v.counter++ }

// sliceTarget is attackable but not comparable.
type sliceTarget []int

func (s sliceTarget) Hurt() { s[0]++ }

// taggedTarget has a comparable type, but its tag may hold an unhashable value.
type taggedTarget struct {
	tag     any
	counter *int
}

func (g taggedTarget) Hurt() { *g.counter++ }
