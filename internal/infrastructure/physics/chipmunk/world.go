// Package chipmunk is the rigid-body physics backend built on the Chipmunk2D port.
package chipmunk

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/infrastructure/physics"
)

const (
	categoryCharacter uint = 1 << iota
	categoryGround
	categoryTarget
)

const (
	groundFriction = 0.8
	// probeInset starts the ground ray inside the collider so resting
	// penetration never puts the ray origin inside the ground.
	probeInset = 1.0
)

// World owns the Chipmunk space. The space is y-up like the world, scaled by PixelsPerUnit.
type World struct {
	cfg   physics.Config
	scale float64
	space *cp.Space
	char  *Character
}

var _ physics.World = (*World)(nil)

// New creates a Chipmunk world.
func New(cfg physics.Config) (*World, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}

	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity * cfg.PixelsPerUnit})

	return &World{
		cfg:   cfg,
		scale: cfg.PixelsPerUnit,
		space: space,
	}, nil
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	return w.space
}

// SpawnCharacter creates the dynamic character body with infinite moment.
func (w *World) SpawnCharacter(spec physics.BodySpec) (physics.Character, error) {
	if w.char != nil {
		return nil, physics.ErrCharacterUsed
	}
	spec, err := spec.Normalize()
	if err != nil {
		return nil, err
	}

	body := cp.NewBody(spec.Mass, math.Inf(1))
	body.SetPosition(w.toSpace(spec.Position))

	shape := cp.NewBox(body, spec.Size.X*w.scale, spec.Size.Y*w.scale, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(cp.NewShapeFilter(0, categoryCharacter, categoryGround))

	w.space.AddBody(body)
	w.space.AddShape(shape)

	w.char = &Character{world: w, body: body, shape: shape, spec: spec}
	return w.char, nil
}

// AddGround adds a static solid box.
func (w *World) AddGround(box character.Box) {
	shape := cp.NewBox2(w.space.StaticBody, w.toBB(box), 0)
	shape.SetFriction(groundFriction)
	shape.SetFilter(cp.NewShapeFilter(0, categoryGround, cp.ALL_CATEGORIES))
	w.space.AddShape(shape)
}

// AddTarget adds a static box in the target category. The character's mask
// excludes targets, so they are only found by queries.
func (w *World) AddTarget(box character.Box, data any) func() {
	shape := cp.NewBox2(w.space.StaticBody, w.toBB(box), 0)
	shape.UserData = data
	shape.SetFilter(cp.NewShapeFilter(0, categoryTarget, cp.ALL_CATEGORIES))
	w.space.AddShape(shape)

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		w.space.RemoveShape(shape)
	}
}

// OverlapBox returns the data of every target whose box overlaps the query box.
func (w *World) OverlapBox(box character.Box) []any {
	bb := w.toBB(box)
	filter := cp.NewShapeFilter(0, cp.ALL_CATEGORIES, categoryTarget)

	var found []any
	w.space.BBQuery(bb, filter, func(shape *cp.Shape, _ interface{}) {
		// BBQuery is inclusive of touching edges.
		if !overlaps(shape.BB(), bb) {
			return
		}
		found = append(found, shape.UserData)
	}, nil)
	return found
}

// Step advances the space.
func (w *World) Step(dt float64) {
	w.space.Step(dt)
}

func (w *World) toSpace(v character.Vec) cp.Vector {
	return cp.Vector{X: v.X * w.scale, Y: v.Y * w.scale}
}

func (w *World) fromSpace(v cp.Vector) character.Vec {
	return character.Vec{X: v.X / w.scale, Y: v.Y / w.scale}
}

func (w *World) toBB(box character.Box) cp.BB {
	lo, hi := box.Min(), box.Max()
	return cp.BB{
		L: lo.X * w.scale,
		B: lo.Y * w.scale,
		R: hi.X * w.scale,
		T: hi.Y * w.scale,
	}
}

func overlaps(a, b cp.BB) bool {
	return a.L < b.R && a.R > b.L && a.B < b.T && a.T > b.B
}

// Character is the spawned body and its ground probe.
type Character struct {
	world *World
	body  *cp.Body
	shape *cp.Shape
	spec  physics.BodySpec
}

// Position returns the collider center
func (c *Character) Position() character.Vec {
	return c.world.fromSpace(c.body.Position())
}

// Velocity returns the body velocity
func (c *Character) Velocity() character.Vec {
	return c.world.fromSpace(c.body.Velocity())
}

// SetVelocity overwrites the body velocity. The component pointing into a
// surface the body touched on the last step is dropped: the space integrates
// positions before it solves contacts, so it would otherwise sink into walls.
func (c *Character) SetVelocity(v character.Vec) {
	vel := c.world.toSpace(v)
	c.body.EachArbiter(func(arb *cp.Arbiter) {
		// The normal points from this body into the other shape.
		n := arb.Normal()
		if into := vel.Dot(n); into > 0 {
			vel = vel.Sub(n.Mult(into))
		}
	})
	c.body.SetVelocityVector(vel)
}

// ApplyImpulse applies an impulse at the center of mass.
func (c *Character) ApplyImpulse(impulse character.Vec) {
	c.body.ApplyImpulseAtLocalPoint(c.world.toSpace(impulse), cp.Vector{})
}

// Grounded casts a short ray down from the ground check point against ground shapes.
func (c *Character) Grounded() bool {
	origin := c.body.Position().Add(c.world.toSpace(c.spec.GroundCheck))
	start := origin.Add(cp.Vector{X: 0, Y: probeInset})
	end := origin.Sub(cp.Vector{X: 0, Y: c.spec.ProbeLength * c.world.scale})

	filter := cp.NewShapeFilter(0, cp.ALL_CATEGORIES, categoryGround)
	hit := c.world.space.SegmentQueryFirst(start, end, 0, filter)
	return hit.Shape != nil
}

// Size returns the collider size
func (c *Character) Size() character.Vec {
	return c.spec.Size
}

// Teleport moves the body and clears its velocity.
func (c *Character) Teleport(pos character.Vec) {
	c.body.SetPosition(c.world.toSpace(pos))
	c.body.SetVelocity(0, 0)
}
