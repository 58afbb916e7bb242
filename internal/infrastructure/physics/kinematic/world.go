// Package kinematic is the grid-based physics backend built on resolv.
//
// Bodies integrate with semi-implicit Euler and move one axis at a time.
// resolv's cell check is the broadphase and the exact box test runs here.
package kinematic

import (
	"math"

	"github.com/solarlune/resolv"

	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/infrastructure/physics"
)

const (
	tagCharacter = "character"
	tagGround    = "ground"
	tagTarget    = "target"
	tagQuery     = "query"
)

const (
	cellSize      = 16
	maxSubstep    = cellSize / 2 // pixels per move, shorter than a cell
	epsilon       = 1e-6
	probeInset    = 1.0
	broadphasePad = 2.0
)

// World is a resolv space in y-down pixels.
type World struct {
	cfg    physics.Config
	scale  float64
	height float64 // in pixels
	space  *resolv.Space
	char   *Character
}

var _ physics.World = (*World)(nil)

// New creates a kinematic world covering the configured bounds.
func New(cfg physics.Config) (*World, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(cfg.Width * cfg.PixelsPerUnit))
	h := int(math.Ceil(cfg.Height * cfg.PixelsPerUnit))

	return &World{
		cfg:    cfg,
		scale:  cfg.PixelsPerUnit,
		height: float64(h),
		space:  resolv.NewSpace(w, h, cellSize, cellSize),
	}, nil
}

// SpawnCharacter adds the character object to the space.
func (w *World) SpawnCharacter(spec physics.BodySpec) (physics.Character, error) {
	if w.char != nil {
		return nil, physics.ErrCharacterUsed
	}
	spec, err := spec.Normalize()
	if err != nil {
		return nil, err
	}

	obj := w.newObject(character.Box{Center: spec.Position, Size: spec.Size}, tagCharacter)
	w.space.Add(obj)

	w.char = &Character{world: w, obj: obj, spec: spec}
	obj.Data = w.char
	return w.char, nil
}

// AddGround adds a solid ground object.
func (w *World) AddGround(box character.Box) {
	w.space.Add(w.newObject(box, tagGround))
}

// AddTarget adds a non-solid target object carrying data.
func (w *World) AddTarget(box character.Box, data any) func() {
	obj := w.newObject(box, tagTarget)
	obj.Data = data
	w.space.Add(obj)

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		w.space.Remove(obj)
	}
}

// OverlapBox returns the data of every target overlapping the box.
func (w *World) OverlapBox(box character.Box) []any {
	var found []any
	for _, obj := range w.query(box, tagTarget) {
		found = append(found, obj.Data)
	}
	return found
}

// Step integrates the character for dt seconds.
func (w *World) Step(dt float64) {
	if w.char == nil || dt <= 0 {
		return
	}
	c := w.char

	c.vel.Y += w.cfg.Gravity * dt

	// World y-up to internal y-down.
	dx := c.vel.X * dt * w.scale
	dy := -c.vel.Y * dt * w.scale

	if w.moveX(c.obj, dx) {
		c.vel.X = 0
	}
	if w.moveY(c.obj, dy) {
		c.vel.Y = 0
	}
}

// moveX moves the object horizontally in substeps. It reports whether ground blocked it.
func (w *World) moveX(obj *resolv.Object, dx float64) bool {
	for dx != 0 {
		step := clampStep(dx)
		allowed := w.sweepX(obj, step)
		obj.X += allowed
		obj.Update()
		if allowed != step {
			return true
		}
		dx -= step
	}
	return false
}

// moveY moves the object vertically in substeps. It reports whether ground blocked it.
func (w *World) moveY(obj *resolv.Object, dy float64) bool {
	for dy != 0 {
		step := clampStep(dy)
		allowed := w.sweepY(obj, step)
		obj.Y += allowed
		obj.Update()
		if allowed != step {
			return true
		}
		dy -= step
	}
	return false
}

func (w *World) sweepX(obj *resolv.Object, dx float64) float64 {
	x := math.Min(obj.X, obj.X+dx)
	for _, g := range w.candidates(x, obj.Y, obj.W+math.Abs(dx), obj.H, tagGround) {
		if !spans(obj.Y, obj.H, g.Y, g.H) {
			continue
		}
		if dx > 0 && g.X >= obj.X+obj.W-epsilon {
			dx = math.Min(dx, g.X-(obj.X+obj.W))
		} else if dx < 0 && g.X+g.W <= obj.X+epsilon {
			dx = math.Max(dx, g.X+g.W-obj.X)
		}
	}
	return dx
}

func (w *World) sweepY(obj *resolv.Object, dy float64) float64 {
	y := math.Min(obj.Y, obj.Y+dy)
	for _, g := range w.candidates(obj.X, y, obj.W, obj.H+math.Abs(dy), tagGround) {
		if !spans(obj.X, obj.W, g.X, g.W) {
			continue
		}
		if dy > 0 && g.Y >= obj.Y+obj.H-epsilon {
			dy = math.Min(dy, g.Y-(obj.Y+obj.H))
		} else if dy < 0 && g.Y+g.H <= obj.Y+epsilon {
			dy = math.Max(dy, g.Y+g.H-obj.Y)
		}
	}
	return dy
}

// candidates returns tagged objects in the cells around a pixel rectangle.
// The rectangle is padded so objects sitting exactly on a cell edge are included.
func (w *World) candidates(x, y, width, height float64, tag string) []*resolv.Object {
	probe := resolv.NewObject(x-broadphasePad, y-broadphasePad, width+2*broadphasePad, height+2*broadphasePad, tagQuery)
	w.space.Add(probe)
	defer w.space.Remove(probe)

	check := probe.Check(0, 0, tag)
	if check == nil {
		return nil
	}
	return check.ObjectsByTags(tag)
}

// query returns tagged objects that strictly overlap a world box.
func (w *World) query(box character.Box, tag string) []*resolv.Object {
	x, y, width, height := w.toSpace(box)

	var hits []*resolv.Object
	for _, obj := range w.candidates(x, y, width, height, tag) {
		if spans(x, width, obj.X, obj.W) && spans(y, height, obj.Y, obj.H) {
			hits = append(hits, obj)
		}
	}
	return hits
}

func (w *World) newObject(box character.Box, tags ...string) *resolv.Object {
	x, y, width, height := w.toSpace(box)
	obj := resolv.NewObject(x, y, width, height, tags...)
	obj.SetShape(resolv.NewRectangle(0, 0, width, height))
	return obj
}

// toSpace converts a world box to a y-down pixel rectangle (top-left origin).
func (w *World) toSpace(box character.Box) (x, y, width, height float64) {
	lo, hi := box.Min(), box.Max()
	return lo.X * w.scale, w.height - hi.Y*w.scale, box.Size.X * w.scale, box.Size.Y * w.scale
}

func (w *World) center(obj *resolv.Object) character.Vec {
	return character.Vec{
		X: (obj.X + obj.W/2) / w.scale,
		Y: (w.height - (obj.Y + obj.H/2)) / w.scale,
	}
}

// spans reports whether [a, a+al) and [b, b+bl) strictly overlap.
func spans(a, al, b, bl float64) bool {
	return a < b+bl-epsilon && a+al > b+epsilon
}

func clampStep(d float64) float64 {
	return math.Max(-maxSubstep, math.Min(maxSubstep, d))
}

// Character is the kinematic body. Velocity is kept in world units.
type Character struct {
	world *World
	obj   *resolv.Object
	spec  physics.BodySpec
	vel   character.Vec
}

// Position returns the collider center
func (c *Character) Position() character.Vec {
	return c.world.center(c.obj)
}

// Velocity returns the body velocity
func (c *Character) Velocity() character.Vec {
	return c.vel
}

// SetVelocity overwrites the body velocity
func (c *Character) SetVelocity(v character.Vec) {
	c.vel = v
}

// ApplyImpulse changes velocity by impulse/mass.
func (c *Character) ApplyImpulse(impulse character.Vec) {
	c.vel.X += impulse.X / c.spec.Mass
	c.vel.Y += impulse.Y / c.spec.Mass
}

// Grounded checks a thin strip below the ground check point against ground objects.
func (c *Character) Grounded() bool {
	origin := c.Position().Add(c.spec.GroundCheck)
	inset := probeInset / c.world.scale
	strip := character.BoxFromMin(
		origin.X-0.5/c.world.scale,
		origin.Y-c.spec.ProbeLength,
		1/c.world.scale,
		c.spec.ProbeLength+inset,
	)
	return len(c.world.query(strip, tagGround)) > 0
}

// Size returns the collider size
func (c *Character) Size() character.Vec {
	return c.spec.Size
}

// Teleport moves the body and clears its velocity.
func (c *Character) Teleport(pos character.Vec) {
	x, y, _, _ := c.world.toSpace(character.Box{Center: pos, Size: c.spec.Size})
	c.obj.X, c.obj.Y = x, y
	c.obj.Update()
	c.vel = character.Vec{}
}
