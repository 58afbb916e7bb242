package character

// Vec is a 2D vector in world units. Y points up.
type Vec struct {
	X, Y float64
}

// Add returns v + o
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Box is an axis-aligned box described by its center and full size.
type Box struct {
	Center Vec
	Size   Vec
}

// Min returns the bottom-left corner.
func (b Box) Min() Vec {
	return Vec{X: b.Center.X - b.Size.X/2, Y: b.Center.Y - b.Size.Y/2}
}

// Max returns the top-right corner.
func (b Box) Max() Vec {
	return Vec{X: b.Center.X + b.Size.X/2, Y: b.Center.Y + b.Size.Y/2}
}

// Overlaps reports whether two boxes intersect. Touching edges do not count.
func (b Box) Overlaps(o Box) bool {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := o.Min(), o.Max()
	return bMin.X < oMax.X && bMax.X > oMin.X &&
		bMin.Y < oMax.Y && bMax.Y > oMin.Y
}

// BoxFromMin builds a box from its bottom-left corner and size.
func BoxFromMin(x, y, w, h float64) Box {
	return Box{
		Center: Vec{X: x + w/2, Y: y + h/2},
		Size:   Vec{X: w, Y: h},
	}
}

// AttackArea is the melee volume relative to the character's position.
// The X offset is mirrored when the character faces left.
type AttackArea struct {
	Offset Vec
	Size   Vec
}

// WorldBox returns the area in world coordinates for the given origin and facing.
func (a AttackArea) WorldBox(origin Vec, facing Facing) Box {
	offsetX := a.Offset.X
	if facing == FacingLeft {
		offsetX = -offsetX
	}
	return Box{
		Center: Vec{X: origin.X + offsetX, Y: origin.Y + a.Offset.Y},
		Size:   a.Size,
	}
}
