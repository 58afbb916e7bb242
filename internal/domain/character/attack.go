package character

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNilQuery is returned when the resolver has no spatial query to run.
var ErrNilQuery = errors.New("character: nil overlap query")

// AttackResolver performs the melee hit query and notifies attackable targets.
type AttackResolver struct {
	query OverlapQuery
	area  AttackArea
}

// NewAttackResolver creates a resolver over the given spatial query and attack area.
func NewAttackResolver(query OverlapQuery, area AttackArea) (*AttackResolver, error) {
	if query == nil {
		return nil, ErrNilQuery
	}
	if area.Size.X <= 0 || area.Size.Y <= 0 {
		return nil, fmt.Errorf("attack area size %vx%v: %w", area.Size.X, area.Size.Y, ErrInvalidConfig)
	}
	return &AttackResolver{query: query, area: area}, nil
}

// Area returns the configured attack area
func (r *AttackResolver) Area() AttackArea {
	return r.area
}

// Volume returns the attack box in world coordinates.
func (r *AttackResolver) Volume(origin Vec, facing Facing) Box {
	return r.area.WorldBox(origin, facing)
}

// Resolve queries the attack volume once and calls Hurt on every distinct
// attackable entity found, in query order. It returns the number of targets hit.
// No grounding or state check is done here.
func (r *AttackResolver) Resolve(origin Vec, facing Facing) int {
	candidates := r.query.OverlapBox(r.Volume(origin, facing))
	if len(candidates) == 0 {
		return 0
	}

	seen := make(map[any]struct{}, len(candidates))
	hit := 0
	for _, c := range candidates {
		target, ok := c.(Attackable)
		if !ok {
			continue
		}
		// Several colliders can belong to the same entity.
		if reflect.ValueOf(target).Comparable() {
			if _, dup := seen[target]; dup {
				continue
			}
			seen[target] = struct{}{}
		}
		target.Hurt()
		hit++
	}
	return hit
}
