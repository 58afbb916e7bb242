// Package physicstest holds the behavior every physics backend must share.
package physicstest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/infrastructure/physics"
)

// Factory creates a fresh world for one test.
type Factory func(cfg physics.Config) (physics.World, error)

const fixedDelta = 0.02

// Config is the world used by the contract tests.
func Config() physics.Config {
	return physics.Config{
		Gravity:       -20,
		Width:         20,
		Height:        10,
		PixelsPerUnit: 32,
	}
}

// Floor is a ground slab whose top surface is at y=1.
var Floor = character.BoxFromMin(0, 0, 20, 1)

func spec(x, y float64) physics.BodySpec {
	return physics.BodySpec{
		Position: character.Vec{X: x, Y: y},
		Size:     character.Vec{X: 0.5, Y: 1},
		Mass:     1,
	}
}

func newWorld(t *testing.T, factory Factory) physics.World {
	t.Helper()
	w, err := factory(Config())
	require.NoError(t, err)
	return w
}

func settle(w physics.World, body physics.Character, seconds float64, vx float64) {
	for i := 0; i < int(seconds/fixedDelta); i++ {
		body.SetVelocity(character.Vec{X: vx, Y: body.Velocity().Y})
		w.Step(fixedDelta)
	}
}

// Run executes the contract against a backend.
func Run(t *testing.T, factory Factory) {
	t.Run("rejects invalid config", func(t *testing.T) {
		_, err := factory(physics.Config{Width: 0, Height: 10})
		assert.ErrorIs(t, err, physics.ErrInvalidWorld)
	})

	t.Run("rejects invalid body and second spawn", func(t *testing.T) {
		w := newWorld(t, factory)

		_, err := w.SpawnCharacter(physics.BodySpec{Size: character.Vec{X: 0, Y: 1}})
		assert.ErrorIs(t, err, physics.ErrInvalidBody)

		_, err = w.SpawnCharacter(spec(2, 3))
		require.NoError(t, err)
		_, err = w.SpawnCharacter(spec(4, 3))
		assert.ErrorIs(t, err, physics.ErrCharacterUsed)
	})

	t.Run("airborne body falls and is not grounded", func(t *testing.T) {
		w := newWorld(t, factory)
		w.AddGround(Floor)
		body, err := w.SpawnCharacter(spec(5, 6))
		require.NoError(t, err)

		assert.False(t, body.Grounded())
		settle(w, body, 0.2, 0)

		assert.False(t, body.Grounded())
		assert.Less(t, body.Velocity().Y, -0.5)
		assert.Less(t, body.Position().Y, 6.0)
	})

	t.Run("falling body stops on ground and is grounded", func(t *testing.T) {
		w := newWorld(t, factory)
		w.AddGround(Floor)
		body, err := w.SpawnCharacter(spec(5, 2.5))
		require.NoError(t, err)

		settle(w, body, 1.5, 0)

		assert.True(t, body.Grounded())
		assert.InDelta(t, 1.5, body.Position().Y, 0.05, "feet rest on the floor top")
		assert.InDelta(t, 0, body.Velocity().Y, 0.5)
	})

	t.Run("grounded only directly above ground", func(t *testing.T) {
		w := newWorld(t, factory)
		w.AddGround(character.BoxFromMin(0, 0, 4, 1))
		body, err := w.SpawnCharacter(spec(8, 1.5))
		require.NoError(t, err)

		assert.False(t, body.Grounded(), "no ground under x=8")
	})

	t.Run("impulse changes velocity by impulse over mass", func(t *testing.T) {
		w := newWorld(t, factory)
		s := spec(5, 5)
		s.Mass = 2
		body, err := w.SpawnCharacter(s)
		require.NoError(t, err)

		body.SetVelocity(character.Vec{X: 3, Y: 0})
		body.ApplyImpulse(character.Vec{X: 0, Y: 8})

		v := body.Velocity()
		assert.InDelta(t, 3, v.X, 1e-9)
		assert.InDelta(t, 4, v.Y, 1e-9)
	})

	t.Run("jump from ground rises then lands", func(t *testing.T) {
		w := newWorld(t, factory)
		w.AddGround(Floor)
		body, err := w.SpawnCharacter(spec(5, 2.5))
		require.NoError(t, err)
		settle(w, body, 1, 0)
		require.True(t, body.Grounded())

		body.SetVelocity(character.Vec{X: 0, Y: 0})
		body.ApplyImpulse(character.Vec{X: 0, Y: 8})
		settle(w, body, 0.1, 0)

		assert.False(t, body.Grounded())
		assert.Greater(t, body.Position().Y, 1.6)

		settle(w, body, 2, 0)
		assert.True(t, body.Grounded())
	})

	t.Run("horizontal velocity moves the body along the ground", func(t *testing.T) {
		w := newWorld(t, factory)
		w.AddGround(Floor)
		body, err := w.SpawnCharacter(spec(5, 1.5))
		require.NoError(t, err)

		settle(w, body, 1, 4)

		assert.InDelta(t, 9, body.Position().X, 0.2)
		assert.True(t, body.Grounded())
	})

	t.Run("walls block horizontal movement", func(t *testing.T) {
		w := newWorld(t, factory)
		w.AddGround(Floor)
		w.AddGround(character.BoxFromMin(7, 1, 1, 3))
		body, err := w.SpawnCharacter(spec(5, 1.5))
		require.NoError(t, err)

		settle(w, body, 2, 4)

		assert.LessOrEqual(t, body.Position().X, 7-0.25+0.05)
	})

	t.Run("overlap returns only overlapping targets", func(t *testing.T) {
		w := newWorld(t, factory)
		w.AddGround(Floor)
		w.AddTarget(character.BoxFromMin(3, 1, 1, 1), "near")
		w.AddTarget(character.BoxFromMin(10, 1, 1, 1), "far")

		hits := w.OverlapBox(character.BoxFromMin(2.5, 1.2, 1, 0.5))
		assert.Equal(t, []any{"near"}, hits)

		assert.Empty(t, w.OverlapBox(character.BoxFromMin(5, 1.2, 1, 0.5)))
		assert.Empty(t, w.OverlapBox(character.BoxFromMin(4, 1, 1, 1)), "touching edges do not overlap")
		assert.ElementsMatch(t, []any{"near", "far"}, w.OverlapBox(character.BoxFromMin(0, 0, 20, 5)))
	})

	t.Run("removed targets leave queries", func(t *testing.T) {
		w := newWorld(t, factory)
		remove := w.AddTarget(character.BoxFromMin(3, 1, 1, 1), "dummy")
		box := character.BoxFromMin(3, 1, 1, 1)
		require.Len(t, w.OverlapBox(box), 1)

		remove()
		assert.Empty(t, w.OverlapBox(box))
		assert.NotPanics(t, remove)
	})

	t.Run("targets do not block the character", func(t *testing.T) {
		w := newWorld(t, factory)
		w.AddGround(Floor)
		w.AddTarget(character.BoxFromMin(6, 1, 1, 1), "dummy")
		body, err := w.SpawnCharacter(spec(5, 1.5))
		require.NoError(t, err)

		settle(w, body, 1, 4)

		assert.Greater(t, body.Position().X, 8.0)
	})

	t.Run("teleport moves and stops the body", func(t *testing.T) {
		w := newWorld(t, factory)
		body, err := w.SpawnCharacter(spec(5, 5))
		require.NoError(t, err)
		body.SetVelocity(character.Vec{X: 2, Y: 2})

		body.Teleport(character.Vec{X: 12, Y: 4})

		assert.InDelta(t, 12, body.Position().X, 1e-9)
		assert.InDelta(t, 4, body.Position().Y, 1e-9)
		assert.Equal(t, character.Vec{}, body.Velocity())
		assert.Equal(t, character.Vec{X: 0.5, Y: 1}, body.Size())
	})
}
