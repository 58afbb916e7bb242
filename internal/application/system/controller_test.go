package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/adventurer/internal/application/animation"
	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/domain/entity"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
)

const configDir = "../../../cmd/game/configs"

type testRig struct {
	ctrl    *Controller
	targets *TargetSystem
	spawn   character.Vec
	dt      float64
	trans   []character.State
}

// newTestRig builds the demo stage without its targets.
func newTestRig(t *testing.T, backend string) *testRig {
	t.Helper()

	loader := config.NewLoader(configDir)
	game, err := loader.LoadAll()
	require.NoError(t, err)
	stageCfg, err := loader.LoadStage("demo")
	require.NoError(t, err)

	stage := LoadStage(stageCfg)
	g := NewStageGeometry(stage, game.Physics.Physics.PixelsPerUnit)

	world, err := NewPhysicsWorld(backend, g.WorldConfig(stage, game.Physics.Physics.Gravity))
	require.NoError(t, err)
	BuildGround(world, stage, g)

	rig := &testRig{
		spawn: g.Point(stage.SpawnX, stage.SpawnY),
		dt:    game.Physics.Physics.FixedDelta,
	}
	rig.ctrl, err = NewController(&game.Entities.Character, rig.dt, rig.spawn, world,
		animation.ClipsFromConfig(game.Animations))
	require.NoError(t, err)
	rig.ctrl.OnTransition = func(_, to character.State) {
		rig.trans = append(rig.trans, to)
	}
	rig.targets = NewTargetSystem(world, game.Entities.Targets)
	return rig
}

func (r *testRig) run(in InputState, ticks int) {
	for i := 0; i < ticks; i++ {
		r.ctrl.LogicTick(in, r.dt)
		r.targets.Update(r.dt)
	}
}

func TestNewController(t *testing.T) {
	cfg := config.CharacterConfig{
		Speed:     6,
		JumpForce: 700,
		Collider:  config.SizeConfig{Width: 0.8, Height: 1.6},
		AttackArea: config.AreaConfig{
			OffsetX: 0.9, Width: 1, Height: 1.2,
		},
	}
	clips := []animation.Clip{{Name: "idle", Trigger: character.TriggerIdle, Frames: 1, TicksPerFrame: 1, Loop: true}}

	t.Run("nil world", func(t *testing.T) {
		_, err := NewController(&cfg, 0.02, character.Vec{}, nil, clips)
		assert.ErrorIs(t, err, ErrNilWorld)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewController(nil, 0.02, character.Vec{}, newTestWorld(t, BackendKinematic), clips)
		assert.ErrorIs(t, err, character.ErrInvalidConfig)
	})

	t.Run("bad attack area", func(t *testing.T) {
		bad := cfg
		bad.AttackArea.Width = 0
		_, err := NewController(&bad, 0.02, character.Vec{X: 3, Y: 1}, newTestWorld(t, BackendKinematic), clips)
		assert.ErrorIs(t, err, character.ErrInvalidConfig)
	})

	t.Run("bad fixed delta", func(t *testing.T) {
		_, err := NewController(&cfg, 0, character.Vec{X: 3, Y: 1}, newTestWorld(t, BackendKinematic), clips)
		assert.ErrorIs(t, err, character.ErrInvalidConfig)
	})

	t.Run("no clips", func(t *testing.T) {
		_, err := NewController(&cfg, 0.02, character.Vec{X: 3, Y: 1}, newTestWorld(t, BackendKinematic), nil)
		assert.ErrorIs(t, err, animation.ErrNoClips)
	})

	t.Run("spawns with feet on the point", func(t *testing.T) {
		c, err := NewController(&cfg, 0.02, character.Vec{X: 3, Y: 1}, newTestWorld(t, BackendKinematic), clips)
		require.NoError(t, err)
		assert.InDelta(t, 1.8, c.Body().Position().Y, 1e-9)
		assert.Equal(t, character.Idle, c.Machine().State())
		assert.Equal(t, "idle", c.Animation().Current())
	})
}

func TestController_FixedStep(t *testing.T) {
	rig := newTestRig(t, BackendKinematic)

	rig.ctrl.LogicTick(InputState{}, rig.dt)
	assert.Equal(t, 1, rig.ctrl.Steps())

	rig.ctrl.LogicTick(InputState{}, rig.dt/2)
	assert.Equal(t, 1, rig.ctrl.Steps(), "half a step accumulates")

	rig.ctrl.LogicTick(InputState{}, rig.dt/2)
	assert.Equal(t, 2, rig.ctrl.Steps())

	rig.ctrl.LogicTick(InputState{}, 1.0)
	assert.Equal(t, 2+maxStepsPerTick, rig.ctrl.Steps(), "long frames are capped")
	assert.Equal(t, 4, rig.ctrl.Ticks())
}

func TestController(t *testing.T) {
	for _, backend := range []string{BackendChipmunk, BackendKinematic} {
		t.Run(backend, func(t *testing.T) {
			t.Run("starts idle on the ground", func(t *testing.T) {
				rig := newTestRig(t, backend)
				rig.run(InputState{}, 10)

				assert.Equal(t, character.Idle, rig.ctrl.Machine().State())
				assert.True(t, rig.ctrl.Body().Grounded())
				assert.InDelta(t, rig.spawn.X, rig.ctrl.Body().Position().X, 0.01)
				assert.Empty(t, rig.trans)
			})

			t.Run("runs right and turns left", func(t *testing.T) {
				rig := newTestRig(t, backend)

				rig.run(InputState{Axis: 1}, 30)
				assert.Equal(t, character.Running, rig.ctrl.Machine().State())
				assert.Equal(t, character.FacingRight, rig.ctrl.Machine().Facing())
				assert.Greater(t, rig.ctrl.Body().Position().X, rig.spawn.X+2)
				assert.Equal(t, "run", rig.ctrl.Animation().Current())

				x := rig.ctrl.Body().Position().X
				rig.run(InputState{Axis: -1}, 10)
				assert.Equal(t, character.FacingLeft, rig.ctrl.Machine().Facing())
				assert.Less(t, rig.ctrl.Body().Position().X, x)

				rig.run(InputState{}, 1)
				assert.Equal(t, character.Idle, rig.ctrl.Machine().State())
				assert.Equal(t, []character.State{character.Running, character.Idle}, rig.trans)
			})

			t.Run("jumps falls and lands", func(t *testing.T) {
				rig := newTestRig(t, backend)
				rig.run(InputState{}, 5)

				rig.run(InputState{JumpPressed: true}, 1)
				assert.Equal(t, character.Jumping, rig.ctrl.Machine().State())
				assert.Greater(t, rig.ctrl.Body().Velocity().Y, 10.0)

				peak := rig.spawn.Y
				for i := 0; i < 120; i++ {
					rig.run(InputState{}, 1)
					if y := rig.ctrl.Body().Position().Y; y > peak {
						peak = y
					}
				}

				assert.Greater(t, peak, rig.spawn.Y+2, "jump height")
				assert.Equal(t, character.Idle, rig.ctrl.Machine().State())
				assert.True(t, rig.ctrl.Body().Grounded())
				assert.Equal(t, []character.State{character.Jumping, character.Falling, character.Idle}, rig.trans)
			})

			t.Run("attack hits a target once and ends on the clip", func(t *testing.T) {
				rig := newTestRig(t, backend)
				target, err := rig.targets.Spawn("dummy", character.Vec{X: rig.spawn.X + 1.2, Y: rig.spawn.Y})
				require.NoError(t, err)
				far, err := rig.targets.Spawn("dummy", character.Vec{X: rig.spawn.X + 8, Y: rig.spawn.Y})
				require.NoError(t, err)

				var hits []int
				rig.ctrl.OnAttackHit = func(n int) { hits = append(hits, n) }

				rig.run(InputState{AttackPressed: true}, 1)
				assert.Equal(t, character.Attacking, rig.ctrl.Machine().State())

				// Movement and jump are ignored while attacking.
				rig.run(InputState{Axis: 1, JumpPressed: true}, 11)
				assert.Equal(t, character.Attacking, rig.ctrl.Machine().State())
				assert.Empty(t, hits)
				assert.InDelta(t, rig.spawn.X, rig.ctrl.Body().Position().X, 0.01, "no horizontal motion")

				rig.run(InputState{}, 1)
				assert.Equal(t, []int{1}, hits)
				assert.Equal(t, entity.TargetDying, target.State())
				assert.Equal(t, entity.TargetStanding, far.State())

				rig.run(InputState{}, 8)
				assert.Equal(t, character.Idle, rig.ctrl.Machine().State())
				assert.Equal(t, 1, rig.ctrl.Hits())
				assert.Equal(t, []character.State{character.Attacking, character.Idle}, rig.trans)

				rig.run(InputState{}, 30)
				assert.Equal(t, entity.TargetHidden, target.State())
				assert.Empty(t, rig.ctrl.world.OverlapBox(rig.ctrl.AttackVolume()))
			})

			t.Run("attack in the air is ignored", func(t *testing.T) {
				rig := newTestRig(t, backend)
				rig.run(InputState{JumpPressed: true}, 1)
				rig.run(InputState{AttackPressed: true}, 1)
				assert.Equal(t, character.Jumping, rig.ctrl.Machine().State())
			})

			t.Run("respawn resets state and position", func(t *testing.T) {
				rig := newTestRig(t, backend)
				rig.run(InputState{Axis: 1}, 20)

				rig.ctrl.Respawn(rig.spawn)
				assert.Equal(t, character.Idle, rig.ctrl.Machine().State())
				assert.InDelta(t, rig.spawn.X, rig.ctrl.Body().Position().X, 1e-6)
				assert.Equal(t, character.Vec{}, rig.ctrl.Body().Velocity())

				rig.run(InputState{}, 5)
				assert.True(t, rig.ctrl.Body().Grounded())
			})

			t.Run("tuning changes run speed", func(t *testing.T) {
				rig := newTestRig(t, backend)
				rig.ctrl.SetTuning(3, 0)
				rig.run(InputState{Axis: 1}, 2)
				assert.InDelta(t, 3.0, rig.ctrl.Body().Velocity().X, 0.5)
				assert.Equal(t, 700.0, rig.ctrl.Machine().Config().JumpForce)
			})
		})
	}
}
