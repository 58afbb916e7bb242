package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
)

func loadTestConfig(t *testing.T, stageName string) (*config.GameConfig, *config.StageConfig) {
	t.Helper()
	loader := config.NewLoader(configDir)
	cfg, err := loader.LoadAll()
	require.NoError(t, err)
	stageCfg, err := loader.LoadStage(stageName)
	require.NoError(t, err)
	return cfg, stageCfg
}

func TestNewSession(t *testing.T) {
	t.Run("demo stage", func(t *testing.T) {
		cfg, stageCfg := loadTestConfig(t, "demo")

		s, err := NewSession(cfg, stageCfg, "")
		require.NoError(t, err)
		assert.Equal(t, BackendChipmunk, s.Backend)
		assert.Len(t, s.Targets.Targets(), 3)
		assert.False(t, s.Cleared())

		feet := s.Controller.Body().Position().Y - s.Controller.Body().Size().Y/2
		assert.InDelta(t, 2.0, feet, 1e-6)
	})

	t.Run("tiled stage on the kinematic backend", func(t *testing.T) {
		cfg, stageCfg := loadTestConfig(t, "arena")

		s, err := NewSession(cfg, stageCfg, BackendKinematic)
		require.NoError(t, err)
		assert.Equal(t, BackendKinematic, s.Backend)
		assert.Len(t, s.Targets.Targets(), 2)

		for i := 0; i < 10; i++ {
			s.Tick(InputState{}, cfg.Physics.Physics.FixedDelta)
		}
		assert.True(t, s.Controller.Body().Grounded())
		assert.Equal(t, character.Idle, s.Controller.Machine().State())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg, stageCfg := loadTestConfig(t, "demo")
		_, err := NewSession(cfg, stageCfg, "box2d")
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})

	t.Run("unknown target kind", func(t *testing.T) {
		cfg, stageCfg := loadTestConfig(t, "demo")
		stageCfg.Targets[0].Kind = "golem"
		_, err := NewSession(cfg, stageCfg, "")
		assert.ErrorIs(t, err, ErrUnknownTarget)
	})

	t.Run("cleared once every target has hidden", func(t *testing.T) {
		cfg, stageCfg := loadTestConfig(t, "demo")
		s, err := NewSession(cfg, stageCfg, "")
		require.NoError(t, err)

		for _, target := range s.Targets.Targets() {
			target.Hurt()
		}
		assert.False(t, s.Cleared(), "still dying")

		s.Targets.Update(1)
		assert.True(t, s.Cleared())
	})
}
