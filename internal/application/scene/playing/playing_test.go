package playing

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/adventurer/internal/application/replay"
	"github.com/younwookim/adventurer/internal/application/scene"
	"github.com/younwookim/adventurer/internal/application/state"
	"github.com/younwookim/adventurer/internal/application/system"
	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
)

const (
	configDir = "../../../../cmd/game/configs"
	testDT    = 0.02
)

var _ scene.Scene = (*Playing)(nil)

type fakeKeys struct {
	pressed map[ebiten.Key]bool
}

func (k *fakeKeys) IsKeyPressed(ebiten.Key) bool { return false }

func (k *fakeKeys) IsKeyJustPressed(key ebiten.Key) bool { return k.pressed[key] }

func (k *fakeKeys) IsMouseButtonJustPressed(ebiten.MouseButton) bool { return false }

// press makes key just-pressed for exactly one Update
func (k *fakeKeys) press(p *Playing, key ebiten.Key) {
	k.pressed = map[ebiten.Key]bool{key: true}
	_, _ = p.Update(testDT)
	k.pressed = nil
}

type scriptedInput struct {
	script []system.InputState
	i      int
}

func (s *scriptedInput) GetInput() system.InputState {
	if s.i >= len(s.script) {
		return system.InputState{}
	}
	in := s.script[s.i]
	s.i++
	return in
}

func repeat(in system.InputState, n int) []system.InputState {
	out := make([]system.InputState, n)
	for i := range out {
		out[i] = in
	}
	return out
}

func loadTestConfig(t *testing.T) (*config.GameConfig, *config.StageConfig) {
	t.Helper()
	loader := config.NewLoader(configDir)
	cfg, err := loader.LoadAll()
	require.NoError(t, err)
	stageCfg, err := loader.LoadStage("demo")
	require.NoError(t, err)
	return cfg, stageCfg
}

func newTestPlaying(t *testing.T, opts Options) (*Playing, *fakeKeys) {
	t.Helper()
	cfg, stageCfg := loadTestConfig(t)
	keys := &fakeKeys{}
	opts.Keys = keys
	if opts.Input == nil {
		opts.Input = &scriptedInput{}
	}
	p, err := New(cfg, stageCfg, opts)
	require.NoError(t, err)
	return p, keys
}

func update(t *testing.T, p *Playing, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		next, err := p.Update(testDT)
		require.NoError(t, err)
		require.Nil(t, next)
	}
}

func TestNew(t *testing.T) {
	p, _ := newTestPlaying(t, Options{})

	assert.Equal(t, state.StatePlaying, p.State())
	assert.Len(t, p.Session().Targets.Targets(), 3)
	assert.Equal(t, system.BackendChipmunk, p.Session().Backend)
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg, stageCfg := loadTestConfig(t)
	_, err := New(cfg, stageCfg, Options{Backend: "box2d", Keys: &fakeKeys{}})
	assert.ErrorIs(t, err, system.ErrUnknownBackend)
}

func TestPlaying_MovesWithInput(t *testing.T) {
	p, _ := newTestPlaying(t, Options{
		Backend: system.BackendKinematic,
		Input:   &scriptedInput{script: repeat(system.InputState{Axis: 1}, 10)},
	})
	start := p.Session().Controller.Body().Position().X

	update(t, p, 10)
	assert.Equal(t, character.Running, p.Session().Controller.Machine().State())
	assert.Greater(t, p.Session().Controller.Body().Position().X, start)
	assert.Equal(t, "Idle -> Running", p.lastTransition)
}

func TestPlaying_Pause(t *testing.T) {
	p, keys := newTestPlaying(t, Options{})
	update(t, p, 3)
	ticks := p.Session().Controller.Ticks()

	keys.press(p, ebiten.KeyEscape)
	assert.Equal(t, state.StatePaused, p.State())

	update(t, p, 5)
	assert.Equal(t, ticks, p.Session().Controller.Ticks(), "no ticks while paused")

	keys.press(p, ebiten.KeyEscape)
	assert.Equal(t, state.StatePlaying, p.State())
	assert.Equal(t, ticks+1, p.Session().Controller.Ticks())
}

func TestPlaying_DebugToggle(t *testing.T) {
	p, keys := newTestPlaying(t, Options{Debug: true})
	assert.True(t, p.debug)

	keys.press(p, ebiten.KeyF3)
	assert.False(t, p.debug)
}

func TestPlaying_Restart(t *testing.T) {
	p, keys := newTestPlaying(t, Options{
		Input: &scriptedInput{script: repeat(system.InputState{Axis: 1}, 20)},
	})
	update(t, p, 20)
	before := p.Session()

	keys.press(p, ebiten.KeyR)
	assert.NotSame(t, before, p.Session())
	assert.Equal(t, state.StatePlaying, p.State())
	assert.Equal(t, 0, p.Session().Controller.Ticks())
	assert.Equal(t, character.Idle, p.Session().Controller.Machine().State())
}

func TestPlaying_ReloadTuning(t *testing.T) {
	fsys := fstest.MapFS{
		"entities.yaml": &fstest.MapFile{Data: []byte(`
character:
  speed: 9
  jumpForce: 800
`)},
	}
	reload := make(chan string, 4)
	p, _ := newTestPlaying(t, Options{
		Reload: reload,
		Loader: config.NewFSLoader(fsys, "mem"),
	})

	reload <- "/configs/physics.json"
	update(t, p, 1)
	assert.Equal(t, 6.0, p.Session().Controller.Machine().Config().Speed, "other files are ignored")

	reload <- "/configs/entities.yaml"
	update(t, p, 1)
	cfg := p.Session().Controller.Machine().Config()
	assert.Equal(t, 9.0, cfg.Speed)
	assert.Equal(t, 800.0, cfg.JumpForce)

	close(reload)
	update(t, p, 1)
	assert.Nil(t, p.opts.Reload)
}

func TestPlaying_RecordsInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	p, _ := newTestPlaying(t, Options{
		RecordPath: path,
		Input: &scriptedInput{script: []system.InputState{
			{Axis: 1},
			{JumpPressed: true},
			{AttackPressed: true},
		}},
	})

	update(t, p, 3)
	p.OnExit()

	data, err := replay.LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", data.Stage)
	assert.Equal(t, system.BackendChipmunk, data.Backend)
	assert.Equal(t, []replay.FrameInput{
		{F: 0, A: 1},
		{F: 1, J: true},
		{F: 2, K: true},
	}, data.Frames)
}

func TestPlaying_StageClear(t *testing.T) {
	cfg, stageCfg := loadTestConfig(t)
	// One target just in front of the spawn point.
	stageCfg.Targets = []config.TargetSpawnConfig{{Kind: "dummy", X: stageCfg.PlayerSpawn.X + 19, Y: stageCfg.PlayerSpawn.Y}}

	var clearedHits int
	p, err := New(cfg, stageCfg, Options{
		Keys:    &fakeKeys{},
		Input:   &scriptedInput{script: []system.InputState{{AttackPressed: true}}},
		OnClear: func(hits, _ int) { clearedHits = hits },
	})
	require.NoError(t, err)

	update(t, p, 80)
	assert.Equal(t, state.StateStageClear, p.State())
	assert.Equal(t, 1, clearedHits)

	ticks := p.Session().Controller.Ticks()
	update(t, p, 5)
	assert.Equal(t, ticks, p.Session().Controller.Ticks(), "no ticks after clear")
}

func TestFade(t *testing.T) {
	assert.Equal(t, colorTarget, fade(colorTarget, 1))
	assert.Equal(t, uint8(0), fade(colorTarget, 0).A)
	assert.Equal(t, uint8(100), fade(colorTarget, 0.5).R)
}
