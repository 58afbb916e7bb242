package replay

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/adventurer/internal/application/system"
)

type scriptedInput struct {
	inputs []system.InputState
	i      int
}

func (s *scriptedInput) GetInput() system.InputState {
	in := s.inputs[s.i%len(s.inputs)]
	s.i++
	return in
}

func TestFrameInput_OmitsIdleFields(t *testing.T) {
	data, err := json.Marshal(FrameInput{F: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"f":3}`, string(data))

	data, err = json.Marshal(FrameInput{F: 4, A: -1, J: true, K: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"f":4,"a":-1,"j":true,"k":true}`, string(data))
}

func TestReplayer_GetInput(t *testing.T) {
	data := CreateTestReplayData("test",
		system.InputState{Axis: -1},
		system.InputState{Axis: 1, JumpPressed: true},
		system.InputState{AttackPressed: true},
	)
	replayer := NewReplayer(data)

	assert.Equal(t, 3, replayer.TotalFrames())
	assert.Equal(t, system.InputState{Axis: -1}, replayer.GetInput())
	assert.Equal(t, system.InputState{Axis: 1, JumpPressed: true}, replayer.GetInput())
	assert.False(t, replayer.Done())
	assert.Equal(t, system.InputState{AttackPressed: true}, replayer.GetInput())
	assert.True(t, replayer.Done())
	assert.Equal(t, 3, replayer.CurrentFrame())

	// Past the end
	assert.Equal(t, system.InputState{}, replayer.GetInput())
	assert.Equal(t, 3, replayer.CurrentFrame())

	replayer.Reset()
	assert.Equal(t, 0, replayer.CurrentFrame())
	assert.Equal(t, system.InputState{Axis: -1}, replayer.GetInput())
}

func TestCreateTestReplayData(t *testing.T) {
	data := CreateTestReplayData("demo", system.InputState{}, system.InputState{Axis: 1})

	assert.Equal(t, Version, data.Version)
	assert.Equal(t, "demo", data.Stage)
	assert.NotEmpty(t, data.StartTime)
	require.Len(t, data.Frames, 2)
	assert.Equal(t, 1, data.Frames[1].F)
	assert.Equal(t, 1.0, data.Frames[1].A)
}

func TestRecorder(t *testing.T) {
	t.Run("records through a tap", func(t *testing.T) {
		rec := NewRecorder("demo", "kinematic", 0.02)
		src := rec.Tap(&scriptedInput{inputs: []system.InputState{
			{Axis: 1},
			{JumpPressed: true},
		}})

		assert.Equal(t, system.InputState{Axis: 1}, src.GetInput())
		assert.Equal(t, system.InputState{JumpPressed: true}, src.GetInput())

		data := rec.GetData()
		assert.Equal(t, "kinematic", data.Backend)
		assert.Equal(t, 0.02, data.FixedDt)
		assert.Equal(t, []FrameInput{{F: 0, A: 1}, {F: 1, J: true}}, data.Frames)
	})

	t.Run("stop ends recording", func(t *testing.T) {
		rec := NewRecorder("demo", "", 0.02)
		rec.RecordFrame(system.InputState{})
		rec.Stop()
		rec.RecordFrame(system.InputState{})

		assert.False(t, rec.IsRecording())
		assert.Equal(t, 1, rec.FrameCount())
	})

	t.Run("empty recording is not saved", func(t *testing.T) {
		rec := NewRecorder("demo", "", 0.02)
		err := rec.Save(filepath.Join(t.TempDir(), "empty.json"))
		assert.ErrorIs(t, err, ErrNoFrames)
	})

	t.Run("save and load", func(t *testing.T) {
		rec := NewRecorder("arena", "chipmunk", 0.02)
		rec.RecordFrame(system.InputState{Axis: -1})
		rec.RecordFrame(system.InputState{AttackPressed: true})

		path := filepath.Join(t.TempDir(), GenerateFilename())
		require.NoError(t, rec.Save(path))

		data, err := LoadReplay(path)
		require.NoError(t, err)
		assert.Equal(t, rec.GetData(), *data)

		replayer := NewReplayer(*data)
		assert.Equal(t, system.InputState{Axis: -1}, replayer.GetInput())
		assert.Equal(t, system.InputState{AttackPressed: true}, replayer.GetInput())
	})
}

func TestLoadReplay_Errors(t *testing.T) {
	_, err := LoadReplay(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to open file")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = LoadReplay(path)
	assert.ErrorContains(t, err, "failed to decode replay")
}
