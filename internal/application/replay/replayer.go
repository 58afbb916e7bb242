package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/adventurer/internal/application/system"
)

// Replayer plays recorded input back one logic tick at a time
type Replayer struct {
	data  ReplayData
	frame int
}

var _ system.InputSource = (*Replayer)(nil)

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{
		data:  data,
		frame: 0,
	}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	return &data, nil
}

// GetInput returns the input for the current frame and advances.
// Past the last frame it returns no input.
func (r *Replayer) GetInput() system.InputState {
	if r.Done() {
		return system.InputState{}
	}

	fi := r.data.Frames[r.frame]
	r.frame++

	return system.InputState{
		Axis:          fi.A,
		JumpPressed:   fi.J,
		AttackPressed: fi.K,
	}
}

// Done reports whether every recorded frame has been played
func (r *Replayer) Done() bool {
	return r.frame >= len(r.data.Frames)
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Data returns the replay data
func (r *Replayer) Data() ReplayData {
	return r.data
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// CreateTestReplayData creates replay data for testing from per-frame inputs
func CreateTestReplayData(stage string, inputs ...system.InputState) ReplayData {
	data := ReplayData{
		Version:   Version,
		Stage:     stage,
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameInput, len(inputs)),
	}

	for i, in := range inputs {
		data.Frames[i] = FrameInput{
			F: i,
			A: in.Axis,
			J: in.JumpPressed,
			K: in.AttackPressed,
		}
	}

	return data
}
