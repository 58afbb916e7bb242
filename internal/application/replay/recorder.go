package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/adventurer/internal/application/system"
)

var ErrNoFrames = errors.New("no frames to save")

// Recorder handles input recording for replay
type Recorder struct {
	data      ReplayData
	recording bool
	frame     int
}

// NewRecorder creates a new recorder for a stage and physics setup
func NewRecorder(stage, backend string, fixedDelta float64) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:   Version,
			Stage:     stage,
			Backend:   backend,
			FixedDt:   fixedDelta,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 3600), // Pre-allocate for ~1 minute at 60fps
		},
		recording: true,
		frame:     0,
	}
}

// RecordFrame records a single tick's input
func (r *Recorder) RecordFrame(input system.InputState) {
	if !r.recording {
		return
	}

	r.data.Frames = append(r.data.Frames, FrameInput{
		F: r.frame,
		A: input.Axis,
		J: input.JumpPressed,
		K: input.AttackPressed,
	})
	r.frame++
}

// Tap returns an input source that records everything src produces
func (r *Recorder) Tap(src system.InputSource) system.InputSource {
	return &tap{src: src, rec: r}
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return ErrNoFrames
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// GetData returns the replay data (for testing)
func (r *Recorder) GetData() ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}

type tap struct {
	src system.InputSource
	rec *Recorder
}

func (t *tap) GetInput() system.InputState {
	in := t.src.GetInput()
	t.rec.RecordFrame(in)
	return in
}
