// Package animation plays trigger-driven clips and dispatches frame events.
package animation

import (
	"errors"
	"fmt"

	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
)

var (
	ErrNoClips     = errors.New("animation: no clips")
	ErrInvalidClip = errors.New("animation: invalid clip")
)

// Clip is a fixed-rate frame sequence bound to a trigger.
type Clip struct {
	Name          string
	Trigger       character.Trigger
	Frames        int
	TicksPerFrame int
	Loop          bool
	Events        map[int]string // frame index -> event name
}

// ClipsFromConfig converts loaded clip configs
func ClipsFromConfig(cfg *config.AnimationsConfig) []Clip {
	if cfg == nil {
		return nil
	}
	clips := make([]Clip, 0, len(cfg.Clips))
	for _, c := range cfg.Clips {
		clips = append(clips, Clip{
			Name:          c.Name,
			Trigger:       character.Trigger(c.Trigger),
			Frames:        c.Frames,
			TicksPerFrame: c.TicksPerFrame,
			Loop:          c.Loop,
			Events:        c.Events,
		})
	}
	return clips
}

// Controller is the animation state machine driven by triggers.
// Update is called once per logic tick; frame events fire on frame entry.
type Controller struct {
	clips    map[character.Trigger]*Clip
	handlers map[string][]func()

	current  *Clip
	frame    int
	ticks    int
	pending  bool // clip switched, frame 0 not yet entered
	finished bool

	// generation changes on every clip switch so dispatch can detect
	// a callback that switched clips.
	generation uint64
	unhandled  int
}

var _ character.Animator = (*Controller)(nil)

// NewController validates the clips and starts the clip bound to initial.
func NewController(clips []Clip, initial character.Trigger) (*Controller, error) {
	if len(clips) == 0 {
		return nil, ErrNoClips
	}

	byTrigger := make(map[character.Trigger]*Clip, len(clips))
	for i := range clips {
		clip := clips[i]
		if err := validate(clip); err != nil {
			return nil, err
		}
		if _, dup := byTrigger[clip.Trigger]; dup {
			return nil, fmt.Errorf("clip %q: duplicate trigger %q: %w", clip.Name, clip.Trigger, ErrInvalidClip)
		}
		byTrigger[clip.Trigger] = &clip
	}

	start, ok := byTrigger[initial]
	if !ok {
		return nil, fmt.Errorf("no clip for initial trigger %q: %w", initial, ErrInvalidClip)
	}

	c := &Controller{
		clips:    byTrigger,
		handlers: make(map[string][]func()),
	}
	c.play(start)
	return c, nil
}

func validate(clip Clip) error {
	if clip.Trigger == "" {
		return fmt.Errorf("clip %q: empty trigger: %w", clip.Name, ErrInvalidClip)
	}
	if clip.Frames <= 0 || clip.TicksPerFrame <= 0 {
		return fmt.Errorf("clip %q: frames %d, ticks per frame %d: %w", clip.Name, clip.Frames, clip.TicksPerFrame, ErrInvalidClip)
	}
	for frame := range clip.Events {
		if frame < 0 || frame >= clip.Frames {
			return fmt.Errorf("clip %q: event on frame %d of %d: %w", clip.Name, frame, clip.Frames, ErrInvalidClip)
		}
	}
	return nil
}

// On registers fn for a named frame event. Handlers run in registration order.
func (c *Controller) On(event string, fn func()) {
	c.handlers[event] = append(c.handlers[event], fn)
}

// SetTrigger switches to the clip bound to t and restarts it.
// Unknown triggers are ignored and counted.
func (c *Controller) SetTrigger(t character.Trigger) {
	clip, ok := c.clips[t]
	if !ok {
		c.unhandled++
		return
	}
	c.play(clip)
}

// Update advances the current clip by one tick.
func (c *Controller) Update() {
	if c.current == nil || c.finished {
		return
	}

	if c.pending {
		c.pending = false
		c.enter(0)
		return
	}

	c.ticks++
	if c.ticks < c.current.TicksPerFrame {
		return
	}
	c.ticks = 0

	next := c.frame + 1
	if next >= c.current.Frames {
		if !c.current.Loop {
			// Hold the last frame.
			c.finished = true
			return
		}
		next = 0
	}
	c.enter(next)
}

// Current returns the playing clip's name
func (c *Controller) Current() string {
	if c.current == nil {
		return ""
	}
	return c.current.Name
}

// Frame returns the current frame index
func (c *Controller) Frame() int { return c.frame }

// Finished reports whether a non-looping clip has played out
func (c *Controller) Finished() bool { return c.finished }

// Unhandled returns how many triggers had no clip
func (c *Controller) Unhandled() int { return c.unhandled }

func (c *Controller) play(clip *Clip) {
	c.current = clip
	c.frame = 0
	c.ticks = 0
	c.pending = true
	c.finished = false
	c.generation++
}

func (c *Controller) enter(frame int) {
	c.frame = frame
	event, ok := c.current.Events[frame]
	if !ok {
		return
	}

	gen := c.generation
	for _, fn := range c.handlers[event] {
		fn()
		if c.generation != gen {
			return
		}
	}
}
