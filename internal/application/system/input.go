package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState holds the sampled input for one logic tick
type InputState struct {
	Axis          float64 // raw horizontal axis: -1, 0 or +1
	JumpPressed   bool    // jump key went down this tick
	AttackPressed bool    // attack button went down this tick
}

// InputSource produces one InputState per logic tick
type InputSource interface {
	GetInput() InputState
}

// KeyReader abstracts the ebiten input queries used by InputSystem
type KeyReader interface {
	IsKeyPressed(key ebiten.Key) bool
	IsKeyJustPressed(key ebiten.Key) bool
	IsMouseButtonJustPressed(button ebiten.MouseButton) bool
}

type ebitenKeys struct{}

// DefaultKeys returns the key reader backed by ebiten's input state
func DefaultKeys() KeyReader { return ebitenKeys{} }

func (ebitenKeys) IsKeyPressed(key ebiten.Key) bool { return ebiten.IsKeyPressed(key) }

func (ebitenKeys) IsKeyJustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }

func (ebitenKeys) IsMouseButtonJustPressed(button ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(button)
}

// InputSystem handles player input
type InputSystem struct {
	keys KeyReader
}

var _ InputSource = (*InputSystem)(nil)

// NewInputSystem creates an input system reading the ebiten keyboard and mouse
func NewInputSystem() *InputSystem {
	return &InputSystem{keys: ebitenKeys{}}
}

// NewInputSystemWith creates an input system over a custom key reader
func NewInputSystemWith(keys KeyReader) *InputSystem {
	return &InputSystem{keys: keys}
}

// GetInput reads the current input state
func (s *InputSystem) GetInput() InputState {
	left := s.keys.IsKeyPressed(ebiten.KeyA) || s.keys.IsKeyPressed(ebiten.KeyArrowLeft)
	right := s.keys.IsKeyPressed(ebiten.KeyD) || s.keys.IsKeyPressed(ebiten.KeyArrowRight)

	return InputState{
		Axis:        RawAxis(left, right),
		JumpPressed: s.keys.IsKeyJustPressed(ebiten.KeySpace),
		AttackPressed: s.keys.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
			s.keys.IsKeyJustPressed(ebiten.KeyJ),
	}
}

// RawAxis maps two direction keys to -1, 0 or +1. Both held cancel out.
func RawAxis(left, right bool) float64 {
	switch {
	case left && !right:
		return -1
	case right && !left:
		return 1
	default:
		return 0
	}
}
