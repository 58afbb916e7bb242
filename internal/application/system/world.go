package system

import (
	"errors"
	"fmt"

	"github.com/younwookim/adventurer/internal/infrastructure/physics"
	"github.com/younwookim/adventurer/internal/infrastructure/physics/chipmunk"
	"github.com/younwookim/adventurer/internal/infrastructure/physics/kinematic"
)

const (
	BackendChipmunk  = "chipmunk"
	BackendKinematic = "kinematic"
)

// ErrUnknownBackend is returned for a backend name with no implementation
var ErrUnknownBackend = errors.New("unknown physics backend")

// NewPhysicsWorld creates the named physics backend. An empty name selects chipmunk.
func NewPhysicsWorld(backend string, cfg physics.Config) (physics.World, error) {
	switch backend {
	case "", BackendChipmunk:
		return chipmunk.New(cfg)
	case BackendKinematic:
		return kinematic.New(cfg)
	default:
		return nil, fmt.Errorf("%q: %w", backend, ErrUnknownBackend)
	}
}
