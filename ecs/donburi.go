package ecs

import (
	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// BoundsChangeEventType is the Donburi event type for grove bounds changes.
// Events are queued until ProcessEvents runs, so systems see them on their
// own schedule rather than inside bounds validation.
var BoundsChangeEventType = events.NewEventType[grove.BoundsChange]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Bounds changes are published to BoundsChangeEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) grove.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitBoundsChange(change grove.BoundsChange) {
	BoundsChangeEventType.Publish(s.world, change)
}
