package ecs

import (
	"github.com/phanxgames/posepaint"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType is the Donburi event type for posepaint gesture events.
var GestureEventType = events.NewEventType[posepaint.GestureEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Gesture
// events are published to GestureEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) posepaint.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event posepaint.GestureEvent) {
	GestureEventType.Publish(s.world, event)
}
