package posepaint

// EventSink receives gesture events from a Session. Used for optional ECS
// or network integration.
type EventSink interface {
	EmitEvent(event GestureEvent)
}

// GestureType identifies a kind of gesture event.
type GestureType uint8

const (
	EventHandsUp         GestureType = iota // a pose raised a wrist above the nose
	EventHandsDown                          // no pose has raised hands any longer
	EventFireworkTrigger                    // the firework gesture fired
	EventModeChange                         // a queued mode switch was applied
)

// String returns the event name.
func (t GestureType) String() string {
	switch t {
	case EventHandsUp:
		return "hands_up"
	case EventHandsDown:
		return "hands_down"
	case EventFireworkTrigger:
		return "firework_trigger"
	case EventModeChange:
		return "mode_change"
	}
	return "unknown"
}

// GestureEvent carries one gesture event.
type GestureEvent struct {
	Type GestureType
	// Time is the session clock in seconds.
	Time float64
	// Slot is the pose slot that caused the event, or -1 if none.
	Slot int
	// Mode is the mode active after the event.
	Mode Mode
	// Previous is the mode replaced by a mode change.
	Previous Mode
}

// EventFunc adapts a function to EventSink.
type EventFunc func(GestureEvent)

// EmitEvent calls f(event).
func (f EventFunc) EmitEvent(event GestureEvent) { f(event) }
