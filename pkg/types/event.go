package types

// EventType defines the type of event emitted by the voice session.
type EventType string

const (
	EventTypeActivated          EventType = "activated"           // EventTypeActivated indicates the session started listening for commands.
	EventTypeHeard              EventType = "heard"               // EventTypeHeard indicates an utterance was transcribed.
	EventTypeUnintelligible     EventType = "unintelligible"      // EventTypeUnintelligible indicates the utterance could not be understood.
	EventTypeServiceUnavailable EventType = "service_unavailable" // EventTypeServiceUnavailable indicates the recognition service failed.
	EventTypeChoiceRequest      EventType = "choice_request"      // EventTypeChoiceRequest indicates the user must pick one of several options.
	EventTypeCommandComplete    EventType = "command_complete"    // EventTypeCommandComplete indicates a command finished, successfully or not.
	EventTypeError              EventType = "error"               // EventTypeError indicates a command ended with an error.
	EventTypeExit               EventType = "exit"                // EventTypeExit indicates the user asked to end the session.
)

// Event represents something that happened during a voice session.
type Event struct {
	// Error contains error information for error events.
	Error error

	// Transcript is the recognized text for heard and command events.
	Transcript string

	// Options lists the labels offered for choice request events.
	Options []string

	// Type indicates the kind of event.
	Type EventType
}

// EventSink receives session events. Like StatusSink, implementations must
// not block the caller.
type EventSink interface {
	Emit(*Event)
}

// EventFunc adapts a function to EventSink.
type EventFunc func(*Event)

// Emit calls f(e).
func (f EventFunc) Emit(e *Event) { f(e) }

// NewActivatedEvent creates an activation event.
func NewActivatedEvent() *Event {
	return &Event{Type: EventTypeActivated}
}

// NewHeardEvent creates an event for a transcribed utterance.
func NewHeardEvent(transcript string) *Event {
	return &Event{Type: EventTypeHeard, Transcript: transcript}
}

// NewUnintelligibleEvent creates an event for speech that could not be understood.
func NewUnintelligibleEvent() *Event {
	return &Event{Type: EventTypeUnintelligible}
}

// NewServiceUnavailableEvent creates an event for a recognition service failure.
func NewServiceUnavailableEvent(err error) *Event {
	return &Event{Type: EventTypeServiceUnavailable, Error: err}
}

// NewChoiceRequestEvent creates an event listing the options the user must pick from.
func NewChoiceRequestEvent(options []string) *Event {
	return &Event{Type: EventTypeChoiceRequest, Options: options}
}

// NewCommandCompleteEvent creates an event for a finished command.
func NewCommandCompleteEvent(transcript string) *Event {
	return &Event{Type: EventTypeCommandComplete, Transcript: transcript}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(transcript string, err error) *Event {
	return &Event{Type: EventTypeError, Transcript: transcript, Error: err}
}

// NewExitEvent creates an exit event.
func NewExitEvent() *Event {
	return &Event{Type: EventTypeExit}
}
