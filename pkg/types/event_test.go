package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventConstructors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		event *Event
		want  Event
	}{
		{"activated", NewActivatedEvent(), Event{Type: EventTypeActivated}},
		{"heard", NewHeardEvent("open youtube"), Event{Type: EventTypeHeard, Transcript: "open youtube"}},
		{"unintelligible", NewUnintelligibleEvent(), Event{Type: EventTypeUnintelligible}},
		{"service unavailable", NewServiceUnavailableEvent(boom), Event{Type: EventTypeServiceUnavailable, Error: boom}},
		{"choice", NewChoiceRequestEvent([]string{"a", "b"}), Event{Type: EventTypeChoiceRequest, Options: []string{"a", "b"}}},
		{"complete", NewCommandCompleteEvent("scroll down"), Event{Type: EventTypeCommandComplete, Transcript: "scroll down"}},
		{"error", NewErrorEvent("play", boom), Event{Type: EventTypeError, Transcript: "play", Error: boom}},
		{"exit", NewExitEvent(), Event{Type: EventTypeExit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, *tt.event)
		})
	}
}

func TestEventFunc(t *testing.T) {
	var got []EventType
	sink := EventFunc(func(e *Event) { got = append(got, e.Type) })
	sink.Emit(NewActivatedEvent())
	sink.Emit(NewExitEvent())
	assert.Equal(t, []EventType{EventTypeActivated, EventTypeExit}, got)
}
