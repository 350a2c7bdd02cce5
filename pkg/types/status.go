package types

// Status is the assistant state shown by the status overlay.
type Status string

const (
	StatusReady      Status = "Ready"         // StatusReady indicates the assistant is idle between commands.
	StatusListening  Status = "Listening..."  // StatusListening indicates an utterance is being captured.
	StatusProcessing Status = "Processing..." // StatusProcessing indicates a command is being transcribed or resolved.
)

// Active reports whether the status represents in-flight work.
func (s Status) Active() bool {
	return s == StatusListening || s == StatusProcessing
}

// StatusSink receives status transitions. Implementations must not block the
// caller for longer than it takes to enqueue the update.
type StatusSink interface {
	SetStatus(Status)
}

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(Status)

// SetStatus calls f(s).
func (f StatusFunc) SetStatus(s Status) { f(s) }
