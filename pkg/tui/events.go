package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/tessera-io/tessera/pkg/session"
)

// Custom event types posted into the tcell event loop from other goroutines

// ViewUpdateEvent is sent when the session published a fresh view
type ViewUpdateEvent struct {
	tcell.EventTime
	View session.View
}

// StreamDoneEvent is sent when the transport stream ended normally
type StreamDoneEvent struct {
	tcell.EventTime
}

// StreamErrorEvent is sent when the transport stream failed
type StreamErrorEvent struct {
	tcell.EventTime
	Error error
}

// SpinnerTickEvent advances the tool activity spinner
type SpinnerTickEvent struct {
	tcell.EventTime
}

// NewViewUpdateEvent creates a new view update event
func NewViewUpdateEvent(view session.View) *ViewUpdateEvent {
	ev := &ViewUpdateEvent{View: view}
	ev.SetEventNow()
	return ev
}

// NewStreamDoneEvent creates a new stream done event
func NewStreamDoneEvent() *StreamDoneEvent {
	ev := &StreamDoneEvent{}
	ev.SetEventNow()
	return ev
}

// NewStreamErrorEvent creates a new stream error event
func NewStreamErrorEvent(err error) *StreamErrorEvent {
	ev := &StreamErrorEvent{Error: err}
	ev.SetEventNow()
	return ev
}

// NewSpinnerTickEvent creates a new spinner tick event
func NewSpinnerTickEvent() *SpinnerTickEvent {
	ev := &SpinnerTickEvent{}
	ev.SetEventNow()
	return ev
}
