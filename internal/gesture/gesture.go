// Package gesture implements touch gesture recognition for the Sparsh
// accessibility navigator. It consumes raw contact lifecycle events and
// emits exactly one discrete gesture per qualifying input sequence.
package gesture

import "time"

// Kind identifies a recognized gesture.
type Kind string

const (
	// SingleTap is one tap that is not followed by another within the inter-tap delay.
	SingleTap Kind = "single_tap"
	// DoubleTap is two taps at the same position within the inter-tap delay.
	DoubleTap Kind = "double_tap"
	// TripleTap is three taps at the same position within the inter-tap delay.
	TripleTap Kind = "triple_tap"
	// QuadTap is four or more taps at the same position within the inter-tap delay.
	// Runs longer than four collapse to this kind; there is no five-tap gesture.
	QuadTap Kind = "quad_tap"
	// SwipeUp is a single-contact swipe whose dominant axis is vertical, moving up.
	SwipeUp Kind = "swipe_up"
	// SwipeDown is a single-contact swipe whose dominant axis is vertical, moving down.
	SwipeDown Kind = "swipe_down"
	// SwipeLeft is a single-contact swipe whose dominant axis is horizontal, moving left.
	SwipeLeft Kind = "swipe_left"
	// SwipeRight is a single-contact swipe whose dominant axis is horizontal, moving right.
	SwipeRight Kind = "swipe_right"
	// TwoFingerDragDown is a deliberate two-contact downward drag.
	TwoFingerDragDown Kind = "two_finger_drag_down"
)

// Kinds returns the full gesture vocabulary.
func Kinds() []Kind {
	return []Kind{
		SingleTap, DoubleTap, TripleTap, QuadTap,
		SwipeUp, SwipeDown, SwipeLeft, SwipeRight,
		TwoFingerDragDown,
	}
}

// IsValid reports whether k is part of the gesture vocabulary.
func (k Kind) IsValid() bool {
	switch k {
	case SingleTap, DoubleTap, TripleTap, QuadTap,
		SwipeUp, SwipeDown, SwipeLeft, SwipeRight,
		TwoFingerDragDown:
		return true
	}
	return false
}

// Contact is one pressed finger or pointer at a single instant.
// The ID is opaque and stable for the life of the contact. Time is the
// event timestamp supplied by the input surface; all duration checks use
// these timestamps rather than the wall clock, so replayed sequences
// classify deterministically.
type Contact struct {
	ID   int64
	X    float64
	Y    float64
	Time time.Time
}

// Actions binds an optional handler to each gesture kind. Handlers belong
// to the presentation layer and are treated as opaque and potentially
// failing; a nil handler means the gesture is recognized but not acted on.
type Actions struct {
	SingleTap         func()
	DoubleTap         func()
	TripleTap         func()
	QuadTap           func()
	SwipeUp           func()
	SwipeDown         func()
	SwipeLeft         func()
	SwipeRight        func()
	TwoFingerDragDown func()
}

// Handler returns the handler bound to the given gesture kind, or nil.
func (a Actions) Handler(k Kind) func() {
	switch k {
	case SingleTap:
		return a.SingleTap
	case DoubleTap:
		return a.DoubleTap
	case TripleTap:
		return a.TripleTap
	case QuadTap:
		return a.QuadTap
	case SwipeUp:
		return a.SwipeUp
	case SwipeDown:
		return a.SwipeDown
	case SwipeLeft:
		return a.SwipeLeft
	case SwipeRight:
		return a.SwipeRight
	case TwoFingerDragDown:
		return a.TwoFingerDragDown
	}
	return nil
}

// Trace event types.
const (
	TraceTouchStart = "touch_start"
	TraceTouchEnd   = "touch_end"
	TraceKey        = "key"
	TraceGesture    = "gesture" // gesture emitted and handler invoked
	TraceBlocked    = "blocked" // gesture recognized but suppressed by the debounce/lock
	TraceDropped    = "dropped" // input outside every recognized envelope
)

// Gesture sources reported in trace events.
const (
	SourceTouch    = "touch"
	SourceKeyboard = "keyboard"
)

// TraceEvent is a structured diagnostic record. The recognizer writes one
// for every raw input event and every emitted, blocked, or dropped gesture.
// It is a pure side-channel: sinks may ignore it entirely without affecting
// recognition behavior.
type TraceEvent struct {
	Type     string    `json:"type"`
	Gesture  Kind      `json:"gesture,omitempty"`
	Source   string    `json:"source,omitempty"`
	Contacts int       `json:"contacts,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	Time     time.Time `json:"time"`
}
