package gesture

import (
	"log"
	"math"
	"sync"
	"time"
)

// Recognition thresholds. These are internal constants, not runtime
// configuration; the pairs (debounce window, settle delay) and (inter-tap
// delay, max tap duration) are tuned together and must stay consistent.
const (
	// interTapDelay is the maximum gap between taps still counted as the same run.
	interTapDelay = 250 * time.Millisecond
	// tapMoveThreshold is the maximum displacement during a single tap, in pixels.
	tapMoveThreshold = 10.0
	// tapPositionTolerance is the maximum distance between consecutive taps'
	// positions to stay in the same run, in pixels.
	tapPositionTolerance = 40.0
	// maxTapDuration is the maximum down-to-up time still classified as a tap.
	maxTapDuration = 300 * time.Millisecond
	// swipeThreshold is the minimum displacement to classify as a swipe or drag, in pixels.
	swipeThreshold = 50.0
	// maxSwipeDuration is the upper bound on a single-contact swipe.
	maxSwipeDuration = 800 * time.Millisecond
	// minDragDuration is the minimum duration for the two-finger drag.
	// Faster two-contact movements are rejected as flicks.
	minDragDuration = 200 * time.Millisecond
	// debounceWindow is the minimum time between two accepted gesture emissions.
	debounceWindow = 200 * time.Millisecond
	// settleDelay is how long the in-flight lock stays held after a handler runs,
	// so a slow UI transition is not interrupted by a second rapid gesture.
	settleDelay = 150 * time.Millisecond
)

// Config holds construction options for a Recognizer.
type Config struct {
	// Actions is the gesture-to-handler dispatch table.
	Actions Actions
	// EnableKeyboard activates the keyboard fallback input. It exists so a
	// developer without a touch device can exercise the same action table;
	// it is never on by default.
	EnableKeyboard bool
	// Trace is an optional diagnostic sink. May be nil.
	Trace func(TraceEvent)
}

// trackedContact is the recognizer's record of one active contact,
// captured at contact-down.
type trackedContact struct {
	x, y  float64
	start time.Time
}

// Recognizer converts raw contact lifecycle events (and, with the keyboard
// fallback enabled, key presses) into discrete gesture notifications. It
// owns all of its state exclusively; the only things it shares with the
// presentation layer are the handler callbacks it invokes.
type Recognizer struct {
	actions Actions
	trace   func(TraceEvent)

	mu       sync.Mutex
	keyboard bool
	contacts map[int64]*trackedContact

	// Tap run: consecutive same-position taps accumulating into a multi-tap.
	tapCount   int
	tapX, tapY float64
	tapTimer   *time.Timer

	// Execution lock: prevents two gestures from firing too close together.
	inFlight bool
	lastEmit time.Time

	now func() time.Time
}

// New creates a Recognizer with the given configuration.
func New(config Config) *Recognizer {
	return &Recognizer{
		actions:  config.Actions,
		trace:    config.Trace,
		keyboard: config.EnableKeyboard,
		contacts: make(map[int64]*trackedContact),
		now:      time.Now,
	}
}

// SetKeyboardEnabled toggles the keyboard fallback input at runtime.
func (r *Recognizer) SetKeyboardEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keyboard = enabled
}

// KeyboardEnabled reports whether the keyboard fallback input is active.
func (r *Recognizer) KeyboardEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keyboard
}

// TouchStart records every newly seen contact in the batch. It never emits
// a gesture itself. If the batch opens a brand-new interaction (the active
// set was empty) and the execution lock is still held, the lock is forcibly
// cleared: a lock with no contacts behind it can only be left over from an
// interaction that failed to release it.
func (r *Recognizer) TouchStart(contacts []Contact) {
	r.mu.Lock()
	if len(r.contacts) == 0 && r.inFlight {
		r.inFlight = false
		log.Println("gesture: cleared stale in-flight lock")
	}
	for _, c := range contacts {
		if _, ok := r.contacts[c.ID]; ok {
			continue
		}
		r.contacts[c.ID] = &trackedContact{x: c.X, y: c.Y, start: c.Time}
	}
	active := len(r.contacts)
	r.mu.Unlock()

	r.sendTrace(TraceEvent{Type: TraceTouchStart, Contacts: active, Time: r.now()})
}

// TouchEnd processes the contact(s) that just lifted. remaining is how many
// contacts are still down after this event. Classification follows a strict
// priority order evaluated against the first ended contact: two-finger drag
// down, then single-contact swipe, then tap candidate. Anything outside
// every envelope is dropped silently.
func (r *Recognizer) TouchEnd(ended []Contact, remaining int) {
	if len(ended) == 0 {
		return
	}

	kind, ok := r.classifyEnd(ended, remaining)
	if ok {
		r.emit(kind, SourceTouch)
	}
}

// classifyEnd runs the classification chain under the lock and returns the
// gesture to emit, if any. Tap candidates return no gesture here; they are
// resolved later by the tap-run timer.
func (r *Recognizer) classifyEnd(ended []Contact, remaining int) (Kind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The ended contacts leave the active set regardless of which branch fires.
	defer func() {
		for _, c := range ended {
			delete(r.contacts, c.ID)
		}
	}()

	first := ended[0]
	active := len(r.contacts)

	tracked, known := r.contacts[first.ID]
	if !known {
		r.sendTraceLocked(TraceEvent{Type: TraceDropped, Contacts: active, Detail: "untracked contact", Time: r.now()})
		return "", false
	}

	dx := first.X - tracked.x
	dy := first.Y - tracked.y
	dist := math.Hypot(dx, dy)
	duration := first.Time.Sub(tracked.start)

	r.sendTraceLocked(TraceEvent{Type: TraceTouchEnd, Contacts: active, Time: r.now()})

	switch {
	case active == 2 && remaining == 0:
		// Two-finger drag down: enough vertical travel, little horizontal
		// travel, and slow enough to be deliberate rather than a flick.
		if dy > swipeThreshold && math.Abs(dx) < swipeThreshold && duration > minDragDuration {
			r.clearTapRunLocked()
			r.contacts = make(map[int64]*trackedContact)
			return TwoFingerDragDown, true
		}
		r.sendTraceLocked(TraceEvent{Type: TraceDropped, Contacts: active, Detail: "two-contact flick", Time: r.now()})

	case active == 1 && remaining == 0 && dist > swipeThreshold && duration < maxSwipeDuration:
		r.clearTapRunLocked()
		r.contacts = make(map[int64]*trackedContact)
		return swipeKind(dx, dy), true

	case active == 1 && remaining == 0 && dist < tapMoveThreshold && duration < maxTapDuration:
		r.recordTapLocked(first.X, first.Y)

	default:
		r.sendTraceLocked(TraceEvent{Type: TraceDropped, Contacts: active, Detail: "outside envelopes", Time: r.now()})
	}

	return "", false
}

// swipeKind classifies a swipe by its dominant axis and sign.
func swipeKind(dx, dy float64) Kind {
	if math.Abs(dy) >= math.Abs(dx) {
		if dy > 0 {
			return SwipeDown
		}
		return SwipeUp
	}
	if dx > 0 {
		return SwipeRight
	}
	return SwipeLeft
}

// recordTapLocked accumulates a qualifying tap into the current run, or
// starts a fresh run when the tap lands too far from the previous one. The
// discarded run never fires; only the run the pending timer closes out
// produces a gesture.
func (r *Recognizer) recordTapLocked(x, y float64) {
	if r.tapCount > 0 && math.Hypot(x-r.tapX, y-r.tapY) <= tapPositionTolerance {
		r.tapCount++
	} else {
		r.tapCount = 1
	}
	r.tapX, r.tapY = x, y

	if r.tapTimer != nil {
		r.tapTimer.Stop()
	}
	r.tapTimer = time.AfterFunc(interTapDelay, r.closeTapRun)
}

// closeTapRun fires when the inter-tap delay elapses with no further
// qualifying tap. It maps the run's final count to a gesture and emits
// exactly once for the whole run.
func (r *Recognizer) closeTapRun() {
	r.mu.Lock()
	count := r.tapCount
	r.tapCount = 0
	r.tapTimer = nil
	r.mu.Unlock()

	if count == 0 {
		return
	}
	r.emit(tapKind(count), SourceTouch)
}

// tapKind maps a tap-run count to its gesture. Counts above four collapse
// to QuadTap; only four multi-tap actions exist in the navigation menu.
func tapKind(count int) Kind {
	switch {
	case count <= 1:
		return SingleTap
	case count == 2:
		return DoubleTap
	case count == 3:
		return TripleTap
	default:
		return QuadTap
	}
}

// clearTapRunLocked discards the open tap run and cancels its pending timer.
func (r *Recognizer) clearTapRunLocked() {
	r.tapCount = 0
	if r.tapTimer != nil {
		r.tapTimer.Stop()
		r.tapTimer = nil
	}
}

// emit is the single funnel through which every gesture is dispatched, from
// touch and keyboard alike. It enforces the debounce window and the
// in-flight lock, invokes the bound handler, and releases the lock after
// the settle delay. A panicking handler is logged and swallowed; it cannot
// corrupt recognizer state, and the lock still releases on its timer.
func (r *Recognizer) emit(kind Kind, source string) {
	r.mu.Lock()
	now := r.now()
	if r.inFlight || now.Sub(r.lastEmit) < debounceWindow {
		r.mu.Unlock()
		log.Printf("gesture: %s blocked (debounce/in-flight)", kind)
		r.sendTrace(TraceEvent{Type: TraceBlocked, Gesture: kind, Source: source, Time: now})
		return
	}
	r.inFlight = true
	r.lastEmit = now
	handler := r.actions.Handler(kind)
	r.mu.Unlock()

	log.Printf("gesture: %s (%s)", kind, source)
	r.sendTrace(TraceEvent{Type: TraceGesture, Gesture: kind, Source: source, Time: now})

	if handler != nil {
		r.invoke(kind, handler)
	}

	time.AfterFunc(settleDelay, func() {
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
	})
}

// invoke runs a handler with panic isolation.
func (r *Recognizer) invoke(kind Kind, handler func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("gesture: handler for %s panicked: %v", kind, rec)
		}
	}()
	handler()
}

// Reset forcibly returns the recognizer to idle: the active contact set,
// the tap run (including its pending timer), and the execution lock are all
// cleared. Used when the owning surface is torn down or needs to recover
// from a stuck state.
func (r *Recognizer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = make(map[int64]*trackedContact)
	r.clearTapRunLocked()
	r.inFlight = false
	r.lastEmit = time.Time{}
}

// ActiveContacts returns the number of contacts currently tracked.
func (r *Recognizer) ActiveContacts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contacts)
}

// sendTrace delivers a trace event to the configured sink, if any.
func (r *Recognizer) sendTrace(ev TraceEvent) {
	if r.trace != nil {
		r.trace(ev)
	}
}

// sendTraceLocked is sendTrace for callers already holding the mutex. The
// sink must not call back into the recognizer.
func (r *Recognizer) sendTraceLocked(ev TraceEvent) {
	if r.trace != nil {
		r.trace(ev)
	}
}
