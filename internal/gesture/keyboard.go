package gesture

import "strings"

// KeyPress maps a raw key press to a gesture and dispatches it directly,
// bypassing all timing and position logic. It does nothing unless the
// keyboard fallback is enabled. The mapping mirrors the touch vocabulary:
// '1'..'4' are the tap multiplicities, '5' is swipe down, and Shift+A is
// the two-finger drag down. Unmapped keys are ignored.
func (r *Recognizer) KeyPress(key string, shift bool) {
	r.mu.Lock()
	enabled := r.keyboard
	r.mu.Unlock()
	if !enabled {
		return
	}

	kind, ok := keyGesture(key, shift)
	if !ok {
		return
	}

	r.sendTrace(TraceEvent{Type: TraceKey, Gesture: kind, Source: SourceKeyboard, Detail: key, Time: r.now()})
	r.emit(kind, SourceKeyboard)
}

// keyGesture resolves a key press to its gesture kind.
func keyGesture(key string, shift bool) (Kind, bool) {
	if shift && strings.EqualFold(key, "a") {
		return TwoFingerDragDown, true
	}

	switch key {
	case "1":
		return SingleTap, true
	case "2":
		return DoubleTap, true
	case "3":
		return TripleTap, true
	case "4":
		return QuadTap, true
	case "5":
		return SwipeDown, true
	}
	return "", false
}
