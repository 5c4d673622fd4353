// Package testdata provides canned touch sequences shared by tests.
package testdata

import (
	"time"

	"github.com/agriassist/sparsh/internal/gesture"
)

// Step is one contact-lifecycle event in a replayable sequence. Exactly one
// of Start or End is set.
type Step struct {
	Start     []gesture.Contact
	End       []gesture.Contact
	Remaining int
}

// Replay feeds a sequence into a recognizer.
func Replay(r *gesture.Recognizer, steps []Step) {
	for _, step := range steps {
		if len(step.Start) > 0 {
			r.TouchStart(step.Start)
		}
		if len(step.End) > 0 {
			r.TouchEnd(step.End, step.Remaining)
		}
	}
}

// TapRun builds n qualifying taps at (x, y), 100ms apart by event time.
func TapRun(n int, x, y float64, start time.Time) []Step {
	var steps []Step
	for i := 0; i < n; i++ {
		id := int64(i + 1)
		down := start.Add(time.Duration(i) * 100 * time.Millisecond)
		steps = append(steps,
			Step{Start: []gesture.Contact{{ID: id, X: x, Y: y, Time: down}}},
			Step{End: []gesture.Contact{{ID: id, X: x, Y: y, Time: down.Add(80 * time.Millisecond)}}},
		)
	}
	return steps
}

// Swipe builds a single-contact swipe from (x0, y0) to (x1, y1).
func Swipe(x0, y0, x1, y1 float64, duration time.Duration, start time.Time) []Step {
	return []Step{
		{Start: []gesture.Contact{{ID: 1, X: x0, Y: y0, Time: start}}},
		{End: []gesture.Contact{{ID: 1, X: x1, Y: y1, Time: start.Add(duration)}}},
	}
}

// TwoFingerDrag builds a deliberate two-contact downward drag.
func TwoFingerDrag(start time.Time) []Step {
	up := start.Add(400 * time.Millisecond)
	return []Step{
		{Start: []gesture.Contact{
			{ID: 1, X: 180, Y: 100, Time: start},
			{ID: 2, X: 220, Y: 100, Time: start},
		}},
		{End: []gesture.Contact{
			{ID: 1, X: 184, Y: 260, Time: up},
			{ID: 2, X: 223, Y: 255, Time: up},
		}},
	}
}
