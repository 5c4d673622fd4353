package action

import (
	"log"
	"sync"

	"github.com/agriassist/sparsh/internal/gesture"
)

// Binding maps one gesture to a navigation target and a spoken phrase.
type Binding struct {
	Gesture gesture.Kind
	Target  string
	Phrase  string
	Enabled bool
}

// Notifier receives navigation commands for delivery to the client surface.
type Notifier interface {
	Navigate(kind gesture.Kind, target, phrase string)
}

// Dispatcher resolves recognized gestures against the binding table. On a
// hit it notifies the client surface with the navigation target and speaks
// the bound phrase; gestures without an enabled binding are logged and
// dropped.
type Dispatcher struct {
	speaker *Speaker

	mu       sync.RWMutex
	bindings map[gesture.Kind]Binding
	notifier Notifier
}

// NewDispatcher creates a Dispatcher. speaker may be nil to disable speech.
func NewDispatcher(speaker *Speaker) *Dispatcher {
	return &Dispatcher{
		speaker:  speaker,
		bindings: make(map[gesture.Kind]Binding),
	}
}

// SetNotifier sets the navigation notifier. May be nil.
func (d *Dispatcher) SetNotifier(n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifier = n
}

// SetBindings replaces the binding table.
func (d *Dispatcher) SetBindings(bindings []Binding) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings = make(map[gesture.Kind]Binding, len(bindings))
	for _, b := range bindings {
		d.bindings[b.Gesture] = b
	}
}

// Binding returns the binding for a gesture kind, if one is set.
func (d *Dispatcher) Binding(kind gesture.Kind) (Binding, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.bindings[kind]
	return b, ok
}

// Actions builds the recognizer dispatch table: every gesture kind gets a
// handler so unbound gestures still flow through Dispatch and are logged.
func (d *Dispatcher) Actions() gesture.Actions {
	return gesture.Actions{
		SingleTap:         d.handler(gesture.SingleTap),
		DoubleTap:         d.handler(gesture.DoubleTap),
		TripleTap:         d.handler(gesture.TripleTap),
		QuadTap:           d.handler(gesture.QuadTap),
		SwipeUp:           d.handler(gesture.SwipeUp),
		SwipeDown:         d.handler(gesture.SwipeDown),
		SwipeLeft:         d.handler(gesture.SwipeLeft),
		SwipeRight:        d.handler(gesture.SwipeRight),
		TwoFingerDragDown: d.handler(gesture.TwoFingerDragDown),
	}
}

func (d *Dispatcher) handler(kind gesture.Kind) func() {
	return func() {
		d.Dispatch(kind)
	}
}

// Dispatch resolves and executes the binding for a recognized gesture.
func (d *Dispatcher) Dispatch(kind gesture.Kind) {
	d.mu.RLock()
	binding, ok := d.bindings[kind]
	notifier := d.notifier
	d.mu.RUnlock()

	if !ok || !binding.Enabled {
		log.Printf("action: no enabled binding for %s", kind)
		return
	}

	log.Printf("action: %s -> %s", kind, binding.Target)

	if notifier != nil {
		notifier.Navigate(kind, binding.Target, binding.Phrase)
	}

	// Speech runs in the background: a slow engine must not hold the
	// recognizer's dispatch path.
	if d.speaker != nil && binding.Phrase != "" {
		go func() {
			if err := d.speaker.Speak(binding.Phrase); err != nil {
				log.Printf("action: speech for %s failed: %v", kind, err)
			}
		}()
	}
}
