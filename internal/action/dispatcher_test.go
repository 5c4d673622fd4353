package action

import (
	"sync"
	"testing"

	"github.com/agriassist/sparsh/internal/gesture"
)

// fakeNotifier records navigation commands.
type fakeNotifier struct {
	mu      sync.Mutex
	targets []string
}

func (f *fakeNotifier) Navigate(kind gesture.Kind, target, phrase string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, target)
}

func (f *fakeNotifier) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.targets))
	copy(out, f.targets)
	return out
}

func TestDispatcher_Dispatch(t *testing.T) {
	d := NewDispatcher(nil)
	notifier := &fakeNotifier{}
	d.SetNotifier(notifier)

	d.SetBindings([]Binding{
		{Gesture: gesture.SingleTap, Target: "/crops", Phrase: "Opening crop management", Enabled: true},
		{Gesture: gesture.DoubleTap, Target: "/weather", Phrase: "Opening weather forecast", Enabled: true},
	})

	d.Dispatch(gesture.SingleTap)
	d.Dispatch(gesture.DoubleTap)

	got := notifier.all()
	if len(got) != 2 || got[0] != "/crops" || got[1] != "/weather" {
		t.Fatalf("navigated to %v, want [/crops /weather]", got)
	}
}

func TestDispatcher_UnboundGestureIsDropped(t *testing.T) {
	d := NewDispatcher(nil)
	notifier := &fakeNotifier{}
	d.SetNotifier(notifier)

	d.SetBindings([]Binding{
		{Gesture: gesture.SingleTap, Target: "/crops", Enabled: true},
	})

	// Swipe left has no binding in the accessibility menu.
	d.Dispatch(gesture.SwipeLeft)

	if got := notifier.all(); len(got) != 0 {
		t.Fatalf("navigated to %v for unbound gesture, want none", got)
	}
}

func TestDispatcher_DisabledBindingIsDropped(t *testing.T) {
	d := NewDispatcher(nil)
	notifier := &fakeNotifier{}
	d.SetNotifier(notifier)

	d.SetBindings([]Binding{
		{Gesture: gesture.SingleTap, Target: "/crops", Enabled: false},
	})

	d.Dispatch(gesture.SingleTap)

	if got := notifier.all(); len(got) != 0 {
		t.Fatalf("navigated to %v for disabled binding, want none", got)
	}
}

func TestDispatcher_ActionsCoverVocabulary(t *testing.T) {
	d := NewDispatcher(nil)
	actions := d.Actions()

	for _, kind := range gesture.Kinds() {
		if actions.Handler(kind) == nil {
			t.Errorf("no handler wired for %s", kind)
		}
	}
}

func TestDispatcher_Binding(t *testing.T) {
	d := NewDispatcher(nil)
	d.SetBindings([]Binding{
		{Gesture: gesture.TripleTap, Target: "/schemes", Phrase: "Opening government schemes", Enabled: true},
	})

	b, ok := d.Binding(gesture.TripleTap)
	if !ok {
		t.Fatal("Binding() reported no binding for triple tap")
	}
	if b.Target != "/schemes" {
		t.Errorf("target = %s, want /schemes", b.Target)
	}

	if _, ok := d.Binding(gesture.SwipeUp); ok {
		t.Error("Binding() reported a binding for unbound swipe up")
	}
}
