package app

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/agriassist/sparsh/internal/gesture"
	"github.com/agriassist/sparsh/internal/store"
	"github.com/agriassist/sparsh/testdata"
)

// recordingNotifier captures navigation commands.
type recordingNotifier struct {
	mu      sync.Mutex
	targets []string
}

func (n *recordingNotifier) Navigate(kind gesture.Kind, target, phrase string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.targets))
	copy(out, n.targets)
	return out
}

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Bindings().SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults() error = %v", err)
	}

	a := New(Config{Store: s})
	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(a.Stop)

	return a, s
}

func TestApp_TapNavigatesAndJournals(t *testing.T) {
	a, s := newTestApp(t)

	notifier := &recordingNotifier{}
	a.Dispatcher().SetNotifier(notifier)

	testdata.Replay(a.Recognizer(), testdata.TapRun(1, 100, 100, time.Now()))

	// Wait for the tap-run timer to close the run out.
	time.Sleep(600 * time.Millisecond)

	targets := notifier.all()
	if len(targets) != 1 || targets[0] != "/crops" {
		t.Fatalf("navigated to %v, want [/crops]", targets)
	}

	events, err := s.Events().ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("journal has %d events, want 1", len(events))
	}
	if events[0].Gesture != "single_tap" || events[0].Source != "touch" || events[0].Blocked {
		t.Errorf("journal entry = %+v, want recognized single_tap from touch", events[0])
	}
}

func TestApp_SwipeDownOpensAssistant(t *testing.T) {
	a, _ := newTestApp(t)

	notifier := &recordingNotifier{}
	a.Dispatcher().SetNotifier(notifier)

	testdata.Replay(a.Recognizer(), testdata.Swipe(200, 200, 200, 330, 150*time.Millisecond, time.Now()))

	targets := notifier.all()
	if len(targets) != 1 || targets[0] != "/assistant" {
		t.Fatalf("navigated to %v, want [/assistant]", targets)
	}
}

func TestApp_TwoFingerDragOpensHelp(t *testing.T) {
	a, _ := newTestApp(t)

	notifier := &recordingNotifier{}
	a.Dispatcher().SetNotifier(notifier)

	testdata.Replay(a.Recognizer(), testdata.TwoFingerDrag(time.Now()))

	targets := notifier.all()
	if len(targets) != 1 || targets[0] != "/help" {
		t.Fatalf("navigated to %v, want [/help]", targets)
	}
}

func TestApp_BlockedGestureIsJournaled(t *testing.T) {
	a, s := newTestApp(t)

	// Two valid swipes back to back: the second is debounced.
	now := time.Now()
	testdata.Replay(a.Recognizer(), testdata.Swipe(200, 200, 200, 330, 150*time.Millisecond, now))
	testdata.Replay(a.Recognizer(), testdata.Swipe(200, 200, 330, 200, 150*time.Millisecond, now))

	events, err := s.Events().ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("journal has %d events, want 2", len(events))
	}
	// Newest first: the blocked swipe_right, then the accepted swipe_down.
	if !events[0].Blocked || events[0].Gesture != "swipe_right" {
		t.Errorf("events[0] = %+v, want blocked swipe_right", events[0])
	}
	if events[1].Blocked || events[1].Gesture != "swipe_down" {
		t.Errorf("events[1] = %+v, want accepted swipe_down", events[1])
	}
}

func TestApp_EnabledSettingPersists(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	first := New(Config{Store: s})
	if err := first.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	first.SetEnabled(false)
	first.Stop()

	second := New(Config{Store: s})
	if err := second.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer second.Stop()

	if second.IsEnabled() {
		t.Error("enabled setting did not persist across restarts")
	}
}

func TestApp_KeyboardSettingPersists(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	first := New(Config{Store: s})
	if err := first.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	first.SetKeyboardEnabled(true)
	first.Stop()

	second := New(Config{Store: s})
	if err := second.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer second.Stop()

	if !second.Recognizer().KeyboardEnabled() {
		t.Error("keyboard setting did not persist across restarts")
	}
}

func TestApp_LoadBindingsRefreshesTable(t *testing.T) {
	a, s := newTestApp(t)

	b, err := s.Bindings().GetByGesture("single_tap")
	if err != nil {
		t.Fatalf("GetByGesture() error = %v", err)
	}
	b.Target = "/fields"
	if err := s.Bindings().Update(b); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if err := a.LoadBindings(); err != nil {
		t.Fatalf("LoadBindings() error = %v", err)
	}

	binding, ok := a.Dispatcher().Binding(gesture.SingleTap)
	if !ok || binding.Target != "/fields" {
		t.Errorf("dispatch table binding = %+v, want target /fields", binding)
	}
}
