// Package app provides the main application logic for the Sparsh gesture
// navigation service.
package app

import (
	"errors"
	"log"
	"sync"

	"github.com/agriassist/sparsh/internal/action"
	"github.com/agriassist/sparsh/internal/gesture"
	"github.com/agriassist/sparsh/internal/store"
)

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	Speaker        *action.Speaker
	EnableKeyboard bool
}

// App orchestrates the gesture recognizer, the action dispatcher, and the
// persistence layer.
type App struct {
	config     Config
	recognizer *gesture.Recognizer
	dispatcher *action.Dispatcher

	mu         sync.RWMutex
	enabled    bool
	traceSinks []func(gesture.TraceEvent)
	stopCh     chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	a := &App{
		config:  config,
		enabled: true,
	}

	a.dispatcher = action.NewDispatcher(config.Speaker)
	a.recognizer = gesture.New(gesture.Config{
		Actions:        a.dispatcher.Actions(),
		EnableKeyboard: config.EnableKeyboard,
		Trace:          a.handleTrace,
	})

	return a
}

// SetEnabled enables or disables gesture navigation and persists the choice.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	if !enabled {
		// Drop any half-built interaction so nothing fires after re-enable.
		a.recognizer.Reset()
	}

	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetBool(store.SettingEnabled, enabled); err != nil {
			log.Printf("app: failed to persist enabled setting: %v", err)
		}
	}
}

// IsEnabled returns whether gesture navigation is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetKeyboardEnabled toggles the keyboard fallback and persists the choice.
func (a *App) SetKeyboardEnabled(enabled bool) {
	a.recognizer.SetKeyboardEnabled(enabled)

	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetBool(store.SettingKeyboard, enabled); err != nil {
			log.Printf("app: failed to persist keyboard setting: %v", err)
		}
	}
}

// OnTrace registers a sink that receives every recognizer trace event,
// in addition to the journal. The server registers one for the debug
// overlay, the tray another for its last-gesture display.
func (a *App) OnTrace(fn func(gesture.TraceEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.traceSinks = append(a.traceSinks, fn)
}

// handleTrace journals emitted and blocked gestures and forwards every
// trace event to the registered sink.
func (a *App) handleTrace(ev gesture.TraceEvent) {
	if a.config.Store != nil {
		switch ev.Type {
		case gesture.TraceGesture:
			if err := a.config.Store.Events().Append(string(ev.Gesture), ev.Source, false); err != nil {
				log.Printf("app: failed to journal gesture: %v", err)
			}
		case gesture.TraceBlocked:
			if err := a.config.Store.Events().Append(string(ev.Gesture), ev.Source, true); err != nil {
				log.Printf("app: failed to journal blocked gesture: %v", err)
			}
		}
	}

	a.mu.RLock()
	sinks := a.traceSinks
	a.mu.RUnlock()
	for _, sink := range sinks {
		sink(ev)
	}
}

// LoadBindings loads gesture bindings from the database into the dispatcher.
func (a *App) LoadBindings() error {
	if a.config.Store == nil {
		return nil
	}

	stored, err := a.config.Store.Bindings().List()
	if err != nil {
		return err
	}

	bindings := make([]action.Binding, 0, len(stored))
	for _, b := range stored {
		kind := gesture.Kind(b.Gesture)
		if !kind.IsValid() {
			log.Printf("app: skipping binding with unknown gesture %q", b.Gesture)
			continue
		}
		bindings = append(bindings, action.Binding{
			Gesture: kind,
			Target:  b.Target,
			Phrase:  b.Phrase,
			Enabled: b.Enabled,
		})
	}

	a.dispatcher.SetBindings(bindings)
	log.Printf("Loaded %d bindings from database", len(bindings))
	return nil
}

// RestoreSettings applies persisted toggles from the settings table.
func (a *App) RestoreSettings() error {
	if a.config.Store == nil {
		return nil
	}

	settings := a.config.Store.Settings()

	enabled, err := settings.GetBool(store.SettingEnabled, true)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()

	keyboard, err := settings.GetBool(store.SettingKeyboard, a.config.EnableKeyboard)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	a.recognizer.SetKeyboardEnabled(keyboard)

	return nil
}

// Start restores settings, loads bindings, and begins the background
// journal pruner.
func (a *App) Start() error {
	a.mu.Lock()
	if a.stopCh != nil {
		a.mu.Unlock()
		return nil
	}
	a.stopCh = make(chan struct{})
	stopCh := a.stopCh
	a.mu.Unlock()

	if err := a.RestoreSettings(); err != nil {
		return err
	}
	if err := a.LoadBindings(); err != nil {
		return err
	}

	go a.runJournalPruner(stopCh)

	log.Println("Gesture navigation started")
	return nil
}

// Stop halts background work and tears the recognizer down.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()

	a.recognizer.Reset()
	log.Println("Gesture navigation stopped")
}

// Recognizer returns the gesture recognizer.
func (a *App) Recognizer() *gesture.Recognizer {
	return a.recognizer
}

// Dispatcher returns the action dispatcher.
func (a *App) Dispatcher() *action.Dispatcher {
	return a.dispatcher
}
