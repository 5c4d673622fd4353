// Package server provides the HTTP server for the Sparsh gesture
// navigation service.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/agriassist/sparsh/internal/app"
	"github.com/agriassist/sparsh/internal/gesture"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// touchMessage is one inbound message from the touch surface.
type touchMessage struct {
	Type      string           `json:"type"` // touch_start, touch_end, key
	Contacts  []contactPayload `json:"contacts,omitempty"`
	Remaining int              `json:"remaining,omitempty"`
	Key       string           `json:"key,omitempty"`
	Shift     bool             `json:"shift,omitempty"`
}

// contactPayload is one contact within an inbound message. T is the event
// timestamp in Unix milliseconds as reported by the client surface.
type contactPayload struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	T  int64   `json:"t"`
}

// gestureMessage is the outbound navigation command sent to every client
// when a gesture resolves to an enabled binding.
type gestureMessage struct {
	Type    string `json:"type"`
	Gesture string `json:"gesture"`
	Target  string `json:"target"`
	Phrase  string `json:"phrase,omitempty"`
}

// traceMessage wraps a recognizer trace event for the debug overlay.
type traceMessage struct {
	Type  string             `json:"type"`
	Event gesture.TraceEvent `json:"event"`
}

// TouchHandler accepts raw touch and key events over WebSocket, feeds them
// to the recognizer, and broadcasts navigation commands and trace records
// back to every connected client.
type TouchHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewTouchHandler creates a new TouchHandler bound to the given app.
func NewTouchHandler(a *app.App) *TouchHandler {
	return &TouchHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests and runs the read loop.
func (h *TouchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		var msg touchMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		h.handleMessage(msg)
	}
}

// handleMessage routes one inbound message to the recognizer. Messages are
// discarded while navigation is disabled.
func (h *TouchHandler) handleMessage(msg touchMessage) {
	if !h.app.IsEnabled() {
		return
	}

	recognizer := h.app.Recognizer()

	switch msg.Type {
	case "touch_start":
		recognizer.TouchStart(toContacts(msg.Contacts))
	case "touch_end":
		recognizer.TouchEnd(toContacts(msg.Contacts), msg.Remaining)
	case "key":
		recognizer.KeyPress(msg.Key, msg.Shift)
	default:
		log.Printf("websocket: unknown message type %q", msg.Type)
	}
}

// toContacts converts wire payloads to recognizer contacts.
func toContacts(payloads []contactPayload) []gesture.Contact {
	contacts := make([]gesture.Contact, len(payloads))
	for i, p := range payloads {
		contacts[i] = gesture.Contact{
			ID:   p.ID,
			X:    p.X,
			Y:    p.Y,
			Time: time.UnixMilli(p.T),
		}
	}
	return contacts
}

// Navigate broadcasts a navigation command to all connected clients. It
// implements the dispatcher's Notifier contract.
func (h *TouchHandler) Navigate(kind gesture.Kind, target, phrase string) {
	h.broadcast(gestureMessage{
		Type:    "gesture",
		Gesture: string(kind),
		Target:  target,
		Phrase:  phrase,
	})
}

// BroadcastTrace forwards a recognizer trace event to all connected clients
// for the diagnostic overlay.
func (h *TouchHandler) BroadcastTrace(ev gesture.TraceEvent) {
	h.broadcast(traceMessage{Type: "trace", Event: ev})
}

// ClientCount returns the number of connected clients.
func (h *TouchHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *TouchHandler) broadcast(v interface{}) {
	msg, err := json.Marshal(v)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
