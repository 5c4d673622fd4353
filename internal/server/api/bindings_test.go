package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/agriassist/sparsh/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBindingsHandler_Create(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingsHandler(s)

	body := `{"gesture": "triple_tap", "target": "/schemes", "phrase": "Opening government schemes"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp bindingResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if resp.Gesture != "triple_tap" || resp.Target != "/schemes" || !resp.Enabled {
		t.Errorf("response = %+v, want enabled triple_tap -> /schemes", resp)
	}
	if resp.ID == "" {
		t.Error("response has no id")
	}
}

func TestBindingsHandler_CreateValidation(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingsHandler(s)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"invalid JSON", `{`, http.StatusBadRequest},
		{"unknown gesture", `{"gesture": "five_tap", "target": "/x"}`, http.StatusBadRequest},
		{"missing gesture", `{"target": "/x"}`, http.StatusBadRequest},
		{"missing target", `{"gesture": "single_tap"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestBindingsHandler_CreateConflict(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingsHandler(s)

	body := `{"gesture": "single_tap", "target": "/crops"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want %d", w.Code, http.StatusCreated)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(body))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestBindingsHandler_GetNotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingsHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/bindings/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestBindingsHandler_Update(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingsHandler(s)

	b := &store.Binding{
		ID:      uuid.New().String(),
		Gesture: "swipe_down",
		Target:  "/assistant",
		Phrase:  "Opening farming assistant",
		Enabled: true,
	}
	if err := s.Bindings().Create(b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	body := `{"phrase": "Launching the assistant", "enabled": false}`
	req := httptest.NewRequest(http.MethodPut, "/api/bindings/"+b.ID, bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp bindingResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Phrase != "Launching the assistant" || resp.Enabled {
		t.Errorf("response = %+v, want updated phrase and enabled=false", resp)
	}
	// Unchanged fields are preserved
	if resp.Target != "/assistant" {
		t.Errorf("target = %s, want /assistant", resp.Target)
	}
}

func TestBindingsHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingsHandler(s)

	b := &store.Binding{ID: uuid.New().String(), Gesture: "quad_tap", Target: "/market", Enabled: true}
	if err := s.Bindings().Create(b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/bindings/"+b.ID, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/bindings/"+b.ID, nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestBindingsHandler_OnChange(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingsHandler(s)

	changes := 0
	handler.OnChange(func() { changes++ })

	body := `{"gesture": "swipe_up", "target": "/top"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", w.Code, http.StatusCreated)
	}
	if changes != 1 {
		t.Errorf("onChange calls after create = %d, want 1", changes)
	}

	// Failed mutations do not fire the callback
	req = httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(`{"gesture": "bad"}`))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if changes != 1 {
		t.Errorf("onChange calls after failed create = %d, want 1", changes)
	}
}

func TestBindingsHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingsHandler(s)

	req := httptest.NewRequest(http.MethodPatch, "/api/bindings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
