// Package api provides HTTP API handlers for the Sparsh gesture
// navigation service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/agriassist/sparsh/internal/gesture"
	"github.com/agriassist/sparsh/internal/store"
)

// BindingsHandler handles HTTP requests for gesture binding resources.
type BindingsHandler struct {
	store    *store.Store
	onChange func()
}

// NewBindingsHandler creates a new BindingsHandler with the given store.
func NewBindingsHandler(s *store.Store) *BindingsHandler {
	return &BindingsHandler{store: s}
}

// OnChange registers a callback invoked after every successful mutation,
// so the live dispatch table can be refreshed.
func (h *BindingsHandler) OnChange(fn func()) {
	h.onChange = fn
}

func (h *BindingsHandler) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *BindingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/bindings or /api/bindings/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/bindings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/bindings
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/bindings/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createBindingRequest struct {
	Gesture string `json:"gesture"`
	Target  string `json:"target"`
	Phrase  string `json:"phrase"`
	Enabled *bool  `json:"enabled"`
}

type updateBindingRequest struct {
	Target  string `json:"target"`
	Phrase  string `json:"phrase"`
	Enabled *bool  `json:"enabled"`
}

type bindingResponse struct {
	ID        string `json:"id"`
	Gesture   string `json:"gesture"`
	Target    string `json:"target"`
	Phrase    string `json:"phrase"`
	Enabled   bool   `json:"enabled"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Binding to a bindingResponse.
func toResponse(b *store.Binding) bindingResponse {
	return bindingResponse{
		ID:        b.ID,
		Gesture:   b.Gesture,
		Target:    b.Target,
		Phrase:    b.Phrase,
		Enabled:   b.Enabled,
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: b.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/bindings and returns all bindings.
func (h *BindingsHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}

	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toResponse(b))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/bindings/{id} and returns a single binding.
func (h *BindingsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(binding))
}

// create handles POST /api/bindings and creates a new binding.
func (h *BindingsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate required fields
	if !gesture.Kind(req.Gesture).IsValid() {
		writeError(w, http.StatusBadRequest, "Invalid gesture kind")
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "Target is required")
		return
	}

	// One binding per gesture
	if _, err := h.store.Bindings().GetByGesture(req.Gesture); err == nil {
		writeError(w, http.StatusConflict, "Gesture already bound")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	binding := &store.Binding{
		ID:      uuid.New().String(),
		Gesture: req.Gesture,
		Target:  req.Target,
		Phrase:  req.Phrase,
		Enabled: enabled,
	}

	if err := h.store.Bindings().Create(binding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}

	h.changed()
	writeJSON(w, http.StatusCreated, toResponse(binding))
}

// update handles PUT /api/bindings/{id} and updates an existing binding.
func (h *BindingsHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	var req updateBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Update fields if provided; the gesture itself is immutable
	if req.Target != "" {
		binding.Target = req.Target
	}
	if req.Phrase != "" {
		binding.Phrase = req.Phrase
	}
	if req.Enabled != nil {
		binding.Enabled = *req.Enabled
	}

	if err := h.store.Bindings().Update(binding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}

	h.changed()
	writeJSON(w, http.StatusOK, toResponse(binding))
}

// delete handles DELETE /api/bindings/{id} and removes a binding.
func (h *BindingsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Bindings().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	h.changed()
	w.WriteHeader(http.StatusNoContent)
}
