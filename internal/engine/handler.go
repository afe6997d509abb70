package engine

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lifesure/insurance-ai-platform/pkg/logging"
)

// Handler handles HTTP requests for conversations.
type Handler struct {
	svc    Service
	logger *logging.Logger
}

// NewHandler creates a new conversation handler.
func NewHandler(svc Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Start handles POST /conversation/start requests.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Start(r.Context())
	if err != nil {
		h.logger.Error("failed to start conversation", "error", err)
		http.Error(w, "could not start conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Message handles POST /conversation/message requests.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || req.Message == "" {
		http.Error(w, "session_id and message are required", http.StatusBadRequest)
		return
	}

	resp, err := h.svc.SubmitTurn(r.Context(), req)
	if err != nil {
		h.writeTurnError(w, req.SessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// End handles POST /conversation/end requests.
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	var req EndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	resp, err := h.svc.End(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, fallbackSessionUnknown, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to end conversation", "session_id", req.SessionID, "error", err)
		http.Error(w, "could not end conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeTurnError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, fallbackSessionUnknown, http.StatusNotFound)
	case errors.Is(err, ErrSessionEnded):
		http.Error(w, "this conversation has ended, please start a new one", http.StatusConflict)
	default:
		h.logger.Error("turn processing failed", "session_id", sessionID, "error", err)
		http.Error(w, fallbackGenericApology, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
