package engine

import (
	"context"
	"time"

	"github.com/lifesure/insurance-ai-platform/internal/session"
)

// Service describes what the turn engine exposes to the API layer.
type Service interface {
	Start(ctx context.Context) (*StartResponse, error)
	SubmitTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error)
	End(ctx context.Context, req EndRequest) (*EndResponse, error)
}

// TurnRequest is a single user-message-in turn.
type TurnRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// StartResponse is returned when a conversation is opened.
type StartResponse struct {
	SessionID      string        `json:"session_id"`
	ConversationID string        `json:"conversation_id"`
	Stage          session.Stage `json:"stage"`
	Message        string        `json:"message"`
}

// TurnResponse is the per-turn DTO returned to the API layer.
type TurnResponse struct {
	SessionID            string                `json:"session_id"`
	Message              string                `json:"message"`
	Stage                session.Stage         `json:"stage"`
	Intent               Intent                `json:"intent"`
	InterestLevel        session.InterestLevel `json:"interest_level"`
	ClarificationPending bool                  `json:"clarification_pending"`
	Timestamp            time.Time             `json:"timestamp"`
}

// EndRequest closes a conversation, optionally recording why.
type EndRequest struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason,omitempty"`
}

// EndResponse carries the final summary and duration.
type EndResponse struct {
	SessionID string        `json:"session_id"`
	Summary   string        `json:"summary"`
	Duration  time.Duration `json:"duration"`
}
