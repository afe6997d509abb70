package session

import (
	"time"
)

// Stage is a named phase of the sales-conversation lifecycle.
type Stage string

const (
	StageIntroduction          Stage = "introduction"
	StageQualification         Stage = "qualification"
	StageInformation           Stage = "information"
	StagePersuasion            Stage = "persuasion"
	StageObjectionHandling     Stage = "objection_handling"
	StageInformationCollection Stage = "information_collection"
	StageClosing               Stage = "closing"
	StageEnded                 Stage = "ended"
)

// InterestLevel is the coarse classification of a customer's buying-intent strength.
type InterestLevel string

const (
	InterestNone   InterestLevel = "none"
	InterestLow    InterestLevel = "low"
	InterestMedium InterestLevel = "medium"
	InterestHigh   InterestLevel = "high"
)

var interestRank = map[InterestLevel]int{
	InterestNone:   0,
	InterestLow:    1,
	InterestMedium: 2,
	InterestHigh:   3,
}

// Rank returns the ordinal position of the level; higher means more interested.
func (l InterestLevel) Rank() int {
	return interestRank[l]
}

// AtLeast reports whether l is the same or a stronger level than other.
func (l InterestLevel) AtLeast(other InterestLevel) bool {
	return l.Rank() >= other.Rank()
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single transcript entry. Immutable once appended.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CustomerProfile holds facts learned about the customer during qualification.
// Fields fill progressively and never regress to empty except via an explicit
// correction in the collection workflow.
type CustomerProfile struct {
	Age              int    `json:"age,omitempty"`
	Name             string `json:"name,omitempty"`
	Purpose          string `json:"purpose,omitempty"`
	Dependents       string `json:"dependents,omitempty"`
	CoverageInterest string `json:"coverage_interest,omitempty"`
}

// Merge copies non-empty fields from other onto the profile without
// overwriting fields that are already set.
func (p *CustomerProfile) Merge(other CustomerProfile) {
	if p.Age == 0 && other.Age != 0 {
		p.Age = other.Age
	}
	if p.Name == "" && other.Name != "" {
		p.Name = other.Name
	}
	if p.Purpose == "" && other.Purpose != "" {
		p.Purpose = other.Purpose
	}
	if p.Dependents == "" && other.Dependents != "" {
		p.Dependents = other.Dependents
	}
	if p.CoverageInterest == "" && other.CoverageInterest != "" {
		p.CoverageInterest = other.CoverageInterest
	}
}

// QualificationComplete reports whether enough of the profile is known to move
// from QUALIFICATION to INFORMATION.
func (p CustomerProfile) QualificationComplete() bool {
	return p.Age != 0 && p.Purpose != "" && p.Dependents != ""
}

// CollectedData is the structured record gathered from an interested customer.
type CollectedData struct {
	FullName             string `json:"full_name,omitempty"`
	PhoneNumber          string `json:"phone_number,omitempty"`
	NationalID           string `json:"national_id,omitempty"`
	Address              string `json:"address,omitempty"`
	PolicyOfInterest     string `json:"policy_of_interest,omitempty"`
	Email                string `json:"email,omitempty"`
	PreferredContactTime string `json:"preferred_contact_time,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

// IsComplete reports whether all five mandatory fields are non-empty.
func (d CollectedData) IsComplete() bool {
	return d.FullName != "" &&
		d.PhoneNumber != "" &&
		d.NationalID != "" &&
		d.Address != "" &&
		d.PolicyOfInterest != ""
}

// ObjectionRecord tracks a customer-voiced concern and where it was raised.
type ObjectionRecord struct {
	Type     string `json:"type"`
	RaisedAt Stage  `json:"raised_at"`
	Resolved bool   `json:"resolved"`
}

// ClarificationRequest is returned when a turn short-circuits on unresolved
// ambiguity. The turn ends until the user's next message disambiguates.
type ClarificationRequest struct {
	Kind       string   `json:"kind"`
	Candidates []string `json:"candidates,omitempty"`
	Question   string   `json:"question"`
}

// CollectionPhase is the sub-state inside INFORMATION_COLLECTION.
type CollectionPhase string

const (
	PhaseCollecting           CollectionPhase = "collecting"
	PhaseAwaitingConfirmation CollectionPhase = "awaiting_confirmation"
	PhaseConfirmed            CollectionPhase = "confirmed"
)

// State is the full per-session conversation record. It is owned exclusively
// by the turn engine and mutated atomically once per turn behind the
// session's lock.
type State struct {
	SessionID      string `json:"session_id"`
	ConversationID string `json:"conversation_id"`

	Stage    Stage         `json:"stage"`
	Interest InterestLevel `json:"interest_level"`

	// ReturnStage remembers the stage that was active immediately before an
	// objection so OBJECTION_HANDLING can hand control back.
	ReturnStage Stage `json:"return_stage,omitempty"`

	Messages       []Message `json:"messages"`
	ContextSummary string    `json:"context_summary,omitempty"`
	// SummarizedThrough is the count of leading messages already folded into
	// ContextSummary. Compression is a no-op while it equals the compressible
	// prefix length.
	SummarizedThrough int `json:"summarized_through,omitempty"`

	Profile   CustomerProfile `json:"customer_profile"`
	Collected CollectedData   `json:"collected_data"`

	PendingClarification *ClarificationRequest `json:"pending_clarification,omitempty"`
	Objections           []ObjectionRecord     `json:"objections,omitempty"`

	// DiscussedPolicies is the ring of policy names mentioned recently,
	// newest last. Used as the antecedent candidate set by the ambiguity
	// resolver.
	DiscussedPolicies []string `json:"discussed_policies,omitempty"`

	CollectionPhase      CollectionPhase `json:"collection_phase,omitempty"`
	ConfirmationAttempts int             `json:"confirmation_attempts,omitempty"`
	CorrectingField      string          `json:"correcting_field,omitempty"`

	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// New returns a fresh state positioned at INTRODUCTION.
func New(sessionID, conversationID string) *State {
	now := time.Now().UTC()
	return &State{
		SessionID:      sessionID,
		ConversationID: conversationID,
		Stage:          StageIntroduction,
		Interest:       InterestNone,
		CreatedAt:      now,
		LastActivity:   now,
	}
}

// Append adds a transcript message and bumps the counters.
func (s *State) Append(role, content string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	s.MessageCount++
	s.LastActivity = time.Now().UTC()
}

// Recent returns the last n messages, newest last.
func (s *State) Recent(n int) []Message {
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// NoteDiscussedPolicy records a policy mention, deduplicating and keeping at
// most max entries, newest last.
func (s *State) NoteDiscussedPolicy(name string, max int) {
	if name == "" {
		return
	}
	for i, existing := range s.DiscussedPolicies {
		if existing == name {
			s.DiscussedPolicies = append(s.DiscussedPolicies[:i], s.DiscussedPolicies[i+1:]...)
			break
		}
	}
	s.DiscussedPolicies = append(s.DiscussedPolicies, name)
	if max > 0 && len(s.DiscussedPolicies) > max {
		s.DiscussedPolicies = s.DiscussedPolicies[len(s.DiscussedPolicies)-max:]
	}
}

// Clone returns a deep copy used as the pre-turn snapshot for rollback.
func (s *State) Clone() *State {
	cp := *s
	cp.Messages = append([]Message(nil), s.Messages...)
	cp.Objections = append([]ObjectionRecord(nil), s.Objections...)
	cp.DiscussedPolicies = append([]string(nil), s.DiscussedPolicies...)
	if s.PendingClarification != nil {
		pc := *s.PendingClarification
		pc.Candidates = append([]string(nil), s.PendingClarification.Candidates...)
		cp.PendingClarification = &pc
	}
	return &cp
}
