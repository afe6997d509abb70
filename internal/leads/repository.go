package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	GetByPhone(ctx context.Context, phone string) (*Lead, error)
}

// InMemoryRepository is an implementation of Repository using in-memory storage
type InMemoryRepository struct {
	mu      sync.RWMutex
	leads   map[string]*Lead
	byPhone map[string]string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads:   make(map[string]*Lead),
		byPhone: make(map[string]string),
	}
}

// Create creates a new lead in memory. The phone number is the natural key,
// a second lead for the same number is rejected with ErrDuplicateLead.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byPhone[req.Phone]; exists {
		return nil, ErrDuplicateLead
	}

	lead := &Lead{
		ID:                   uuid.New().String(),
		ConversationID:       req.ConversationID,
		Name:                 req.Name,
		Phone:                req.Phone,
		NationalID:           req.NationalID,
		Address:              req.Address,
		PolicyOfInterest:     req.PolicyOfInterest,
		Email:                req.Email,
		PreferredContactTime: req.PreferredContactTime,
		Notes:                req.Notes,
		CreatedAt:            time.Now().UTC(),
	}

	r.leads[lead.ID] = lead
	r.byPhone[lead.Phone] = lead.ID

	return lead, nil
}

// GetByID retrieves a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}

	return lead, nil
}

// GetByPhone retrieves a lead by phone number
func (r *InMemoryRepository) GetByPhone(ctx context.Context, phone string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPhone[phone]
	if !ok {
		return nil, ErrLeadNotFound
	}

	return r.leads[id], nil
}
