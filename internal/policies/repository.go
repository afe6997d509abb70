package policies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrPolicyNotFound is returned when no policy matches the lookup.
var ErrPolicyNotFound = errors.New("policies: policy not found")

// Repository provides read access to the policy catalog.
type Repository interface {
	List(ctx context.Context) ([]Policy, error)
	GetByName(ctx context.Context, name string) (*Policy, error)
}

// MemoryRepository is a Repository backed by an in-process slice.
type MemoryRepository struct {
	mu       sync.RWMutex
	policies []Policy
}

// NewMemoryRepository creates a repository with the provided catalog. A nil
// catalog falls back to the seed catalog.
func NewMemoryRepository(catalog []Policy) *MemoryRepository {
	if catalog == nil {
		catalog = SeedCatalog()
	}
	return &MemoryRepository{policies: catalog}
}

// List returns the full catalog.
func (r *MemoryRepository) List(ctx context.Context) ([]Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Policy, len(r.policies))
	copy(out, r.policies)
	return out, nil
}

// GetByName matches a policy by exact name, case-insensitively.
func (r *MemoryRepository) GetByName(ctx context.Context, name string) (*Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.policies {
		if strings.EqualFold(p.Name, name) {
			cp := p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPolicyNotFound, name)
}

// SeedCatalog returns the default product catalog used in development and tests.
func SeedCatalog() []Policy {
	return []Policy{
		{
			ID:             uuid.NewString(),
			Name:           "Basic Term 250k",
			Provider:       "AcmeLife",
			PolicyType:     "term",
			CoverageAmount: 250_000,
			MonthlyPremium: 29.99,
			TermYears:      20,
			MinAge:         18,
			MaxAge:         60,
			MedicalExam:    false,
			Description:    "Basic Term 250k offers $250,000 of term life coverage for 20 years at $29.99 per month. No medical exam required. Best for individuals who want affordable starter protection.",
		},
		{
			ID:             uuid.NewString(),
			Name:           "Family Term 500k",
			Provider:       "AcmeLife",
			PolicyType:     "term",
			CoverageAmount: 500_000,
			MonthlyPremium: 54.50,
			TermYears:      20,
			MinAge:         21,
			MaxAge:         55,
			MedicalExam:    true,
			Description:    "Family Term 500k provides $500,000 of coverage for 20 years at $54.50 per month, designed for households with dependents. A medical exam is required.",
		},
		{
			ID:             uuid.NewString(),
			Name:           "Premium Term 1M",
			Provider:       "BestLife",
			PolicyType:     "term",
			CoverageAmount: 1_000_000,
			MonthlyPremium: 120.00,
			TermYears:      30,
			MinAge:         25,
			MaxAge:         50,
			MedicalExam:    true,
			Description:    "Premium Term 1M covers $1,000,000 for a 30 year term at $120.00 per month. Suited to high earners protecting mortgages and long-term family income. Medical exam required.",
		},
	}
}
