package policies

import "time"

// Policy is a sellable life-insurance product.
type Policy struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Provider       string    `json:"provider"`
	PolicyType     string    `json:"policy_type"`
	CoverageAmount int64     `json:"coverage_amount"`
	MonthlyPremium float64   `json:"monthly_premium"`
	TermYears      int       `json:"term_years"`
	MinAge         int       `json:"min_age"`
	MaxAge         int       `json:"max_age"`
	MedicalExam    bool      `json:"medical_exam_required"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// DailyCost derives the per-day cost used in objection responses.
func (p Policy) DailyCost() float64 {
	return p.MonthlyPremium / 30
}

// EligibleFor reports whether a customer of the given age can buy the policy.
// A zero age (unknown) is treated as eligible.
func (p Policy) EligibleFor(age int) bool {
	if age == 0 {
		return true
	}
	if p.MinAge > 0 && age < p.MinAge {
		return false
	}
	if p.MaxAge > 0 && age > p.MaxAge {
		return false
	}
	return true
}
