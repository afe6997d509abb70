package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailyCost(t *testing.T) {
	p := Policy{MonthlyPremium: 29.99}
	assert.InDelta(t, 0.9997, p.DailyCost(), 0.0001)

	free := Policy{}
	assert.Zero(t, free.DailyCost())
}

func TestEligibleFor(t *testing.T) {
	p := Policy{MinAge: 21, MaxAge: 55}

	tests := []struct {
		name string
		age  int
		want bool
	}{
		{"unknown age is eligible", 0, true},
		{"below minimum", 20, false},
		{"at minimum", 21, true},
		{"mid range", 40, true},
		{"at maximum", 55, true},
		{"above maximum", 56, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.EligibleFor(tt.age))
		})
	}
}

func TestEligibleForNoBounds(t *testing.T) {
	p := Policy{}
	assert.True(t, p.EligibleFor(99))
}
