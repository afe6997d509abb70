package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectedDataIsComplete(t *testing.T) {
	complete := CollectedData{
		FullName:         "Jordan Rahman",
		PhoneNumber:      "+8801712345678",
		NationalID:       "1234567890",
		Address:          "12 Lake Road, Dhaka",
		PolicyOfInterest: "Family Term 500k",
	}

	tests := []struct {
		name   string
		mutate func(*CollectedData)
		want   bool
	}{
		{"all mandatory fields set", func(d *CollectedData) {}, true},
		{"optional fields do not matter", func(d *CollectedData) { d.Email = ""; d.Notes = "" }, true},
		{"missing name", func(d *CollectedData) { d.FullName = "" }, false},
		{"missing phone", func(d *CollectedData) { d.PhoneNumber = "" }, false},
		{"missing national id", func(d *CollectedData) { d.NationalID = "" }, false},
		{"missing address", func(d *CollectedData) { d.Address = "" }, false},
		{"missing policy", func(d *CollectedData) { d.PolicyOfInterest = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := complete
			tt.mutate(&d)
			assert.Equal(t, tt.want, d.IsComplete())
		})
	}
}

func TestCollectedDataIsCompleteOrderIndependent(t *testing.T) {
	// Filling the same five fields in a different order must give the same answer.
	var d CollectedData
	d.PolicyOfInterest = "Basic Term 250k"
	d.Address = "4 Hill View"
	assert.False(t, d.IsComplete())
	d.NationalID = "0987654321"
	d.PhoneNumber = "+8801898765432"
	assert.False(t, d.IsComplete())
	d.FullName = "Maya Chowdhury"
	assert.True(t, d.IsComplete())
}

func TestCustomerProfileMerge(t *testing.T) {
	p := CustomerProfile{Age: 35, Purpose: "family protection"}
	p.Merge(CustomerProfile{Age: 40, Name: "Sam", Dependents: "2 children"})

	assert.Equal(t, 35, p.Age, "set fields must not regress")
	assert.Equal(t, "Sam", p.Name)
	assert.Equal(t, "2 children", p.Dependents)
	assert.Equal(t, "family protection", p.Purpose)
}

func TestQualificationComplete(t *testing.T) {
	p := CustomerProfile{Age: 35, Purpose: "mortgage"}
	assert.False(t, p.QualificationComplete())
	p.Dependents = "none"
	assert.True(t, p.QualificationComplete())
}

func TestInterestLevelOrdering(t *testing.T) {
	assert.True(t, InterestHigh.AtLeast(InterestMedium))
	assert.True(t, InterestMedium.AtLeast(InterestMedium))
	assert.False(t, InterestLow.AtLeast(InterestHigh))
	assert.Equal(t, 0, InterestNone.Rank())
}

func TestNoteDiscussedPolicyRing(t *testing.T) {
	s := New("s1", "c1")
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		s.NoteDiscussedPolicy(name, 5)
	}
	assert.Equal(t, []string{"B", "C", "D", "E", "F"}, s.DiscussedPolicies)

	// Re-mentioning moves a policy to the newest slot without duplicating.
	s.NoteDiscussedPolicy("C", 5)
	assert.Equal(t, []string{"B", "D", "E", "F", "C"}, s.DiscussedPolicies)
}

func TestCloneIsDeep(t *testing.T) {
	s := New("s1", "c1")
	s.Append(RoleUser, "hello")
	s.NoteDiscussedPolicy("Basic Term 250k", 5)
	s.PendingClarification = &ClarificationRequest{
		Kind:       "pronoun",
		Candidates: []string{"Basic Term 250k", "Premium Term 1M"},
		Question:   "Which policy do you mean?",
	}

	cp := s.Clone()
	cp.Append(RoleAssistant, "hi")
	cp.DiscussedPolicies[0] = "changed"
	cp.PendingClarification.Candidates[0] = "changed"

	assert.Len(t, s.Messages, 1)
	assert.Equal(t, "Basic Term 250k", s.DiscussedPolicies[0])
	assert.Equal(t, "Basic Term 250k", s.PendingClarification.Candidates[0])
}
