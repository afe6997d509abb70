package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lifesure/insurance-ai-platform/internal/session"
)

func TestIntentDetectorKeywords(t *testing.T) {
	d := NewIntentDetector(failingClassifier{}, NewObjectionDetector(failingClassifier{}))
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"greeting", "Hello there!", IntentGreeting},
		{"exit", "No thanks, I'll pass.", IntentExit},
		{"interest", "I'm interested, let's do it.", IntentInterest},
		{"comparison", "What's the difference between the two plans?", IntentPolicyComparison},
		{"information request", "How much is the premium?", IntentInformationRequest},
		{"clarification", "Sorry, I meant the longer term.", IntentClarification},
		{"objection via keyword", "That sounds too expensive for me.", IntentObjection},
		{"bare question mark", "Really?", IntentQuestion},
		{"classifier failure degrades to unknown", "the weather is nice today", IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(ctx, tt.message)
			assert.Equal(t, tt.want, got.Intent)
		})
	}
}

func TestIntentDetectorClassifierFallback(t *testing.T) {
	d := NewIntentDetector(scriptedClassifier{intent: IntentResult{Intent: IntentQuestion, Confidence: 0.7}}, nil)
	got := d.Detect(context.Background(), "hmm let me think about the numbers you shared")
	assert.Equal(t, IntentQuestion, got.Intent)
}

func TestInterestScorerThresholds(t *testing.T) {
	scorer := NewInterestScorer(10, testCatalog())

	tests := []struct {
		name     string
		messages []string
		want     session.InterestLevel
	}{
		{"no signal", []string{"hello", "tell me about insurance"}, session.InterestNone},
		{"single positive is low", []string{"that sounds good"}, session.InterestLow},
		{"positive plus next steps is medium", []string{"Sounds good, how do I sign up?"}, session.InterestMedium},
		{"policy mention is medium", []string{"the Basic Term 250k looks fine"}, session.InterestMedium},
		{"policy plus buying signals is high", []string{"I'm interested in the Family Term 500k, how do I sign up?"}, session.InterestHigh},
		{"negatives pull the score down", []string{"that sounds good", "actually it's too expensive, not interested"}, session.InterestNone},
		{"every keyword hit counts", []string{"Sounds good, I want to enroll and apply."}, session.InterestMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := session.New("s", "c")
			for _, m := range tt.messages {
				state.Append(session.RoleUser, m)
			}
			assert.Equal(t, tt.want, scorer.Score(state))
		})
	}
}

func TestInterestScorerIgnoresAssistantMessages(t *testing.T) {
	scorer := NewInterestScorer(10, testCatalog())
	state := session.New("s", "c")
	state.Append(session.RoleAssistant, "The Family Term 500k sounds good, how do I sign you up?")
	state.Append(session.RoleUser, "hello")
	assert.Equal(t, session.InterestNone, scorer.Score(state))
}

func TestInterestScorerWindowBound(t *testing.T) {
	scorer := NewInterestScorer(4, testCatalog())
	state := session.New("s", "c")
	// The strong signal falls outside the window once newer chatter arrives.
	state.Append(session.RoleUser, "I'm interested in the Family Term 500k, how do I sign up?")
	for i := 0; i < 4; i++ {
		state.Append(session.RoleUser, "hmm")
	}
	assert.Equal(t, session.InterestNone, scorer.Score(state))
}
