package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesure/insurance-ai-platform/internal/session"
)

func newCollector() *Collector {
	return NewCollector("BD", 2, testCatalog())
}

func TestCollectorEntryTurnPromptsWithoutConsuming(t *testing.T) {
	c := newCollector()
	state := session.New("s", "c")

	// The triggering message expressed interest, it must not be stored as
	// the customer's name.
	got := c.Step(context.Background(), state, "I want to sign up!")
	assert.Equal(t, CollectPrompted, got.Outcome)
	assert.Contains(t, got.Reply, "full name")
	assert.Empty(t, state.Collected.FullName)
	assert.Equal(t, session.PhaseCollecting, state.CollectionPhase)
}

func TestCollectorFillsFieldsInOrder(t *testing.T) {
	c := newCollector()
	state := session.New("s", "c")
	ctx := context.Background()

	c.Step(ctx, state, "sign me up")

	got := c.Step(ctx, state, "Rahim Uddin")
	assert.Equal(t, CollectPrompted, got.Outcome)
	assert.Equal(t, "Rahim Uddin", state.Collected.FullName)
	assert.Contains(t, got.Reply, "phone")

	got = c.Step(ctx, state, "+8801712345678")
	assert.Equal(t, "+8801712345678", state.Collected.PhoneNumber)
	assert.Contains(t, got.Reply, "national ID")

	got = c.Step(ctx, state, "1234567890")
	assert.Equal(t, "1234567890", state.Collected.NationalID)
	assert.Contains(t, got.Reply, "address")

	got = c.Step(ctx, state, "House 12, Road 5, Dhanmondi, Dhaka")
	assert.Contains(t, got.Reply, "policy")

	got = c.Step(ctx, state, "the family term one please")
	assert.Equal(t, CollectAwaitingConfirmation, got.Outcome)
	assert.Equal(t, "Family Term 500k", state.Collected.PolicyOfInterest)
	assert.Contains(t, got.Reply, "Is everything correct?")
	assert.Equal(t, session.PhaseAwaitingConfirmation, state.CollectionPhase)
}

func TestCollectorWithoutCatalogAcceptsStatedPolicy(t *testing.T) {
	c := NewCollector("BD", 2, nil)
	state := session.New("s", "c")
	ctx := context.Background()

	c.Step(ctx, state, "sign me up")
	c.Step(ctx, state, "Rahim Uddin")
	c.Step(ctx, state, "+8801712345678")
	c.Step(ctx, state, "1234567890")
	c.Step(ctx, state, "House 12, Road 5, Dhanmondi, Dhaka")

	got := c.Step(ctx, state, "the family term one")
	assert.Equal(t, CollectAwaitingConfirmation, got.Outcome)
	assert.Equal(t, "the family term one", state.Collected.PolicyOfInterest)
}

func TestCollectorRepromptsOnInvalidInput(t *testing.T) {
	c := newCollector()
	state := session.New("s", "c")
	ctx := context.Background()

	c.Step(ctx, state, "sign me up")
	c.Step(ctx, state, "Rahim Uddin")

	got := c.Step(ctx, state, "12345")
	assert.Equal(t, CollectPrompted, got.Outcome)
	assert.Contains(t, got.Reply, "For example")
	assert.Empty(t, state.Collected.PhoneNumber)

	got = c.Step(ctx, state, "+8801712345678")
	assert.Equal(t, "+8801712345678", state.Collected.PhoneNumber)
}

func TestCollectorConfirmYes(t *testing.T) {
	c := newCollector()
	state := confirmedReadyState()

	got := c.Step(context.Background(), state, "yes, looks good")
	assert.Equal(t, CollectConfirmed, got.Outcome)
	assert.Equal(t, session.PhaseConfirmed, state.CollectionPhase)
}

func TestCollectorCorrectionClearsOnlyNamedField(t *testing.T) {
	c := newCollector()
	state := confirmedReadyState()
	ctx := context.Background()

	got := c.Step(ctx, state, "no, the phone number is wrong")
	assert.Equal(t, CollectCorrecting, got.Outcome)
	assert.Empty(t, state.Collected.PhoneNumber)
	assert.Equal(t, "Rahim Uddin", state.Collected.FullName)
	assert.Equal(t, "1234567890", state.Collected.NationalID)

	got = c.Step(ctx, state, "+8801898765432")
	require.Equal(t, CollectAwaitingConfirmation, got.Outcome)
	assert.Equal(t, "+8801898765432", state.Collected.PhoneNumber)
}

func TestCollectorConfirmationRetriesExhaust(t *testing.T) {
	c := newCollector()
	state := confirmedReadyState()
	ctx := context.Background()

	got := c.Step(ctx, state, "purple elephants")
	assert.Equal(t, CollectAwaitingConfirmation, got.Outcome)
	got = c.Step(ctx, state, "banana")
	assert.Equal(t, CollectAwaitingConfirmation, got.Outcome)
	got = c.Step(ctx, state, "banana again")
	assert.Equal(t, CollectExhausted, got.Outcome)
}

func confirmedReadyState() *session.State {
	state := session.New("s", "c")
	state.CollectionPhase = session.PhaseAwaitingConfirmation
	state.Collected = session.CollectedData{
		FullName:         "Rahim Uddin",
		PhoneNumber:      "+8801712345678",
		NationalID:       "1234567890",
		Address:          "House 12, Road 5, Dhanmondi, Dhaka",
		PolicyOfInterest: "Family Term 500k",
	}
	return state
}
