package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesure/insurance-ai-platform/internal/session"
)

func TestDetectKeyword(t *testing.T) {
	d := NewObjectionDetector(nil)

	tests := []struct {
		name    string
		message string
		want    ObjectionType
	}{
		{"cost", "that's way too expensive for me", ObjectionCost},
		{"necessity", "I don't need life insurance", ObjectionNecessity},
		{"complexity", "this is all so confusing", ObjectionComplexity},
		{"trust", "how do I know this isn't a scam", ObjectionTrust},
		{"timing", "let me think about it", ObjectionTiming},
		{"comparison", "I saw a better deal elsewhere", ObjectionComparison},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.DetectKeyword(tt.message)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := d.DetectKeyword("what a lovely day")
	assert.False(t, ok)
}

func TestDetectFailsSoftWithoutClassifier(t *testing.T) {
	d := NewObjectionDetector(failingClassifier{})
	got := d.Detect(context.Background(), "hmm I am unsure about this whole thing")
	assert.Equal(t, ObjectionNone, got)
}

func TestFillObjectionTemplateCost(t *testing.T) {
	got, err := FillObjectionTemplate(ObjectionCost, ObjectionContext{
		CoverageAmount: 500000,
		MonthlyPremium: 54.50,
		MinCoverage:    250000,
		Age:            35,
	})
	require.NoError(t, err)
	assert.Contains(t, got, "$500,000")
	assert.Contains(t, got, "$1.82 per day")
	assert.Contains(t, got, "$250,000")
	assert.Contains(t, got, "a cup of coffee")
	assert.NotContains(t, got, "{")
}

func TestFillObjectionTemplateTimingUsesAge(t *testing.T) {
	got, err := FillObjectionTemplate(ObjectionTiming, ObjectionContext{Age: 42})
	require.NoError(t, err)
	assert.Contains(t, got, "42")
	assert.NotContains(t, got, "{age}")
}

func TestFillObjectionTemplateMissingAgeFallsBack(t *testing.T) {
	got, err := FillObjectionTemplate(ObjectionNecessity, ObjectionContext{})
	require.NoError(t, err)
	assert.Contains(t, got, "your current age")
}

func TestFillObjectionTemplateUnknownType(t *testing.T) {
	_, err := FillObjectionTemplate(ObjectionType("haggling"), ObjectionContext{})
	assert.Error(t, err)
}

func TestRecordObjection(t *testing.T) {
	state := session.New("s", "c")
	state.Stage = session.StagePersuasion

	RecordObjection(state, ObjectionCost)
	require.Len(t, state.Objections, 1)
	assert.Equal(t, "cost", state.Objections[0].Type)
	assert.Equal(t, session.StagePersuasion, state.Objections[0].RaisedAt)
	assert.False(t, state.Objections[0].Resolved)
}

func TestResolveLatestObjection(t *testing.T) {
	state := session.New("s", "c")
	state.Stage = session.StagePersuasion
	RecordObjection(state, ObjectionCost)
	RecordObjection(state, ObjectionTrust)

	ResolveLatestObjection(state)
	assert.False(t, state.Objections[0].Resolved)
	assert.True(t, state.Objections[1].Resolved)

	ResolveLatestObjection(state)
	assert.True(t, state.Objections[0].Resolved)

	// No unresolved records left, the call is a no-op.
	ResolveLatestObjection(state)
}
