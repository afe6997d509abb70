package engine

import (
	"context"
	"regexp"
	"strings"

	"github.com/lifesure/insurance-ai-platform/internal/policies"
	"github.com/lifesure/insurance-ai-platform/internal/session"
)

// Intent classifies what the user's latest message is trying to do.
type Intent string

const (
	IntentGreeting           Intent = "greeting"
	IntentQuestion           Intent = "question"
	IntentObjection          Intent = "objection"
	IntentInterest           Intent = "interest"
	IntentExit               Intent = "exit"
	IntentInformationRequest Intent = "information_request"
	IntentPolicyComparison   Intent = "policy_comparison"
	IntentClarification      Intent = "clarification"
	IntentUnknown            Intent = "unknown"
)

// IntentResult carries the detected intent with the detector's confidence.
type IntentResult struct {
	Intent     Intent
	Confidence float64
}

var (
	greetingRe   = regexp.MustCompile(`(?i)\b(hello|hi|hey|greetings|good\s+(morning|afternoon|evening))\b`)
	exitRe       = regexp.MustCompile(`(?i)\b(not\s+interested|no\s+thanks?|i'?ll\s+pass|i\s+don'?t\s+want|maybe\s+later|i\s+have\s+to\s+go|thanks\s+but\s+no|not\s+for\s+me|stop|goodbye|bye)\b`)
	interestRe   = regexp.MustCompile(`(?i)\b(interested|sign\s+up|apply|enroll|i\s+want\s+(it|this|that|coverage)|sounds?\s+good|let'?s\s+do\s+it|i'?ll\s+take)\b`)
	comparisonRe = regexp.MustCompile(`(?i)\b(compare|difference\s+between|versus|vs\.?|which\s+(one\s+)?is\s+better)\b`)
	infoReqRe    = regexp.MustCompile(`(?i)\b(details?|coverage|premium|how\s+much|what\s+does\s+it\s+cover|benefits?)\b`)
	clarifyRe    = regexp.MustCompile(`(?i)\b(what\s+do\s+you\s+mean|i\s+meant|to\s+clarify|sorry,?\s+i\s+mean)\b`)

	nextStepsRe = regexp.MustCompile(`(?i)\b(what('?s| is| are)\s+(the\s+)?next\s+steps?|how\s+do\s+i\s+(start|begin|apply|sign\s+up)|where\s+do\s+i\s+sign|how\s+can\s+i\s+get\s+(started|this))\b`)

	positiveSignalRe = regexp.MustCompile(`(?i)\b(interested|sign\s+up|apply|enroll|want\s+(it|this|that|coverage)|sounds?\s+good|perfect|great|let'?s\s+do\s+it|i'?ll\s+take)\b`)
	negativeSignalRe = regexp.MustCompile(`(?i)\b(not\s+interested|too\s+expensive|can'?t\s+afford|don'?t\s+need|no\s+thanks?|waste\s+of|not\s+now|maybe\s+later)\b`)
)

// IntentDetector resolves intent from keyword tables first, then delegates to
// an external classifier. Classifier failure degrades to IntentUnknown.
type IntentDetector struct {
	classifier Classifier
	objections *ObjectionDetector
}

func NewIntentDetector(classifier Classifier, objections *ObjectionDetector) *IntentDetector {
	return &IntentDetector{classifier: classifier, objections: objections}
}

// Detect returns the intent of the latest user message.
func (d *IntentDetector) Detect(ctx context.Context, message string) IntentResult {
	if d.objections != nil {
		if _, ok := d.objections.DetectKeyword(message); ok {
			return IntentResult{Intent: IntentObjection, Confidence: 0.9}
		}
	}

	switch {
	case exitRe.MatchString(message):
		return IntentResult{Intent: IntentExit, Confidence: 0.9}
	case interestRe.MatchString(message):
		return IntentResult{Intent: IntentInterest, Confidence: 0.85}
	case comparisonRe.MatchString(message):
		return IntentResult{Intent: IntentPolicyComparison, Confidence: 0.8}
	case clarifyRe.MatchString(message):
		return IntentResult{Intent: IntentClarification, Confidence: 0.75}
	case greetingRe.MatchString(message):
		return IntentResult{Intent: IntentGreeting, Confidence: 0.8}
	case infoReqRe.MatchString(message):
		return IntentResult{Intent: IntentInformationRequest, Confidence: 0.7}
	case strings.Contains(message, "?"):
		return IntentResult{Intent: IntentQuestion, Confidence: 0.6}
	}

	if d.classifier != nil {
		res, err := d.classifier.ClassifyIntent(ctx, message)
		if err == nil && res.Intent != "" {
			return res
		}
	}
	return IntentResult{Intent: IntentUnknown, Confidence: 0}
}

// InterestScorer converts recent user messages into a coarse buying-interest
// level. Scoring is additive over the window, on-threshold scores round up.
type InterestScorer struct {
	window  int
	catalog []policies.Policy
}

func NewInterestScorer(window int, catalog []policies.Policy) *InterestScorer {
	if window <= 0 {
		window = 10
	}
	return &InterestScorer{window: window, catalog: catalog}
}

// Score evaluates the user messages inside the recent window, which includes
// the turn's incoming message once it has been appended.
func (s *InterestScorer) Score(state *session.State) session.InterestLevel {
	score := 0
	for _, msg := range s.recentUserMessages(state) {
		score += s.scoreMessage(msg)
	}

	switch {
	case score >= 8:
		return session.InterestHigh
	case score >= 5:
		return session.InterestMedium
	case score >= 2:
		return session.InterestLow
	default:
		return session.InterestNone
	}
}

// scoreMessage counts every keyword hit, so a message stacking several buying
// signals scores higher than one with a single signal.
func (s *InterestScorer) scoreMessage(msg string) int {
	score := 2 * len(positiveSignalRe.FindAllString(msg, -1))
	score += 3 * len(nextStepsRe.FindAllString(msg, -1))
	score += 5 * s.policyMentions(msg)
	score -= 3 * len(negativeSignalRe.FindAllString(msg, -1))
	return score
}

func (s *InterestScorer) policyMentions(msg string) int {
	lower := strings.ToLower(msg)
	count := 0
	for _, p := range s.catalog {
		if p.Name != "" && strings.Contains(lower, strings.ToLower(p.Name)) {
			count++
		}
	}
	return count
}

func (s *InterestScorer) recentUserMessages(state *session.State) []string {
	var out []string
	for _, m := range state.Recent(s.window) {
		if m.Role == session.RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}
