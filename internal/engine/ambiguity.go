package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lifesure/insurance-ai-platform/internal/session"
)

// Ambiguity kinds reported on a ClarificationRequest.
const (
	AmbiguityPronoun        = "pronoun"
	AmbiguityVague          = "vague"
	AmbiguityContradictory  = "contradictory"
	AmbiguityInterpretation = "multiple_interpretations"
)

var pronounRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(that|this|it|them|those|these)\s+(one|policy|plan|option)\b`),
	regexp.MustCompile(`(?i)\b(?:the|a)\s+one\b`),
	regexp.MustCompile(`(?i)\b(which|what)\s+(one|policy|option)\b`),
	regexp.MustCompile(`(?i)\btell\s+me\s+(?:more\s+)?about\s+(that|this|it)\b`),
}

var vagueRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btell\s+me\s+more\b`),
	regexp.MustCompile(`(?i)\bwhat\s+about\s+(that|this|it)\b`),
	regexp.MustCompile(`(?i)\b(more|else)\s+(information|details|about)\b`),
	regexp.MustCompile(`(?i)\b(can\s+you\s+)?(elaborate|expand)\b`),
}

var statedAgeRe = regexp.MustCompile(`(?i)\b(?:i'?m|i\s+am)\s+(\d{2})\b|\b(\d{2})\s+years?\s+old\b`)

// AmbiguityResult is the union of the independent detection checks.
type AmbiguityResult struct {
	Ambiguous bool
	Kind      string
	// ResolvedReferent is set when exactly one candidate satisfied the
	// ambiguous reference and the turn may proceed silently.
	ResolvedReferent string
	Clarification    *session.ClarificationRequest
}

// AmbiguityResolver runs before intent classification every turn. Unresolved
// ambiguity short-circuits the turn with a clarification question.
type AmbiguityResolver struct {
	classifier Classifier
	window     int
	catalog    []string
}

func NewAmbiguityResolver(classifier Classifier, window int, catalogNames []string) *AmbiguityResolver {
	if window <= 0 {
		window = 5
	}
	return &AmbiguityResolver{classifier: classifier, window: window, catalog: catalogNames}
}

// Resolve checks the incoming message for ambiguity against the recent
// discussion window.
func (r *AmbiguityResolver) Resolve(ctx context.Context, state *session.State, message string) AmbiguityResult {
	candidates := recentCandidates(state, r.window)

	// A message that names a catalog policy outright carries its own referent.
	if r.namesPolicy(message) {
		return AmbiguityResult{}
	}

	if kind, found := r.detectReference(message); found {
		// A referring phrase with exactly one live candidate resolves silently.
		if len(candidates) == 1 {
			return AmbiguityResult{ResolvedReferent: candidates[0]}
		}
		if len(candidates) == 0 {
			// Nothing discussed yet, let the default handler answer broadly.
			return AmbiguityResult{}
		}
		return AmbiguityResult{
			Ambiguous:     true,
			Kind:          kind,
			Clarification: r.buildClarification(kind, candidates, nil),
		}
	}

	if conflict, have, got := r.detectAgeConflict(state, message); conflict {
		return AmbiguityResult{
			Ambiguous: true,
			Kind:      AmbiguityContradictory,
			Clarification: &session.ClarificationRequest{
				Kind: AmbiguityContradictory,
				Question: fmt.Sprintf(
					"Just to make sure I have this right: earlier I noted your age as %d, but you mentioned %d. Which is correct?",
					have, got),
			},
		}
	}

	if r.classifier != nil && len(strings.Fields(message)) <= 6 {
		interps, err := r.classifier.Interpretations(ctx, message, candidates)
		if err == nil && len(interps) >= 2 {
			return AmbiguityResult{
				Ambiguous:     true,
				Kind:          AmbiguityInterpretation,
				Clarification: r.buildClarification(AmbiguityInterpretation, candidates, interps),
			}
		}
	}

	return AmbiguityResult{}
}

func (r *AmbiguityResolver) namesPolicy(message string) bool {
	lower := strings.ToLower(message)
	for _, name := range r.catalog {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

func (r *AmbiguityResolver) detectReference(message string) (string, bool) {
	for _, re := range pronounRes {
		if re.MatchString(message) {
			return AmbiguityPronoun, true
		}
	}
	for _, re := range vagueRes {
		if re.MatchString(message) {
			return AmbiguityVague, true
		}
	}
	return "", false
}

func (r *AmbiguityResolver) detectAgeConflict(state *session.State, message string) (bool, int, int) {
	if state.Profile.Age == 0 {
		return false, 0, 0
	}
	m := statedAgeRe.FindStringSubmatch(message)
	if m == nil {
		return false, 0, 0
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	var stated int
	fmt.Sscanf(raw, "%d", &stated)
	if stated >= 18 && stated <= 100 && stated != state.Profile.Age {
		return true, state.Profile.Age, stated
	}
	return false, 0, 0
}

func (r *AmbiguityResolver) buildClarification(kind string, candidates, interpretations []string) *session.ClarificationRequest {
	req := &session.ClarificationRequest{Kind: kind, Candidates: candidates}

	switch kind {
	case AmbiguityPronoun, AmbiguityVague:
		req.Question = fmt.Sprintf(
			"I'd be happy to help! Which policy are you referring to? We discussed %s.",
			joinCandidates(candidates))
	case AmbiguityInterpretation:
		var b strings.Builder
		b.WriteString("I want to make sure I understand correctly. Are you asking about:\n")
		for _, interp := range interpretations {
			b.WriteString("- ")
			b.WriteString(interp)
			b.WriteString("\n")
		}
		b.WriteString("\nPlease let me know which one, or clarify what you mean.")
		req.Question = b.String()
	default:
		req.Question = "Could you please clarify what you're referring to?"
	}
	return req
}

func joinCandidates(candidates []string) string {
	switch len(candidates) {
	case 0:
		return "a few options"
	case 1:
		return candidates[0]
	case 2:
		return candidates[0] + " and " + candidates[1]
	default:
		return strings.Join(candidates[:len(candidates)-1], ", ") + ", and " + candidates[len(candidates)-1]
	}
}

func recentCandidates(state *session.State, window int) []string {
	if len(state.DiscussedPolicies) <= window {
		return append([]string(nil), state.DiscussedPolicies...)
	}
	return append([]string(nil), state.DiscussedPolicies[len(state.DiscussedPolicies)-window:]...)
}
