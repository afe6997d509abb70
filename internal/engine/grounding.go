package engine

import (
	"regexp"
	"strings"
)

// GroundingResult reports which policy mentions in a generated reply were
// unsupported by the turn's retrieved documents.
type GroundingResult struct {
	// Flagged lists the unsupported policy names found in the reply.
	Flagged []string
	// Rewritten is the reply with unsupported sentences replaced by an
	// admission of missing information. Equal to the input when clean.
	Rewritten string
}

// GroundingValidator checks that policy-specific claims in a reply trace back
// to a document retrieved in the same turn. It verifies presence of support
// only, never numeric correctness.
type GroundingValidator struct {
	knownPolicies []string
}

func NewGroundingValidator(policyNames []string) *GroundingValidator {
	return &GroundingValidator{knownPolicies: policyNames}
}

var sentenceSplitRe = regexp.MustCompile(`(?s)[^.!?]+[.!?]?`)

const groundingAdmission = "I don't have verified details about %s in front of me right now, so I'd rather not guess. I can check and follow up, or we can look at the policies I do have information on."

// Validate scans the reply for known policy names and checks each mention
// against the retrieved set. Sentences carrying unsupported mentions are
// rewritten to the admission template.
func (v *GroundingValidator) Validate(reply string, docs []RetrievedDocument) GroundingResult {
	if strings.TrimSpace(reply) == "" {
		return GroundingResult{Rewritten: reply}
	}

	supported := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if doc.PolicyName != "" {
			supported[strings.ToLower(doc.PolicyName)] = true
		}
		lower := strings.ToLower(doc.Content)
		for _, name := range v.knownPolicies {
			if strings.Contains(lower, strings.ToLower(name)) {
				supported[strings.ToLower(name)] = true
			}
		}
	}

	var flagged []string
	replyLower := strings.ToLower(reply)
	for _, name := range v.knownPolicies {
		if strings.Contains(replyLower, strings.ToLower(name)) && !supported[strings.ToLower(name)] {
			flagged = append(flagged, name)
		}
	}

	if len(flagged) == 0 {
		return GroundingResult{Rewritten: reply}
	}

	rewritten := v.rewrite(reply, flagged)
	return GroundingResult{Flagged: flagged, Rewritten: rewritten}
}

// rewrite drops each sentence mentioning an unsupported policy and appends a
// single admission covering all of them.
func (v *GroundingValidator) rewrite(reply string, flagged []string) string {
	sentences := sentenceSplitRe.FindAllString(reply, -1)

	var kept []string
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		tainted := false
		for _, name := range flagged {
			if strings.Contains(lower, strings.ToLower(name)) {
				tainted = true
				break
			}
		}
		if !tainted {
			kept = append(kept, strings.TrimSpace(sentence))
		}
	}

	admission := strings.Replace(groundingAdmission, "%s", joinCandidates(flagged), 1)
	kept = append(kept, admission)
	return strings.TrimSpace(strings.Join(kept, " "))
}
