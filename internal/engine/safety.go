package engine

import (
	"regexp"
	"strings"
)

// SafetyResult contains the result of scanning an outbound reply.
type SafetyResult struct {
	// Filtered is true if the reply was modified or replaced.
	Filtered bool
	// Reasons lists the detection signals that fired.
	Reasons []string
	// Sanitized is the reply that should be sent.
	Sanitized string
}

type safetyPattern struct {
	re     *regexp.Regexp
	reason string
	block  bool // if true, replace the whole reply; if false, strip the phrase
}

var safetyPatterns = []safetyPattern{
	// False promises
	{regexp.MustCompile(`(?i)guaranteed\s+(approval|coverage|returns)`), "false_promise", true},
	{regexp.MustCompile(`(?i)no\s+questions\s+asked`), "false_promise", false},
	{regexp.MustCompile(`(?i)instant\s+approval`), "false_promise", false},
	{regexp.MustCompile(`(?i)risk[-\s]free|no\s+risk`), "false_promise", false},

	// Aggressive sales
	{regexp.MustCompile(`(?i)must\s+buy(\s+now)?`), "aggressive_sales", false},
	{regexp.MustCompile(`(?i)limited\s+time\s+only`), "aggressive_sales", false},
	{regexp.MustCompile(`(?i)act\s+(immediately|now\s+or\s+lose)`), "aggressive_sales", false},
	{regexp.MustCompile(`(?i)don'?t\s+miss\s+out`), "aggressive_sales", false},

	// Medical and legal claims
	{regexp.MustCompile(`(?i)will\s+cure|medical\s+advice|\bdiagnos(e|is)\b`), "medical_claim", true},

	// Claiming to be human
	{regexp.MustCompile(`(?i)i\s+am\s+(a\s+)?human\b`), "identity", false},
}

const safetyReplacement = "I apologize, but I can't provide that type of information. Let me help you with something else."

// FilterResponse scans an outbound reply for blocked phrases. Strippable
// phrases are removed, blocking violations replace the reply entirely.
func FilterResponse(reply string) SafetyResult {
	if strings.TrimSpace(reply) == "" {
		return SafetyResult{Sanitized: reply}
	}

	var reasons []string
	sanitized := reply
	blocked := false

	for _, p := range safetyPatterns {
		if !p.re.MatchString(sanitized) {
			continue
		}
		reasons = append(reasons, p.reason)
		if p.block {
			blocked = true
			continue
		}
		sanitized = p.re.ReplaceAllString(sanitized, "")
	}

	if len(reasons) == 0 {
		return SafetyResult{Sanitized: reply}
	}
	if blocked {
		return SafetyResult{Filtered: true, Reasons: reasons, Sanitized: safetyReplacement}
	}

	sanitized = strings.Join(strings.Fields(sanitized), " ")
	return SafetyResult{Filtered: true, Reasons: reasons, Sanitized: strings.TrimSpace(sanitized)}
}
