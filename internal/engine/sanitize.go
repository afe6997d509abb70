package engine

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lifesure/insurance-ai-platform/internal/session"
)

const maxInputLength = 2000

// SanitizeInput trims, collapses whitespace and caps the length of a user
// message before it enters the pipeline.
func SanitizeInput(message string) string {
	sanitized := strings.Join(strings.Fields(message), " ")
	return truncateBytes(sanitized, maxInputLength)
}

// truncateBytes cuts s to at most max bytes without splitting a rune.
func truncateBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

var (
	ageExtractRe        = regexp.MustCompile(`(?i)\b(\d{2})\s*(?:years?\s*old|yrs?\s*old)\b|\b(?:i'?m|i\s+am|aged?)\s+(\d{2})\b`)
	nameExtractRe       = regexp.MustCompile(`(?i:i'?m|my\s+name\s+is|call\s+me|i\s+am)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	dependentsExtractRe = regexp.MustCompile(`(?i)\b(\d+|one|two|three|four|five|no)\s+(?:kids?|children|dependents?)\b|\b(?:my\s+)?(wife|husband|spouse|family|kids?|children)\b`)
	purposeExtractRe    = regexp.MustCompile(`(?i)\b(protect(?:ing)?\s+my\s+family|family\s+protection|mortgage|income\s+replacement|savings?|retirement|funeral|my\s+(?:kids?'?|children'?s?)\s+future|education)\b`)
	coverageExtractRe   = regexp.MustCompile(`(?i)\$?\s*(\d{3}(?:,\d{3})+|\d+\s*(?:k|thousand|m|million))\b.{0,20}\b(?:coverage|cover|policy)|(?:coverage|cover)\s+(?:of|around|about)?\s*\$?\s*(\d{3}(?:,\d{3})+|\d+\s*(?:k|thousand|m|million))`)
)

// ProfileExtractor pulls qualification facts out of free-form messages with
// regex tables. It only ever proposes values, Merge keeps existing facts.
type ProfileExtractor struct{}

func NewProfileExtractor() *ProfileExtractor {
	return &ProfileExtractor{}
}

// Extract returns the profile facts found in a message.
func (e *ProfileExtractor) Extract(message string) session.CustomerProfile {
	var p session.CustomerProfile

	if m := ageExtractRe.FindStringSubmatch(message); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if age, err := strconv.Atoi(raw); err == nil && age >= 18 && age <= 100 {
			p.Age = age
		}
	}

	if m := nameExtractRe.FindStringSubmatch(message); m != nil {
		p.Name = m[1]
	}

	if m := dependentsExtractRe.FindString(message); m != "" {
		p.Dependents = strings.TrimSpace(m)
	}

	if m := purposeExtractRe.FindString(message); m != "" {
		p.Purpose = strings.ToLower(strings.TrimSpace(m))
	}

	if m := coverageExtractRe.FindStringSubmatch(message); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		p.CoverageInterest = strings.TrimSpace(raw)
	}

	return p
}
