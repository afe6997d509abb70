package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lifesure/insurance-ai-platform/internal/session"
)

// ObjectionType is a closed set of customer objection categories.
type ObjectionType string

const (
	ObjectionNone       ObjectionType = ""
	ObjectionCost       ObjectionType = "cost"
	ObjectionNecessity  ObjectionType = "necessity"
	ObjectionComplexity ObjectionType = "complexity"
	ObjectionTrust      ObjectionType = "trust"
	ObjectionTiming     ObjectionType = "timing"
	ObjectionComparison ObjectionType = "comparison"
)

type objectionPattern struct {
	re  *regexp.Regexp
	typ ObjectionType
}

var objectionPatterns = []objectionPattern{
	{regexp.MustCompile(`(?i)\b(expensive|costs?\s+too|price|afford|cheaper?|too\s+much)\b`), ObjectionCost},
	{regexp.MustCompile(`(?i)\b(don'?t\s+need|not\s+necessary|don'?t\s+want|no\s+point)\b`), ObjectionNecessity},
	{regexp.MustCompile(`(?i)\b(complicated|confusing|complex|don'?t\s+understand|too\s+hard)\b`), ObjectionComplexity},
	{regexp.MustCompile(`(?i)\b(trust|scam|legit|believe\s+you|skeptical|for\s+real)\b`), ObjectionTrust},
	{regexp.MustCompile(`(?i)\b(later|think\s+about\s+it|not\s+now|not\s+right\s+now|wait|need\s+time)\b`), ObjectionTiming},
	{regexp.MustCompile(`(?i)\b(other\s+compan(y|ies)|competitors?|better\s+deal|cheaper\s+elsewhere|shopping\s+around)\b`), ObjectionComparison},
}

var objectionTemplates = map[ObjectionType]string{
	ObjectionCost: `I completely understand that cost is important to you. Let me help put this in perspective:

For ${coverage_amount} in coverage, that's about ${daily_cost} per day, less than {comparison}. We also offer coverage starting at ${min_coverage} if you'd like to start smaller. Many of our customers find the peace of mind is well worth the cost.

What coverage amount would fit your budget better?`,

	ObjectionNecessity: `I appreciate that perspective. Many people feel that way initially. Life insurance isn't for you, it's for the people who depend on you. Getting coverage while you're {age} and healthy locks in lower rates, and premiums only increase with age.

What concerns you most about not having coverage?`,

	ObjectionComplexity: `I totally get that, insurance can seem complicated at first! Think of it this way: you're choosing how much protection your family gets, for how long, and how much you want to pay. That's really it. I'll guide you through every step.

What specific part feels confusing? I'm happy to clarify.`,

	ObjectionTrust: `That's a very valid concern, and I'm glad you're asking. We're a licensed and regulated insurance company, your information is encrypted and secure, and if you prefer I can connect you with one of our human agents.

Would you like me to share more about our company's credentials, or would you prefer to speak with a human agent?`,

	ObjectionTiming: `I understand wanting to think it over, that's a smart approach to any important decision. A few timing considerations: premiums increase each year as you get older, and health conditions can develop that affect rates. You can lock in today's rates while you're {age} and healthy.

Would you like me to send you a summary of what we discussed, or are there specific questions I can answer?`,

	ObjectionComparison: `I appreciate you doing your research, that's exactly the right approach. Other companies do offer competitive rates, but our claims process is efficient and we pay out a high percentage of claims.

What specifically are you seeing from other companies that interests you? I'd be happy to compare apples to apples.`,
}

// ObjectionDetector maps customer concerns to objection types, keyword table
// first with a classifier fallback.
type ObjectionDetector struct {
	classifier Classifier
}

func NewObjectionDetector(classifier Classifier) *ObjectionDetector {
	return &ObjectionDetector{classifier: classifier}
}

// DetectKeyword checks the fixed per-type keyword sets only.
func (d *ObjectionDetector) DetectKeyword(message string) (ObjectionType, bool) {
	for _, p := range objectionPatterns {
		if p.re.MatchString(message) {
			return p.typ, true
		}
	}
	return ObjectionNone, false
}

// Detect resolves the objection type, consulting the external classifier when
// no keyword matches. Classifier failure yields ObjectionNone.
func (d *ObjectionDetector) Detect(ctx context.Context, message string) ObjectionType {
	if typ, ok := d.DetectKeyword(message); ok {
		return typ
	}
	if d.classifier != nil {
		if typ, err := d.classifier.ClassifyObjection(ctx, message); err == nil {
			return typ
		}
	}
	return ObjectionNone
}

// ObjectionContext carries the fill values for an objection template.
type ObjectionContext struct {
	CoverageAmount int64
	MonthlyPremium float64
	MinCoverage    int64
	Age            int
	Comparison     string
}

var templateKeyRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// FillObjectionTemplate substitutes the structured fill-context into the
// template for the given type. Every placeholder in the template must be
// satisfiable or an error is returned.
func FillObjectionTemplate(typ ObjectionType, fill ObjectionContext) (string, error) {
	tmpl, ok := objectionTemplates[typ]
	if !ok {
		return "", fmt.Errorf("engine: no template for objection type %q", typ)
	}

	if fill.Comparison == "" {
		fill.Comparison = "a cup of coffee"
	}

	age := "your current age"
	if fill.Age > 0 {
		age = fmt.Sprintf("%d", fill.Age)
	}

	values := map[string]string{
		"coverage_amount": formatAmount(fill.CoverageAmount),
		"daily_cost":      fmt.Sprintf("%.2f", fill.MonthlyPremium/30),
		"min_coverage":    formatAmount(fill.MinCoverage),
		"age":             age,
		"comparison":      fill.Comparison,
	}

	var missing []string
	out := templateKeyRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := strings.Trim(match, "{}")
		v, ok := values[key]
		if !ok {
			missing = append(missing, key)
			return match
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("engine: objection template %q has unfilled keys: %s", typ, strings.Join(missing, ", "))
	}
	return out, nil
}

func formatAmount(n int64) string {
	if n <= 0 {
		return "100,000"
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RecordObjection appends an objection record to the session state.
func RecordObjection(state *session.State, typ ObjectionType) {
	state.Objections = append(state.Objections, session.ObjectionRecord{
		Type:     string(typ),
		RaisedAt: state.Stage,
	})
}

// ResolveLatestObjection marks the newest unresolved objection handled, so it
// stops being pinned into the generation context.
func ResolveLatestObjection(state *session.State) {
	for i := len(state.Objections) - 1; i >= 0; i-- {
		if !state.Objections[i].Resolved {
			state.Objections[i].Resolved = true
			return
		}
	}
}
