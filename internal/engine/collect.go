package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lifesure/insurance-ai-platform/internal/policies"
	"github.com/lifesure/insurance-ai-platform/internal/session"
)

// Mandatory collection fields in the fixed asking order.
const (
	FieldFullName         = "full_name"
	FieldPhoneNumber      = "phone_number"
	FieldNationalID       = "national_id"
	FieldAddress          = "address"
	FieldPolicyOfInterest = "policy_of_interest"
)

var collectionOrder = []string{
	FieldFullName,
	FieldPhoneNumber,
	FieldNationalID,
	FieldAddress,
	FieldPolicyOfInterest,
}

var fieldPrompts = map[string]string{
	FieldFullName:         "To get your application started, could you please share your full name?",
	FieldPhoneNumber:      "Thank you! What's the best phone number to reach you on? Please include your country code, for example +8801712345678.",
	FieldNationalID:       "Great. Could you share your national ID number? We need it for registration.",
	FieldAddress:          "Almost there! What's your current address?",
	FieldPolicyOfInterest: "Last one: which policy would you like to go ahead with?",
}

// fieldSynonyms identify which field a correction refers to.
var fieldSynonyms = map[string]*regexp.Regexp{
	FieldFullName:         regexp.MustCompile(`(?i)\b(name)\b`),
	FieldPhoneNumber:      regexp.MustCompile(`(?i)\b(phone|number|mobile|cell)\b`),
	FieldNationalID:       regexp.MustCompile(`(?i)\b(nid|national\s+id|id\s+number|ssn)\b`),
	FieldAddress:          regexp.MustCompile(`(?i)\b(address|location|live)\b`),
	FieldPolicyOfInterest: regexp.MustCompile(`(?i)\b(policy|plan|coverage)\b`),
}

var (
	confirmYesRe = regexp.MustCompile(`(?i)^\s*(yes|yep|yeah|correct|right|confirm|confirmed|looks\s+good|that'?s\s+right|sure|ok(ay)?)\b`)
	confirmNoRe  = regexp.MustCompile(`(?i)\b(no|nope|wrong|incorrect|not\s+right|change|fix|correct\s+the|actually)\b`)
)

// CollectOutcome says what the collection workflow did with a turn.
type CollectOutcome int

const (
	// CollectPrompted means a field was asked for (or re-asked after a
	// validation failure).
	CollectPrompted CollectOutcome = iota
	// CollectAwaitingConfirmation means the summary was presented.
	CollectAwaitingConfirmation
	// CollectConfirmed means the customer accepted the summary.
	CollectConfirmed
	// CollectCorrecting means one field was cleared for re-entry.
	CollectCorrecting
	// CollectExhausted means the confirmation retry limit was hit.
	CollectExhausted
)

// CollectResult is the workflow's reply plus its control outcome.
type CollectResult struct {
	Outcome CollectOutcome
	Reply   string
}

// Collector drives the sequential field collection and the confirm/correct
// loop inside INFORMATION_COLLECTION.
type Collector struct {
	nidCountry string
	retryLimit int
	catalog    []policies.Policy
}

func NewCollector(nidCountry string, retryLimit int, catalog []policies.Policy) *Collector {
	if retryLimit <= 0 {
		retryLimit = 2
	}
	return &Collector{nidCountry: nidCountry, retryLimit: retryLimit, catalog: catalog}
}

// Step consumes one user message and advances the workflow. It mutates
// state.Collected and the collection sub-state fields only.
func (c *Collector) Step(ctx context.Context, state *session.State, message string) CollectResult {
	switch state.CollectionPhase {
	case session.PhaseAwaitingConfirmation:
		return c.stepConfirmation(state, message)
	case session.PhaseCollecting:
		return c.stepCollecting(state, message)
	default:
		// Entry turn. The triggering message expressed interest, it is not an
		// answer to a field prompt.
		state.CollectionPhase = session.PhaseCollecting
		if next := c.nextMissing(state); next != "" {
			return CollectResult{
				Outcome: CollectPrompted,
				Reply:   "Wonderful! I just need a few details to get you set up. " + fieldPrompts[next],
			}
		}
		state.CollectionPhase = session.PhaseAwaitingConfirmation
		return CollectResult{Outcome: CollectAwaitingConfirmation, Reply: c.summary(state.Collected)}
	}
}

func (c *Collector) stepCollecting(state *session.State, message string) CollectResult {
	// The incoming message answers the field we asked for last turn.
	if field := c.nextMissing(state); field != "" && strings.TrimSpace(message) != "" {
		target := field
		if state.CorrectingField != "" {
			target = state.CorrectingField
		}
		if err := c.fill(state, target, message); err != nil {
			ve := err.(*ValidationError)
			return CollectResult{
				Outcome: CollectPrompted,
				Reply:   fmt.Sprintf("Hmm, that doesn't look quite right: %s. Could you try again? For example: %s", ve.Message, ve.Example),
			}
		}
		state.CorrectingField = ""
	}

	if next := c.nextMissing(state); next != "" {
		return CollectResult{Outcome: CollectPrompted, Reply: fieldPrompts[next]}
	}

	state.CollectionPhase = session.PhaseAwaitingConfirmation
	state.ConfirmationAttempts = 0
	return CollectResult{
		Outcome: CollectAwaitingConfirmation,
		Reply:   c.summary(state.Collected),
	}
}

func (c *Collector) stepConfirmation(state *session.State, message string) CollectResult {
	switch {
	case confirmYesRe.MatchString(message):
		state.CollectionPhase = session.PhaseConfirmed
		state.ConfirmationAttempts = 0
		return CollectResult{Outcome: CollectConfirmed}

	case confirmNoRe.MatchString(message):
		field := c.referencedField(message)
		if field == "" {
			state.ConfirmationAttempts++
			if state.ConfirmationAttempts > c.retryLimit {
				return CollectResult{Outcome: CollectExhausted}
			}
			return CollectResult{
				Outcome: CollectAwaitingConfirmation,
				Reply:   "No problem! Which detail should I fix: your name, phone, national ID, address, or policy?",
			}
		}
		clearField(&state.Collected, field)
		state.CollectionPhase = session.PhaseCollecting
		state.CorrectingField = field
		state.ConfirmationAttempts = 0
		return CollectResult{
			Outcome: CollectCorrecting,
			Reply:   fieldPrompts[field],
		}

	default:
		state.ConfirmationAttempts++
		if state.ConfirmationAttempts > c.retryLimit {
			return CollectResult{Outcome: CollectExhausted}
		}
		return CollectResult{
			Outcome: CollectAwaitingConfirmation,
			Reply:   "Sorry, I didn't catch that. " + c.summary(state.Collected),
		}
	}
}

func (c *Collector) nextMissing(state *session.State) string {
	if state.CorrectingField != "" {
		return state.CorrectingField
	}
	d := state.Collected
	for _, field := range collectionOrder {
		if fieldValue(d, field) == "" {
			return field
		}
	}
	return ""
}

func (c *Collector) fill(state *session.State, field, message string) error {
	switch field {
	case FieldFullName:
		v, err := ValidateName(message)
		if err != nil {
			return err
		}
		state.Collected.FullName = v
	case FieldPhoneNumber:
		v, err := ValidatePhone(message)
		if err != nil {
			return err
		}
		state.Collected.PhoneNumber = v
	case FieldNationalID:
		v, err := ValidateNID(message, c.nidCountry)
		if err != nil {
			return err
		}
		state.Collected.NationalID = v
	case FieldAddress:
		v, err := ValidateAddress(message)
		if err != nil {
			return err
		}
		state.Collected.Address = v
	case FieldPolicyOfInterest:
		v, err := c.matchPolicy(message)
		if err != nil {
			return err
		}
		state.Collected.PolicyOfInterest = v
	}
	return nil
}

func (c *Collector) matchPolicy(message string) (string, error) {
	// Without a catalog there is nothing to match against, record the
	// customer's stated preference as-is.
	if len(c.catalog) == 0 {
		trimmed := strings.TrimSpace(message)
		if len(trimmed) >= 2 {
			return trimmed, nil
		}
		return "", &ValidationError{
			Field:   FieldPolicyOfInterest,
			Message: "must name the policy you'd like to proceed with",
			Example: "Term Life",
		}
	}

	lower := strings.ToLower(message)
	for _, p := range c.catalog {
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			return p.Name, nil
		}
	}
	// Loose match on a distinctive word of the policy name.
	for _, p := range c.catalog {
		for _, word := range strings.Fields(strings.ToLower(p.Name)) {
			if len(word) >= 4 && strings.Contains(lower, word) {
				return p.Name, nil
			}
		}
	}
	names := make([]string, len(c.catalog))
	for i, p := range c.catalog {
		names[i] = p.Name
	}
	return "", &ValidationError{
		Field:   FieldPolicyOfInterest,
		Message: "must name one of our policies: " + strings.Join(names, ", "),
		Example: names[0],
	}
}

func (c *Collector) referencedField(message string) string {
	for _, field := range collectionOrder {
		if fieldSynonyms[field].MatchString(message) {
			return field
		}
	}
	return ""
}

func (c *Collector) summary(d session.CollectedData) string {
	var b strings.Builder
	b.WriteString("Let me confirm what I have:\n")
	fmt.Fprintf(&b, "- Name: %s\n", d.FullName)
	fmt.Fprintf(&b, "- Phone: %s\n", d.PhoneNumber)
	fmt.Fprintf(&b, "- National ID: %s\n", d.NationalID)
	fmt.Fprintf(&b, "- Address: %s\n", d.Address)
	fmt.Fprintf(&b, "- Policy: %s\n", d.PolicyOfInterest)
	if d.Email != "" {
		fmt.Fprintf(&b, "- Email: %s\n", d.Email)
	}
	b.WriteString("\nIs everything correct? (yes / no)")
	return b.String()
}

func fieldValue(d session.CollectedData, field string) string {
	switch field {
	case FieldFullName:
		return d.FullName
	case FieldPhoneNumber:
		return d.PhoneNumber
	case FieldNationalID:
		return d.NationalID
	case FieldAddress:
		return d.Address
	case FieldPolicyOfInterest:
		return d.PolicyOfInterest
	}
	return ""
}

func clearField(d *session.CollectedData, field string) {
	switch field {
	case FieldFullName:
		d.FullName = ""
	case FieldPhoneNumber:
		d.PhoneNumber = ""
	case FieldNationalID:
		d.NationalID = ""
	case FieldAddress:
		d.Address = ""
	case FieldPolicyOfInterest:
		d.PolicyOfInterest = ""
	}
}
