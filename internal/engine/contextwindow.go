package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/lifesure/insurance-ai-platform/internal/policies"
	"github.com/lifesure/insurance-ai-platform/internal/session"
	"github.com/lifesure/insurance-ai-platform/pkg/logging"
)

// Summarizer is the external summarization capability.
type Summarizer interface {
	Summarize(ctx context.Context, messages []session.Message) (string, error)
}

// TokenEstimator counts prompt size in budget units.
type TokenEstimator struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
}

func NewTokenEstimator() *TokenEstimator {
	return &TokenEstimator{}
}

// Estimate counts tokens with the cl100k_base encoding, falling back to a
// len/4 approximation when the encoding is unavailable offline.
func (e *TokenEstimator) Estimate(text string) int {
	e.once.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			e.enc = enc
		}
	})
	if e.enc != nil {
		return len(e.enc.Encode(text, nil, nil))
	}
	return len(text) / 4
}

// WindowManager assembles and compresses the bounded generation context.
// CustomerProfile, CollectedData and the active objection are pinned and
// never dropped by compression.
type WindowManager struct {
	budget      int
	docBudget   int
	keepRecent  int
	maxMessages int
	estimator   *TokenEstimator
	summarizer  Summarizer
	logger      *logging.Logger
}

func NewWindowManager(budget, docBudget, keepRecent, maxMessages int, summarizer Summarizer, logger *logging.Logger) *WindowManager {
	if budget <= 0 {
		budget = 8000
	}
	if docBudget <= 0 {
		docBudget = 400
	}
	if keepRecent <= 0 {
		keepRecent = 30
	}
	if maxMessages <= 0 {
		maxMessages = 50
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WindowManager{
		budget:      budget,
		docBudget:   docBudget,
		keepRecent:  keepRecent,
		maxMessages: maxMessages,
		estimator:   NewTokenEstimator(),
		summarizer:  summarizer,
		logger:      logger,
	}
}

// Compress folds messages older than the verbatim window into the rolling
// summary once the transcript outgrows the message cap or the token budget.
// Running it again with no new messages is a no-op.
func (m *WindowManager) Compress(ctx context.Context, state *session.State) error {
	total := len(state.Messages)
	if total <= m.keepRecent {
		return nil
	}
	cutoff := total - m.keepRecent
	if state.SummarizedThrough >= cutoff {
		return nil
	}
	if total <= m.maxMessages && m.estimateMessages(recentAsChat(state.Messages)) <= m.budget {
		return nil
	}

	older := state.Messages[:cutoff]
	summary, err := m.summarize(ctx, state, older)
	if err != nil {
		return err
	}

	state.ContextSummary = summary
	state.SummarizedThrough = cutoff
	return nil
}

func (m *WindowManager) summarize(ctx context.Context, state *session.State, older []session.Message) (string, error) {
	if m.summarizer != nil {
		summary, err := m.summarizer.Summarize(ctx, older)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(summary) != "" {
			return summary, nil
		}
	}
	// Degenerate summary keeps the window bounded even without a summarizer.
	first := strings.TrimSpace(older[0].Content)
	last := strings.TrimSpace(older[len(older)-1].Content)
	return fmt.Sprintf("Earlier conversation (%d messages), starting with %q and most recently %q.",
		len(older), truncate(first, 100), truncate(last, 100)), nil
}

// Assemble builds the generation input: pinned blocks, knowledge block,
// rolling summary, then the recent verbatim messages. The knowledge block is
// truncated before the verbatim window is ever trimmed.
func (m *WindowManager) Assemble(
	ctx context.Context,
	state *session.State,
	catalog []policies.Policy,
	docs []RetrievedDocument,
) ([]ChatMessage, error) {
	if err := m.Compress(ctx, state); err != nil {
		return nil, err
	}

	var pinned []ChatMessage
	if state.ContextSummary != "" {
		pinned = append(pinned, ChatMessage{
			Role:    ChatRoleSystem,
			Content: "Earlier conversation summary: " + state.ContextSummary,
		})
	}
	pinned = append(pinned, ChatMessage{
		Role:    ChatRoleSystem,
		Content: "Customer profile: " + formatProfile(state.Profile),
	})
	if state.Collected != (session.CollectedData{}) {
		pinned = append(pinned, ChatMessage{
			Role:    ChatRoleSystem,
			Content: "Collected application data: " + formatCollected(state.Collected),
		})
	}
	if obj := activeObjection(state); obj != "" {
		pinned = append(pinned, ChatMessage{
			Role:    ChatRoleSystem,
			Content: "Active customer objection: " + obj,
		})
	}
	if len(catalog) > 0 {
		pinned = append(pinned, ChatMessage{
			Role:    ChatRoleSystem,
			Content: "Available policies:\n" + formatCatalog(catalog),
		})
	}

	knowledge := m.knowledgeBlock(docs)

	// Everything past the summarized prefix stays verbatim, capped at the
	// hard message limit.
	recent := state.Messages[state.SummarizedThrough:]
	if len(recent) > m.maxMessages {
		recent = recent[len(recent)-m.maxMessages:]
	}

	used := m.estimateMessages(pinned) + m.estimateMessages(recentAsChat(recent))

	// Truncate the knowledge block, newest-scored docs first, to fit budget.
	for len(knowledge) > 0 && used+m.estimateMessages(knowledge) > m.budget {
		knowledge = knowledge[:len(knowledge)-1]
	}

	out := make([]ChatMessage, 0, len(pinned)+len(knowledge)+len(recent))
	out = append(out, pinned...)
	out = append(out, knowledge...)
	out = append(out, recentAsChat(recent)...)
	return out, nil
}

func (m *WindowManager) knowledgeBlock(docs []RetrievedDocument) []ChatMessage {
	var out []ChatMessage
	for _, doc := range docs {
		content := doc.Content
		for m.estimator.Estimate(content) > m.docBudget && len(content) > 0 {
			content = truncateBytes(content, len(content)*3/4)
		}
		out = append(out, ChatMessage{
			Role:    ChatRoleSystem,
			Content: "Reference [" + doc.Source + "]: " + content,
		})
	}
	return out
}

func (m *WindowManager) estimateMessages(msgs []ChatMessage) int {
	total := 0
	for _, msg := range msgs {
		total += m.estimator.Estimate(msg.Content)
	}
	return total
}

func recentAsChat(msgs []session.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	return out
}

func formatProfile(p session.CustomerProfile) string {
	var parts []string
	if p.Age != 0 {
		parts = append(parts, fmt.Sprintf("Age: %d", p.Age))
	}
	if p.Name != "" {
		parts = append(parts, "Name: "+p.Name)
	}
	if p.Purpose != "" {
		parts = append(parts, "Purpose: "+p.Purpose)
	}
	if p.Dependents != "" {
		parts = append(parts, "Dependents: "+p.Dependents)
	}
	if p.CoverageInterest != "" {
		parts = append(parts, "Coverage interest: "+p.CoverageInterest)
	}
	if len(parts) == 0 {
		return "No profile information yet"
	}
	return strings.Join(parts, ", ")
}

func formatCollected(d session.CollectedData) string {
	var parts []string
	if d.FullName != "" {
		parts = append(parts, "Name: "+d.FullName)
	}
	if d.PhoneNumber != "" {
		parts = append(parts, "Phone: "+d.PhoneNumber)
	}
	if d.NationalID != "" {
		parts = append(parts, "National ID: "+d.NationalID)
	}
	if d.Address != "" {
		parts = append(parts, "Address: "+d.Address)
	}
	if d.PolicyOfInterest != "" {
		parts = append(parts, "Policy: "+d.PolicyOfInterest)
	}
	if d.Email != "" {
		parts = append(parts, "Email: "+d.Email)
	}
	return strings.Join(parts, ", ")
}

func formatCatalog(catalog []policies.Policy) string {
	var b strings.Builder
	limit := len(catalog)
	if limit > 5 {
		limit = 5
	}
	for _, p := range catalog[:limit] {
		fmt.Fprintf(&b, "- %s: $%.2f/month, Coverage: $%s, Term: %d years\n",
			p.Name, p.MonthlyPremium, formatAmount(p.CoverageAmount), p.TermYears)
	}
	return strings.TrimRight(b.String(), "\n")
}

func activeObjection(state *session.State) string {
	for i := len(state.Objections) - 1; i >= 0; i-- {
		if !state.Objections[i].Resolved {
			return state.Objections[i].Type
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return truncateBytes(s, max) + "..."
}
