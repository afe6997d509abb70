package engine

import (
	"context"
	"strings"

	"github.com/lifesure/insurance-ai-platform/internal/session"
)

const summaryPrompt = `Summarize this life insurance sales conversation in 2-3 sentences, covering the customer's needs, policies discussed, interest level, and outcome.

%s`

// LLMSummarizer condenses transcripts through the generation model.
type LLMSummarizer struct {
	client LLMClient
	model  string
}

func NewLLMSummarizer(client LLMClient, model string) *LLMSummarizer {
	if client == nil {
		panic("engine: llm client cannot be nil")
	}
	return &LLMSummarizer{client: client, model: model}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, messages []session.Message) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, m := range messages {
		prefix := "Agent"
		if m.Role == session.RoleUser {
			prefix = "Customer"
		}
		b.WriteString(prefix)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}

	prompt := strings.Replace(summaryPrompt, "%s", b.String(), 1)
	resp, err := s.client.Complete(ctx, LLMRequest{
		Model:       s.model,
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
