package engine

import (
	"context"
	"encoding/json"
	"strings"
)

// Classifier is the external classification capability. Implementations may
// fail, callers fall back to keyword heuristics.
type Classifier interface {
	ClassifyIntent(ctx context.Context, message string) (IntentResult, error)
	Interpretations(ctx context.Context, message string, context []string) ([]string, error)
	ClassifyObjection(ctx context.Context, message string) (ObjectionType, error)
}

const intentClassifierPrompt = `Classify this customer message from a life insurance sales conversation into ONE intent. Respond with JSON only.

Intents:
- greeting: Hello, salutations
- question: A general question
- objection: A concern blocking the sale (price, trust, timing, need)
- interest: Expressing buying interest
- exit: Wants to end the conversation
- information_request: Asking for policy details
- policy_comparison: Comparing two or more policies
- clarification: Clarifying something they said earlier
- unknown: Anything else

Message: %s

Respond with: {"intent": "<intent>", "confidence": <0.0-1.0>}`

const interpretationsPrompt = `A customer in a life insurance conversation said: "%s"

Recently discussed: %s

List the distinct plausible interpretations of what they are asking about. Respond with JSON only: {"interpretations": ["...", "..."]}. If the meaning is clear, return a single-element list.`

const objectionClassifierPrompt = `Classify this customer objection from a life insurance conversation into ONE type. Respond with JSON only.

Types: cost, necessity, complexity, trust, timing, comparison, none

Message: %s

Respond with: {"type": "<type>"}`

// LLMClassifier delegates classification to a language model with a
// constrained label set.
type LLMClassifier struct {
	client LLMClient
	model  string
}

func NewLLMClassifier(client LLMClient, model string) *LLMClassifier {
	if client == nil {
		panic("engine: llm client cannot be nil")
	}
	return &LLMClassifier{client: client, model: model}
}

func (c *LLMClassifier) ClassifyIntent(ctx context.Context, message string) (IntentResult, error) {
	prompt := strings.Replace(intentClassifierPrompt, "%s", message, 1)
	resp, err := c.client.Complete(ctx, LLMRequest{
		Model:       c.model,
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   60,
		Temperature: 0,
	})
	if err != nil {
		return IntentResult{Intent: IntentUnknown}, err
	}

	var result struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &result); err != nil {
		return IntentResult{Intent: IntentUnknown}, nil
	}

	intent := Intent(result.Intent)
	switch intent {
	case IntentGreeting, IntentQuestion, IntentObjection, IntentInterest, IntentExit,
		IntentInformationRequest, IntentPolicyComparison, IntentClarification:
		return IntentResult{Intent: intent, Confidence: result.Confidence}, nil
	}
	return IntentResult{Intent: IntentUnknown}, nil
}

func (c *LLMClassifier) Interpretations(ctx context.Context, message string, context []string) ([]string, error) {
	topics := "none"
	if len(context) > 0 {
		topics = strings.Join(context, ", ")
	}
	prompt := strings.Replace(interpretationsPrompt, "%s", message, 1)
	prompt = strings.Replace(prompt, "%s", topics, 1)

	resp, err := c.client.Complete(ctx, LLMRequest{
		Model:       c.model,
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Interpretations []string `json:"interpretations"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &result); err != nil {
		return nil, nil
	}
	return result.Interpretations, nil
}

func (c *LLMClassifier) ClassifyObjection(ctx context.Context, message string) (ObjectionType, error) {
	prompt := strings.Replace(objectionClassifierPrompt, "%s", message, 1)
	resp, err := c.client.Complete(ctx, LLMRequest{
		Model:       c.model,
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   30,
		Temperature: 0,
	})
	if err != nil {
		return ObjectionNone, err
	}

	var result struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &result); err != nil {
		return ObjectionNone, nil
	}

	t := ObjectionType(result.Type)
	switch t {
	case ObjectionCost, ObjectionNecessity, ObjectionComplexity, ObjectionTrust, ObjectionTiming, ObjectionComparison:
		return t, nil
	}
	return ObjectionNone, nil
}

// extractJSON pulls the first JSON object out of an LLM reply that may carry
// surrounding prose.
func extractJSON(text string) string {
	content := strings.TrimSpace(text)
	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx >= 0 && endIdx > startIdx {
		return content[startIdx : endIdx+1]
	}
	return content
}
