package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/lifesure/insurance-ai-platform/internal/policies"
	"github.com/lifesure/insurance-ai-platform/internal/session"
)

// fakeLLM returns scripted replies in order, then repeats the last one.
type fakeLLM struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []LLMRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return LLMResponse{}, f.err
	}
	if len(f.replies) == 0 {
		return LLMResponse{Text: "Happy to help with that."}, nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return LLMResponse{Text: reply}, nil
}

// failingClassifier simulates an unavailable classification model so keyword
// tables carry the full load.
type failingClassifier struct{}

func (failingClassifier) ClassifyIntent(ctx context.Context, message string) (IntentResult, error) {
	return IntentResult{}, errors.New("classifier unavailable")
}

func (failingClassifier) Interpretations(ctx context.Context, message string, context []string) ([]string, error) {
	return nil, errors.New("classifier unavailable")
}

func (failingClassifier) ClassifyObjection(ctx context.Context, message string) (ObjectionType, error) {
	return ObjectionNone, errors.New("classifier unavailable")
}

// scriptedClassifier returns fixed answers.
type scriptedClassifier struct {
	intent          IntentResult
	interpretations []string
}

func (c scriptedClassifier) ClassifyIntent(ctx context.Context, message string) (IntentResult, error) {
	return c.intent, nil
}

func (c scriptedClassifier) Interpretations(ctx context.Context, message string, context []string) ([]string, error) {
	return c.interpretations, nil
}

func (c scriptedClassifier) ClassifyObjection(ctx context.Context, message string) (ObjectionType, error) {
	return ObjectionNone, nil
}

// countingSummarizer records how many times it ran.
type countingSummarizer struct {
	mu      sync.Mutex
	calls   int
	lastLen int
	summary string
	err     error
}

func (s *countingSummarizer) Summarize(ctx context.Context, messages []session.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls += 1
	s.lastLen = len(messages)
	if s.err != nil {
		return "", s.err
	}
	if s.summary != "" {
		return s.summary, nil
	}
	return "Customer compared term policies and showed moderate interest.", nil
}

// fixedRetriever serves a static document set.
type fixedRetriever struct {
	docs []RetrievedDocument
	err  error
}

func (r fixedRetriever) Retrieve(ctx context.Context, q RetrievalQuery) ([]RetrievedDocument, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.docs, nil
}

func testCatalog() []policies.Policy {
	return policies.SeedCatalog()
}
