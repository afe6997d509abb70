package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifesure/insurance-ai-platform/internal/leads"
	"github.com/lifesure/insurance-ai-platform/internal/observability/metrics"
	"github.com/lifesure/insurance-ai-platform/internal/policies"
	"github.com/lifesure/insurance-ai-platform/internal/session"
	"github.com/lifesure/insurance-ai-platform/pkg/logging"
)

// Options carries the engine's tuning knobs.
type Options struct {
	AgentName              string
	CompanyName            string
	ModelID                string
	NIDCountry             string
	RetrievalTopK          int
	AmbiguityWindow        int
	InterestWindow         int
	ConfirmationRetryLimit int
	DiscussedPoliciesMax   int
}

func (o *Options) applyDefaults() {
	if o.AgentName == "" {
		o.AgentName = "Alex"
	}
	if o.CompanyName == "" {
		o.CompanyName = "Everbright Life"
	}
	if o.RetrievalTopK <= 0 {
		o.RetrievalTopK = 3
	}
	if o.AmbiguityWindow <= 0 {
		o.AmbiguityWindow = 5
	}
	if o.InterestWindow <= 0 {
		o.InterestWindow = 10
	}
	if o.ConfirmationRetryLimit <= 0 {
		o.ConfirmationRetryLimit = 2
	}
	if o.DiscussedPoliciesMax <= 0 {
		o.DiscussedPoliciesMax = 5
	}
}

// Engine composes the per-turn decision pipeline: ambiguity, intent, stage,
// handler, context assembly, generation, grounding, atomic commit.
type Engine struct {
	opts Options

	store    session.Store
	locks    *session.KeyedMutex
	llm      LLMClient
	window   *WindowManager
	resolver *AmbiguityResolver
	intents  *IntentDetector
	interest *InterestScorer
	objector *ObjectionDetector
	collect  *Collector
	ground   *GroundingValidator
	extract  *ProfileExtractor
	summary  Summarizer
	retrieve Retriever
	leads    leads.Repository
	catalog  []policies.Policy
	retry    *RetryPolicy
	metrics  *metrics.EngineMetrics
	logger   *logging.Logger
}

// Deps bundles the engine's collaborators.
type Deps struct {
	Store      session.Store
	LLM        LLMClient
	Classifier Classifier
	Retriever  Retriever
	Summarizer Summarizer
	Leads      leads.Repository
	Catalog    []policies.Policy
	Window     *WindowManager
	Retry      *RetryPolicy
	Metrics    *metrics.EngineMetrics
	Logger     *logging.Logger
}

func New(opts Options, deps Deps) *Engine {
	opts.applyDefaults()
	if deps.Store == nil {
		panic("engine: session store is required")
	}
	if deps.LLM == nil {
		panic("engine: llm client is required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Retry == nil {
		deps.Retry = NewRetryPolicy()
	}

	names := make([]string, len(deps.Catalog))
	for i, p := range deps.Catalog {
		names[i] = p.Name
	}

	objector := NewObjectionDetector(deps.Classifier)
	window := deps.Window
	if window == nil {
		window = NewWindowManager(0, 0, 0, 0, deps.Summarizer, deps.Logger)
	}

	return &Engine{
		opts:     opts,
		store:    deps.Store,
		locks:    session.NewKeyedMutex(),
		llm:      deps.LLM,
		window:   window,
		resolver: NewAmbiguityResolver(deps.Classifier, opts.AmbiguityWindow, names),
		intents:  NewIntentDetector(deps.Classifier, objector),
		interest: NewInterestScorer(opts.InterestWindow, deps.Catalog),
		objector: objector,
		collect:  NewCollector(opts.NIDCountry, opts.ConfirmationRetryLimit, deps.Catalog),
		ground:   NewGroundingValidator(names),
		extract:  NewProfileExtractor(),
		summary:  deps.Summarizer,
		retrieve: deps.Retriever,
		leads:    deps.Leads,
		catalog:  deps.Catalog,
		retry:    deps.Retry,
		metrics:  deps.Metrics,
		logger:   deps.Logger.WithComponent("engine"),
	}
}

// Start opens a new session and returns the welcome message.
func (e *Engine) Start(ctx context.Context) (*StartResponse, error) {
	state := session.New(uuid.NewString(), uuid.NewString())
	welcome := WelcomeMessage(e.opts.AgentName, time.Now())
	state.Append(session.RoleAssistant, welcome)

	if err := e.saveWithRetry(ctx, state); err != nil {
		return nil, err
	}

	e.logger.Info("session started", "session_id", state.SessionID)
	return &StartResponse{
		SessionID:      state.SessionID,
		ConversationID: state.ConversationID,
		Stage:          state.Stage,
		Message:        welcome,
	}, nil
}

// SubmitTurn runs one full turn. State changes commit atomically: on an
// irrecoverable failure the pre-turn snapshot is restored, the inbound user
// message is kept for audit, and the caller sees a generic apology.
func (e *Engine) SubmitTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	started := time.Now()

	unlock := e.locks.Lock(req.SessionID)
	defer unlock()

	state, err := e.store.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if state.Stage == session.StageEnded {
		return nil, ErrSessionEnded
	}

	snapshot := state.Clone()
	message := SanitizeInput(req.Message)

	resp, err := e.runTurn(ctx, state, message)
	if err != nil {
		e.logger.Error("turn failed, rolling back", "session_id", req.SessionID, "error", err)
		// Keep the inbound message for audit without committing downstream state.
		snapshot.Append(session.RoleUser, message)
		if saveErr := e.saveWithRetry(ctx, snapshot); saveErr != nil {
			e.logger.Error("rollback save failed", "session_id", req.SessionID, "error", saveErr)
		}
		resp = &TurnResponse{
			SessionID:     req.SessionID,
			Message:       fallbackGenericApology,
			Stage:         snapshot.Stage,
			Intent:        IntentUnknown,
			InterestLevel: snapshot.Interest,
			Timestamp:     time.Now().UTC(),
		}
	}

	e.metrics.ObserveTurn(string(resp.Stage), string(resp.Intent))
	e.metrics.ObserveTurnDuration(string(resp.Stage), time.Since(started).Seconds())
	return resp, nil
}

func (e *Engine) runTurn(ctx context.Context, state *session.State, message string) (*TurnResponse, error) {
	state.Append(session.RoleUser, message)
	e.notePolicyMentions(state, message)

	// Profile facts accumulate on every turn, Merge never regresses a field.
	state.Profile.Merge(e.extract.Extract(message))

	// 1. Ambiguity short-circuits before anything else runs.
	if state.PendingClarification == nil {
		if result := e.resolver.Resolve(ctx, state, message); result.Ambiguous {
			state.PendingClarification = result.Clarification
			state.Append(session.RoleAssistant, result.Clarification.Question)
			if err := e.saveWithRetry(ctx, state); err != nil {
				return nil, err
			}
			return e.turnResponse(state, result.Clarification.Question, IntentClarification, true), nil
		} else if result.ResolvedReferent != "" {
			state.NoteDiscussedPolicy(result.ResolvedReferent, e.opts.DiscussedPoliciesMax)
		}
	} else {
		// The incoming message answers the pending clarification.
		state.PendingClarification = nil
	}

	// 2. Intent and interest.
	intentRes := e.intents.Detect(ctx, message)
	if level := e.interest.Score(state); level.Rank() > state.Interest.Rank() {
		state.Interest = level
	}

	// 3. Stage determination.
	var objection ObjectionType
	if intentRes.Intent == IntentObjection {
		objection = e.objector.Detect(ctx, message)
	}
	decision := DetermineStage(state, intentRes, objection)
	target := ClampTransition(state.Stage, decision.Target)

	// 4. Stage-specific handler.
	var reply string
	var err error
	switch {
	case decision.ExitAsked || target == session.StageEnded:
		reply, err = e.handleExit(ctx, state)
		target = session.StageEnded
	case target == session.StageObjectionHandling:
		reply, err = e.handleObjection(ctx, state, decision.Objection)
	case target == session.StageInformationCollection:
		reply, target, err = e.handleCollection(ctx, state, message, target)
	default:
		reply, err = e.handleDefault(ctx, state, message, target)
	}
	if err != nil {
		return nil, err
	}

	// 5. Commit.
	e.applyStageTransition(state, target)
	e.notePolicyMentions(state, reply)
	state.Append(session.RoleAssistant, reply)
	if err := e.saveWithRetry(ctx, state); err != nil {
		return nil, err
	}

	return e.turnResponse(state, reply, intentRes.Intent, false), nil
}

func (e *Engine) applyStageTransition(state *session.State, target session.Stage) {
	if target == session.StageObjectionHandling && state.Stage != session.StageObjectionHandling {
		state.ReturnStage = state.Stage
	}
	if target != session.StageObjectionHandling {
		if state.Stage == session.StageObjectionHandling {
			ResolveLatestObjection(state)
		}
		state.ReturnStage = ""
	}
	state.Stage = target
}

func (e *Engine) handleExit(ctx context.Context, state *session.State) (string, error) {
	summary, err := e.summarizeConversation(ctx, state)
	if err != nil {
		e.logger.Warn("exit summary failed", "session_id", state.SessionID, "error", err)
	} else if summary != "" {
		state.ContextSummary = summary
	}
	return ExitMessage(ExitNotInterested), nil
}

func (e *Engine) handleObjection(ctx context.Context, state *session.State, typ ObjectionType) (string, error) {
	if typ == ObjectionNone {
		typ = ObjectionCost
	}
	RecordObjection(state, typ)

	fill := ObjectionContext{Age: state.Profile.Age}
	if p := e.relevantPolicy(state); p != nil {
		fill.CoverageAmount = p.CoverageAmount
		fill.MonthlyPremium = p.MonthlyPremium
	}
	if len(e.catalog) > 0 {
		min := e.catalog[0].CoverageAmount
		premium := e.catalog[0].MonthlyPremium
		for _, p := range e.catalog {
			if p.CoverageAmount < min {
				min = p.CoverageAmount
				premium = p.MonthlyPremium
			}
		}
		fill.MinCoverage = min
		if fill.MonthlyPremium == 0 {
			fill.MonthlyPremium = premium
		}
		if fill.CoverageAmount == 0 {
			fill.CoverageAmount = min
		}
	}

	return FillObjectionTemplate(typ, fill)
}

func (e *Engine) handleCollection(ctx context.Context, state *session.State, message string, target session.Stage) (string, session.Stage, error) {
	result := e.collect.Step(ctx, state, message)

	switch result.Outcome {
	case CollectConfirmed:
		reply, err := e.persistLead(ctx, state)
		if err != nil {
			return "", target, err
		}
		return reply, session.StageClosing, nil

	case CollectExhausted:
		e.logger.Warn("confirmation retries exhausted", "session_id", state.SessionID)
		return ExitMessage(ExitExhausted), session.StageEnded, nil

	default:
		return result.Reply, target, nil
	}
}

func (e *Engine) persistLead(ctx context.Context, state *session.State) (string, error) {
	d := state.Collected
	req := &leads.CreateLeadRequest{
		ConversationID:       state.ConversationID,
		Name:                 d.FullName,
		Phone:                d.PhoneNumber,
		NationalID:           d.NationalID,
		Address:              d.Address,
		PolicyOfInterest:     d.PolicyOfInterest,
		Email:                d.Email,
		PreferredContactTime: d.PreferredContactTime,
		Notes:                d.Notes,
	}

	err := e.retry.Do(ctx, func(ctx context.Context) error {
		_, createErr := e.leads.Create(ctx, req)
		return createErr
	})
	if err != nil {
		if errors.Is(err, leads.ErrDuplicateLead) {
			e.logger.Warn("duplicate lead", "session_id", state.SessionID, "phone", d.PhoneNumber)
			return fallbackDuplicateLead, nil
		}
		return "", &ExternalServiceError{Service: "persistence", Err: err}
	}

	e.logger.Info("lead persisted", "session_id", state.SessionID, "policy", d.PolicyOfInterest)
	return "Perfect, you're all set, " + firstName(d.FullName) + "! Our sales team will contact you shortly about the " +
		d.PolicyOfInterest + " policy. Is there anything else I can help you with?", nil
}

func (e *Engine) handleDefault(ctx context.Context, state *session.State, message string, target session.Stage) (string, error) {
	docs, err := e.retrieveDocs(ctx, state, message)
	if err != nil {
		return "", err
	}

	msgs, err := e.window.Assemble(ctx, state, e.catalog, docs)
	if err != nil {
		return "", err
	}

	cfg := StageGenConfig(target)
	llmReq := LLMRequest{
		Model:       e.opts.ModelID,
		System:      []string{BuildSystemPrompt(target, e.opts.AgentName, e.opts.CompanyName, state.Profile, e.catalog)},
		Messages:    msgs,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	var resp LLMResponse
	err = e.retry.Do(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = e.llm.Complete(ctx, llmReq)
		if callErr != nil {
			e.metrics.ObserveExternalRetry("generation")
		}
		return callErr
	})
	if err != nil {
		return "", err
	}

	grounded := e.ground.Validate(resp.Text, docs)
	if len(grounded.Flagged) > 0 {
		e.metrics.ObserveGroundingRewrite()
		e.logger.Warn("reply rewritten for unsupported policy mentions",
			"session_id", state.SessionID, "flagged", strings.Join(grounded.Flagged, ","))
	}

	filtered := FilterResponse(grounded.Rewritten)
	if filtered.Filtered {
		e.logger.Warn("reply filtered", "session_id", state.SessionID, "reasons", strings.Join(filtered.Reasons, ","))
	}
	return filtered.Sanitized, nil
}

func (e *Engine) retrieveDocs(ctx context.Context, state *session.State, message string) ([]RetrievedDocument, error) {
	if e.retrieve == nil {
		return nil, nil
	}
	q := RetrievalQuery{
		Text: message,
		TopK: e.opts.RetrievalTopK,
		Age:  state.Profile.Age,
	}
	var docs []RetrievedDocument
	err := e.retry.Do(ctx, func(ctx context.Context) error {
		var callErr error
		docs, callErr = e.retrieve.Retrieve(ctx, q)
		if callErr != nil {
			e.metrics.ObserveExternalRetry("retrieval")
		}
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// End closes the session, generating the final summary.
func (e *Engine) End(ctx context.Context, req EndRequest) (*EndResponse, error) {
	unlock := e.locks.Lock(req.SessionID)
	defer unlock()

	state, err := e.store.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	summary, err := e.summarizeConversation(ctx, state)
	if err != nil {
		e.logger.Warn("end summary failed", "session_id", req.SessionID, "error", err)
		summary = "Conversation completed."
	}

	state.Stage = session.StageEnded
	if err := e.saveWithRetry(ctx, state); err != nil {
		return nil, err
	}

	e.logger.Info("session ended", "session_id", req.SessionID, "reason", req.Reason)
	return &EndResponse{
		SessionID: req.SessionID,
		Summary:   summary,
		Duration:  time.Since(state.CreatedAt),
	}, nil
}

func (e *Engine) summarizeConversation(ctx context.Context, state *session.State) (string, error) {
	if e.summary == nil || len(state.Messages) == 0 {
		return "", nil
	}
	var summary string
	err := e.retry.Do(ctx, func(ctx context.Context) error {
		var callErr error
		summary, callErr = e.summary.Summarize(ctx, state.Recent(50))
		if callErr != nil {
			e.metrics.ObserveExternalRetry("summarization")
		}
		return callErr
	})
	return summary, err
}

func (e *Engine) saveWithRetry(ctx context.Context, state *session.State) error {
	return e.retry.Do(ctx, func(ctx context.Context) error {
		err := e.store.Save(ctx, state)
		if err != nil {
			e.metrics.ObserveExternalRetry("session_save")
			return &ExternalServiceError{Service: "persistence", Err: err}
		}
		return nil
	})
}

func (e *Engine) notePolicyMentions(state *session.State, text string) {
	lower := strings.ToLower(text)
	for _, p := range e.catalog {
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			state.NoteDiscussedPolicy(p.Name, e.opts.DiscussedPoliciesMax)
		}
	}
}

func (e *Engine) relevantPolicy(state *session.State) *policies.Policy {
	if len(state.DiscussedPolicies) > 0 {
		name := state.DiscussedPolicies[len(state.DiscussedPolicies)-1]
		for i := range e.catalog {
			if e.catalog[i].Name == name {
				return &e.catalog[i]
			}
		}
	}
	return nil
}

func (e *Engine) turnResponse(state *session.State, reply string, intent Intent, clarifying bool) *TurnResponse {
	return &TurnResponse{
		SessionID:            state.SessionID,
		Message:              reply,
		Stage:                state.Stage,
		Intent:               intent,
		InterestLevel:        state.Interest,
		ClarificationPending: clarifying,
		Timestamp:            time.Now().UTC(),
	}
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}
