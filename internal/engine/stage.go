package engine

import (
	"github.com/lifesure/insurance-ai-platform/internal/session"
)

// legalTransitions maps each stage to the stages it may move to. ENDED is
// terminal and OBJECTION_HANDLING is reachable from every non-terminal stage.
var legalTransitions = map[session.Stage][]session.Stage{
	session.StageIntroduction: {
		session.StageQualification, session.StageObjectionHandling, session.StageEnded,
	},
	session.StageQualification: {
		session.StageInformation, session.StageInformationCollection,
		session.StageObjectionHandling, session.StageEnded,
	},
	session.StageInformation: {
		session.StagePersuasion, session.StageInformationCollection,
		session.StageObjectionHandling, session.StageEnded,
	},
	session.StagePersuasion: {
		session.StageInformation, session.StageInformationCollection,
		session.StageClosing, session.StageObjectionHandling, session.StageEnded,
	},
	session.StageObjectionHandling: {
		session.StageIntroduction, session.StageQualification, session.StageInformation,
		session.StagePersuasion, session.StageInformationCollection,
		session.StageClosing, session.StageEnded,
	},
	session.StageInformationCollection: {
		session.StageClosing, session.StageObjectionHandling, session.StageEnded,
	},
	session.StageClosing: {
		session.StageObjectionHandling, session.StageEnded,
	},
	session.StageEnded: nil,
}

// CanTransition reports whether moving from one stage to another is legal.
// Staying put is always legal outside of ENDED re-entry.
func CanTransition(from, to session.Stage) bool {
	if from == to {
		return from != session.StageEnded || to == session.StageEnded
	}
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ClampTransition returns the requested target when legal, otherwise the
// nearest legal stage. An illegal request is never fatal.
func ClampTransition(from, to session.Stage) session.Stage {
	if CanTransition(from, to) {
		return to
	}
	if from == session.StageEnded {
		return session.StageEnded
	}
	// Exit is honored from everywhere.
	if to == session.StageEnded {
		return session.StageEnded
	}
	// Fall back to the first legal forward edge, else stay.
	if edges := legalTransitions[from]; len(edges) > 0 {
		return edges[0]
	}
	return from
}

// StageDecision is the outcome of per-turn stage determination.
type StageDecision struct {
	Target    session.Stage
	Objection ObjectionType
	ExitAsked bool
}

// DetermineStage applies the fixed priority order: exit, objection,
// collection readiness, then default progression by profile completeness.
// When the previous turn was OBJECTION_HANDLING, control first returns to the
// remembered stage before the default rules apply.
func DetermineStage(state *session.State, intent IntentResult, objection ObjectionType) StageDecision {
	if state.Stage == session.StageEnded {
		return StageDecision{Target: session.StageEnded}
	}

	if intent.Intent == IntentExit {
		return StageDecision{Target: session.StageEnded, ExitAsked: true}
	}

	if intent.Intent == IntentObjection && objection != ObjectionNone {
		return StageDecision{Target: session.StageObjectionHandling, Objection: objection}
	}

	current := state.Stage
	if current == session.StageObjectionHandling && state.ReturnStage != "" {
		current = state.ReturnStage
	}

	if state.Interest == session.InterestHigh && !state.Collected.IsComplete() {
		return StageDecision{Target: ClampTransition(current, session.StageInformationCollection)}
	}

	switch current {
	case session.StageIntroduction:
		return StageDecision{Target: ClampTransition(current, session.StageQualification)}
	case session.StageQualification:
		if state.Profile.QualificationComplete() {
			return StageDecision{Target: ClampTransition(current, session.StageInformation)}
		}
		return StageDecision{Target: session.StageQualification}
	case session.StageInformationCollection:
		if state.Collected.IsComplete() && state.CollectionPhase == session.PhaseConfirmed {
			return StageDecision{Target: ClampTransition(current, session.StageClosing)}
		}
		return StageDecision{Target: session.StageInformationCollection}
	default:
		return StageDecision{Target: current}
	}
}
