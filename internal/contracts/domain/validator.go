package domain

import (
	"fmt"
	"time"
)

// TransitionContext carries the request fields the validator inspects
// beyond the status pair itself.
type TransitionContext struct {
	// Reason is required when moving to terminated, suspended, or cancelled.
	Reason string
	// EffectiveDate, when set, is the requested date for the change.
	EffectiveDate *time.Time
	// SignatureStatus is the contract's current signature state.
	SignatureStatus SignatureStatus
	// Now is the reference instant for effective-date checks.
	Now time.Time
}

// transitionRule is one named validation rule. A rule returns an empty
// string when satisfied. Rules never short-circuit one another: every
// applicable error is accumulated so the caller sees the full picture.
type transitionRule struct {
	name  string
	apply func(from, to Status, ctx TransitionContext) string
}

// transitionRules run in fixed order. ruleTerminatedLock and
// ruleCancelledLock duplicate what ruleAdjacency already rejects; the
// duplicate messages are load-bearing for callers that match on them, so
// both rules stay until product signs off on collapsing them.
var transitionRules = []transitionRule{
	{name: "adjacency", apply: ruleAdjacency},
	{name: "reason_required", apply: ruleReasonRequired},
	{name: "signature_gate", apply: ruleSignatureGate},
	{name: "terminated_lock", apply: ruleTerminatedLock},
	{name: "cancelled_lock", apply: ruleCancelledLock},
	{name: "immediate_only", apply: ruleImmediateOnly},
}

// statusChangeRules are skipped entirely when the requested status equals
// the current one; the remaining field checks still run.
var statusChangeRules = map[string]struct{}{
	"adjacency":       {},
	"terminated_lock": {},
	"cancelled_lock":  {},
}

// Validate checks a requested status transition and returns every violated
// rule as a human-readable message. An empty slice means the transition is
// acceptable. Validate never fails on malformed input; unknown statuses
// simply have no allowed targets.
func Validate(from, to Status, ctx TransitionContext) []string {
	sameStatus := from == to

	var errs []string
	for _, rule := range transitionRules {
		if sameStatus {
			if _, skip := statusChangeRules[rule.name]; skip {
				continue
			}
		}
		if msg := rule.apply(from, to, ctx); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

func ruleAdjacency(from, to Status, _ TransitionContext) string {
	if CanTransition(from, to) {
		return ""
	}
	return fmt.Sprintf("cannot change status from %s to %s", from, to)
}

func ruleReasonRequired(_, to Status, ctx TransitionContext) string {
	switch to {
	case StatusTerminated, StatusSuspended, StatusCancelled:
		if ctx.Reason == "" {
			return fmt.Sprintf("a reason is required when changing status to %s", to)
		}
	}
	return ""
}

func ruleSignatureGate(_, to Status, ctx TransitionContext) string {
	if to == StatusActive && ctx.SignatureStatus != SignatureFullyExecuted {
		return "contract must be fully signed before activation"
	}
	return ""
}

func ruleTerminatedLock(from, to Status, _ TransitionContext) string {
	if from == StatusTerminated && to == StatusActive {
		return "terminated contracts cannot be reactivated"
	}
	return ""
}

func ruleCancelledLock(from, to Status, _ TransitionContext) string {
	if from == StatusCancelled && (to == StatusActive || to == StatusSigned) {
		return "cancelled contracts cannot be reactivated"
	}
	return ""
}

func ruleImmediateOnly(_, to Status, ctx TransitionContext) string {
	if ctx.EffectiveDate == nil || !ctx.EffectiveDate.After(ctx.Now) {
		return ""
	}
	if to == StatusSuspended || to == StatusCancelled {
		return fmt.Sprintf("%s must be effective immediately and cannot be scheduled for a future date", to)
	}
	return ""
}
