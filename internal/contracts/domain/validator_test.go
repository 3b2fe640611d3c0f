package domain

import (
	"strings"
	"testing"
	"time"
)

var valNow = time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)

func okCtx() TransitionContext {
	return TransitionContext{
		Reason:          "requested by client",
		SignatureStatus: SignatureFullyExecuted,
		Now:             valNow,
	}
}

func TestValidateAllowedTransitions(t *testing.T) {
	// Every edge in the adjacency table must pass when the context
	// satisfies the field rules.
	for from, targets := range allowedTransitions {
		for _, to := range targets {
			if errs := Validate(from, to, okCtx()); len(errs) != 0 {
				t.Errorf("%s -> %s should be valid, got %v", from, to, errs)
			}
		}
	}
}

func TestValidateRejectsUnknownEdges(t *testing.T) {
	cases := []struct {
		from, to Status
	}{
		{StatusDraft, StatusActive},
		{StatusDraft, StatusSigned},
		{StatusActive, StatusDraft},
		{StatusSigned, StatusDraft},
		{StatusExpired, StatusActive},
		{StatusPendingReview, StatusSigned},
	}

	for _, tc := range cases {
		errs := Validate(tc.from, tc.to, okCtx())
		if len(errs) == 0 {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
			continue
		}
		want := "cannot change status from " + string(tc.from) + " to " + string(tc.to)
		if errs[0] != want {
			t.Errorf("%s -> %s: got %q, want %q", tc.from, tc.to, errs[0], want)
		}
	}
}

// A no-change request on an active, fully signed contract is accepted.
func TestValidateSameStatusIsAccepted(t *testing.T) {
	ctx := TransitionContext{SignatureStatus: SignatureFullyExecuted, Now: valNow}
	if errs := Validate(StatusActive, StatusActive, ctx); len(errs) != 0 {
		t.Fatalf("active -> active should be accepted, got %v", errs)
	}
}

// Same-status requests skip the adjacency and reactivation locks but field
// rules still run: re-asserting terminated without a reason is rejected.
func TestValidateSameStatusStillChecksFields(t *testing.T) {
	ctx := TransitionContext{Now: valNow}
	errs := Validate(StatusTerminated, StatusTerminated, ctx)
	if len(errs) != 1 {
		t.Fatalf("expected exactly the reason error, got %v", errs)
	}
	if !strings.Contains(errs[0], "reason is required") {
		t.Fatalf("unexpected message: %q", errs[0])
	}
}

func TestValidateReasonRequired(t *testing.T) {
	cases := []struct {
		from, to Status
	}{
		{StatusActive, StatusTerminated},
		{StatusActive, StatusSuspended},
		{StatusDraft, StatusCancelled},
	}

	for _, tc := range cases {
		ctx := okCtx()
		ctx.Reason = ""
		errs := Validate(tc.from, tc.to, ctx)
		found := false
		for _, msg := range errs {
			if msg == "a reason is required when changing status to "+string(tc.to) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s -> %s without reason: missing reason error in %v", tc.from, tc.to, errs)
		}
	}
}

func TestValidateSignatureGate(t *testing.T) {
	for _, sig := range []SignatureStatus{SignatureNotSent, SignaturePending, SignaturePartiallySigned, SignatureDeclined} {
		ctx := okCtx()
		ctx.SignatureStatus = sig
		errs := Validate(StatusSigned, StatusActive, ctx)
		if len(errs) != 1 || errs[0] != "contract must be fully signed before activation" {
			t.Errorf("signature %s: got %v", sig, errs)
		}
	}

	ctx := okCtx()
	if errs := Validate(StatusSigned, StatusActive, ctx); len(errs) != 0 {
		t.Errorf("fully executed signature should activate, got %v", errs)
	}
}

// Reactivating a terminated contract violates both the adjacency rule and
// the explicit terminated lock; both messages must be present.
func TestValidateTerminatedReactivationReportsBothErrors(t *testing.T) {
	errs := Validate(StatusTerminated, StatusActive, okCtx())

	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0] != "cannot change status from terminated to active" {
		t.Errorf("first error: got %q", errs[0])
	}
	if errs[1] != "terminated contracts cannot be reactivated" {
		t.Errorf("second error: got %q", errs[1])
	}
}

func TestValidateCancelledLock(t *testing.T) {
	for _, to := range []Status{StatusActive, StatusSigned} {
		errs := Validate(StatusCancelled, to, okCtx())
		found := false
		for _, msg := range errs {
			if msg == "cancelled contracts cannot be reactivated" {
				found = true
			}
		}
		if !found {
			t.Errorf("cancelled -> %s: missing lock error in %v", to, errs)
		}
	}
}

func TestValidateTerminalStatesLockEveryTarget(t *testing.T) {
	all := []Status{
		StatusDraft, StatusPendingReview, StatusUnderNegotiation, StatusPendingSignature,
		StatusSigned, StatusActive, StatusSuspended, StatusTerminated, StatusExpired, StatusCancelled,
	}

	for _, terminal := range []Status{StatusTerminated, StatusCancelled} {
		for _, to := range all {
			if to == terminal {
				continue
			}
			if errs := Validate(terminal, to, okCtx()); len(errs) == 0 {
				t.Errorf("%s -> %s must be rejected", terminal, to)
			}
		}
	}
}

func TestValidateImmediateOnly(t *testing.T) {
	future := valNow.Add(72 * time.Hour)
	past := valNow.Add(-72 * time.Hour)

	cases := []struct {
		name      string
		to        Status
		effective *time.Time
		wantErr   bool
	}{
		{"future suspension rejected", StatusSuspended, &future, true},
		{"future cancellation rejected", StatusCancelled, &future, true},
		{"past effective date fine", StatusSuspended, &past, false},
		{"no effective date fine", StatusSuspended, nil, false},
		{"future termination allowed", StatusTerminated, &future, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from := StatusActive
			if tc.to == StatusCancelled {
				from = StatusDraft
			}
			ctx := okCtx()
			ctx.EffectiveDate = tc.effective
			errs := Validate(from, tc.to, ctx)

			found := false
			for _, msg := range errs {
				if strings.Contains(msg, "must be effective immediately") {
					found = true
				}
			}
			if found != tc.wantErr {
				t.Errorf("got errs %v, wantErr=%v", errs, tc.wantErr)
			}
		})
	}
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	// Unreachable edge, missing reason, and future effective date all at
	// once: every violation must be reported.
	future := valNow.Add(24 * time.Hour)
	ctx := TransitionContext{EffectiveDate: &future, Now: valNow}

	errs := Validate(StatusDraft, StatusSuspended, ctx)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(StatusTerminated) || !IsTerminal(StatusCancelled) {
		t.Error("terminated and cancelled are terminal")
	}
	if IsTerminal(StatusActive) || IsTerminal(StatusExpired) {
		t.Error("active and expired are not terminal")
	}
	if IsTerminal("bogus") {
		t.Error("unknown status is not terminal")
	}
}

func TestAllowedTargetsReturnsCopy(t *testing.T) {
	targets := AllowedTargets(StatusActive)
	if len(targets) != 3 {
		t.Fatalf("active should have 3 targets, got %v", targets)
	}
	targets[0] = "mutated"
	if fresh := AllowedTargets(StatusActive); fresh[0] == "mutated" {
		t.Fatal("AllowedTargets must not expose internal state")
	}
}
