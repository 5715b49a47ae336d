package flow

import "testing"

func TestStepRoundTrip(t *testing.T) {
	for _, s := range Steps() {
		parsed, err := ParseStep(s.String())
		if err != nil {
			t.Fatalf("ParseStep(%q): %v", s.String(), err)
		}
		if parsed != s {
			t.Fatalf("round trip %s: got %s", s, parsed)
		}
	}
	if _, err := ParseStep("checkout"); err == nil {
		t.Fatalf("expected error for unknown step id")
	}
}

func TestStepOrder(t *testing.T) {
	if TotalSteps != 9 {
		t.Fatalf("expected 9 steps, got %d", TotalSteps)
	}
	if StepQuote.Prev() != StepQuote {
		t.Fatalf("first step should clamp Prev")
	}
	if StepKYBForm.Next() != StepKYBForm {
		t.Fatalf("last step should clamp Next")
	}
	if !StepKYBForm.IsTerminal() {
		t.Fatalf("kyb-form should be terminal")
	}
	if StepPurpose.IsTerminal() {
		t.Fatalf("purpose should not be terminal")
	}
}

func TestAdvance(t *testing.T) {
	cases := []struct {
		from, to Step
		ok       bool
	}{
		{StepQuote, StepWallet, true},
		{StepWallet, StepQuote, true},
		{StepQuote, StepEmail, false},
		{StepOTP, StepPersonalDetails, true},
		{StepPurpose, StepEmail, true},
		{StepEmail, StepKYBForm, false},
		{StepKYBForm, StepKYBForm, true},
	}
	for _, tc := range cases {
		err := Advance(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Fatalf("Advance(%s, %s): unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("Advance(%s, %s): expected rejection", tc.from, tc.to)
		}
	}
}

func TestReachable(t *testing.T) {
	completed := []Step{StepQuote, StepWallet, StepEmail, StepOTP}

	if !Reachable(StepPersonalDetails, completed) {
		t.Fatalf("personal-details should be reachable with four prior steps done")
	}
	if Reachable(StepPurpose, completed) {
		t.Fatalf("purpose must not be reachable before personal-details and address complete")
	}
	if !Reachable(StepQuote, nil) {
		t.Fatalf("first step is always reachable")
	}

	completed = append(completed, StepPersonalDetails, StepAddress)
	if !Reachable(StepPurpose, completed) {
		t.Fatalf("purpose should be reachable once all prior steps are complete")
	}
	if Reachable(StepKYBForm, completed) {
		t.Fatalf("kyb-form requires purpose and kyc-iframe first")
	}
}
