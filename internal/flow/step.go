// internal/flow/step.go
//
// Step identifiers for the purchase onboarding wizard. The canonical order
// is fixed; navigation rules live in sequencer.go.

package flow

import "fmt"

// Step represents one stage of the onboarding wizard.
type Step int

const (
	StepQuote Step = iota
	StepWallet
	StepEmail
	StepOTP
	StepPersonalDetails
	StepAddress
	StepPurpose
	StepKYCIframe
	StepKYBForm
)

// TotalSteps is the number of wizard steps in the canonical order.
const TotalSteps = int(StepKYBForm) + 1

// String returns the wire identifier for the step.
func (s Step) String() string {
	switch s {
	case StepQuote:
		return "quote"
	case StepWallet:
		return "wallet"
	case StepEmail:
		return "email"
	case StepOTP:
		return "otp"
	case StepPersonalDetails:
		return "personal-details"
	case StepAddress:
		return "address"
	case StepPurpose:
		return "purpose"
	case StepKYCIframe:
		return "kyc-iframe"
	case StepKYBForm:
		return "kyb-form"
	default:
		return "unknown"
	}
}

// FriendlyName returns a short label suitable for the wizard header.
func (s Step) FriendlyName() string {
	switch s {
	case StepQuote:
		return "Amount & Quote"
	case StepWallet:
		return "Wallet Address"
	case StepEmail:
		return "Email"
	case StepOTP:
		return "Verify Code"
	case StepPersonalDetails:
		return "Personal Details"
	case StepAddress:
		return "Address"
	case StepPurpose:
		return "Purpose of Use"
	case StepKYCIframe:
		return "Identity Verification"
	case StepKYBForm:
		return "Business Verification"
	default:
		return s.String()
	}
}

// Valid reports whether the step is one of the canonical identifiers.
func (s Step) Valid() bool {
	return s >= StepQuote && s <= StepKYBForm
}

// Next returns the following step in the canonical order.
func (s Step) Next() Step {
	if s >= StepKYBForm {
		return StepKYBForm
	}
	return s + 1
}

// Prev returns the preceding step in the canonical order.
func (s Step) Prev() Step {
	if s <= StepQuote {
		return StepQuote
	}
	return s - 1
}

// IsTerminal reports whether the step is the last one in the wizard.
func (s Step) IsTerminal() bool {
	return s == StepKYBForm
}

// Steps returns all steps in canonical forward order.
func Steps() []Step {
	steps := make([]Step, 0, TotalSteps)
	for s := StepQuote; s <= StepKYBForm; s++ {
		steps = append(steps, s)
	}
	return steps
}

// ParseStep resolves a wire identifier back into a Step.
func ParseStep(id string) (Step, error) {
	for s := StepQuote; s <= StepKYBForm; s++ {
		if s.String() == id {
			return s, nil
		}
	}
	return StepQuote, fmt.Errorf("flow: unknown step %q", id)
}
