// internal/session/state.go
//
// The shared wizard state. Every slice is owned by exactly one step
// controller and mutated only through the store's dispatch. Snapshots of
// this state survive restarts, minus the auth token.

package session

import (
	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
)

// QuoteSlice holds the amount/currency selection and the priced quote.
type QuoteSlice struct {
	FiatAmount     float64        `json:"fiatAmount"`
	FiatCurrency   string         `json:"selectedFiatCurrency"`
	CryptoCurrency string         `json:"selectedCryptoCurrency"`
	Network        string         `json:"network"`
	PaymentMethod  string         `json:"selectedPaymentMethod"`
	Result         *gateway.Quote `json:"quoteResult,omitempty"`
	Loading        bool           `json:"quoteLoading"`
	Err            string         `json:"quoteError"`
}

// WalletSlice holds the verified destination address.
type WalletSlice struct {
	Address          string `json:"address"`
	ValidationResult string `json:"validationResult"`
	Valid            bool   `json:"isValid"`
}

// EmailSlice holds the login email and the state token gating OTP entry.
type EmailSlice struct {
	Email      string `json:"email"`
	StateToken string `json:"stateToken"`
	ExpiresIn  int    `json:"expiresIn"`
	Verified   bool   `json:"verified"`
}

// OTPSlice holds the verification outcome and the live auth token.
type OTPSlice struct {
	Verified     bool   `json:"verified"`
	AuthToken    string `json:"authToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Attempts     int    `json:"attempts"`
}

// PersonalSlice holds the confirmed personal details.
type PersonalSlice struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DateOfBirth  string `json:"dateOfBirth"`
	MobileNumber string `json:"mobileNumber"`
	Completed    bool   `json:"completed"`
}

// AddressSlice holds the confirmed residential address.
type AddressSlice struct {
	Line1       string `json:"addressLine1"`
	Line2       string `json:"addressLine2"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	Country     string `json:"country"`
	ManualEntry bool   `json:"isManualEntry"`
	Completed   bool   `json:"completed"`
}

// PurposeSlice holds the declared purpose of use.
type PurposeSlice struct {
	ID        string `json:"purposeId"`
	Title     string `json:"purposeTitle"`
	Completed bool   `json:"completed"`
}

// IDProofSlice is the synthetic marker emitted by the KYC handoff step.
type IDProofSlice struct {
	VerificationComplete bool   `json:"verificationComplete"`
	Timestamp            string `json:"timestamp"`
	Completed            bool   `json:"completed"`
}

// KYCProcessSlice tracks the multi-call KYC handshake. The requirement
// caches are valid for exactly one quote id; a different quote id resets
// them before the new payload is applied.
type KYCProcessSlice struct {
	PersonalSubmitted      bool                  `json:"personalDetailsSubmitted"`
	AddressSubmitted       bool                  `json:"addressDetailsSubmitted"`
	PurposeSubmitted       bool                  `json:"purposeSubmitted"`
	QuoteID                string                `json:"quoteId"`
	Requirements           *gateway.Requirements `json:"requirements,omitempty"`
	RequirementsFetched    bool                  `json:"requirementsFetched"`
	AdditionalRequirements *gateway.Requirements `json:"additionalRequirements,omitempty"`
	AdditionalFetched      bool                  `json:"additionalRequirementsFetched"`
	KYCURL                 string                `json:"kycUrl"`
}

// Progress tracks which steps have completed. CompletedSteps only grows.
type Progress struct {
	CompletedSteps []flow.Step `json:"completedSteps"`
	TotalSteps     int         `json:"totalSteps"`
}

// Contains reports whether the step has already completed.
func (p Progress) Contains(step flow.Step) bool {
	for _, s := range p.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// State is the full wizard state.
type State struct {
	Quote           QuoteSlice      `json:"quote"`
	Wallet          WalletSlice     `json:"wallet"`
	Email           EmailSlice      `json:"email"`
	OTP             OTPSlice        `json:"otp"`
	PersonalDetails PersonalSlice   `json:"personalDetails"`
	Address         AddressSlice    `json:"address"`
	Purpose         PurposeSlice    `json:"purpose"`
	IDProof         IDProofSlice    `json:"idProof"`
	UserDetails     map[string]any  `json:"userDetails,omitempty"`
	KYCProcess      KYCProcessSlice `json:"kycProcess"`
	CurrentStep     flow.Step       `json:"currentStep"`
	Progress        Progress        `json:"progress"`
}

// NewState returns the initial wizard state.
func NewState() State {
	return State{
		CurrentStep: flow.StepQuote,
		Progress:    Progress{TotalSteps: flow.TotalSteps},
	}
}

// clone returns a copy safe to hand to callers. UserDetails values are
// treated as read-only; the map itself is copied.
func (s State) clone() State {
	out := s
	if s.Progress.CompletedSteps != nil {
		out.Progress.CompletedSteps = append([]flow.Step(nil), s.Progress.CompletedSteps...)
	}
	if s.UserDetails != nil {
		details := make(map[string]any, len(s.UserDetails))
		for k, v := range s.UserDetails {
			details[k] = v
		}
		out.UserDetails = details
	}
	if s.Quote.Result != nil {
		quote := *s.Quote.Result
		out.Quote.Result = &quote
	}
	if s.KYCProcess.Requirements != nil {
		reqs := *s.KYCProcess.Requirements
		out.KYCProcess.Requirements = &reqs
	}
	if s.KYCProcess.AdditionalRequirements != nil {
		reqs := *s.KYCProcess.AdditionalRequirements
		out.KYCProcess.AdditionalRequirements = &reqs
	}
	return out
}
