// internal/session/actions.go
//
// The fixed set of mutation actions. Each action touches exactly one slice;
// cross-slice decisions belong to step controllers, which keeps the reducer
// pure and deterministic.

package session

import (
	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
)

// Action is a named mutation applied by the store's reducer.
type Action interface {
	name() string
}

// SetQuoteParams records the amount/currency selection and clears any
// previously derived quote.
type SetQuoteParams struct {
	FiatAmount     float64
	FiatCurrency   string
	CryptoCurrency string
	Network        string
	PaymentMethod  string
}

func (SetQuoteParams) name() string { return "quote/set-params" }

// QuoteLoading marks a quote fetch in flight.
type QuoteLoading struct{}

func (QuoteLoading) name() string { return "quote/loading" }

// QuoteResolved stores a freshly priced quote.
type QuoteResolved struct {
	Result *gateway.Quote
}

func (QuoteResolved) name() string { return "quote/resolved" }

// QuoteFailed records a quote fetch failure.
type QuoteFailed struct {
	Message string
}

func (QuoteFailed) name() string { return "quote/failed" }

// SetWallet stores a verified wallet address.
type SetWallet struct {
	Address          string
	ValidationResult string
}

func (SetWallet) name() string { return "wallet/set" }

// SetEmail stores the login email and state token. Resend replays this
// action with the replacement state token.
type SetEmail struct {
	Email      string
	StateToken string
	ExpiresIn  int
}

func (SetEmail) name() string { return "email/set" }

// MarkEmailVerified flags the email slice after a successful OTP check.
type MarkEmailVerified struct{}

func (MarkEmailVerified) name() string { return "email/verified" }

// SetAuthToken stores the access token and marks the OTP slice verified.
type SetAuthToken struct {
	Token        string
	RefreshToken string
}

func (SetAuthToken) name() string { return "otp/set-token" }

// ClearAuthToken logs the session out.
type ClearAuthToken struct{}

func (ClearAuthToken) name() string { return "otp/clear-token" }

// IncrementOTPAttempts counts a failed verification.
type IncrementOTPAttempts struct{}

func (IncrementOTPAttempts) name() string { return "otp/attempt" }

// SetUserDetails stores the opaque profile fetched after authentication.
type SetUserDetails struct {
	Profile map[string]any
}

func (SetUserDetails) name() string { return "user/set-details" }

// SetPersonalDetails records validated personal details.
type SetPersonalDetails struct {
	FirstName    string
	LastName     string
	DateOfBirth  string
	MobileNumber string
}

func (SetPersonalDetails) name() string { return "personal/set" }

// SetAddress records a validated residential address.
type SetAddress struct {
	Line1       string
	Line2       string
	City        string
	State       string
	PostalCode  string
	Country     string
	ManualEntry bool
}

func (SetAddress) name() string { return "address/set" }

// SetPurpose records the selected purpose of use.
type SetPurpose struct {
	ID    string
	Title string
}

func (SetPurpose) name() string { return "purpose/set" }

// SetIDProof records the synthetic KYC handoff completion marker.
type SetIDProof struct {
	Timestamp string
}

func (SetIDProof) name() string { return "idproof/set" }

// MarkPersonalSynced flags the best-effort personal details sync.
type MarkPersonalSynced struct{}

func (MarkPersonalSynced) name() string { return "kyc/personal-synced" }

// MarkAddressSynced flags the best-effort address sync.
type MarkAddressSynced struct{}

func (MarkAddressSynced) name() string { return "kyc/address-synced" }

// MarkPurposeSynced flags the best-effort purpose submission.
type MarkPurposeSynced struct{}

func (MarkPurposeSynced) name() string { return "kyc/purpose-synced" }

// SetRequirements caches the KYC requirements for one quote id.
type SetRequirements struct {
	QuoteID      string
	Requirements *gateway.Requirements
}

func (SetRequirements) name() string { return "kyc/requirements" }

// SetAdditionalRequirements caches the follow-up requirements, which carry
// the provider's verification URL.
type SetAdditionalRequirements struct {
	QuoteID      string
	Requirements *gateway.Requirements
}

func (SetAdditionalRequirements) name() string { return "kyc/additional-requirements" }

// CompleteStep appends a step to the progress set, exactly once.
type CompleteStep struct {
	Step flow.Step
}

func (CompleteStep) name() string { return "progress/complete-step" }

// SetCurrentStep moves the wizard to another step. Navigation legality is
// checked by the store before this action is dispatched.
type SetCurrentStep struct {
	Step flow.Step
}

func (SetCurrentStep) name() string { return "progress/set-current" }
