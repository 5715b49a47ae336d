// internal/tui/controllers.go
//
// Narrow views of the step controllers, one per wizard screen. The TUI
// depends on these instead of the concrete types so app tests can drive
// the screens with fakes and no network.

package tui

import (
	"context"
	"io"
	"time"

	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/kyb"
	"github.com/kingrea/onramp/internal/step"
	"github.com/kingrea/onramp/internal/steps/address"
	"github.com/kingrea/onramp/internal/steps/kybform"
	"github.com/kingrea/onramp/internal/steps/purpose"
)

// CatalogLoader fetches the currency catalogues that seed the quote
// screen's choices. The gateway client satisfies it.
type CatalogLoader interface {
	CryptoCurrencies(ctx context.Context) ([]gateway.CryptoCurrency, error)
	FiatCurrencies(ctx context.Context) ([]gateway.FiatCurrency, error)
}

// QuoteController drives the amount and currency screen.
type QuoteController interface {
	SetAmount(raw string)
	SetFiatCurrency(symbol string)
	SetCrypto(symbol, network string)
	SetPaymentMethod(method string)
	Submit(ctx context.Context) (step.Result, error)
}

// WalletController drives the destination address screen.
type WalletController interface {
	SetAddress(address string)
	Submit(ctx context.Context) (step.Result, error)
}

// EmailController drives the login email screen.
type EmailController interface {
	SetEmail(email string)
	Submit(ctx context.Context) (step.Result, error)
}

// OTPController drives the six-digit verification screen.
type OTPController interface {
	AcceptTerms(accepted bool)
	TermsAccepted() bool
	EnterDigit(r rune) bool
	Backspace()
	Paste(raw string) bool
	Digits() [6]string
	Focus() int
	CanResend() bool
	ResendWait() time.Duration
	Resend(ctx context.Context) error
	Submit(ctx context.Context) (step.Result, error)
}

// PersonalController drives the personal details screen.
type PersonalController interface {
	SetFirstName(v string)
	SetLastName(v string)
	SetBirthDay(v string)
	SetBirthMonth(v string)
	SetBirthYear(v string)
	SetMobileNumber(v string)
	FirstName() string
	LastName() string
	MobileNumber() string
	Submit(ctx context.Context) (step.Result, error)
}

// AddressController drives the residential address screen.
type AddressController interface {
	Mode() address.Mode
	SetMode(mode address.Mode)
	SetQuery(query string)
	SetFields(fields address.Fields)
	Suggestion() (address.Fields, bool)
	Submit(ctx context.Context) (step.Result, error)
}

// PurposeController drives the purpose-of-use screen.
type PurposeController interface {
	Select(id string) error
	Selected() (purpose.Option, bool)
	Submit(ctx context.Context) (step.Result, error)
}

// HandoffController drives the browser handoff screen for identity
// verification.
type HandoffController interface {
	URL() string
	Ready() bool
	Open() error
	Opened() bool
	Skip(ctx context.Context) (step.Result, error)
	Submit(ctx context.Context) (step.Result, error)
}

// KYBFormController drives the multi-section business form.
type KYBFormController interface {
	Section() kybform.Section
	Form() kyb.Document
	SetAcknowledgments(a kyb.Acknowledgments)
	SetContactInfo(info kyb.ContactInfo)
	SetBusinessDetails(details kyb.BusinessDetails)
	SetTransakAccount(a kyb.TransakAccount)
	SetFCARules(r kyb.FCARules)
	SetTravelRule(t kyb.TravelRule)
	SetDirectorCount(n int)
	SetDirector(i int, d kyb.Director) error
	SetOwnerCount(n int)
	SetOwner(i int, o kyb.BeneficialOwner) error
	SetSignatoryCount(n int)
	SetSignatory(i int, s kyb.AuthorizedSignatory) error
	SetFurtherQuestions(q kyb.FurtherQuestions)
	NextSection() error
	PrevSection()
	Upload(ctx context.Context, fileName string, content io.Reader) error
	Submit(ctx context.Context) (step.Result, error)
}
