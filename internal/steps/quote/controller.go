// internal/steps/quote/controller.go
//
// The quote step prices a buy as the user types. Fetches are debounced and
// tagged with a generation counter so a superseded request can never
// overwrite the state written by a newer one.

package quote

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/step"
)

const (
	defaultDebounce  = 500 * time.Millisecond
	defaultMinAmount = 17
	fetchTimeout     = 15 * time.Second
)

// minAmounts is the per-payment-method floor in fiat units.
var minAmounts = map[string]float64{
	"sepa_bank_transfer": 17,
	"pm_open_banking":    10,
	"credit_debit_card":  50,
}

// allowedSymbols is the fixed purchase allow-list applied to the crypto
// lookup endpoint.
var allowedSymbols = map[string]bool{
	"BTC":   true,
	"ETH":   true,
	"USDT":  true,
	"USDC":  true,
	"BNB":   true,
	"SOL":   true,
	"MATIC": true,
}

// Fetcher prices a quote. The gateway client satisfies it.
type Fetcher interface {
	FetchQuote(ctx context.Context, params gateway.QuoteParams) (*gateway.Quote, error)
}

// Controller owns the amount/currency draft and the debounced fetch.
type Controller struct {
	store    *session.Store
	fetch    Fetcher
	log      *logbook.Logbook
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64

	amountRaw     string
	fiatCurrency  string
	crypto        string
	network       string
	paymentMethod string
}

// Option customizes controller construction.
type Option func(*Controller)

// WithDebounce overrides the quiet period before a fetch.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithLogbook routes fetch failures to the logbook.
func WithLogbook(l *logbook.Logbook) Option {
	return func(c *Controller) { c.log = l }
}

// New builds the quote controller with EUR/ETH defaults.
func New(store *session.Store, fetch Fetcher, opts ...Option) *Controller {
	c := &Controller{
		store:         store,
		fetch:         fetch,
		debounce:      defaultDebounce,
		fiatCurrency:  "EUR",
		crypto:        "ETH",
		network:       "ethereum",
		paymentMethod: "sepa_bank_transfer",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var _ step.Controller = (*Controller)(nil)

// Info identifies the controller.
func (c *Controller) Info() step.Info {
	return step.Info{
		ID:          flow.StepQuote,
		Name:        flow.StepQuote.FriendlyName(),
		Description: "Select amount, currencies and payment method, then price the buy.",
	}
}

// SetAmount records a new fiat amount and schedules a debounced fetch when
// the value is a positive finite number.
func (c *Controller) SetAmount(raw string) {
	c.mu.Lock()
	c.amountRaw = raw
	c.mu.Unlock()
	c.applySelection()
}

// SetFiatCurrency records the fiat currency.
func (c *Controller) SetFiatCurrency(symbol string) {
	c.mu.Lock()
	c.fiatCurrency = symbol
	c.mu.Unlock()
	c.applySelection()
}

// SetCrypto records the crypto currency and its network.
func (c *Controller) SetCrypto(symbol, network string) {
	c.mu.Lock()
	c.crypto = symbol
	c.network = network
	c.mu.Unlock()
	c.applySelection()
}

// SetPaymentMethod records the payment method.
func (c *Controller) SetPaymentMethod(method string) {
	c.mu.Lock()
	c.paymentMethod = method
	c.mu.Unlock()
	c.applySelection()
}

// Amount returns the parsed fiat amount and whether it is usable.
func (c *Controller) Amount() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return parseAmount(c.amountRaw)
}

// PaymentMethod returns the selected payment method.
func (c *Controller) PaymentMethod() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paymentMethod
}

// applySelection pushes the current parameters into the store, which clears
// any previously derived quote, then schedules a fetch.
func (c *Controller) applySelection() {
	c.mu.Lock()
	amount, ok := parseAmount(c.amountRaw)
	params := session.SetQuoteParams{
		FiatAmount:     amount,
		FiatCurrency:   c.fiatCurrency,
		CryptoCurrency: c.crypto,
		Network:        c.network,
		PaymentMethod:  c.paymentMethod,
	}
	c.gen++
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.store.Dispatch(params)
	if !ok {
		return
	}
	request := gateway.QuoteParams{
		FiatCurrency:   params.FiatCurrency,
		CryptoCurrency: params.CryptoCurrency,
		IsBuyOrSell:    "BUY",
		Network:        params.Network,
		PaymentMethod:  params.PaymentMethod,
		FiatAmount:     amount,
	}

	c.mu.Lock()
	if gen == c.gen {
		c.timer = time.AfterFunc(c.debounce, func() { c.runFetch(gen, request) })
	}
	c.mu.Unlock()
}

// runFetch executes one debounced fetch. Results are dropped when a newer
// edit superseded the request.
func (c *Controller) runFetch(gen uint64, params gateway.QuoteParams) {
	if c.stale(gen) {
		return
	}
	c.store.Dispatch(session.QuoteLoading{})

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	quote, err := c.fetch.FetchQuote(ctx, params)

	if c.stale(gen) {
		return
	}
	if err != nil {
		c.log.Warn("quote: fetch failed: %v", err)
		c.store.Dispatch(session.QuoteFailed{Message: "Unable to fetch a quote. Please try again."})
		return
	}
	c.store.Dispatch(session.QuoteResolved{Result: quote})
}

func (c *Controller) stale(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen != c.gen
}

// Validate enforces the amount floor and requires a priced quote.
func (c *Controller) Validate() error {
	c.mu.Lock()
	raw := c.amountRaw
	method := c.paymentMethod
	fiat := c.fiatCurrency
	c.mu.Unlock()

	amount, ok := parseAmount(raw)
	if !ok {
		return fmt.Errorf("enter an amount greater than zero")
	}
	if min := MinAmount(method); amount < min {
		return fmt.Errorf("minimum amount for %s is %.0f %s", method, min, fiat)
	}
	if c.store.State().Quote.Result == nil {
		return fmt.Errorf("no quote available yet")
	}
	return nil
}

// Submit completes the step when a valid quote is held.
func (c *Controller) Submit(ctx context.Context) (step.Result, error) {
	if err := c.Validate(); err != nil {
		return step.Result{Status: step.StatusBlocked, Message: err.Error()}, nil
	}
	c.store.CompleteStep(flow.StepQuote)
	if err := c.store.Advance(flow.StepWallet); err != nil {
		return step.Result{Status: step.StatusFailed}, err
	}
	return step.Result{Status: step.StatusCompleted}, nil
}

// MinAmount returns the floor for a payment method, with a default for
// unknown methods.
func MinAmount(method string) float64 {
	if min, ok := minAmounts[method]; ok {
		return min
	}
	return defaultMinAmount
}

// FilterSupported drops crypto currencies outside the purchase allow-list.
func FilterSupported(list []gateway.CryptoCurrency) []gateway.CryptoCurrency {
	var out []gateway.CryptoCurrency
	for _, c := range list {
		if allowedSymbols[c.Symbol] {
			out = append(out, c)
		}
	}
	return out
}

func parseAmount(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	return amount, true
}
