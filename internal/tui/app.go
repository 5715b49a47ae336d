// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for the onramp wizard.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// Each wizard step owns a controller. The TUI collects keystrokes,
// pushes drafts into the active controller, and renders the session
// store; all network work happens inside controller submits run as
// tea.Cmd closures off the UI goroutine.

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/kyb"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/step"
	"github.com/kingrea/onramp/internal/steps/address"
	"github.com/kingrea/onramp/internal/steps/kybform"
	"github.com/kingrea/onramp/internal/steps/purpose"
	"github.com/kingrea/onramp/internal/steps/quote"
)

const (
	storePollInterval = 500 * time.Millisecond
	catalogTimeout    = 15 * time.Second
)

// Controllers bundles one controller per wizard step. Catalog is
// optional; without it the quote screen keeps the built-in choices.
type Controllers struct {
	Quote      QuoteController
	Wallet     WalletController
	Email      EmailController
	OTP        OTPController
	Personal   PersonalController
	Address    AddressController
	Purpose    PurposeController
	KYCHandoff HandoffController
	KYBForm    KYBFormController
	Catalog    CatalogLoader
}

// submitMsg carries a controller submit outcome back into Update.
type submitMsg struct {
	step   flow.Step
	result step.Result
	err    error
}

// pollMsg re-renders the store-backed parts of the screen. The quote
// debouncer and the token refresh guard mutate the store between
// keystrokes, so the screen cannot wait for input to redraw.
type pollMsg time.Time

// resendMsg reports the outcome of an OTP resend.
type resendMsg struct{ err error }

// uploadMsg reports the outcome of an incorporation document upload.
type uploadMsg struct{ err error }

// catalogMsg carries the currency catalogues fetched at startup.
type catalogMsg struct {
	crypto [][2]string
	fiat   []gateway.FiatCurrency
	err    error
}

// purposeItem adapts a purpose option to the list component.
type purposeItem struct{ opt purpose.Option }

func (i purposeItem) Title() string       { return i.opt.Title }
func (i purposeItem) Description() string { return i.opt.ID }
func (i purposeItem) FilterValue() string { return i.opt.Title }

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	store *session.Store
	ctrl  Controllers
	log   *logbook.Logbook

	// UI components
	amountInput textinput.Model
	fieldInputs []textinput.Model
	fieldLabels []string
	checkboxes  int
	fieldFocus  int
	purposeMenu list.Model
	spin        spinner.Model

	uploading  bool
	submitting bool
	statusMsg  string
	lastLog    string

	// Quote screen choices, seeded with the built-in defaults and
	// replaced by the gateway catalogues once they load.
	fiatChoices    []string
	cryptoChoices  [][2]string
	paymentChoices []paymentChoice
	fiatCatalog    []gateway.FiatCurrency
	fiatIdx        int
	cryptoIdx      int
	paymentIdx     int

	manualAddress bool

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// paymentChoice is one selectable payment method with its fiat floor.
type paymentChoice struct {
	id    string
	label string
	min   float64
}

var (
	defaultFiatChoices   = []string{"EUR", "GBP", "USD"}
	defaultCryptoChoices = [][2]string{
		{"ETH", "ethereum"},
		{"BTC", "mainnet"},
		{"USDC", "ethereum"},
		{"USDT", "ethereum"},
		{"SOL", "solana"},
		{"MATIC", "polygon"},
		{"BNB", "bsc"},
	}
	defaultPaymentChoices = []paymentChoice{
		{id: "sepa_bank_transfer", label: "SEPA Bank Transfer", min: quote.MinAmount("sepa_bank_transfer")},
		{id: "pm_open_banking", label: "Open Banking", min: quote.MinAmount("pm_open_banking")},
		{id: "credit_debit_card", label: "Credit / Debit Card", min: quote.MinAmount("credit_debit_card")},
	}
)

// NewApp creates a new App instance over prebuilt step controllers.
func NewApp(store *session.Store, ctrl Controllers, log *logbook.Logbook) *App {
	amount := textinput.New()
	amount.Placeholder = "100"
	amount.CharLimit = 12
	amount.Focus()

	items := make([]list.Item, 0, 3)
	for _, opt := range purpose.Options() {
		items = append(items, purposeItem{opt: opt})
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "What will you use crypto for?"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	app := &App{
		store:          store,
		ctrl:           ctrl,
		log:            log,
		amountInput:    amount,
		purposeMenu:    menu,
		spin:           sp,
		fiatChoices:    defaultFiatChoices,
		cryptoChoices:  defaultCryptoChoices,
		paymentChoices: defaultPaymentChoices,
	}
	app.rebuildFields()
	return app
}

// Init starts the store poll, the spinner tick, and the catalogue load.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.pollCmd(), a.spin.Tick}
	if a.ctrl.Catalog != nil {
		cmds = append(cmds, a.loadCatalogCmd())
	}
	return tea.Batch(cmds...)
}

// loadCatalogCmd fetches both currency catalogues off the UI goroutine.
func (a *App) loadCatalogCmd() tea.Cmd {
	catalog := a.ctrl.Catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()
		cryptos, err := catalog.CryptoCurrencies(ctx)
		if err != nil {
			return catalogMsg{err: err}
		}
		var msg catalogMsg
		for _, c := range quote.FilterSupported(cryptos) {
			msg.crypto = append(msg.crypto, [2]string{c.Symbol, c.Network.Name})
		}
		if msg.fiat, err = catalog.FiatCurrencies(ctx); err != nil {
			return catalogMsg{err: err}
		}
		return msg
	}
}

func (a *App) pollCmd() tea.Cmd {
	return tea.Tick(storePollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

// submitCmd runs one controller submit off the UI goroutine.
func (a *App) submitCmd(id flow.Step, submit func(context.Context) (step.Result, error)) tea.Cmd {
	a.submitting = true
	return func() tea.Msg {
		res, err := submit(context.Background())
		return submitMsg{step: id, result: res, err: err}
	}
}

// Update routes messages to the active step.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.purposeMenu.SetSize(msg.Width-4, msg.Height-10)
		return a, nil

	case pollMsg:
		if lines := a.log.Tail(1); len(lines) > 0 {
			a.lastLog = lines[0]
		}
		return a, a.pollCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case submitMsg:
		a.submitting = false
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("error: %v", msg.err)
			return a, nil
		}
		a.statusMsg = msg.result.Message
		if msg.result.Status == step.StatusCompleted {
			a.enterStep()
		}
		return a, nil

	case catalogMsg:
		if msg.err != nil {
			a.log.Warn("tui: currency catalogue unavailable, keeping defaults: %v", msg.err)
			return a, nil
		}
		a.applyCatalog(msg)
		return a, nil

	case resendMsg:
		if msg.err != nil {
			a.statusMsg = msg.err.Error()
		} else {
			a.statusMsg = "code re-sent"
		}
		return a, nil

	case uploadMsg:
		a.uploading = false
		if msg.err != nil {
			a.statusMsg = msg.err.Error()
		} else {
			a.statusMsg = "document uploaded"
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKey(msg)
	}
	return a, nil
}

// enterStep refreshes the per-step inputs after a transition.
func (a *App) enterStep() {
	a.fieldFocus = 0
	a.rebuildFields()
}

// handleKey dispatches a keystroke to the active step's handler.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.submitting {
		return a, nil
	}
	switch a.store.State().CurrentStep {
	case flow.StepQuote:
		return a.updateQuote(msg)
	case flow.StepWallet:
		return a.updateSingleField(msg, flow.StepWallet, a.ctrl.Wallet.SetAddress, a.ctrl.Wallet.Submit)
	case flow.StepEmail:
		return a.updateSingleField(msg, flow.StepEmail, a.ctrl.Email.SetEmail, a.ctrl.Email.Submit)
	case flow.StepOTP:
		return a.updateOTP(msg)
	case flow.StepPersonalDetails:
		return a.updatePersonal(msg)
	case flow.StepAddress:
		return a.updateAddress(msg)
	case flow.StepPurpose:
		return a.updatePurpose(msg)
	case flow.StepKYCIframe:
		return a.updateHandoff(msg)
	case flow.StepKYBForm:
		return a.updateKYBForm(msg)
	}
	return a, nil
}

// applyCatalog swaps the quote choices for the fetched catalogues and
// re-points the draft at the new selections. Empty catalogues keep the
// defaults so the screen never renders without choices.
func (a *App) applyCatalog(msg catalogMsg) {
	if len(msg.crypto) > 0 {
		a.cryptoChoices = msg.crypto
		a.cryptoIdx = 0
	}
	if len(msg.fiat) > 0 {
		a.fiatCatalog = msg.fiat
		a.fiatChoices = make([]string, 0, len(msg.fiat))
		for _, f := range msg.fiat {
			a.fiatChoices = append(a.fiatChoices, f.Symbol)
		}
		a.fiatIdx = 0
		a.paymentChoices = a.paymentsFor(a.fiatChoices[0])
		a.paymentIdx = 0
	}
	if a.store.State().CurrentStep == flow.StepQuote {
		a.pushQuoteSelection()
	}
}

// paymentsFor returns the payment methods of a fiat currency. Currencies
// the catalogue does not cover fall back to the built-in methods.
func (a *App) paymentsFor(symbol string) []paymentChoice {
	for _, f := range a.fiatCatalog {
		if f.Symbol != symbol {
			continue
		}
		var out []paymentChoice
		for _, p := range f.PaymentOptions {
			choice := paymentChoice{id: p.ID, label: p.Name, min: p.MinAmount}
			if choice.label == "" {
				choice.label = p.ID
			}
			if choice.min <= 0 {
				choice.min = quote.MinAmount(p.ID)
			}
			out = append(out, choice)
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultPaymentChoices
}

func (a *App) pushQuoteSelection() {
	a.ctrl.Quote.SetFiatCurrency(a.fiatChoices[a.fiatIdx])
	choice := a.cryptoChoices[a.cryptoIdx]
	a.ctrl.Quote.SetCrypto(choice[0], choice[1])
	a.ctrl.Quote.SetPaymentMethod(a.paymentChoices[a.paymentIdx].id)
}

func (a *App) updateQuote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return a, a.submitCmd(flow.StepQuote, a.ctrl.Quote.Submit)
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = len(a.paymentChoices) - 1
		}
		a.paymentIdx = (a.paymentIdx + delta) % len(a.paymentChoices)
		a.ctrl.Quote.SetPaymentMethod(a.paymentChoices[a.paymentIdx].id)
		return a, nil
	case "up", "down":
		delta := 1
		if msg.String() == "up" {
			delta = len(a.cryptoChoices) - 1
		}
		a.cryptoIdx = (a.cryptoIdx + delta) % len(a.cryptoChoices)
		choice := a.cryptoChoices[a.cryptoIdx]
		a.ctrl.Quote.SetCrypto(choice[0], choice[1])
		return a, nil
	case "tab":
		a.fiatIdx = (a.fiatIdx + 1) % len(a.fiatChoices)
		symbol := a.fiatChoices[a.fiatIdx]
		a.ctrl.Quote.SetFiatCurrency(symbol)
		// Payment methods differ per fiat currency.
		a.paymentChoices = a.paymentsFor(symbol)
		a.paymentIdx = 0
		a.ctrl.Quote.SetPaymentMethod(a.paymentChoices[0].id)
		return a, nil
	}
	var cmd tea.Cmd
	a.amountInput, cmd = a.amountInput.Update(msg)
	a.ctrl.Quote.SetAmount(a.amountInput.Value())
	return a, cmd
}

// updateSingleField drives the wallet and email steps, which are one
// text input plus enter-to-submit.
func (a *App) updateSingleField(msg tea.KeyMsg, id flow.Step, push func(string), submit func(context.Context) (step.Result, error)) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		return a, a.submitCmd(id, submit)
	}
	cmd := a.updateFocusedField(msg)
	if len(a.fieldInputs) > 0 {
		push(a.fieldInputs[0].Value())
	}
	return a, cmd
}

func (a *App) updateOTP(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case key == "t":
		a.ctrl.OTP.AcceptTerms(!a.ctrl.OTP.TermsAccepted())
		return a, nil
	case key == "r":
		return a, func() tea.Msg { return resendMsg{err: a.ctrl.OTP.Resend(context.Background())} }
	case key == "backspace":
		a.ctrl.OTP.Backspace()
		return a, nil
	case key == "enter":
		return a, a.submitCmd(flow.StepOTP, a.ctrl.OTP.Submit)
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		if a.ctrl.OTP.EnterDigit(rune(key[0])) {
			return a, a.submitCmd(flow.StepOTP, a.ctrl.OTP.Submit)
		}
		return a, nil
	case len(key) == 6:
		// Terminal paste of a full code arrives as one key.
		if a.ctrl.OTP.Paste(key) {
			return a, a.submitCmd(flow.StepOTP, a.ctrl.OTP.Submit)
		}
		return a, nil
	}
	return a, nil
}

func (a *App) updatePersonal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.pushPersonalDraft()
		return a, a.submitCmd(flow.StepPersonalDetails, a.ctrl.Personal.Submit)
	case "tab", "down":
		a.moveFieldFocus(1)
		return a, nil
	case "shift+tab", "up":
		a.moveFieldFocus(-1)
		return a, nil
	}
	cmd := a.updateFocusedField(msg)
	a.pushPersonalDraft()
	return a, cmd
}

func (a *App) pushPersonalDraft() {
	if len(a.fieldInputs) < 6 {
		return
	}
	a.ctrl.Personal.SetFirstName(a.fieldInputs[0].Value())
	a.ctrl.Personal.SetLastName(a.fieldInputs[1].Value())
	a.ctrl.Personal.SetBirthDay(a.fieldInputs[2].Value())
	a.ctrl.Personal.SetBirthMonth(a.fieldInputs[3].Value())
	a.ctrl.Personal.SetBirthYear(a.fieldInputs[4].Value())
	a.ctrl.Personal.SetMobileNumber(a.fieldInputs[5].Value())
}

func (a *App) updateAddress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		a.manualAddress = !a.manualAddress
		if a.manualAddress {
			a.ctrl.Address.SetMode(address.ModeManual)
		} else {
			a.ctrl.Address.SetMode(address.ModeSearch)
		}
		a.enterStep()
		return a, nil
	case "enter":
		a.pushAddressDraft()
		return a, a.submitCmd(flow.StepAddress, a.ctrl.Address.Submit)
	case "tab", "down":
		a.moveFieldFocus(1)
		return a, nil
	case "shift+tab", "up":
		a.moveFieldFocus(-1)
		return a, nil
	}
	cmd := a.updateFocusedField(msg)
	a.pushAddressDraft()
	return a, cmd
}

func (a *App) pushAddressDraft() {
	if !a.manualAddress {
		if len(a.fieldInputs) > 0 {
			a.ctrl.Address.SetQuery(a.fieldInputs[0].Value())
		}
		return
	}
	if len(a.fieldInputs) < 6 {
		return
	}
	a.ctrl.Address.SetFields(address.Fields{
		Line1:      a.fieldInputs[0].Value(),
		Line2:      a.fieldInputs[1].Value(),
		City:       a.fieldInputs[2].Value(),
		State:      a.fieldInputs[3].Value(),
		PostalCode: a.fieldInputs[4].Value(),
		Country:    a.fieldInputs[5].Value(),
	})
}

func (a *App) updatePurpose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		item, ok := a.purposeMenu.SelectedItem().(purposeItem)
		if !ok {
			return a, nil
		}
		if err := a.ctrl.Purpose.Select(item.opt.ID); err != nil {
			a.statusMsg = err.Error()
			return a, nil
		}
		return a, a.submitCmd(flow.StepPurpose, a.ctrl.Purpose.Submit)
	}
	var cmd tea.Cmd
	a.purposeMenu, cmd = a.purposeMenu.Update(msg)
	return a, cmd
}

func (a *App) updateHandoff(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "o":
		if err := a.ctrl.KYCHandoff.Open(); err != nil {
			a.statusMsg = err.Error()
		} else {
			a.statusMsg = "opened in browser"
		}
		return a, nil
	case "s":
		return a, a.submitCmd(flow.StepKYCIframe, a.ctrl.KYCHandoff.Skip)
	case "enter":
		return a, a.submitCmd(flow.StepKYCIframe, a.ctrl.KYCHandoff.Submit)
	}
	return a, nil
}

func (a *App) updateKYBForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	section := a.ctrl.KYBForm.Section()
	switch msg.String() {
	case "enter":
		if section == kybform.SectionReview {
			return a, a.submitCmd(flow.StepKYBForm, a.ctrl.KYBForm.Submit)
		}
		a.pushKYBSection(section)
		if err := a.ctrl.KYBForm.NextSection(); err != nil {
			a.statusMsg = err.Error()
			return a, nil
		}
		a.statusMsg = ""
		a.enterStep()
		return a, nil
	case "esc":
		a.ctrl.KYBForm.PrevSection()
		a.enterStep()
		return a, nil
	case "ctrl+r":
		// Apply count edits so the ownership rows regrow.
		a.pushKYBSection(section)
		a.enterStep()
		return a, nil
	case "ctrl+u":
		if section == kybform.SectionCompany && !a.uploading {
			return a, a.uploadCmd(a.fieldValue(companyDocPathRow))
		}
		return a, nil
	case "tab", "down":
		a.moveFieldFocus(1)
		return a, nil
	case "shift+tab", "up":
		a.moveFieldFocus(-1)
		return a, nil
	case " ":
		if a.toggleKYBCheckbox(section) {
			return a, nil
		}
	}
	return a, a.updateFocusedField(msg)
}

// uploadCmd streams a local file to the document service.
func (a *App) uploadCmd(path string) tea.Cmd {
	a.uploading = true
	return func() tea.Msg {
		path = strings.TrimSpace(path)
		if path == "" {
			return uploadMsg{err: fmt.Errorf("enter the document path first")}
		}
		file, err := os.Open(path)
		if err != nil {
			return uploadMsg{err: fmt.Errorf("open %s: %w", path, err)}
		}
		defer file.Close()
		return uploadMsg{err: a.ctrl.KYBForm.Upload(context.Background(), filepath.Base(path), file)}
	}
}

// toggleKYBCheckbox flips the boolean the focused row represents.
func (a *App) toggleKYBCheckbox(section kybform.Section) bool {
	form := a.ctrl.KYBForm.Form()
	switch section {
	case kybform.SectionAcknowledgments:
		ack := form.Acknowledgments
		switch a.fieldFocus {
		case 0:
			ack.HasTransakAccount = !ack.HasTransakAccount
		case 1:
			ack.UnderstandsBusinessForm = !ack.UnderstandsBusinessForm
		case 2:
			ack.NoICOConfirmation = !ack.NoICOConfirmation
		default:
			return false
		}
		a.ctrl.KYBForm.SetAcknowledgments(ack)
		return true
	case kybform.SectionFurtherQuestions:
		q := form.FurtherQuestions
		switch a.fieldFocus {
		case 0:
			q.LegalIssues = !q.LegalIssues
		case 1:
			q.PoliticalExposure = !q.PoliticalExposure
		case 2:
			q.ProhibitedActivities = !q.ProhibitedActivities
		default:
			return false
		}
		a.ctrl.KYBForm.SetFurtherQuestions(q)
		return true
	}
	return false
}

// companyDocPathRow is the index of the upload path row in the company
// section's field layout.
const companyDocPathRow = 18

// pushKYBSection maps the field inputs back onto the form draft before a
// section transition validates it.
func (a *App) pushKYBSection(section kybform.Section) {
	values := make([]string, len(a.fieldInputs))
	for i := range a.fieldInputs {
		values[i] = a.fieldInputs[i].Value()
	}
	switch section {
	case kybform.SectionCompany:
		a.ctrl.KYBForm.SetContactInfo(kyb.ContactInfo{
			FirstName:   a.fieldValue(0),
			LastName:    a.fieldValue(1),
			Email:       a.fieldValue(2),
			PhoneNumber: a.fieldValue(3),
			Telegram:    a.fieldValue(4),
		})
		a.ctrl.KYBForm.SetBusinessDetails(kyb.BusinessDetails{
			CompanyName:                  a.fieldValue(5),
			LegalEntityName:              a.fieldValue(6),
			TradingDBAName:               a.fieldValue(7),
			LegalEntityType:              a.fieldValue(8),
			RegistrationNumber:           a.fieldValue(9),
			CompanyRegistryLink:          a.fieldValue(10),
			RegisteredAddress:            a.fieldValue(11),
			Website:                      a.fieldValue(12),
			IsWebsiteLive:                isYes(a.fieldValue(13)),
			EstablishmentDate:            a.fieldValue(14),
			CountryOfRegistration:        a.fieldValue(15),
			BusinessCategory:             a.fieldValue(16),
			ProjectedMonthlyTransactions: a.fieldValue(17),
		})
	case kybform.SectionAccount:
		a.ctrl.KYBForm.SetTransakAccount(kyb.TransakAccount{
			BusinessDescription: a.fieldValue(0),
			PurposeOfAccount:    a.fieldValue(1),
			RevenueGeneration:   a.fieldValue(2),
			TakeCustodyOfFunds:  isYes(a.fieldValue(3)),
			DomainWhitelisting:  a.fieldValue(4),
		})
	case kybform.SectionCompliance:
		a.ctrl.KYBForm.SetFCARules(kyb.FCARules{AllowUKUsers: isYes(a.fieldValue(0))})
		a.ctrl.KYBForm.SetTravelRule(kyb.TravelRule{
			RequiredToComply:     a.fieldValue(1),
			ComplianceReason:     a.fieldValue(2),
			ServiceType:          a.fieldValue(3),
			WalletAddressControl: a.fieldValue(4),
		})
	case kybform.SectionOwnership:
		a.pushOwnershipSection(values)
	}
}

// pushOwnershipSection decodes the flat input rows into the three
// people lists. The row layout mirrors buildOwnershipRows: one count
// row per list followed by that list's per-person rows.
func (a *App) pushOwnershipSection(values []string) {
	form := a.ctrl.KYBForm.Form()
	idx := 0
	next := func() string {
		if idx >= len(values) {
			return ""
		}
		v := values[idx]
		idx++
		return v
	}

	a.ctrl.KYBForm.SetDirectorCount(atoiOr(next(), form.Directors.NumberOfDirectors))
	for i := range a.ctrl.KYBForm.Form().Directors.DirectorsList {
		_ = a.ctrl.KYBForm.SetDirector(i, kyb.Director{FullName: next(), Position: next()})
	}
	a.ctrl.KYBForm.SetOwnerCount(atoiOr(next(), form.BeneficialOwners.NumberOfOwners))
	for i := range a.ctrl.KYBForm.Form().BeneficialOwners.OwnersList {
		_ = a.ctrl.KYBForm.SetOwner(i, kyb.BeneficialOwner{FullName: next(), OwnershipPercentage: floatOr(next(), 25)})
	}
	a.ctrl.KYBForm.SetSignatoryCount(atoiOr(next(), form.AuthorizedSignatories.NumberOfSignatories))
	for i := range a.ctrl.KYBForm.Form().AuthorizedSignatories.SignatoriesList {
		_ = a.ctrl.KYBForm.SetSignatory(i, kyb.AuthorizedSignatory{FullName: next(), Position: next(), Email: next()})
	}
}

// moveFieldFocus shifts focus across the active rows. Checkbox rows
// carry no text input, so focus ranges over labels, not inputs.
func (a *App) moveFieldFocus(delta int) {
	rows := a.rowCount()
	if rows == 0 {
		return
	}
	if a.fieldFocus < len(a.fieldInputs) {
		a.fieldInputs[a.fieldFocus].Blur()
	}
	a.fieldFocus = (a.fieldFocus + delta + rows) % rows
	if a.fieldFocus < len(a.fieldInputs) {
		a.fieldInputs[a.fieldFocus].Focus()
	}
}

func (a *App) rowCount() int {
	if a.checkboxes > 0 {
		return a.checkboxes
	}
	return len(a.fieldInputs)
}

func (a *App) updateFocusedField(msg tea.KeyMsg) tea.Cmd {
	if a.fieldFocus >= len(a.fieldInputs) {
		return nil
	}
	var cmd tea.Cmd
	a.fieldInputs[a.fieldFocus], cmd = a.fieldInputs[a.fieldFocus].Update(msg)
	return cmd
}

func (a *App) fieldValue(i int) string {
	if i < len(a.fieldInputs) {
		return a.fieldInputs[i].Value()
	}
	return ""
}

func isYes(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "yes")
}

func atoiOr(raw string, fallback int) int {
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%d", &n); err != nil {
		return fallback
	}
	return n
}

func floatOr(raw string, fallback float64) float64 {
	var f float64
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%g", &f); err != nil {
		return fallback
	}
	return f
}
