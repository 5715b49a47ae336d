// internal/tui/wizard_view.go
//
// Rendering for every wizard screen plus the per-step field layouts.
// rebuildFields is the single place that decides which rows a screen
// shows; pushKYBSection in app.go must stay in step with the layouts
// built here.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/steps/kybform"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	logStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Bold(true)
)

func newField(label, value, placeholder string) (textinput.Model, string) {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 160
	in.SetValue(value)
	return in, label
}

// rebuildFields prepares the row layout for the active screen.
func (a *App) rebuildFields() {
	a.fieldInputs = nil
	a.fieldLabels = nil
	a.checkboxes = 0

	state := a.store.State()
	switch state.CurrentStep {
	case flow.StepWallet:
		a.addField(newField("Wallet address", state.Wallet.Address, "0x..."))
	case flow.StepEmail:
		a.addField(newField("Email", state.Email.Email, "you@example.com"))
	case flow.StepPersonalDetails:
		a.addField(newField("First name", a.ctrl.Personal.FirstName(), "Ada"))
		a.addField(newField("Last name", a.ctrl.Personal.LastName(), "Lovelace"))
		a.addField(newField("Day of birth", "", "DD"))
		a.addField(newField("Month of birth", "", "MM"))
		a.addField(newField("Year of birth", "", "YYYY"))
		a.addField(newField("Mobile number", a.ctrl.Personal.MobileNumber(), "+44..."))
	case flow.StepAddress:
		if a.manualAddress {
			a.addField(newField("Address line 1", state.Address.Line1, ""))
			a.addField(newField("Address line 2", state.Address.Line2, "optional"))
			a.addField(newField("City", state.Address.City, ""))
			a.addField(newField("State / region", state.Address.State, ""))
			a.addField(newField("Postal code", state.Address.PostalCode, ""))
			a.addField(newField("Country", state.Address.Country, "GB"))
		} else {
			a.addField(newField("Search address", "", "line 1, city, state, postcode, country"))
		}
	case flow.StepKYBForm:
		a.buildKYBFields()
	}
	if len(a.fieldInputs) > 0 {
		a.fieldFocus = 0
		a.fieldInputs[0].Focus()
	}
}

func (a *App) addField(in textinput.Model, label string) {
	a.fieldInputs = append(a.fieldInputs, in)
	a.fieldLabels = append(a.fieldLabels, label)
}

func (a *App) buildKYBFields() {
	form := a.ctrl.KYBForm.Form()
	switch a.ctrl.KYBForm.Section() {
	case kybform.SectionAcknowledgments:
		a.checkboxes = 3
		a.fieldLabels = []string{
			"I have a Transak partner account",
			"I understand this form verifies a business",
			"The business has not run an ICO",
		}
	case kybform.SectionCompany:
		contact := form.CompanyInfo.ContactInfo
		business := form.CompanyInfo.BusinessDetails
		a.addField(newField("Contact first name", contact.FirstName, ""))
		a.addField(newField("Contact last name", contact.LastName, ""))
		a.addField(newField("Contact email", contact.Email, ""))
		a.addField(newField("Contact phone", contact.PhoneNumber, ""))
		a.addField(newField("Telegram", contact.Telegram, "optional"))
		a.addField(newField("Company name", business.CompanyName, ""))
		a.addField(newField("Legal entity name", business.LegalEntityName, ""))
		a.addField(newField("Trading / DBA name", business.TradingDBAName, "optional"))
		a.addField(newField("Legal entity type", business.LegalEntityType, "LLC"))
		a.addField(newField("Registration number", business.RegistrationNumber, ""))
		a.addField(newField("Company registry link", business.CompanyRegistryLink, ""))
		a.addField(newField("Registered address", business.RegisteredAddress, ""))
		a.addField(newField("Website", business.Website, ""))
		a.addField(newField("Website live", yesNo(business.IsWebsiteLive), "yes/no"))
		a.addField(newField("Establishment date", business.EstablishmentDate, "YYYY-MM-DD"))
		a.addField(newField("Country of registration", business.CountryOfRegistration, ""))
		a.addField(newField("Business category", business.BusinessCategory, "Technology/Software"))
		a.addField(newField("Projected monthly volume", business.ProjectedMonthlyTransactions, "$10,000 - $50,000"))
		a.addField(newField("Incorporation document path", "", "/path/to/incorporation.pdf"))
	case kybform.SectionAccount:
		account := form.TransakAccount
		a.addField(newField("Business description", account.BusinessDescription, ""))
		a.addField(newField("Purpose of account", account.PurposeOfAccount, ""))
		a.addField(newField("Revenue generation", account.RevenueGeneration, ""))
		a.addField(newField("Take custody of funds", yesNo(account.TakeCustodyOfFunds), "yes/no"))
		a.addField(newField("Domains to whitelist", account.DomainWhitelisting, ""))
	case kybform.SectionCompliance:
		a.addField(newField("Allow UK users", yesNo(form.FCARules.AllowUKUsers), "yes/no"))
		a.addField(newField("Required to comply with travel rule", form.TravelRule.RequiredToComply, "yes/no/unsure"))
		a.addField(newField("Compliance reason", form.TravelRule.ComplianceReason, "optional"))
		a.addField(newField("Service type", form.TravelRule.ServiceType, ""))
		a.addField(newField("Wallet address control", form.TravelRule.WalletAddressControl, ""))
	case kybform.SectionOwnership:
		a.buildOwnershipRows()
	case kybform.SectionFurtherQuestions:
		a.checkboxes = 3
		a.fieldLabels = []string{
			"Past or pending legal issues",
			"Politically exposed persons involved",
			"Activity in prohibited categories",
		}
	}
}

// buildOwnershipRows lays out the three people lists as flat rows. The
// decoder in pushOwnershipSection consumes rows in this exact order.
func (a *App) buildOwnershipRows() {
	form := a.ctrl.KYBForm.Form()

	a.addField(newField("Number of directors", fmt.Sprintf("%d", form.Directors.NumberOfDirectors), "1"))
	for i, d := range form.Directors.DirectorsList {
		a.addField(newField(fmt.Sprintf("Director %d full name", i+1), d.FullName, ""))
		a.addField(newField(fmt.Sprintf("Director %d position", i+1), d.Position, "Director"))
	}
	a.addField(newField("Number of beneficial owners", fmt.Sprintf("%d", form.BeneficialOwners.NumberOfOwners), "0"))
	for i, o := range form.BeneficialOwners.OwnersList {
		a.addField(newField(fmt.Sprintf("Owner %d full name", i+1), o.FullName, ""))
		a.addField(newField(fmt.Sprintf("Owner %d ownership %%", i+1), fmt.Sprintf("%g", o.OwnershipPercentage), "25"))
	}
	a.addField(newField("Number of authorized signatories", fmt.Sprintf("%d", form.AuthorizedSignatories.NumberOfSignatories), "1"))
	for i, s := range form.AuthorizedSignatories.SignatoriesList {
		a.addField(newField(fmt.Sprintf("Signatory %d full name", i+1), s.FullName, ""))
		a.addField(newField(fmt.Sprintf("Signatory %d position", i+1), s.Position, ""))
		a.addField(newField(fmt.Sprintf("Signatory %d email", i+1), s.Email, ""))
	}
}

// View renders the whole screen.
func (a *App) View() string {
	state := a.store.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Buy Crypto"))
	b.WriteString("  ")
	b.WriteString(a.renderProgress(state))
	b.WriteString("\n")
	b.WriteString(selectedStyle.Render(state.CurrentStep.FriendlyName()))
	b.WriteString("\n\n")

	switch state.CurrentStep {
	case flow.StepQuote:
		b.WriteString(a.viewQuote(state))
	case flow.StepWallet, flow.StepEmail, flow.StepPersonalDetails, flow.StepAddress:
		b.WriteString(a.viewFields())
	case flow.StepOTP:
		b.WriteString(a.viewOTP(state))
	case flow.StepPurpose:
		b.WriteString(a.purposeMenu.View())
	case flow.StepKYCIframe:
		b.WriteString(a.viewHandoff())
	case flow.StepKYBForm:
		b.WriteString(a.viewKYBForm())
	}

	b.WriteString("\n")
	if a.submitting {
		b.WriteString(a.spin.View())
		b.WriteString(" working...\n")
	}
	if a.statusMsg != "" {
		b.WriteString(errorStyle.Render(a.statusMsg))
		b.WriteString("\n")
	}
	if a.lastLog != "" {
		b.WriteString(logStyle.Render(a.lastLog))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(a.helpLine(state.CurrentStep)))
	return b.String()
}

// renderProgress shows one dot per wizard step.
func (a *App) renderProgress(state session.State) string {
	var b strings.Builder
	for _, s := range flow.Steps() {
		if state.Progress.Contains(s) {
			b.WriteString(doneStyle.Render("●"))
		} else if s == state.CurrentStep {
			b.WriteString(focusStyle.Render("●"))
		} else {
			b.WriteString(pendingStyle.Render("○"))
		}
		b.WriteString(" ")
	}
	return strings.TrimRight(b.String(), " ")
}

func (a *App) viewQuote(state session.State) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Amount (%s): %s\n", a.fiatChoices[a.fiatIdx], a.amountInput.View()))
	choice := a.cryptoChoices[a.cryptoIdx]
	b.WriteString(fmt.Sprintf("Buying: %s on %s\n", selectedStyle.Render(choice[0]), choice[1]))
	pay := a.paymentChoices[a.paymentIdx]
	b.WriteString(fmt.Sprintf("Pay with: %s %s\n",
		selectedStyle.Render(pay.label),
		pendingStyle.Render(fmt.Sprintf("(min %.0f %s)", pay.min, a.fiatChoices[a.fiatIdx]))))

	switch {
	case state.Quote.Loading:
		b.WriteString("\n" + a.spin.View() + " fetching quote...\n")
	case state.Quote.Err != "":
		b.WriteString("\n" + errorStyle.Render(state.Quote.Err) + "\n")
	case state.Quote.Result != nil:
		q := state.Quote.Result
		b.WriteString(fmt.Sprintf("\nYou receive %s %s\n", doneStyle.Render(fmt.Sprintf("%.6f", q.CryptoAmount)), q.CryptoCurrency))
		b.WriteString(fmt.Sprintf("1 %s = %.2f %s, fees %.2f %s\n", q.CryptoCurrency, q.ConversionPrice, q.FiatCurrency, q.TotalFee, q.FiatCurrency))
	}
	return b.String()
}

// viewFields renders a labelled input column with the focused row marked.
func (a *App) viewFields() string {
	var b strings.Builder
	for i := range a.fieldInputs {
		label := a.fieldLabels[i]
		if i == a.fieldFocus {
			b.WriteString(focusStyle.Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString(": ")
		b.WriteString(a.fieldInputs[i].View())
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) viewOTP(state session.State) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("We sent a code to %s\n\n", selectedStyle.Render(state.Email.Email)))

	digits := a.ctrl.OTP.Digits()
	focus := a.ctrl.OTP.Focus()
	for i, d := range digits {
		cell := d
		if cell == "" {
			cell = "_"
		}
		if i == focus {
			b.WriteString(focusStyle.Render("[" + cell + "]"))
		} else {
			b.WriteString("[" + cell + "]")
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	if a.ctrl.OTP.TermsAccepted() {
		b.WriteString(doneStyle.Render("[x]"))
	} else {
		b.WriteString("[ ]")
	}
	b.WriteString(" I agree to the terms of use (press t)\n")

	if a.ctrl.OTP.CanResend() {
		b.WriteString("Press r to re-send the code\n")
	} else {
		b.WriteString(pendingStyle.Render(fmt.Sprintf("Re-send available in %ds\n", int(a.ctrl.OTP.ResendWait().Seconds()))))
	}
	return b.String()
}

func (a *App) viewHandoff() string {
	var b strings.Builder
	if !a.ctrl.KYCHandoff.Ready() {
		b.WriteString(errorStyle.Render("Verification is not ready yet."))
		b.WriteString("\nRevisit the purpose step to retry, or press s to continue without it.\n")
		return b.String()
	}
	b.WriteString("Complete identity verification in your browser:\n\n")
	b.WriteString(selectedStyle.Render(a.ctrl.KYCHandoff.URL()))
	b.WriteString("\n\n")
	if a.ctrl.KYCHandoff.Opened() {
		b.WriteString(doneStyle.Render("Browser opened."))
		b.WriteString(" Press enter once you finish verification.\n")
	} else {
		b.WriteString("Press o to open it, then enter once you finish.\n")
	}
	return b.String()
}

func (a *App) viewKYBForm() string {
	section := a.ctrl.KYBForm.Section()
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Business verification: %s", section)))
	b.WriteString("\n\n")

	switch section {
	case kybform.SectionAcknowledgments:
		b.WriteString(a.viewCheckboxes(a.acknowledgmentChecks()))
	case kybform.SectionFurtherQuestions:
		b.WriteString(a.viewCheckboxes(a.furtherQuestionChecks()))
	case kybform.SectionReview:
		b.WriteString(a.viewReview())
	default:
		b.WriteString(a.viewFields())
	}
	return b.String()
}

func (a *App) acknowledgmentChecks() []bool {
	ack := a.ctrl.KYBForm.Form().Acknowledgments
	return []bool{ack.HasTransakAccount, ack.UnderstandsBusinessForm, ack.NoICOConfirmation}
}

func (a *App) furtherQuestionChecks() []bool {
	q := a.ctrl.KYBForm.Form().FurtherQuestions
	return []bool{q.LegalIssues, q.PoliticalExposure, q.ProhibitedActivities}
}

func (a *App) viewCheckboxes(checked []bool) string {
	var b strings.Builder
	for i, label := range a.fieldLabels {
		box := "[ ]"
		if i < len(checked) && checked[i] {
			box = doneStyle.Render("[x]")
		}
		if i == a.fieldFocus {
			b.WriteString(focusStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(box + " " + label + "\n")
	}
	return b.String()
}

func (a *App) viewReview() string {
	form := a.ctrl.KYBForm.Form()
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Company: %s (%s)\n", form.CompanyInfo.BusinessDetails.CompanyName, form.CompanyInfo.BusinessDetails.LegalEntityType))
	b.WriteString(fmt.Sprintf("Contact: %s %s <%s>\n", form.CompanyInfo.ContactInfo.FirstName, form.CompanyInfo.ContactInfo.LastName, form.CompanyInfo.ContactInfo.Email))
	b.WriteString(fmt.Sprintf("Directors: %d, owners: %d, signatories: %d\n",
		form.Directors.NumberOfDirectors,
		form.BeneficialOwners.NumberOfOwners,
		form.AuthorizedSignatories.NumberOfSignatories))
	if form.CompanyInfo.BusinessDetails.IncorporationDocument != "" {
		b.WriteString(doneStyle.Render("Incorporation document attached") + "\n")
	} else {
		b.WriteString(errorStyle.Render("Incorporation document missing") + "\n")
	}
	b.WriteString("\nPress enter to submit for review.\n")
	return b.String()
}

func (a *App) helpLine(current flow.Step) string {
	switch current {
	case flow.StepQuote:
		return "type amount · tab fiat · up/down crypto · left/right payment · enter continue · ctrl+c quit"
	case flow.StepOTP:
		return "type code · t terms · r re-send · backspace erase · ctrl+c quit"
	case flow.StepAddress:
		return "tab next field · ctrl+t toggle manual entry · enter continue · ctrl+c quit"
	case flow.StepKYCIframe:
		return "o open browser · enter done · s skip for now · ctrl+c quit"
	case flow.StepKYBForm:
		return "tab next field · space toggle · enter next section · esc back · ctrl+r refresh rows · ctrl+u upload · ctrl+c quit"
	default:
		return "tab next field · enter continue · ctrl+c quit"
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
