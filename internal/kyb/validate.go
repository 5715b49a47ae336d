// internal/kyb/validate.go
//
// Per-section validation for the business form. The kybd service only
// enforces its identifying keys; everything here is the client-side
// contract that gates section-to-section progress.

package kyb

import (
	"fmt"
	"strings"
)

func oneOf(value string, accepted []string) bool {
	for _, a := range accepted {
		if value == a {
			return true
		}
	}
	return false
}

// ValidateAcknowledgments requires every confirmation to be checked.
func ValidateAcknowledgments(a Acknowledgments) error {
	if !a.HasTransakAccount {
		return fmt.Errorf("confirm that you hold a Transak account")
	}
	if !a.UnderstandsBusinessForm {
		return fmt.Errorf("confirm that you understand this is a business form")
	}
	if !a.NoICOConfirmation {
		return fmt.Errorf("confirm the business is not conducting an ICO")
	}
	return nil
}

// ValidateContactInfo requires the contact identity fields.
func ValidateContactInfo(c ContactInfo) error {
	switch {
	case strings.TrimSpace(c.FirstName) == "":
		return fmt.Errorf("enter the contact first name")
	case strings.TrimSpace(c.LastName) == "":
		return fmt.Errorf("enter the contact last name")
	case strings.TrimSpace(c.Email) == "":
		return fmt.Errorf("enter the contact email")
	case strings.TrimSpace(c.PhoneNumber) == "":
		return fmt.Errorf("enter the contact phone number")
	}
	return nil
}

// ValidateBusinessDetails requires the legal-entity fields, including the
// uploaded incorporation document path.
func ValidateBusinessDetails(b BusinessDetails) error {
	switch {
	case strings.TrimSpace(b.CompanyName) == "":
		return fmt.Errorf("enter the company name")
	case strings.TrimSpace(b.LegalEntityName) == "":
		return fmt.Errorf("enter the legal entity name")
	case !oneOf(b.LegalEntityType, LegalEntityTypes()):
		return fmt.Errorf("select a legal entity type")
	case strings.TrimSpace(b.RegistrationNumber) == "":
		return fmt.Errorf("enter the registration number")
	case strings.TrimSpace(b.IncorporationDocument) == "":
		return fmt.Errorf("upload the incorporation document")
	case strings.TrimSpace(b.CompanyRegistryLink) == "":
		return fmt.Errorf("enter the company registry link")
	case strings.TrimSpace(b.RegisteredAddress) == "":
		return fmt.Errorf("enter the registered address")
	case strings.TrimSpace(b.Website) == "":
		return fmt.Errorf("enter the company website")
	case strings.TrimSpace(b.EstablishmentDate) == "":
		return fmt.Errorf("enter the establishment date")
	case strings.TrimSpace(b.CountryOfRegistration) == "":
		return fmt.Errorf("enter the country of registration")
	case !oneOf(b.BusinessCategory, BusinessCategories()):
		return fmt.Errorf("select a business category")
	case !oneOf(b.ProjectedMonthlyTransactions, TransactionBands()):
		return fmt.Errorf("select the projected monthly transaction volume")
	}
	return nil
}

// ValidateTransakAccount requires the account-usage answers.
func ValidateTransakAccount(a TransakAccount) error {
	switch {
	case strings.TrimSpace(a.BusinessDescription) == "":
		return fmt.Errorf("describe the business")
	case strings.TrimSpace(a.PurposeOfAccount) == "":
		return fmt.Errorf("describe the purpose of the account")
	case strings.TrimSpace(a.RevenueGeneration) == "":
		return fmt.Errorf("describe how the business generates revenue")
	case strings.TrimSpace(a.DomainWhitelisting) == "":
		return fmt.Errorf("list the domains to whitelist")
	}
	return nil
}

// ValidateTravelRule requires the compliance answers and their enums.
func ValidateTravelRule(t TravelRule) error {
	if !oneOf(t.RequiredToComply, []string{"Yes", "No", "Uncertain"}) {
		return fmt.Errorf("answer whether the business must comply with the travel rule")
	}
	if !oneOf(t.ServiceType, []string{"Custodial", "Non-custodial"}) {
		return fmt.Errorf("select the service type")
	}
	if !oneOf(t.WalletAddressControl, []string{"User specifies", "System assigns", "Both"}) {
		return fmt.Errorf("select how wallet addresses are controlled")
	}
	return nil
}

// ValidateDirectors requires at least one fully-named director with an
// accepted position.
func ValidateDirectors(d Directors) error {
	if d.NumberOfDirectors < 1 || len(d.DirectorsList) < 1 {
		return fmt.Errorf("declare at least one director")
	}
	if d.NumberOfDirectors != len(d.DirectorsList) {
		return fmt.Errorf("director count does not match the entries")
	}
	for i, dir := range d.DirectorsList {
		if strings.TrimSpace(dir.FullName) == "" {
			return fmt.Errorf("enter the full name of director %d", i+1)
		}
		if !oneOf(dir.Position, DirectorPositions()) {
			return fmt.Errorf("select the position of director %d", i+1)
		}
	}
	return nil
}

// ValidateOwners allows an empty list; every declared owner needs a name
// and a stake between 25 and 100 percent.
func ValidateOwners(o BeneficialOwners) error {
	if o.NumberOfOwners < 0 {
		return fmt.Errorf("the owner count cannot be negative")
	}
	if o.NumberOfOwners != len(o.OwnersList) {
		return fmt.Errorf("owner count does not match the entries")
	}
	for i, owner := range o.OwnersList {
		if strings.TrimSpace(owner.FullName) == "" {
			return fmt.Errorf("enter the full name of owner %d", i+1)
		}
		if owner.OwnershipPercentage < 25 || owner.OwnershipPercentage > 100 {
			return fmt.Errorf("owner %d must hold between 25%% and 100%%", i+1)
		}
	}
	return nil
}

// ValidateSignatories requires at least one complete signatory.
func ValidateSignatories(s AuthorizedSignatories) error {
	if s.NumberOfSignatories < 1 || len(s.SignatoriesList) < 1 {
		return fmt.Errorf("declare at least one authorized signatory")
	}
	if s.NumberOfSignatories != len(s.SignatoriesList) {
		return fmt.Errorf("signatory count does not match the entries")
	}
	for i, sig := range s.SignatoriesList {
		switch {
		case strings.TrimSpace(sig.FullName) == "":
			return fmt.Errorf("enter the full name of signatory %d", i+1)
		case strings.TrimSpace(sig.Position) == "":
			return fmt.Errorf("enter the position of signatory %d", i+1)
		case strings.TrimSpace(sig.Email) == "":
			return fmt.Errorf("enter the email of signatory %d", i+1)
		}
	}
	return nil
}

// Validate runs every section check in form order and returns the first
// failure.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.UserID) == "" {
		return fmt.Errorf("the document has no user id")
	}
	if strings.TrimSpace(d.PartnerUserID) == "" {
		return fmt.Errorf("the document has no partner user id")
	}
	checks := []error{
		ValidateAcknowledgments(d.Acknowledgments),
		ValidateContactInfo(d.CompanyInfo.ContactInfo),
		ValidateBusinessDetails(d.CompanyInfo.BusinessDetails),
		ValidateTransakAccount(d.TransakAccount),
		ValidateTravelRule(d.TravelRule),
		ValidateDirectors(d.Directors),
		ValidateOwners(d.BeneficialOwners),
		ValidateSignatories(d.AuthorizedSignatories),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
