// internal/kyb/document.go
//
// Document is the business-verification record exchanged with the kybd
// service. The nesting and json names are the wire contract; every section
// maps to one screen of the business form.

package kyb

import "time"

// Director is one registered director or senior manager.
type Director struct {
	FullName string `json:"fullName"`
	Position string `json:"position"`
}

// BeneficialOwner is one ultimate owner holding 25% or more.
type BeneficialOwner struct {
	FullName            string  `json:"fullName"`
	OwnershipPercentage float64 `json:"ownershipPercentage"`
}

// AuthorizedSignatory is one person empowered to sign for the business.
type AuthorizedSignatory struct {
	FullName string `json:"fullName"`
	Position string `json:"position"`
	Email    string `json:"email"`
}

// Acknowledgments are the up-front confirmations.
type Acknowledgments struct {
	HasTransakAccount       bool `json:"hasTransakAccount"`
	UnderstandsBusinessForm bool `json:"understandsBusinessForm"`
	NoICOConfirmation       bool `json:"noICOConfirmation"`
}

// ContactInfo identifies the person completing the form.
type ContactInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Telegram    string `json:"telegram,omitempty"`
}

// BusinessDetails describes the legal entity.
type BusinessDetails struct {
	CompanyName                  string `json:"companyName"`
	LegalEntityName              string `json:"legalEntityName"`
	TradingDBAName               string `json:"tradingDBAName,omitempty"`
	LegalEntityType              string `json:"legalEntityType"`
	RegistrationNumber           string `json:"registrationNumber"`
	IncorporationDocument        string `json:"incorporationDocument"`
	CompanyRegistryLink          string `json:"companyRegistryLink"`
	RegisteredAddress            string `json:"registeredAddress"`
	Website                      string `json:"website"`
	IsWebsiteLive                bool   `json:"isWebsiteLive"`
	EstablishmentDate            string `json:"establishmentDate"`
	CountryOfRegistration        string `json:"countryOfRegistration"`
	BusinessOutsideCountry       bool   `json:"businessOutsideCountry"`
	BusinessCategory             string `json:"businessCategory"`
	ProjectedMonthlyTransactions string `json:"projectedMonthlyTransactions"`
}

// CompanyInfo groups the contact and entity sections.
type CompanyInfo struct {
	ContactInfo     ContactInfo     `json:"contactInfo"`
	BusinessDetails BusinessDetails `json:"businessDetails"`
}

// TransakAccount describes how the account will be used.
type TransakAccount struct {
	BusinessDescription string `json:"businessDescription"`
	PurposeOfAccount    string `json:"purposeOfAccount"`
	RevenueGeneration   string `json:"revenueGeneration"`
	TakeCustodyOfFunds  bool   `json:"takeCustodyOfFunds"`
	DomainWhitelisting  string `json:"domainWhitelisting"`
}

// FCARules holds the UK financial-promotions answer.
type FCARules struct {
	AllowUKUsers bool `json:"allowUKUsers"`
}

// TravelRule holds the travel-rule compliance answers.
type TravelRule struct {
	RequiredToComply     string `json:"requiredToComply"`
	ComplianceReason     string `json:"complianceReason,omitempty"`
	ServiceType          string `json:"serviceType"`
	WalletAddressControl string `json:"walletAddressControl"`
}

// Directors groups the declared count with the per-director entries.
type Directors struct {
	NumberOfDirectors int        `json:"numberOfDirectors"`
	DirectorsList     []Director `json:"directorsList"`
}

// BeneficialOwners groups the declared count with the per-owner entries.
type BeneficialOwners struct {
	NumberOfOwners int               `json:"numberOfOwners"`
	OwnersList     []BeneficialOwner `json:"ownersList"`
}

// AuthorizedSignatories groups the declared count with the entries.
type AuthorizedSignatories struct {
	NumberOfSignatories int                   `json:"numberOfSignatories"`
	SignatoriesList     []AuthorizedSignatory `json:"signatoriesList"`
}

// FurtherQuestions are the closing compliance declarations.
type FurtherQuestions struct {
	LegalIssues          bool `json:"legalIssues"`
	PoliticalExposure    bool `json:"politicalExposure"`
	ProhibitedActivities bool `json:"prohibitedActivities"`
}

// SubmissionInfo records the review lifecycle and submission provenance.
type SubmissionInfo struct {
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	IPAddress   string     `json:"ipAddress,omitempty"`
	UserAgent   string     `json:"userAgent,omitempty"`
	Status      Status     `json:"status"`
	ReviewNotes string     `json:"reviewNotes,omitempty"`
}

// Document is one business-verification record, keyed by user id.
type Document struct {
	UserID        string `json:"userId"`
	UserEmail     string `json:"userEmail"`
	PartnerUserID string `json:"partnerUserId"`

	Acknowledgments       Acknowledgments       `json:"acknowledgments"`
	CompanyInfo           CompanyInfo           `json:"companyInfo"`
	TransakAccount        TransakAccount        `json:"transakAccount"`
	FCARules              FCARules              `json:"fcaRules"`
	TravelRule            TravelRule            `json:"travelRule"`
	Directors             Directors             `json:"directors"`
	BeneficialOwners      BeneficialOwners      `json:"beneficialOwners"`
	AuthorizedSignatories AuthorizedSignatories `json:"authorizedSignatories"`
	FurtherQuestions      FurtherQuestions      `json:"furtherQuestions"`
	SubmissionInfo        SubmissionInfo        `json:"submissionInfo"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// LegalEntityTypes returns the accepted entity types in display order.
func LegalEntityTypes() []string {
	return []string{"LLC", "Corporation", "Partnership", "Sole Proprietorship", "Other"}
}

// BusinessCategories returns the accepted categories in display order.
func BusinessCategories() []string {
	return []string{"Financial Services", "Technology/Software", "E-commerce", "Gaming", "Trading/Investment", "Other"}
}

// TransactionBands returns the projected-volume answers in display order.
func TransactionBands() []string {
	return []string{"Less than $10,000", "$10,000 - $50,000", "$50,000 - $100,000", "$100,000 - $500,000", "More than $500,000"}
}

// DirectorPositions returns the accepted director positions.
func DirectorPositions() []string {
	return []string{"Director", "Senior Manager"}
}
