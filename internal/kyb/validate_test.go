package kyb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() Document {
	return Document{
		UserID:        "user-1",
		UserEmail:     "user@example.com",
		PartnerUserID: "partner-1",
		Acknowledgments: Acknowledgments{
			HasTransakAccount:       true,
			UnderstandsBusinessForm: true,
			NoICOConfirmation:       true,
		},
		CompanyInfo: CompanyInfo{
			ContactInfo: ContactInfo{
				FirstName:   "Ada",
				LastName:    "Lovelace",
				Email:       "ada@example.com",
				PhoneNumber: "+44 700",
			},
			BusinessDetails: BusinessDetails{
				CompanyName:                  "Example Ltd",
				LegalEntityName:              "Example Holdings Ltd",
				LegalEntityType:              "LLC",
				RegistrationNumber:           "12345678",
				IncorporationDocument:        "/uploads/doc.pdf",
				CompanyRegistryLink:          "https://registry.example/12345678",
				RegisteredAddress:            "1 Main St, London",
				Website:                      "https://example.com",
				IsWebsiteLive:                true,
				EstablishmentDate:            "2019-05-01",
				CountryOfRegistration:        "GB",
				BusinessCategory:             "Technology/Software",
				ProjectedMonthlyTransactions: "$10,000 - $50,000",
			},
		},
		TransakAccount: TransakAccount{
			BusinessDescription: "Crypto onramp widget",
			PurposeOfAccount:    "Customer purchases",
			RevenueGeneration:   "Service fees",
			DomainWhitelisting:  "example.com",
		},
		TravelRule: TravelRule{
			RequiredToComply:     "Yes",
			ServiceType:          "Non-custodial",
			WalletAddressControl: "User specifies",
		},
		Directors: Directors{
			NumberOfDirectors: 1,
			DirectorsList:     []Director{{FullName: "Ada Lovelace", Position: "Director"}},
		},
		BeneficialOwners: BeneficialOwners{
			NumberOfOwners: 1,
			OwnersList:     []BeneficialOwner{{FullName: "Ada Lovelace", OwnershipPercentage: 100}},
		},
		AuthorizedSignatories: AuthorizedSignatories{
			NumberOfSignatories: 1,
			SignatoriesList:     []AuthorizedSignatory{{FullName: "Ada Lovelace", Position: "CEO", Email: "ada@example.com"}},
		},
	}
}

func TestValidDocumentPasses(t *testing.T) {
	doc := validDocument()
	require.NoError(t, doc.Validate())
}

func TestOwnershipBounds(t *testing.T) {
	for _, pct := range []float64{24.9, 0, 101} {
		owners := BeneficialOwners{
			NumberOfOwners: 1,
			OwnersList:     []BeneficialOwner{{FullName: "X", OwnershipPercentage: pct}},
		}
		assert.Error(t, ValidateOwners(owners), "stake %v accepted", pct)
	}
	for _, pct := range []float64{25, 50, 100} {
		owners := BeneficialOwners{
			NumberOfOwners: 1,
			OwnersList:     []BeneficialOwner{{FullName: "X", OwnershipPercentage: pct}},
		}
		assert.NoError(t, ValidateOwners(owners), "stake %v rejected", pct)
	}
}

func TestZeroOwnersIsAllowed(t *testing.T) {
	assert.NoError(t, ValidateOwners(BeneficialOwners{}))
}

func TestDirectorsAndSignatoriesRequireOne(t *testing.T) {
	assert.Error(t, ValidateDirectors(Directors{}))
	assert.Error(t, ValidateSignatories(AuthorizedSignatories{}))
}

func TestCountMismatchRejected(t *testing.T) {
	directors := Directors{
		NumberOfDirectors: 2,
		DirectorsList:     []Director{{FullName: "One", Position: "Director"}},
	}
	assert.Error(t, ValidateDirectors(directors))
}

func TestAcknowledgmentsAllRequired(t *testing.T) {
	base := Acknowledgments{HasTransakAccount: true, UnderstandsBusinessForm: true, NoICOConfirmation: true}
	require.NoError(t, ValidateAcknowledgments(base))

	for i := 0; i < 3; i++ {
		a := base
		switch i {
		case 0:
			a.HasTransakAccount = false
		case 1:
			a.UnderstandsBusinessForm = false
		case 2:
			a.NoICOConfirmation = false
		}
		assert.Error(t, ValidateAcknowledgments(a))
	}
}

func TestUnknownEnumValuesRejected(t *testing.T) {
	doc := validDocument()
	doc.CompanyInfo.BusinessDetails.LegalEntityType = "Co-op"
	assert.Error(t, doc.Validate())

	doc = validDocument()
	doc.TravelRule.ServiceType = "Hybrid"
	assert.Error(t, doc.Validate())
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusDraft.CanTransition(StatusSubmitted))
	assert.False(t, StatusDraft.CanTransition(StatusApproved))
	assert.True(t, StatusUnderReview.CanTransition(StatusRejected))
	assert.False(t, StatusApproved.CanTransition(StatusDraft))

	_, err := ParseStatus("Pending")
	assert.Error(t, err)
	parsed, err := ParseStatus("Under Review")
	require.NoError(t, err)
	assert.Equal(t, StatusUnderReview, parsed)
}
