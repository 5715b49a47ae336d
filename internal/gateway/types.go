// internal/gateway/types.go
//
// Request and response shapes for the external compliance/quote API. Only
// the fields the wizard reads are modeled; everything else passes through
// untouched.

package gateway

// LoginResult is returned by the OTP-send endpoint.
type LoginResult struct {
	StateToken string `json:"stateToken"`
	Email      string `json:"email"`
	ExpiresIn  int    `json:"expiresIn"`
}

// VerifyRequest carries the OTP verification payload.
type VerifyRequest struct {
	Email      string `json:"email"`
	OTP        string `json:"otp"`
	StateToken string `json:"stateToken"`
}

// PersonalPayload mirrors the personal-details portion of the KYC user patch.
type PersonalPayload struct {
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	DateOfBirth  *string `json:"dob,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
}

// AddressPayload mirrors the address portion of the KYC user patch.
type AddressPayload struct {
	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostCode     *string `json:"postCode,omitempty"`
	CountryCode  *string `json:"countryCode,omitempty"`
}

// KYCUserPatch bundles the optional sections of a PATCH kyc/user call.
// Nil sections are omitted from the wire payload.
type KYCUserPatch struct {
	PersonalDetails *PersonalPayload `json:"personalDetails,omitempty"`
	AddressDetails  *AddressPayload  `json:"addressDetails,omitempty"`
}

// FormMetadata carries provider-specific details for a required KYC form.
type FormMetadata struct {
	KYCURL string `json:"kycUrl"`
}

// RequiredForm is one entry of a requirements response.
type RequiredForm struct {
	Type     string       `json:"type"`
	Metadata FormMetadata `json:"metadata"`
}

// Requirements is the shape of both the requirement and the
// additional-requirements endpoints.
type Requirements struct {
	FormsRequired []RequiredForm `json:"formsRequired"`
}

// KYCURL returns the first embedded verification URL, or empty when the
// provider returned none.
func (r *Requirements) KYCURL() string {
	if r == nil || len(r.FormsRequired) == 0 {
		return ""
	}
	return r.FormsRequired[0].Metadata.KYCURL
}

// CurrencyImage carries the rendered icon variants for a currency.
type CurrencyImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// CryptoCurrency is one entry of the crypto lookup endpoint.
type CryptoCurrency struct {
	Symbol   string        `json:"symbol"`
	Name     string        `json:"name"`
	Network  NetworkInfo   `json:"network"`
	Image    CurrencyImage `json:"image"`
	UniqueID string        `json:"uniqueId"`
}

// NetworkInfo names the chain a crypto currency settles on.
type NetworkInfo struct {
	Name string `json:"name"`
}

// PaymentOption is one supported payment method for a fiat currency.
type PaymentOption struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	MinAmount float64 `json:"minAmount"`
	MaxAmount float64 `json:"maxAmount"`
}

// FiatCurrency is one entry of the fiat lookup endpoint.
type FiatCurrency struct {
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	PaymentOptions []PaymentOption `json:"paymentOptions"`
}

// QuoteParams are the query parameters of a quote fetch.
type QuoteParams struct {
	FiatCurrency   string
	CryptoCurrency string
	IsBuyOrSell    string
	Network        string
	PaymentMethod  string
	FiatAmount     float64
}

// FeeItem is one line of a quote's fee breakdown.
type FeeItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Quote is the priced conversion returned by the quotes endpoint.
type Quote struct {
	QuoteID         string    `json:"quoteId"`
	ConversionPrice float64   `json:"conversionPrice"`
	CryptoAmount    float64   `json:"cryptoAmount"`
	FiatAmount      float64   `json:"fiatAmount"`
	FiatCurrency    string    `json:"fiatCurrency"`
	CryptoCurrency  string    `json:"cryptoCurrency"`
	PaymentMethod   string    `json:"paymentMethod"`
	FeeBreakdown    []FeeItem `json:"feeBreakdown"`
	TotalFee        float64   `json:"totalFee"`
}
