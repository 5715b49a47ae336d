package session

// reduce applies one action to the state and returns the result. It is a
// pure function: deterministic given (state, action), no IO, no clock.
func reduce(s State, action Action) State {
	switch a := action.(type) {
	case SetQuoteParams:
		s.Quote.FiatAmount = a.FiatAmount
		s.Quote.FiatCurrency = a.FiatCurrency
		s.Quote.CryptoCurrency = a.CryptoCurrency
		s.Quote.Network = a.Network
		s.Quote.PaymentMethod = a.PaymentMethod
		s.Quote.Result = nil
		s.Quote.Loading = false
		s.Quote.Err = ""
	case QuoteLoading:
		s.Quote.Loading = true
		s.Quote.Err = ""
	case QuoteResolved:
		s.Quote.Result = a.Result
		s.Quote.Loading = false
		s.Quote.Err = ""
	case QuoteFailed:
		s.Quote.Result = nil
		s.Quote.Loading = false
		s.Quote.Err = a.Message
	case SetWallet:
		s.Wallet.Address = a.Address
		s.Wallet.ValidationResult = a.ValidationResult
		s.Wallet.Valid = true
	case SetEmail:
		s.Email.Email = a.Email
		s.Email.StateToken = a.StateToken
		s.Email.ExpiresIn = a.ExpiresIn
		s.Email.Verified = false
	case MarkEmailVerified:
		s.Email.Verified = true
	case SetAuthToken:
		s.OTP.AuthToken = a.Token
		if a.RefreshToken != "" {
			s.OTP.RefreshToken = a.RefreshToken
		}
		s.OTP.Verified = true
	case ClearAuthToken:
		s.OTP = OTPSlice{}
	case IncrementOTPAttempts:
		s.OTP.Attempts++
	case SetUserDetails:
		s.UserDetails = a.Profile
	case SetPersonalDetails:
		s.PersonalDetails = PersonalSlice{
			FirstName:    a.FirstName,
			LastName:     a.LastName,
			DateOfBirth:  a.DateOfBirth,
			MobileNumber: a.MobileNumber,
			Completed:    true,
		}
	case SetAddress:
		s.Address = AddressSlice{
			Line1:       a.Line1,
			Line2:       a.Line2,
			City:        a.City,
			State:       a.State,
			PostalCode:  a.PostalCode,
			Country:     a.Country,
			ManualEntry: a.ManualEntry,
			Completed:   true,
		}
	case SetPurpose:
		s.Purpose = PurposeSlice{ID: a.ID, Title: a.Title, Completed: true}
	case SetIDProof:
		s.IDProof = IDProofSlice{
			VerificationComplete: true,
			Timestamp:            a.Timestamp,
			Completed:            true,
		}
	case MarkPersonalSynced:
		s.KYCProcess.PersonalSubmitted = true
	case MarkAddressSynced:
		s.KYCProcess.AddressSubmitted = true
	case MarkPurposeSynced:
		s.KYCProcess.PurposeSubmitted = true
	case SetRequirements:
		s.KYCProcess = invalidateForQuote(s.KYCProcess, a.QuoteID)
		s.KYCProcess.Requirements = a.Requirements
		s.KYCProcess.RequirementsFetched = true
	case SetAdditionalRequirements:
		s.KYCProcess = invalidateForQuote(s.KYCProcess, a.QuoteID)
		s.KYCProcess.AdditionalRequirements = a.Requirements
		s.KYCProcess.AdditionalFetched = true
		s.KYCProcess.KYCURL = a.Requirements.KYCURL()
	case CompleteStep:
		if !s.Progress.Contains(a.Step) {
			s.Progress.CompletedSteps = append(s.Progress.CompletedSteps, a.Step)
		}
	case SetCurrentStep:
		s.CurrentStep = a.Step
	}
	return s
}

// invalidateForQuote drops both requirement caches when the quote id
// changes. Each cache is valid for exactly one quote.
func invalidateForQuote(kyc KYCProcessSlice, quoteID string) KYCProcessSlice {
	if kyc.QuoteID != quoteID {
		kyc.Requirements = nil
		kyc.RequirementsFetched = false
		kyc.AdditionalRequirements = nil
		kyc.AdditionalFetched = false
		kyc.KYCURL = ""
		kyc.QuoteID = quoteID
	}
	return kyc
}
