// internal/kyb/assembler.go
//
// Assembles the business document from what the wizard already knows and
// drives the two-call submission: create-or-replace, then the Draft to
// Submitted transition. Both calls must succeed for the form to count as
// submitted.

package kyb

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/onramp/internal/session"
)

// Submitter covers the two service calls the final submission makes. The
// Client satisfies it.
type Submitter interface {
	Create(ctx context.Context, doc *Document) (*Document, error)
	Submit(ctx context.Context, userID, ipAddress, userAgent string) error
}

// Build stamps identity and contact prefill from the session onto the
// form draft. The user id comes from the authenticated profile, falling
// back to the verified email.
func Build(state session.State, partnerUserID string, form Document) Document {
	form.UserID = userID(state)
	form.UserEmail = state.Email.Email
	form.PartnerUserID = partnerUserID
	form.SubmissionInfo.Status = StatusDraft

	contact := &form.CompanyInfo.ContactInfo
	if contact.FirstName == "" {
		contact.FirstName = state.PersonalDetails.FirstName
	}
	if contact.LastName == "" {
		contact.LastName = state.PersonalDetails.LastName
	}
	if contact.Email == "" {
		contact.Email = state.Email.Email
	}
	if contact.PhoneNumber == "" {
		contact.PhoneNumber = state.PersonalDetails.MobileNumber
	}
	return form
}

func userID(state session.State) string {
	for _, key := range []string{"id", "_id", "userId"} {
		if value, ok := state.UserDetails[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return state.Email.Email
}

// SubmitDraft validates the document, persists it, and transitions it to
// Submitted. A failure in either call leaves the form unsubmitted.
func SubmitDraft(ctx context.Context, svc Submitter, doc *Document, ipAddress, userAgent string) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("kyb: invalid document: %w", err)
	}
	saved, err := svc.Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("kyb: persist document: %w", err)
	}
	if err := svc.Submit(ctx, saved.UserID, ipAddress, userAgent); err != nil {
		return fmt.Errorf("kyb: submit document: %w", err)
	}
	return nil
}
