package kyb

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/onramp/internal/session"
)

type fakeSubmitter struct {
	createErr error
	submitErr error

	created     *Document
	submitCalls int
	submittedID string
}

func (f *fakeSubmitter) Create(ctx context.Context, doc *Document) (*Document, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = doc
	return doc, nil
}

func (f *fakeSubmitter) Submit(ctx context.Context, userID, ipAddress, userAgent string) error {
	f.submitCalls++
	f.submittedID = userID
	return f.submitErr
}

func sessionState() session.State {
	state := session.NewState()
	state.Email.Email = "user@example.com"
	state.PersonalDetails.FirstName = "Ada"
	state.PersonalDetails.LastName = "Lovelace"
	state.PersonalDetails.MobileNumber = "+44 700"
	state.PersonalDetails.Completed = true
	state.UserDetails = map[string]any{"id": "user-77"}
	return state
}

func TestBuildStampsIdentityAndPrefill(t *testing.T) {
	doc := Build(sessionState(), "partner-1", Document{})

	assert.Equal(t, "user-77", doc.UserID)
	assert.Equal(t, "user@example.com", doc.UserEmail)
	assert.Equal(t, "partner-1", doc.PartnerUserID)
	assert.Equal(t, StatusDraft, doc.SubmissionInfo.Status)
	assert.Equal(t, "Ada", doc.CompanyInfo.ContactInfo.FirstName)
	assert.Equal(t, "+44 700", doc.CompanyInfo.ContactInfo.PhoneNumber)
}

func TestBuildKeepsTypedContactValues(t *testing.T) {
	form := Document{}
	form.CompanyInfo.ContactInfo.FirstName = "Grace"
	doc := Build(sessionState(), "partner-1", form)
	assert.Equal(t, "Grace", doc.CompanyInfo.ContactInfo.FirstName)
	assert.Equal(t, "Lovelace", doc.CompanyInfo.ContactInfo.LastName)
}

func TestBuildFallsBackToEmailForUserID(t *testing.T) {
	state := sessionState()
	state.UserDetails = nil
	doc := Build(state, "partner-1", Document{})
	assert.Equal(t, "user@example.com", doc.UserID)
}

func TestSubmitDraftRequiresBothCalls(t *testing.T) {
	doc := validDocument()

	svc := &fakeSubmitter{submitErr: fmt.Errorf("service down")}
	err := SubmitDraft(context.Background(), svc, &doc, "203.0.113.9", "onramp/1.0")
	require.Error(t, err, "a failed status transition must fail the submission")
	assert.Equal(t, 1, svc.submitCalls)

	svc = &fakeSubmitter{createErr: fmt.Errorf("service down")}
	err = SubmitDraft(context.Background(), svc, &doc, "203.0.113.9", "onramp/1.0")
	require.Error(t, err)
	assert.Zero(t, svc.submitCalls, "a failed create must short-circuit the transition")

	svc = &fakeSubmitter{}
	require.NoError(t, SubmitDraft(context.Background(), svc, &doc, "203.0.113.9", "onramp/1.0"))
	assert.Equal(t, "user-1", svc.submittedID)
}

func TestSubmitDraftRejectsInvalidDocuments(t *testing.T) {
	doc := validDocument()
	doc.Directors = Directors{}

	svc := &fakeSubmitter{}
	err := SubmitDraft(context.Background(), svc, &doc, "", "")
	require.Error(t, err)
	assert.Nil(t, svc.created, "invalid documents must never reach the service")
}
