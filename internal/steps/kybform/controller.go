// internal/steps/kybform/controller.go
//
// The business form walks seven sections in order, each gated by its own
// validation. The incorporation document is uploaded separately and only
// its stored path lands in the form. Final submission assembles the full
// document from session state and drives the create-then-submit pair;
// both calls must succeed.

package kybform

import (
	"context"
	"fmt"
	"io"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/kyb"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/step"

	"github.com/kingrea/onramp/internal/session"
)

// Section is one screen of the business form.
type Section int

const (
	SectionAcknowledgments Section = iota
	SectionCompany
	SectionAccount
	SectionCompliance
	SectionOwnership
	SectionFurtherQuestions
	SectionReview
)

var sectionNames = map[Section]string{
	SectionAcknowledgments:  "acknowledgments",
	SectionCompany:          "company",
	SectionAccount:          "account",
	SectionCompliance:       "compliance",
	SectionOwnership:        "ownership",
	SectionFurtherQuestions: "further-questions",
	SectionReview:           "review",
}

// String returns the section's stable name.
func (s Section) String() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("section(%d)", int(s))
}

// Service covers the document service calls the form makes. The kyb
// client satisfies it.
type Service interface {
	Upload(ctx context.Context, userID, fileName string, content io.Reader) (*kyb.UploadResult, error)
	Create(ctx context.Context, doc *kyb.Document) (*kyb.Document, error)
	Submit(ctx context.Context, userID, ipAddress, userAgent string) error
}

// Controller owns the business form draft.
type Controller struct {
	store         *session.Store
	svc           Service
	log           *logbook.Logbook
	partnerUserID string
	ipAddress     string
	userAgent     string

	section Section
	form    kyb.Document
}

// Option customizes controller construction.
type Option func(*Controller)

// WithProvenance sets the ip and user agent stamped on submission.
func WithProvenance(ipAddress, userAgent string) Option {
	return func(c *Controller) {
		c.ipAddress = ipAddress
		c.userAgent = userAgent
	}
}

// WithLogbook routes failures to the logbook.
func WithLogbook(l *logbook.Logbook) Option {
	return func(c *Controller) { c.log = l }
}

// New builds the business form controller.
func New(store *session.Store, svc Service, partnerUserID string, opts ...Option) *Controller {
	c := &Controller{
		store:         store,
		svc:           svc,
		partnerUserID: partnerUserID,
		ipAddress:     "127.0.0.1",
		userAgent:     "onramp-cli",
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
		ID:          flow.StepKYBForm,
		Name:        flow.StepKYBForm.FriendlyName(),
		Description: "Collect and submit the business verification form.",
	}
}

// Section reports the active form section.
func (c *Controller) Section() Section {
	return c.section
}

// Form returns the current draft.
func (c *Controller) Form() kyb.Document {
	return c.form
}

// SetAcknowledgments records the confirmation checkboxes.
func (c *Controller) SetAcknowledgments(a kyb.Acknowledgments) {
	c.form.Acknowledgments = a
}

// SetContactInfo records the contact section.
func (c *Controller) SetContactInfo(info kyb.ContactInfo) {
	c.form.CompanyInfo.ContactInfo = info
}

// SetBusinessDetails records the entity section, keeping a previously
// uploaded document path unless the new draft carries its own.
func (c *Controller) SetBusinessDetails(details kyb.BusinessDetails) {
	if details.IncorporationDocument == "" {
		details.IncorporationDocument = c.form.CompanyInfo.BusinessDetails.IncorporationDocument
	}
	c.form.CompanyInfo.BusinessDetails = details
}

// SetTransakAccount records the account-usage section.
func (c *Controller) SetTransakAccount(a kyb.TransakAccount) {
	c.form.TransakAccount = a
}

// SetFCARules records the UK promotions answer.
func (c *Controller) SetFCARules(r kyb.FCARules) {
	c.form.FCARules = r
}

// SetTravelRule records the travel-rule answers.
func (c *Controller) SetTravelRule(t kyb.TravelRule) {
	c.form.TravelRule = t
}

// SetDirectorCount resizes the directors list, preserving typed entries.
func (c *Controller) SetDirectorCount(n int) {
	c.form.Directors = kyb.ResizeDirectors(c.form.Directors, n)
}

// SetDirector replaces one director entry.
func (c *Controller) SetDirector(i int, d kyb.Director) error {
	if i < 0 || i >= len(c.form.Directors.DirectorsList) {
		return fmt.Errorf("kybform: no director slot %d", i)
	}
	c.form.Directors.DirectorsList[i] = d
	return nil
}

// SetOwnerCount resizes the owners list, preserving typed entries.
func (c *Controller) SetOwnerCount(n int) {
	c.form.BeneficialOwners = kyb.ResizeOwners(c.form.BeneficialOwners, n)
}

// SetOwner replaces one owner entry.
func (c *Controller) SetOwner(i int, o kyb.BeneficialOwner) error {
	if i < 0 || i >= len(c.form.BeneficialOwners.OwnersList) {
		return fmt.Errorf("kybform: no owner slot %d", i)
	}
	c.form.BeneficialOwners.OwnersList[i] = o
	return nil
}

// SetSignatoryCount resizes the signatories list, preserving typed entries.
func (c *Controller) SetSignatoryCount(n int) {
	c.form.AuthorizedSignatories = kyb.ResizeSignatories(c.form.AuthorizedSignatories, n)
}

// SetSignatory replaces one signatory entry.
func (c *Controller) SetSignatory(i int, s kyb.AuthorizedSignatory) error {
	if i < 0 || i >= len(c.form.AuthorizedSignatories.SignatoriesList) {
		return fmt.Errorf("kybform: no signatory slot %d", i)
	}
	c.form.AuthorizedSignatories.SignatoriesList[i] = s
	return nil
}

// SetFurtherQuestions records the closing declarations.
func (c *Controller) SetFurtherQuestions(q kyb.FurtherQuestions) {
	c.form.FurtherQuestions = q
}

// validateSection checks one section of the draft.
func (c *Controller) validateSection(s Section) error {
	switch s {
	case SectionAcknowledgments:
		return kyb.ValidateAcknowledgments(c.form.Acknowledgments)
	case SectionCompany:
		if err := kyb.ValidateContactInfo(c.form.CompanyInfo.ContactInfo); err != nil {
			return err
		}
		return kyb.ValidateBusinessDetails(c.form.CompanyInfo.BusinessDetails)
	case SectionAccount:
		return kyb.ValidateTransakAccount(c.form.TransakAccount)
	case SectionCompliance:
		return kyb.ValidateTravelRule(c.form.TravelRule)
	case SectionOwnership:
		if err := kyb.ValidateDirectors(c.form.Directors); err != nil {
			return err
		}
		if err := kyb.ValidateOwners(c.form.BeneficialOwners); err != nil {
			return err
		}
		return kyb.ValidateSignatories(c.form.AuthorizedSignatories)
	}
	return nil
}

// NextSection validates the active section and moves forward.
func (c *Controller) NextSection() error {
	if err := c.validateSection(c.section); err != nil {
		return err
	}
	if c.section < SectionReview {
		c.section++
	}
	return nil
}

// PrevSection moves back without validation.
func (c *Controller) PrevSection() {
	if c.section > SectionAcknowledgments {
		c.section--
	}
}

// Upload stores the incorporation document with the service and embeds
// the returned path into the entity section.
func (c *Controller) Upload(ctx context.Context, fileName string, content io.Reader) error {
	doc := kyb.Build(c.store.State(), c.partnerUserID, c.form)
	result, err := c.svc.Upload(ctx, doc.UserID, fileName, content)
	if err != nil {
		return fmt.Errorf("kybform: upload: %w", err)
	}
	c.form.CompanyInfo.BusinessDetails.IncorporationDocument = result.FilePath
	return nil
}

// Validate checks the fully assembled document.
func (c *Controller) Validate() error {
	doc := kyb.Build(c.store.State(), c.partnerUserID, c.form)
	return doc.Validate()
}

// Submit assembles the final document and drives the create-then-submit
// pair. Failure leaves the wizard on this step for retry.
func (c *Controller) Submit(ctx context.Context) (step.Result, error) {
	doc := kyb.Build(c.store.State(), c.partnerUserID, c.form)
	if err := kyb.SubmitDraft(ctx, c.svc, &doc, c.ipAddress, c.userAgent); err != nil {
		c.log.Error("kybform: submission failed: %v", err)
		return step.Result{Status: step.StatusFailed, Message: "Submission failed. Please try again."}, nil
	}
	c.store.CompleteStep(flow.StepKYBForm)
	return step.Result{Status: step.StatusCompleted, Message: "Business form submitted for review."}, nil
}
