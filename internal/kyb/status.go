// internal/kyb/status.go

package kyb

import "fmt"

// Status is the review lifecycle position of a business document.
type Status string

const (
	StatusDraft       Status = "Draft"
	StatusSubmitted   Status = "Submitted"
	StatusUnderReview Status = "Under Review"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
)

// Statuses returns every lifecycle status in order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected}
}

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether the lifecycle permits moving to next. Only
// Draft to Submitted is driven by the client; the rest belong to review
// tooling.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusSubmitted
	case StatusSubmitted:
		return next == StatusUnderReview
	case StatusUnderReview:
		return next == StatusApproved || next == StatusRejected
	}
	return false
}

// ParseStatus converts a wire string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("kyb: unknown status %q", raw)
	}
	return s, nil
}
