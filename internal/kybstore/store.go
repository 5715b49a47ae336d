// internal/kybstore/store.go
//
// Storage contract for business-verification documents. One document per
// user id; the Postgres implementation backs production, the in-memory
// one backs tests and DSN-less development runs.

package kybstore

import (
	"context"
	"errors"
	"time"

	"github.com/kingrea/onramp/internal/kyb"
)

// ErrNotFound reports that no document exists for the requested user.
var ErrNotFound = errors.New("kybstore: document not found")

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListFilter selects and pages the admin listing.
type ListFilter struct {
	Status kyb.Status
	Page   int
	Limit  int
}

// normalize clamps paging to sane bounds.
func (f ListFilter) normalize() ListFilter {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	return f
}

// ListResult is one page of documents, newest submissions first.
type ListResult struct {
	Documents   []kyb.Document `json:"kybForms"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalForms  int            `json:"totalForms"`
}

// Stats counts documents grouped by lifecycle status.
type Stats struct {
	TotalSubmissions int                `json:"totalSubmissions"`
	StatusBreakdown  map[kyb.Status]int `json:"statusBreakdown"`
}

// Store persists business-verification documents keyed by user id.
type Store interface {
	// Get returns the document for one user, or ErrNotFound.
	Get(ctx context.Context, userID string) (*kyb.Document, error)
	// Upsert inserts or fully replaces the document keyed by its user id.
	Upsert(ctx context.Context, doc *kyb.Document) (*kyb.Document, error)
	// Submit stamps the Submitted status and provenance, or ErrNotFound.
	Submit(ctx context.Context, userID, ipAddress, userAgent string, at time.Time) (*kyb.Document, error)
	// List returns one page of documents matching the filter.
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	// Stats returns counts grouped by status.
	Stats(ctx context.Context) (*Stats, error)
}
