// internal/kybstore/memory.go

package kybstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kingrea/onramp/internal/kyb"
)

// MemoryStore is a mutex-guarded map of documents. It backs tests and
// development runs without a database.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]kyb.Document
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]kyb.Document)}
}

// Get returns the document for one user, or ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, userID string) (*kyb.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

// Upsert inserts or fully replaces the document keyed by its user id.
func (m *MemoryStore) Upsert(ctx context.Context, doc *kyb.Document) (*kyb.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *doc
	now := time.Now().UTC()
	if existing, ok := m.docs[doc.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	if stored.SubmissionInfo.Status == "" {
		stored.SubmissionInfo.Status = kyb.StatusDraft
	}
	m.docs[doc.UserID] = stored
	return &stored, nil
}

// Submit stamps the Submitted status and provenance, or ErrNotFound.
func (m *MemoryStore) Submit(ctx context.Context, userID, ipAddress, userAgent string, at time.Time) (*kyb.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	submittedAt := at.UTC()
	doc.SubmissionInfo.Status = kyb.StatusSubmitted
	doc.SubmissionInfo.SubmittedAt = &submittedAt
	doc.SubmissionInfo.IPAddress = ipAddress
	doc.SubmissionInfo.UserAgent = userAgent
	doc.UpdatedAt = submittedAt
	m.docs[userID] = doc
	return &doc, nil
}

// List returns one page of documents, newest submissions first.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter = filter.normalize()
	m.mu.Lock()
	matched := make([]kyb.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		if filter.Status != "" && doc.SubmissionInfo.Status != filter.Status {
			continue
		}
		matched = append(matched, doc)
	}
	m.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].SubmissionInfo.SubmittedAt, matched[j].SubmissionInfo.SubmittedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	total := len(matched)
	totalPages := (total + filter.Limit - 1) / filter.Limit
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return &ListResult{
		Documents:   matched[start:end],
		CurrentPage: filter.Page,
		TotalPages:  totalPages,
		TotalForms:  total,
	}, nil
}

// Stats returns counts grouped by status.
func (m *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &Stats{StatusBreakdown: make(map[kyb.Status]int)}
	for _, doc := range m.docs {
		stats.TotalSubmissions++
		stats.StatusBreakdown[doc.SubmissionInfo.Status]++
	}
	return stats, nil
}
