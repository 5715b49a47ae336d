package kyb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsErrNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "KYB form not found for this user"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRoundTrip(t *testing.T) {
	var received Document
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/kyb/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(received)
	}))
	defer srv.Close()

	doc := validDocument()
	saved, err := NewClient(srv.URL).Create(context.Background(), &doc)
	require.NoError(t, err)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, "partner-1", received.PartnerUserID)
}

func TestUploadSendsMultipartField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/kyb/upload/user-1", r.URL.Path)
		file, header, err := r.FormFile("incorporationDocument")
		require.NoError(t, err, "upload must use the incorporationDocument field")
		defer file.Close()
		assert.Equal(t, "cert.pdf", header.Filename)
		json.NewEncoder(w).Encode(UploadResult{FilePath: "/uploads/abc.pdf", FileName: "abc.pdf"})
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL).Upload(context.Background(), "user-1", "cert.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.pdf", result.FilePath)
	assert.Equal(t, "abc.pdf", result.FileName)
}

func TestServiceErrorShapeExtracted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "userId and partnerUserId are required"})
	}))
	defer srv.Close()

	doc := Document{}
	_, err := NewClient(srv.URL).Create(context.Background(), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "userId and partnerUserId are required")
}

func TestSubmitPostsProvenance(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/kyb/submit/user-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(map[string]string{"status": "Submitted"})
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Submit(context.Background(), "user-1", "203.0.113.9", "onramp/1.0")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", payload["ipAddress"])
	assert.Equal(t, "onramp/1.0", payload["userAgent"])
}
