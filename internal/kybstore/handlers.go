// internal/kybstore/handlers.go
//
// Route handlers for the document API. The service enforces its
// identifying keys (userId, partnerUserId) and the upload constraints;
// deep per-field validation stays with the form client.

package kybstore

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/kingrea/onramp/internal/kyb"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathUserID extracts the trailing user id from prefixed routes.
func pathUserID(r *http.Request, prefix string) string {
	return strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
}

func (s *Server) decodeDocument(w http.ResponseWriter, r *http.Request) (*kyb.Document, bool) {
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	var doc kyb.Document
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload exceeds limit")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}
	return &doc, true
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := pathUserID(r, "/api/kyb/user/")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	doc, err := s.store.Get(r.Context(), userID)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "KYB form not found for this user"})
		return
	}
	if err != nil {
		s.logger.Printf("kybstore: get %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	doc, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(doc.UserID) == "" || strings.TrimSpace(doc.PartnerUserID) == "" {
		writeError(w, http.StatusBadRequest, "userId and partnerUserId are required")
		return
	}
	saved, err := s.store.Upsert(r.Context(), doc)
	if err != nil {
		s.logger.Printf("kybstore: create %s: %v", doc.UserID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := pathUserID(r, "/api/kyb/update/")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	doc, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(doc.PartnerUserID) == "" {
		writeError(w, http.StatusBadRequest, "partnerUserId is required")
		return
	}
	doc.UserID = userID
	// Draft saves must not clobber a submission already in review.
	if existing, err := s.store.Get(r.Context(), userID); err == nil {
		if doc.SubmissionInfo.Status == "" || doc.SubmissionInfo.Status == kyb.StatusDraft {
			doc.SubmissionInfo = existing.SubmissionInfo
		}
	}
	saved, err := s.store.Upsert(r.Context(), doc)
	if err != nil {
		s.logger.Printf("kybstore: update %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := pathUserID(r, "/api/kyb/upload/")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.settings.MaxUploadBytes+defaultMaxBodyBytes)
	file, header, err := r.FormFile("incorporationDocument")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()
	if !AllowedExtension(header.Filename) {
		writeError(w, http.StatusBadRequest,
			"invalid file type, only JPEG, PNG, GIF, PDF, DOC, and DOCX files are allowed")
		return
	}
	path, name, err := s.files.Save(header.Filename, file)
	if err != nil {
		s.logger.Printf("kybstore: upload %s: %v", userID, err)
		writeError(w, http.StatusRequestEntityTooLarge, "upload rejected")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "File uploaded successfully",
		"filePath": path,
		"fileName": name,
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := pathUserID(r, "/api/kyb/submit/")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	var payload struct {
		IPAddress string `json:"ipAddress"`
		UserAgent string `json:"userAgent"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)).Decode(&payload)
	}
	if payload.IPAddress == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			payload.IPAddress = host
		}
	}
	if payload.UserAgent == "" {
		payload.UserAgent = r.UserAgent()
	}

	doc, err := s.store.Submit(r.Context(), userID, payload.IPAddress, payload.UserAgent, s.clock())
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "KYB form not found for this user"})
		return
	}
	if err != nil {
		s.logger.Printf("kybstore: submit %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "KYB form submitted successfully",
		"status":  string(doc.SubmissionInfo.Status),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filter := ListFilter{}
	query := r.URL.Query()
	if raw := query.Get("status"); raw != "" {
		status, err := kyb.ParseStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown status filter")
			return
		}
		filter.Status = status
	}
	if raw := query.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filter.Page = page
		}
	}
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}
	result, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.logger.Printf("kybstore: list: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Printf("kybstore: stats: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
