package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/solrsvc/internal/domain"
	"github.com/kailas-cloud/solrsvc/internal/domain/document"
)

// maxBodyBytes caps request bodies on write routes.
const maxBodyBytes = 8 << 20

// errBodyTooLarge is returned when a request body exceeds maxBodyBytes.
var errBodyTooLarge = errors.New("request body too large")

// RemovedResponse is the body of DELETE /resources.
type RemovedResponse struct {
	Removed int64 `json:"removed"`
}

// FindResources handles GET /resources.
func (s *Server) FindResources(w http.ResponseWriter, r *http.Request) {
	params, err := findParamsFromQuery(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.resources.Find(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetResource handles GET /resources/{id}.
func (s *Server) GetResource(w http.ResponseWriter, r *http.Request) {
	doc, err := s.resources.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// CreateResources handles POST /resources. The body is a document or an array of documents.
func (s *Server) CreateResources(w http.ResponseWriter, r *http.Request) {
	docs, many, err := decodeDocuments(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	created, err := s.resources.Create(r.Context(), docs...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if many {
		writeJSON(w, http.StatusCreated, created)
		return
	}
	writeJSON(w, http.StatusCreated, created[0])
}

// UpdateResource handles PUT /resources/{id}.
func (s *Server) UpdateResource(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	stored, err := s.resources.Update(r.Context(), chi.URLParam(r, "id"), doc)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// PatchResource handles PATCH /resources/{id}.
func (s *Server) PatchResource(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeDocument(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	stored, err := s.resources.Patch(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// RemoveResource handles DELETE /resources/{id}.
func (s *Server) RemoveResource(w http.ResponseWriter, r *http.Request) {
	doc, err := s.resources.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// RemoveResources handles DELETE /resources. The filter comes from the query string.
func (s *Server) RemoveResources(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	n, err := s.resources.RemoveMatching(r.Context(), filter)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RemovedResponse{Removed: n})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, fmt.Errorf("limit %d bytes: %w", mbe.Limit, errBodyTooLarge)
		}
		return nil, domain.NewBadRequest("body", "unreadable request")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, domain.NewBadRequest("body", "empty request")
	}
	return raw, nil
}

func decodeDocument(w http.ResponseWriter, r *http.Request) (document.Document, error) {
	raw, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	var doc document.Document
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return nil, domain.NewBadRequest("body", "expected a JSON object in request")
	}
	return doc, nil
}

// decodeDocuments accepts a single object or an array. many reports which one was sent.
func decodeDocuments(w http.ResponseWriter, r *http.Request) (docs []document.Document, many bool, err error) {
	raw, err := readBody(w, r)
	if err != nil {
		return nil, false, err
	}
	if raw[0] != '[' {
		var doc document.Document
		if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
			return nil, false, domain.NewBadRequest("body", "expected a JSON object or array in request")
		}
		return []document.Document{doc}, false, nil
	}

	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, true, domain.NewBadRequest("body", "expected an array of JSON objects in request")
	}
	for _, d := range docs {
		if d == nil {
			return nil, true, domain.NewBadRequest("body", "null document in request")
		}
	}
	return docs, true, nil
}
