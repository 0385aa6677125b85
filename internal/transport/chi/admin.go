package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminGet handles GET /admin/*. Query parameters are relayed to Solr.
func (s *Server) AdminGet(w http.ResponseWriter, r *http.Request) {
	out, err := s.admin.Get(r.Context(), chi.URLParam(r, "*"), r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// AdminPost handles POST /admin/*. The JSON body is relayed unchanged.
func (s *Server) AdminPost(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !json.Valid(raw) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "request body is not valid JSON")
		return
	}

	out, err := s.admin.Post(r.Context(), chi.URLParam(r, "*"), json.RawMessage(raw))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
