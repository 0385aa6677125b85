package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/solrsvc/internal/domain"
	logpkg "github.com/kailas-cloud/solrsvc/internal/logger"
	"github.com/kailas-cloud/solrsvc/internal/transport/solr"
	adminuc "github.com/kailas-cloud/solrsvc/internal/usecase/admin"
	healthuc "github.com/kailas-cloud/solrsvc/internal/usecase/health"
	resourceuc "github.com/kailas-cloud/solrsvc/internal/usecase/resource"
	"github.com/kailas-cloud/solrsvc/internal/version"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodePayloadTooLarge  = "payload_too_large"
	CodeSolrRejected     = "solr_rejected"
	CodeUpstream         = "upstream_error"
	CodeInternal         = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the resource, admin and health endpoints.
type Server struct {
	resources     *resourceuc.Service
	admin         *adminuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	resources *resourceuc.Service,
	admin *adminuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		resources: resources,
		admin:     admin,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		badRequestHandler,
		sentinelHandler(domain.ErrBadRequest, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrMethodNotAllowed, http.StatusMethodNotAllowed, CodeMethodNotAllowed),
		sentinelHandler(errBodyTooLarge, http.StatusRequestEntityTooLarge, CodePayloadTooLarge),
		solrRejectedHandler,
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, CodeUpstream),
	}
	return s
}

// Mount registers all routes on r.
func (s *Server) Mount(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/version", s.Version)

	r.Route("/resources", func(r chi.Router) {
		r.Get("/", s.FindResources)
		r.Post("/", s.CreateResources)
		r.Delete("/", s.RemoveResources)
		r.Get("/{id}", s.GetResource)
		r.Put("/{id}", s.UpdateResource)
		r.Patch("/{id}", s.PatchResource)
		r.Delete("/{id}", s.RemoveResource)
	})

	r.Get("/admin/*", s.AdminGet)
	r.Post("/admin/*", s.AdminPost)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Version handles GET /version.
func (s *Server) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrBadRequest,
		domain.ErrNotFound,
		domain.ErrMethodNotAllowed,
		domain.ErrUpstream,
		errBodyTooLarge,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// badRequestHandler reports the offending query key back to the caller.
func badRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	var bre *domain.BadRequestError
	if !errors.As(err, &bre) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, bre.Error())
	return true
}

// solrRejectedHandler relays Solr's own message when the core refused the request.
func solrRejectedHandler(w http.ResponseWriter, err error, _ string) bool {
	var re *solr.ResponseError
	if !errors.As(err, &re) || !re.IsClientError() {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeSolrRejected, re.Msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContextOr(r.Context(), s.logger)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}
