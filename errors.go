package solrsvc

import (
	"github.com/kailas-cloud/solrsvc/internal/domain"
	"github.com/kailas-cloud/solrsvc/internal/transport/solr"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrBadRequest       = domain.ErrBadRequest
	ErrNotFound         = domain.ErrNotFound
	ErrMethodNotAllowed = domain.ErrMethodNotAllowed
	ErrInvalidConfig    = domain.ErrInvalidConfig
	ErrUpstream         = domain.ErrUpstream
)

// BadRequestError names the query key that was rejected. Use errors.As() to inspect it.
type BadRequestError = domain.BadRequestError

// SolrError is a non-2xx response from the core. It matches ErrUpstream.
type SolrError = solr.ResponseError
