package solr

import (
	"fmt"

	"github.com/kailas-cloud/solrsvc/internal/domain"
)

// ErrorBody is Solr's {"error":{...}} block.
type ErrorBody struct {
	Code     int      `json:"code"`
	Msg      string   `json:"msg"`
	Metadata []string `json:"metadata,omitempty"`
}

// ResponseError is a non-2xx Solr response.
type ResponseError struct {
	StatusCode int
	Code       int
	Msg        string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("solr error %d: %s", e.StatusCode, e.Msg)
}

func (e *ResponseError) Unwrap() error { return domain.ErrUpstream }

// IsClientError reports whether Solr rejected the request itself (4xx).
func (e *ResponseError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// DecodeError is a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode solr %s response: %v", e.Path, e.Err)
}

// Unwrap exposes both the decode cause and ErrUpstream.
func (e *DecodeError) Unwrap() []error { return []error{domain.ErrUpstream, e.Err} }
