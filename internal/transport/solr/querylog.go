package solr

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// QueryLog is the per-request debug record.
type QueryLog struct {
	Method   string
	Path     string
	Params   string
	Status   int
	Duration time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (ql *QueryLog) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("method", ql.Method)
	enc.AddString("path", ql.Path)
	if ql.Params != "" {
		enc.AddString("params", ql.Params)
	}
	enc.AddInt("status", ql.Status)
	enc.AddInt64("duration_us", ql.Duration.Microseconds())
	return nil
}
