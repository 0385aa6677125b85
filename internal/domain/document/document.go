package document

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/kailas-cloud/solrsvc/internal/domain"
)

// IDField is the Solr uniqueKey field.
const IDField = "id"

// versionField is assigned by Solr on every write.
const versionField = "_version_"

// Document is a single Solr document. Field values are whatever the JSON decoder produced.
type Document map[string]any

// ID returns the document identifier as a string, or "" when absent.
func (d Document) ID() string {
	switch v := d[IDField].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// HasID reports whether the document carries a non-empty identifier.
func (d Document) HasID() bool { return d.ID() != "" }

// Clone returns a shallow copy.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// WithID returns a copy with the identifier forced to id.
func (d Document) WithID(id string) Document {
	c := d.Clone()
	if c == nil {
		c = Document{}
	}
	c[IDField] = id
	return c
}

// Version returns the Solr-assigned _version_ (0 when absent).
func (d Document) Version() int64 {
	if v, ok := d[versionField].(float64); ok {
		return int64(v)
	}
	return 0
}

// WithoutServerFields returns a copy without fields Solr assigns on write.
func (d Document) WithoutServerFields() Document {
	c := d.Clone()
	delete(c, versionField)
	return c
}

// Validate checks that an explicit id, if present, is a scalar.
func (d Document) Validate() error {
	switch d[IDField].(type) {
	case nil, string, float64, int, int64:
		return nil
	default:
		return domain.NewBadRequest(IDField, "expected a string or number for")
	}
}

// AtomicUpdate builds a Solr atomic update document that sets every field of patch on id.
// A nil value removes the field.
func AtomicUpdate(id string, patch Document) Document {
	out := Document{IDField: id}
	for k, v := range patch {
		if k == IDField || k == versionField {
			continue
		}
		out[k] = map[string]any{"set": v}
	}
	return out
}
