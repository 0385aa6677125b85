package result

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Facets is Solr's facets block relayed verbatim. It mixes a top-level
// "count" scalar, aggregation values and bucketed sub-blocks.
type Facets map[string]any

// Bucket is one terms/range facet bucket.
type Bucket struct {
	Val   any   `json:"val"`
	Count int64 `json:"count"`
	// Nested sub-facets and aggregations keyed by name.
	Extra map[string]any `json:",remain"`
}

type bucketBlock struct {
	Buckets    []Bucket `json:"buckets"`
	NumBuckets *int64   `json:"numBuckets"`
}

// Count returns the top-level "count" of the facets block.
func (f Facets) Count() int64 {
	n, _ := toInt64(f["count"])
	return n
}

// Value returns a scalar aggregation (avg, sum, unique...) by name.
func (f Facets) Value(name string) (float64, bool) {
	v, ok := f[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// Buckets decodes the named bucketed facet.
func (f Facets) Buckets(name string) ([]Bucket, error) {
	raw, ok := f[name].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("facet %q is not a bucketed facet", name)
	}

	var block bucketBlock
	cfg := &mapstructure.DecoderConfig{
		Result:           &block,
		TagName:          "json",
		ZeroFields:       true,
		WeaklyTypedInput: true,
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("facet decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode facet %q: %w", name, err)
	}
	return block.Buckets, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
