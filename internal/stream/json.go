package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"p4g/internal/model"
)

// JSONReader reads a stream of JSON objects, one record per object. Arrays
// are flattened into indexed field names, so {"rev": ["3", "2"]} yields the
// fields rev0 and rev1. Nulls are left out; nested objects are kept as JSON text.
type JSONReader struct {
	dec *json.Decoder
}

// NewJSONReader creates a JSONReader reading from r.
func NewJSONReader(r io.Reader) *JSONReader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &JSONReader{dec: dec}
}

// Next decodes the next object.
func (j *JSONReader) Next() (model.Record, error) {
	var obj map[string]any
	if err := j.dec.Decode(&obj); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decode json record: %w", err)
	}

	rec := make(model.Record, len(obj))
	for k, v := range obj {
		if err := flattenJSON(rec, k, nil, v); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func flattenJSON(rec model.Record, base string, indices []int, v any) error {
	switch v := v.(type) {
	case nil:
	case string:
		rec[model.IndexName(base, indices...)] = v
	case json.Number:
		rec[model.IndexName(base, indices...)] = v.String()
	case bool:
		rec[model.IndexName(base, indices...)] = strconv.FormatBool(v)
	case []any:
		for i, elem := range v {
			next := append(indices[:len(indices):len(indices)], i)
			if err := flattenJSON(rec, base, next, elem); err != nil {
				return err
			}
		}
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", base, err)
		}
		rec[model.IndexName(base, indices...)] = string(b)
	default:
		return fmt.Errorf("field %q: unsupported json value %T", base, v)
	}
	return nil
}
