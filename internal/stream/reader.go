package stream

import (
	"fmt"
	"io"

	"p4g/internal/model"
)

// Reader yields records one at a time. Next returns io.EOF at a clean end of
// input.
type Reader interface {
	Next() (model.Record, error)
}

// Input formats accepted by NewReader.
const (
	FormatMarshal = "marshal"
	FormatJSON    = "json"
)

// NewReader returns a Reader for the named input format.
func NewReader(format string, r io.Reader) (Reader, error) {
	switch format {
	case FormatMarshal, "":
		return NewMarshalReader(r), nil
	case FormatJSON:
		return NewJSONReader(r), nil
	}
	return nil, fmt.Errorf("unknown input format %q (want %s or %s)", format, FormatMarshal, FormatJSON)
}

// Each calls fn for every record until the input ends or fn fails. num starts at 1.
func Each(r Reader, fn func(num int, rec model.Record) error) error {
	for num := 1; ; num++ {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &RecordError{Num: num, Err: err}
		}
		if err := fn(num, rec); err != nil {
			return err
		}
	}
}

// RecordError wraps a read failure with the number of the record being read.
type RecordError struct {
	Num int
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Num, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
