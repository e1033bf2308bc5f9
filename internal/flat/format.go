package flat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"p4g/internal/model"
)

// asctime layout, e.g. "Tue Nov 14 22:13:20 2023".
const timeLayout = "Mon Jan _2 15:04:05 2006"

// Formatter renders scalar values for printing.
type Formatter struct {
	null      string
	empty     string
	sep       string
	threshold int64
	loc       *time.Location
}

// NewFormatter creates a Formatter from the given settings.
func NewFormatter(cfg model.Config) *Formatter {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{
		null:      cfg.NullStr,
		empty:     cfg.EmptyStr,
		sep:       cfg.Separator,
		threshold: cfg.TimestampThreshold,
		loc:       loc,
	}
}

// Format renders integers above the timestamp threshold as "<int> (<time>)".
// Any other value is returned unchanged. The key is accepted for callers that
// format per field and is currently unused.
func (f *Formatter) Format(value, key string) string {
	i, ok := ParseInt(value)
	if !ok || i <= f.threshold {
		return value
	}
	return fmt.Sprintf("%d (%s)", i, time.Unix(i, 0).In(f.loc).Format(timeLayout))
}

// Resolve substitutes the null string for absent values and the empty string
// for empty ones.
func (f *Formatter) Resolve(value string, ok bool) string {
	switch {
	case !ok:
		return f.null
	case value == "":
		return f.empty
	}
	return value
}

// Null returns the string used for absent values.
func (f *Formatter) Null() string { return f.null }

// Join joins values with the separator. Non-string values go through fmt.Sprint.
func (f *Formatter) Join(values ...any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok {
			parts[i] = s
		} else {
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, f.sep)
}

// JoinStrings is Join for a string slice.
func (f *Formatter) JoinStrings(values []string) string {
	return strings.Join(values, f.sep)
}

// Range renders "low" or "low-high". With format set, both ends go through Format.
func (f *Formatter) Range(low, high int64, format bool) string {
	lo, hi := strconv.FormatInt(low, 10), strconv.FormatInt(high, 10)
	if format {
		lo, hi = f.Format(lo, ""), f.Format(hi, "")
	}
	if low == high {
		return lo
	}
	return lo + "-" + hi
}

// ParseInt reports whether s is an integer, allowing surrounding spaces and a sign.
func ParseInt(s string) (int64, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}
