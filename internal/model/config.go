package model

import "time"

const Version = "1.0.0"

// Config carries the settings shared by the formatter, the array handling
// and the printers.
type Config struct {
	NullStr            string   // Substituted for absent values
	EmptyStr           string   // Substituted for empty values
	Separator          string   // Joins multi-valued fields
	MaxUniqueValues    int      // Histogram cap per key
	TimestampThreshold int64    // Integers above this render as times
	ScalarKeys         []string // Names never treated as indexed
	MaxIndex           int      // Larger indices make a name scalar; 0 means no limit
	Location           *time.Location

	FmtString string
	Split     bool
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Separator:          " ",
		MaxUniqueValues:    10,
		TimestampThreshold: 1000000,
		MaxIndex:           1 << 20,
		Location:           time.Local,
	}
}
