package model

// IntRange is the running range of values that parsed as integers.
type IntRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// KeyStats summarizes one key signature across a record stream.
type KeyStats struct {
	Key           string         `json:"key"`
	Count         int            `json:"count"`
	Min           []int          `json:"min,omitempty"`
	Max           []int          `json:"max,omitempty"`
	Text          map[string]int `json:"text,omitempty"`
	TooManyValues bool           `json:"tooManyValues"`
	Int           *IntRange      `json:"int,omitempty"`
}

// Indexed reports whether the key came from indexed fields.
func (s *KeyStats) Indexed() bool {
	return len(s.Max) > 0
}

// Summary is the result of analyzing a whole record stream.
type Summary struct {
	Records int         `json:"records"`
	Keys    []*KeyStats `json:"keys"` // Sorted by Key
}
