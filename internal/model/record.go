package model

import (
	"strconv"
	"strings"
)

// Record is one flat record as produced by `p4 -G`: field name to string value.
// A field that is missing from the map is absent.
type Record map[string]string

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ParsedKey is a field name split into its basename and trailing indices.
type ParsedKey struct {
	Name     string // Field name as read (e.g. "who1,0")
	Basename string // Name minus the index suffix (e.g. "who")
	Indices  []int  // Outermost axis first; empty for scalar fields
}

// Indexed reports whether the name carried an index suffix.
func (k ParsedKey) Indexed() bool {
	return len(k.Indices) > 0
}

// Signature is the key used when summarizing a stream, e.g. "revN" or "whoN,N".
func (k ParsedKey) Signature() string {
	return Signature(k.Basename, len(k.Indices))
}

// Signature builds the summary key for a basename with the given number of axes.
func Signature(basename string, arity int) string {
	if arity == 0 {
		return basename
	}
	return basename + strings.TrimSuffix(strings.Repeat("N,", arity), ",")
}

// IndexName rebuilds a field name from a basename and indices.
func IndexName(basename string, indices ...int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return basename + strings.Join(parts, ",")
}

// Node is a position in a reconstructed array tree: a Leaf or a Branch.
// A nil Node is a position that the record did not supply.
type Node interface {
	isNode()
}

// Leaf holds the full field name stored at a position.
type Leaf string

// Branch holds the ordered children of one axis.
type Branch []Node

func (Leaf) isNode()   {}
func (Branch) isNode() {}

// Group collects every indexed field of one basename in a record.
type Group struct {
	Basename string
	Min      []int    // Inclusive minimum index per axis
	Max      []int    // Inclusive maximum index per axis
	Tree     Branch   // Positions along the first axis
	Data     []string // One rendered value per first-axis position
	Values   []string // Resolved leaf values, depth first
}

// Arity is the number of axes seen for the basename.
func (g *Group) Arity() int {
	return len(g.Max)
}

// Arrayized is a record with its indexed fields regrouped per basename.
type Arrayized struct {
	Indexed   map[string]*Group
	Unindexed Record
}
