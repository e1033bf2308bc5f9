package model

// Glyphs used by the TUI key list.
// Using simple single-width characters for consistent terminal rendering
const (
	IconIndexed = "#" // Key came from indexed fields
	IconScalar  = " " // Plain field
	IconTooMany = "≈" // Histogram discarded
	IconInt     = "±" // Integer range tracked
)
