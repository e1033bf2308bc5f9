package tui

import (
	"p4g/internal/flat"
	"p4g/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadFunc reads the whole record stream and returns its summary.
type LoadFunc func() (model.Summary, error)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Summary model.Summary
	Report  string
	Loading bool
	Err     error

	// UI State
	SelectedIdx    int
	DetailsScrollY int
	WindowSize     tea.WindowSizeMsg
	ShowReport     bool
	ReportScrollY  int

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of Summary.Keys to show
	SearchActive    bool

	// Components
	DetailsViewport viewport.Model

	load LoadFunc
	vf   *flat.Formatter
}

// InitialModel returns the initial state. load runs in the background once
// the program starts.
func InitialModel(load LoadFunc, vf *flat.Formatter) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Key name..."
	ti.CharLimit = 50
	ti.Width = 20

	return AppModel{
		Loading:     true,
		InputBuffer: ti,
		SelectedIdx: 0,
		load:        load,
		vf:          vf,
	}
}

// Selected returns the stats of the highlighted key, or nil.
func (m AppModel) Selected() *model.KeyStats {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		return nil
	}
	return m.Summary.Keys[m.FilteredIndices[m.SelectedIdx]]
}
