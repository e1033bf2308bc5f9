package tui

import (
	"strings"

	"p4g/internal/flat"
	"p4g/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgSummaryReady indicates that the record stream has been read.
type MsgSummaryReady model.Summary

// MsgError indicates an error occurred.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 4 // minus footer/header
		return m, nil

	case MsgSummaryReady:
		m.Loading = false
		m.Summary = model.Summary(msg)
		if m.vf != nil {
			m.Report = flat.GenerateReport(m.Summary, m.vf)
		}
		m.performSearch()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.performSearch()
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.performSearch()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			// Filter as the user types.
			m.performSearch()
			return m, cmd
		}

		if m.ShowReport {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "r":
				m.ShowReport = false
			case "up", "k":
				if m.ReportScrollY > 0 {
					m.ReportScrollY--
				}
			case "down", "j":
				m.ReportScrollY++
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.SearchActive {
				m.InputBuffer.SetValue("")
				m.performSearch()
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.DetailsScrollY = 0
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
				m.DetailsScrollY = 0
			}
		case "pgdown", "J":
			m.DetailsScrollY++
		case "pgup", "K":
			if m.DetailsScrollY > 0 {
				m.DetailsScrollY--
			}
		case "r":
			m.ShowReport = true
			m.ReportScrollY = 0
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// performSearch filters the key list by the search term (substring match,
// case-insensitive).
func (m *AppModel) performSearch() {
	term := strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))
	m.SearchActive = term != ""

	filtered := make([]int, 0, len(m.Summary.Keys))
	for i, st := range m.Summary.Keys {
		if term == "" || strings.Contains(strings.ToLower(st.Key), term) {
			filtered = append(filtered, i)
		}
	}
	m.FilteredIndices = filtered

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}

// LoadCmd reads the record stream in the background.
func LoadCmd(load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		summary, err := load()
		if err != nil {
			return MsgError(err)
		}
		return MsgSummaryReady(summary)
	}
}
