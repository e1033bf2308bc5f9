package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"p4g/internal/flat"
	"p4g/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Reading records... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.ShowReport {
		return m.renderReportDialog()
	}

	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	// Subtracting 6 for vertical margin (title, footer, borders)
	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := max(width-6, 20)
	leftWidth := netWidth / 3
	rightWidth := netWidth - leftWidth
	boxHeight := max(height-6, 6)
	interiorHeight := max(boxHeight-2, 2)

	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	borderColor := lipgloss.Color("63")
	activeColor := lipgloss.Color("205")

	// LEFT PANEL: key list
	var leftView strings.Builder
	leftView.WriteString(titleStyle.Render(fmt.Sprintf("Keys (%d records)", m.Summary.Records)))
	leftView.WriteString("\n\n")

	visibleItems := max(interiorHeight-2, 1)
	startIdx, endIdx := window(m.SelectedIdx, len(m.FilteredIndices), visibleItems)
	for i := startIdx; i < endIdx; i++ {
		st := m.Summary.Keys[m.FilteredIndices[i]]
		line := fmt.Sprintf("%s %s", keyIcon(st), st.Key)
		if len(line) > leftWidth-2 && leftWidth > 5 {
			line = line[:leftWidth-5] + "..."
		}
		style := normalStyle
		if i == m.SelectedIdx {
			style = selectedStyle
		}
		leftView.WriteString(style.Render(line))
		leftView.WriteString("\n")
	}
	if len(m.FilteredIndices) == 0 {
		leftView.WriteString(dimStyle.Render("No keys match."))
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(strings.TrimSuffix(leftView.String(), "\n"))

	// RIGHT PANEL: details, sliced to the visible height
	lines := strings.Split(m.details(), "\n")
	startY := min(m.DetailsScrollY, max(len(lines)-interiorHeight, 0))
	endY := min(startY+interiorHeight, len(lines))
	var sb strings.Builder
	for i, line := range lines[startY:endY] {
		if len(line) > rightWidth && rightWidth > 4 {
			line = line[:rightWidth-4] + "..."
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(line)
	}

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(sb.String())

	footer := "\n\nHelp: ↑/↓: Navigate • J/K: Scroll details • /: Filter • r: Report • q: Quit"
	if m.InputMode {
		footer = fmt.Sprintf("\n\nFilter: %s", m.InputBuffer.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

// details renders the right panel for the selected key.
func (m AppModel) details() string {
	st := m.Selected()
	if st == nil {
		return "\nNo key selected."
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(st.Key))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s %d of %d records\n", labelStyle.Render("Seen in:"), st.Count, m.Summary.Records)
	if st.Indexed() && m.vf != nil {
		fmt.Fprintf(&sb, "%s %s (%d axes)\n", labelStyle.Render("Indexes:"), flat.Extents(st, m.vf), len(st.Max))
	}
	if st.Int != nil && m.vf != nil {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Integer range:"), m.vf.Range(st.Int.Min, st.Int.Max, true))
	}

	sb.WriteString("\n")
	if st.TooManyValues {
		sb.WriteString(adviceStyle.Render(fmt.Sprintf("%s Too many distinct values to list.", model.IconTooMany)))
		return sb.String()
	}

	sb.WriteString(labelStyle.Render("Values:"))
	sb.WriteString("\n")
	for _, v := range byCount(st.Text) {
		text := v
		if text == "" {
			text = dimStyle.Render("(empty)")
		} else if m.vf != nil {
			text = m.vf.Format(v, st.Key)
		}
		fmt.Fprintf(&sb, "%6d  %s\n", st.Text[v], text)
	}
	return sb.String()
}

func (m AppModel) renderReportDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	popupWidth := min(max(w*90/100, 40), w-4)
	popupHeight := max(h-6, 5)
	contentHeight := popupHeight - 4 // minus border and footer

	lines := strings.Split(m.Report, "\n")
	startY := min(m.ReportScrollY, max(len(lines)-contentHeight, 0))
	endY := min(startY+contentHeight, len(lines))
	content := strings.Join(lines[startY:endY], "\n")

	title := titleStyle.Render("Key Report")
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(
		"\n↑/↓: Scroll • 'r'/Esc to close")

	dialog := lipgloss.NewStyle().
		Width(popupWidth).
		Height(popupHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("208")). // Orange
		Padding(0, 1).
		Render(title + "\n\n" + content + footer)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

// window returns the slice of a list of n items to show so that selected
// stays roughly centered.
func window(selected, n, visible int) (int, int) {
	if n <= visible {
		return 0, n
	}
	start := max(selected-visible/2, 0)
	if start+visible > n {
		start = n - visible
	}
	return start, start + visible
}

func keyIcon(st *model.KeyStats) string {
	switch {
	case st.TooManyValues && st.Int != nil:
		return model.IconInt
	case st.TooManyValues:
		return model.IconTooMany
	case st.Indexed():
		return model.IconIndexed
	}
	return model.IconScalar
}

// byCount orders histogram values by descending count, then by value.
func byCount(hist map[string]int) []string {
	values := make([]string, 0, len(hist))
	for v := range hist {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if hist[values[i]] != hist[values[j]] {
			return hist[values[i]] > hist[values[j]]
		}
		return values[i] < values[j]
	})
	return values
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, LoadCmd(m.load))
}
