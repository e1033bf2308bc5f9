package flat

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"p4g/internal/model"
)

// Histograms whose values join to at least this many characters are printed
// one value per line.
const inlineValuesWidth = 65

// GenerateReport renders a Summary as text, one line per key followed by the
// record count:
//
//	 3 change
//	 3 depotFile v:({'//a': 1, '//b': 2})
//	 3 revN =(0-4) range: 1-9
//	 3 Records
func GenerateReport(s model.Summary, vf *Formatter) string {
	var sb strings.Builder
	pad := len(strconv.Itoa(s.Records)) + 1

	for _, st := range s.Keys {
		sb.WriteString(ReportLine(st, pad, vf))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%*d Records\n", pad, s.Records)
	return sb.String()
}

// ReportLine renders the report line for one key. pad is the width of the
// count column.
func ReportLine(st *model.KeyStats, pad int, vf *Formatter) string {
	parts := []string{fmt.Sprintf("%*d %s", pad, st.Count, st.Key)}
	if st.Indexed() {
		parts = append(parts, "=("+Extents(st, vf)+")")
	}
	if v := Values(st, pad+len(st.Key), vf); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}

// Extents renders the per-axis index ranges, e.g. "0-4,0-1".
func Extents(st *model.KeyStats, vf *Formatter) string {
	ranges := make([]string, len(st.Max))
	for i := range st.Max {
		lo := st.Max[i]
		if i < len(st.Min) {
			lo = st.Min[i]
		}
		ranges[i] = vf.Range(int64(lo), int64(st.Max[i]), false)
	}
	return strings.Join(ranges, ",")
}

// Values renders the surviving histogram ("v:(...)") or the integer range
// ("range: lo-hi"). It returns "" when neither survived.
func Values(st *model.KeyStats, pad int, vf *Formatter) string {
	switch {
	case !st.TooManyValues && st.Text != nil:
		return histogram(st.Text, pad)
	case st.Int != nil:
		return "range: " + vf.Range(st.Int.Min, st.Int.Max, true)
	}
	return ""
}

func histogram(vals map[string]int, pad int) string {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(strings.Join(keys, " ")) < inlineValuesWidth {
		items := make([]string, len(keys))
		for i, k := range keys {
			items[i] = fmt.Sprintf("%s: %d", quote(k), vals[k])
		}
		return "v:({" + strings.Join(items, ", ") + "})"
	}

	var sb strings.Builder
	sb.WriteString("v:")
	indent := "\n" + strings.Repeat(" ", pad)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s'%s': %d", indent, k, vals[k])
	}
	return sb.String()
}

// quote renders s the way a Python dict repr shows a string key.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var sb strings.Builder
	sb.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == q || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}
