package printer

import (
	"fmt"
	"strings"

	"p4g/internal/model"
)

// lineFormat is a printf-like format where only %s (and %%) are allowed.
type lineFormat struct {
	parts []string // Literal text around each %s
}

func parseLineFormat(s string) (lineFormat, error) {
	var lf lineFormat
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			cur.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return lf, fmt.Errorf("format %q ends with a lone %%", s)
		}
		i++
		switch s[i] {
		case '%':
			cur.WriteByte('%')
		case 's':
			lf.parts = append(lf.parts, cur.String())
			cur.Reset()
		default:
			return lf, fmt.Errorf("format %q: only %%s is supported, got %%%c", s, s[i])
		}
	}
	lf.parts = append(lf.parts, cur.String())
	return lf, nil
}

// verbs is the number of %s in the format.
func (lf lineFormat) verbs() int { return len(lf.parts) - 1 }

func (lf lineFormat) render(values []string) string {
	var sb strings.Builder
	for i, v := range values {
		sb.WriteString(lf.parts[i])
		sb.WriteString(v)
	}
	sb.WriteString(lf.parts[len(lf.parts)-1])
	return sb.String()
}

func newLineFormat(e *env, fields []string) (lineFormat, error) {
	if len(fields) == 0 {
		return lineFormat{}, fmt.Errorf("no fields given")
	}
	s := e.cfg.FmtString
	if s == "" {
		verbs := make([]string, len(fields))
		for i := range verbs {
			verbs[i] = "%s"
		}
		s = strings.Join(verbs, strings.ReplaceAll(e.cfg.Separator, "%", "%%"))
	}
	lf, err := parseLineFormat(s)
	if err != nil {
		return lf, err
	}
	if lf.verbs() != len(fields) {
		return lf, fmt.Errorf("format %q has %d %%s for %d fields", s, lf.verbs(), len(fields))
	}
	return lf, nil
}

// scalar renders an unindexed field, or the null string when it is missing or empty.
func (e *env) scalar(rec model.Record, field string) string {
	if v, ok := rec[field]; ok && v != "" {
		return e.vf.Format(v, field)
	}
	return e.vf.Null()
}

// SinglePrinter prints one line per record with the named fields.
type SinglePrinter struct {
	*env
	fields []string
	format lineFormat
}

func newSinglePrinter(e *env, fields []string) (*SinglePrinter, error) {
	lf, err := newLineFormat(e, fields)
	if err != nil {
		return nil, err
	}
	return &SinglePrinter{env: e, fields: fields, format: lf}, nil
}

func (p *SinglePrinter) PrintRecord(num int, rec model.Record) error {
	for _, d := range p.records(rec) {
		arr := p.asm.Arrayize(d)
		values := make([]string, len(p.fields))
		for i, field := range p.fields {
			if g, ok := arr.Indexed[field]; ok {
				parts := make([]string, len(g.Data))
				for j, v := range g.Data {
					parts[j] = p.vf.Format(v, field)
				}
				values[i] = p.vf.JoinStrings(parts)
				continue
			}
			values[i] = p.scalar(d, field)
		}
		if _, err := fmt.Fprintln(p.w, p.format.render(values)); err != nil {
			return err
		}
	}
	return nil
}

func (p *SinglePrinter) Done() error { return nil }

// MultiPrinter prints one line per index of the named indexed fields.
// Unindexed fields repeat on every line.
type MultiPrinter struct {
	*env
	fields []string
	format lineFormat
}

func newMultiPrinter(e *env, fields []string) (*MultiPrinter, error) {
	lf, err := newLineFormat(e, fields)
	if err != nil {
		return nil, err
	}
	return &MultiPrinter{env: e, fields: fields, format: lf}, nil
}

func (p *MultiPrinter) PrintRecord(num int, rec model.Record) error {
	for _, d := range p.records(rec) {
		arr := p.asm.Arrayize(d)
		maxkey := 0
		for _, field := range p.fields {
			if g, ok := arr.Indexed[field]; ok {
				maxkey = max(maxkey, g.Max[0])
			}
		}

		for item := 0; item <= maxkey; item++ {
			values := make([]string, len(p.fields))
			for i, field := range p.fields {
				g, ok := arr.Indexed[field]
				switch {
				case !ok:
					values[i] = p.scalar(d, field)
				case item < len(g.Data):
					values[i] = p.vf.Format(g.Data[item], field)
				default:
					values[i] = p.vf.Null()
				}
			}
			if _, err := fmt.Fprintln(p.w, p.format.render(values)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *MultiPrinter) Done() error { return nil }
