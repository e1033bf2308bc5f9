package printer

import (
	"fmt"
	"sort"

	"p4g/internal/flat"
	"p4g/internal/model"
)

// KeysPrinter lists the key signatures seen in the stream.
type KeysPrinter struct {
	*env
	keys map[string]bool
}

func (p *KeysPrinter) PrintRecord(num int, rec model.Record) error {
	for name := range rec {
		p.keys[p.asm.Parser().Parse(name).Signature()] = true
	}
	return nil
}

func (p *KeysPrinter) Done() error {
	keys := make([]string, 0, len(p.keys))
	for k := range p.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintln(p.w, k); err != nil {
			return err
		}
	}
	return nil
}

// DetailsPrinter summarizes every key across the stream: counts, index
// extents and common values.
type DetailsPrinter struct {
	*env
	analyzer *flat.Analyzer
}

func (p *DetailsPrinter) PrintRecord(num int, rec model.Record) error {
	p.analyzer.Add(rec)
	return nil
}

func (p *DetailsPrinter) Done() error {
	_, err := fmt.Fprint(p.w, flat.GenerateReport(p.analyzer.Result(), p.vf))
	return err
}
