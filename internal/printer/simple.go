package printer

import (
	"fmt"
	"sort"

	"p4g/internal/model"
)

// SimplePrinter prints one field per line under a record header.
type SimplePrinter struct {
	*env
}

func (p *SimplePrinter) PrintRecord(num int, rec model.Record) error {
	if _, err := fmt.Fprintf(p.w, "\n--%d--\n", num); err != nil {
		return err
	}
	for _, k := range sortedKeys(rec) {
		if _, err := fmt.Fprintf(p.w, "%s: %s\n", k, p.vf.Format(rec[k], k)); err != nil {
			return err
		}
	}
	return nil
}

func (p *SimplePrinter) Done() error { return nil }

func sortedKeys(rec model.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
