package printer

import (
	"fmt"
	"io"
	"log/slog"

	"p4g/internal/flat"
	"p4g/internal/model"
)

// Printer receives records one at a time and writes them out.
type Printer interface {
	// PrintRecord handles record number num (starting at 1).
	PrintRecord(num int, rec model.Record) error
	// Done is called once the input is exhausted.
	Done() error
}

// Output kinds accepted by New.
const (
	KindSimple  = "simple"
	KindSingle  = "single"
	KindMulti   = "multi"
	KindKeys    = "keys"
	KindDetails = "details"
	KindJSON    = "json"
	KindYAML    = "yaml"
)

// env bundles the record handling shared by the printers.
type env struct {
	w        io.Writer
	cfg      model.Config
	vf       *flat.Formatter
	asm      *flat.Assembler
	splitter *flat.Splitter
}

func newEnv(w io.Writer, cfg model.Config, logger *slog.Logger) *env {
	vf := flat.NewFormatter(cfg)
	asm := flat.NewAssembler(flat.NewParser(cfg), vf)
	return &env{
		w:        w,
		cfg:      cfg,
		vf:       vf,
		asm:      asm,
		splitter: flat.NewSplitter(asm, logger),
	}
}

// records returns rec, or the records split from it when splitting is on.
func (e *env) records(rec model.Record) []model.Record {
	if !e.cfg.Split {
		return []model.Record{rec}
	}
	// Unsupported fields are left out and logged by the splitter.
	out, _ := e.splitter.Split(rec)
	return out
}

// New creates the printer for kind. fields names the fields to show for the
// single and multi printers.
func New(w io.Writer, kind string, fields []string, cfg model.Config, logger *slog.Logger) (Printer, error) {
	e := newEnv(w, cfg, logger)
	switch kind {
	case KindSimple:
		return &SimplePrinter{env: e}, nil
	case KindSingle:
		return newSinglePrinter(e, fields)
	case KindMulti:
		return newMultiPrinter(e, fields)
	case KindKeys:
		return &KeysPrinter{env: e, keys: make(map[string]bool)}, nil
	case KindDetails:
		return &DetailsPrinter{env: e, analyzer: flat.NewAnalyzer(e.asm, cfg)}, nil
	case KindJSON:
		return &JSONPrinter{env: e}, nil
	case KindYAML:
		return &YAMLPrinter{env: e}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", kind)
}
