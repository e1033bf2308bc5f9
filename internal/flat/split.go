package flat

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"p4g/internal/model"
)

// ErrUnsupportedArity is wrapped by UnsupportedArityError.
var ErrUnsupportedArity = errors.New("unsupported arity")

// UnsupportedArityError reports a basename with three or more axes, which
// Split leaves out of the derived records.
type UnsupportedArityError struct {
	Basename string
	Arity    int
}

func (e *UnsupportedArityError) Error() string {
	return fmt.Sprintf("cannot split %q: %d axes (at most 2 supported)", e.Basename, e.Arity)
}

func (e *UnsupportedArityError) Unwrap() error { return ErrUnsupportedArity }

// Splitter turns one record with parallel arrays into one record per index.
type Splitter struct {
	asm    *Assembler
	logger *slog.Logger
	warned map[string]bool
}

// NewSplitter creates a Splitter. A nil logger discards warnings.
func NewSplitter(asm *Assembler, logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Splitter{asm: asm, logger: logger, warned: make(map[string]bool)}
}

// Split returns one derived record per first-axis index. Unindexed fields are
// copied into every derived record. For filelog-style input
//
//	{depotFile: //a, rev0: 3, rev1: 2, who0,0: x, who0,1: y}
//
// the result is
//
//	[{depotFile: //a, rev: 3, who0: x, who1: y}, {depotFile: //a, rev: 2}]
//
// Basenames with three or more axes are skipped and reported in the returned
// error; the records are complete for every other field either way.
func (s *Splitter) Split(rec model.Record) ([]model.Record, error) {
	arr := s.asm.Arrayize(rec)

	bases := make([]string, 0, len(arr.Indexed))
	for base := range arr.Indexed {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	var errs []error
	maxkey := 0
	supported := bases[:0]
	for _, base := range bases {
		g := arr.Indexed[base]
		if g.Arity() > 2 {
			errs = append(errs, &UnsupportedArityError{Basename: base, Arity: g.Arity()})
			if !s.warned[base] {
				s.warned[base] = true
				s.logger.Warn("skipping field with more than two indices", "basename", base, "arity", g.Arity())
			}
			continue
		}
		supported = append(supported, base)
		maxkey = max(maxkey, g.Max[0])
	}

	out := make([]model.Record, maxkey+1)
	for idx := range out {
		d := arr.Unindexed.Clone()
		for _, base := range supported {
			g := arr.Indexed[base]
			if g.Arity() == 1 {
				if name, ok := Lookup(g.Tree, idx); ok {
					d[base] = rec[name]
				}
				continue
			}
			for j := 0; j <= g.Max[1]; j++ {
				if name, ok := Lookup(g.Tree, idx, j); ok {
					d[model.IndexName(base, j)] = rec[name]
				}
			}
		}
		out[idx] = d
	}
	return out, errors.Join(errs...)
}
