package flat

import (
	"sort"

	"p4g/internal/model"
)

// Analyzer folds a stream of records into per-key statistics. It keeps one
// KeyStats per key signature and is not safe for concurrent use.
type Analyzer struct {
	asm       *Assembler
	maxValues int
	keys      map[string]*model.KeyStats
	records   int
}

// NewAnalyzer creates an Analyzer. cfg.MaxUniqueValues caps the value
// histogram kept per key.
func NewAnalyzer(asm *Assembler, cfg model.Config) *Analyzer {
	return &Analyzer{
		asm:       asm,
		maxValues: cfg.MaxUniqueValues,
		keys:      make(map[string]*model.KeyStats),
	}
}

// Add records one record.
func (a *Analyzer) Add(rec model.Record) {
	a.records++
	arr := a.asm.Arrayize(rec)

	for name, value := range arr.Unindexed {
		st := a.stats(name)
		st.Count++
		a.recordValue(st, value)
	}

	for base, g := range arr.Indexed {
		sig := model.Signature(base, g.Arity())
		st, ok := a.keys[sig]
		if !ok {
			st = a.stats(sig)
			st.Min = append([]int(nil), g.Min...)
			st.Max = append([]int(nil), g.Max...)
		} else {
			st.Min, st.Max = MergeExtents(st.Min, st.Max, g.Min, g.Max)
		}
		st.Count++
		for _, v := range g.Values {
			a.recordValue(st, v)
		}
	}
}

// Records returns the number of records added so far.
func (a *Analyzer) Records() int { return a.records }

// Result returns the statistics gathered so far, sorted by key. The returned
// stats are owned by the Analyzer and change with further calls to Add.
func (a *Analyzer) Result() model.Summary {
	keys := make([]*model.KeyStats, 0, len(a.keys))
	for _, st := range a.keys {
		keys = append(keys, st)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Key < keys[j].Key })
	return model.Summary{Records: a.records, Keys: keys}
}

func (a *Analyzer) stats(key string) *model.KeyStats {
	st, ok := a.keys[key]
	if !ok {
		st = &model.KeyStats{Key: key, Text: make(map[string]int)}
		a.keys[key] = st
	}
	return st
}

// recordValue tracks the integer range and, until it grows past the cap, the
// histogram of distinct values. Once discarded the histogram never comes back.
func (a *Analyzer) recordValue(st *model.KeyStats, value string) {
	if i, ok := ParseInt(value); ok {
		if st.Int == nil {
			st.Int = &model.IntRange{Min: i, Max: i}
		}
		st.Int.Min = min(st.Int.Min, i)
		st.Int.Max = max(st.Int.Max, i)
	}

	if st.TooManyValues {
		return
	}
	st.Text[value]++
	if len(st.Text) > a.maxValues {
		st.Text = nil
		st.TooManyValues = true
	}
}
