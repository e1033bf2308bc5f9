package flat

import (
	"sort"

	"p4g/internal/model"
)

// Assembler regroups the indexed fields of a record into array trees.
type Assembler struct {
	parser *Parser
	vf     *Formatter
}

// NewAssembler creates an Assembler using the given parser and formatter.
func NewAssembler(parser *Parser, vf *Formatter) *Assembler {
	return &Assembler{parser: parser, vf: vf}
}

// Parser returns the parser used for field names.
func (a *Assembler) Parser() *Parser { return a.parser }

// Formatter returns the formatter used to resolve values.
func (a *Assembler) Formatter() *Formatter { return a.vf }

// Arrayize splits rec into unindexed fields and per-basename groups.
//
// For a record {a0: x, a1: y, b: z} the result is:
//
//	Indexed:   a -> {Min: [0], Max: [1], Tree: [a0 a1], Data: [x y]}
//	Unindexed: {b: z}
func (a *Assembler) Arrayize(rec model.Record) *model.Arrayized {
	out := &model.Arrayized{
		Indexed:   make(map[string]*model.Group),
		Unindexed: make(model.Record),
	}
	keys := make(map[string][]model.ParsedKey)

	for name, value := range rec {
		key := a.parser.Parse(name)
		if !key.Indexed() {
			out.Unindexed[name] = value
			continue
		}
		g, ok := out.Indexed[key.Basename]
		if !ok {
			g = &model.Group{
				Basename: key.Basename,
				Min:      append([]int(nil), key.Indices...),
				Max:      append([]int(nil), key.Indices...),
			}
			out.Indexed[key.Basename] = g
		} else {
			g.Min, g.Max = MergeExtents(g.Min, g.Max, key.Indices, key.Indices)
		}
		keys[key.Basename] = append(keys[key.Basename], key)
	}

	for base, g := range out.Indexed {
		group := keys[base]
		// Map iteration order is random; sort so duplicate positions resolve the same way every run.
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })

		g.Tree = buildTree(group, 0)
		g.Data = make([]string, len(g.Tree))
		for i, n := range g.Tree {
			g.Data[i] = a.render(rec, n)
		}
		g.Values = a.flatten(rec, g.Tree, nil)
	}
	return out
}

// MergeExtents merges a second extent into the first, axis by axis. Axes that
// only one side has are taken from that side, so differing widths never fail.
func MergeExtents(curMin, curMax, lo, hi []int) ([]int, []int) {
	lower := func(a, b int) int { return min(a, b) }
	upper := func(a, b int) int { return max(a, b) }
	return mergeAxes(curMin, lo, lower), mergeAxes(curMax, hi, upper)
}

func mergeAxes(cur, next []int, pick func(a, b int) int) []int {
	n := len(cur)
	if len(next) > n {
		n = len(next)
	}
	out := make([]int, n)
	for i := range out {
		switch {
		case i >= len(cur):
			out[i] = next[i]
		case i >= len(next):
			out[i] = cur[i]
		default:
			out[i] = pick(cur[i], next[i])
		}
	}
	return out
}

// buildTree places every key at the position named by its indices from depth
// on. A position that is both a leaf and the prefix of longer indices keeps the
// deeper branch.
func buildTree(keys []model.ParsedKey, depth int) model.Branch {
	size := 0
	for _, k := range keys {
		if k.Indices[depth]+1 > size {
			size = k.Indices[depth] + 1
		}
	}

	children := make(model.Branch, size)
	deeper := make(map[int][]model.ParsedKey)
	for _, k := range keys {
		idx := k.Indices[depth]
		if len(k.Indices) > depth+1 {
			deeper[idx] = append(deeper[idx], k)
			continue
		}
		if children[idx] == nil {
			children[idx] = model.Leaf(k.Name)
		}
	}
	for idx, sub := range deeper {
		children[idx] = buildTree(sub, depth+1)
	}
	return children
}

// render resolves one position. Nested positions become "[v1 v2 ...]".
func (a *Assembler) render(rec model.Record, n model.Node) string {
	switch n := n.(type) {
	case model.Leaf:
		v, ok := rec[string(n)]
		return a.vf.Resolve(v, ok)
	case model.Branch:
		parts := make([]string, len(n))
		for i, child := range n {
			parts[i] = a.render(rec, child)
		}
		return "[" + a.vf.JoinStrings(parts) + "]"
	}
	return a.vf.Null()
}

func (a *Assembler) flatten(rec model.Record, b model.Branch, out []string) []string {
	for _, n := range b {
		switch n := n.(type) {
		case model.Leaf:
			v, ok := rec[string(n)]
			out = append(out, a.vf.Resolve(v, ok))
		case model.Branch:
			out = a.flatten(rec, n, out)
		default:
			out = append(out, a.vf.Null())
		}
	}
	return out
}

// Lookup returns the field name stored at the given indices, if any.
func Lookup(b model.Branch, indices ...int) (string, bool) {
	var n model.Node = b
	for _, idx := range indices {
		br, ok := n.(model.Branch)
		if !ok || idx < 0 || idx >= len(br) {
			return "", false
		}
		n = br[idx]
	}
	leaf, ok := n.(model.Leaf)
	return string(leaf), ok
}
