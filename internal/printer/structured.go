package printer

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"

	"p4g/internal/flat"
	"p4g/internal/model"
)

// Structure rebuilds rec with indexed basenames as (nested) arrays of
// resolved values. Absent positions are nil. Keys are sorted.
func Structure(asm *flat.Assembler, rec model.Record) yaml.MapSlice {
	arr := asm.Arrayize(rec)
	vf := asm.Formatter()

	names := make([]string, 0, len(arr.Unindexed)+len(arr.Indexed))
	for k := range arr.Unindexed {
		names = append(names, k)
	}
	for k := range arr.Indexed {
		if _, dup := arr.Unindexed[k]; !dup {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	out := make(yaml.MapSlice, 0, len(names))
	for _, name := range names {
		// A scalar field and a basename can share a name ("rev" and "rev0");
		// the scalar keeps the name and the array goes under "name[]".
		if v, ok := arr.Unindexed[name]; ok {
			out = append(out, yaml.MapItem{Key: name, Value: v})
			if g, ok := arr.Indexed[name]; ok {
				out = append(out, yaml.MapItem{Key: name + "[]", Value: nodeValue(rec, g.Tree, vf)})
			}
			continue
		}
		out = append(out, yaml.MapItem{Key: name, Value: nodeValue(rec, arr.Indexed[name].Tree, vf)})
	}
	return out
}

// StructureMap is Structure as a map, for JSON encoding.
func StructureMap(asm *flat.Assembler, rec model.Record) map[string]any {
	items := Structure(asm, rec)
	obj := make(map[string]any, len(items))
	for _, item := range items {
		obj[item.Key.(string)] = item.Value
	}
	return obj
}

func nodeValue(rec model.Record, n model.Node, vf *flat.Formatter) any {
	switch n := n.(type) {
	case model.Leaf:
		v, ok := rec[string(n)]
		return vf.Resolve(v, ok)
	case model.Branch:
		out := make([]any, len(n))
		for i, child := range n {
			out[i] = nodeValue(rec, child, vf)
		}
		return out
	}
	return nil
}

// JSONPrinter writes one JSON object per record.
type JSONPrinter struct {
	*env
}

func (p *JSONPrinter) PrintRecord(num int, rec model.Record) error {
	enc := json.NewEncoder(p.w)
	for _, d := range p.records(rec) {
		if err := enc.Encode(StructureMap(p.asm, d)); err != nil {
			return fmt.Errorf("encode record %d: %w", num, err)
		}
	}
	return nil
}

func (p *JSONPrinter) Done() error { return nil }

// YAMLPrinter writes one YAML document per record.
type YAMLPrinter struct {
	*env
}

func (p *YAMLPrinter) PrintRecord(num int, rec model.Record) error {
	for _, d := range p.records(rec) {
		b, err := yaml.Marshal(Structure(p.asm, d))
		if err != nil {
			return fmt.Errorf("encode record %d: %w", num, err)
		}
		if _, err := fmt.Fprintf(p.w, "---\n%s", b); err != nil {
			return err
		}
	}
	return nil
}

func (p *YAMLPrinter) Done() error { return nil }
