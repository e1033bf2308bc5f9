package flat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"p4g/internal/model"
)

// Parser splits field names into a basename and trailing indices.
type Parser struct {
	re       *regexp.Regexp
	scalar   map[string]bool
	maxIndex int
}

// NewParser creates a Parser. Names listed in cfg.ScalarKeys are never
// treated as indexed, even when they end in a digit.
func NewParser(cfg model.Config) *Parser {
	scalar := make(map[string]bool, len(cfg.ScalarKeys))
	for _, k := range cfg.ScalarKeys {
		scalar[k] = true
	}
	// Matches:
	// rev0      -> rev, 0
	// who1,12   -> who, 1,12
	return &Parser{
		re:       regexp.MustCompile(`^(.*?)((\d+,)*\d+)$`),
		scalar:   scalar,
		maxIndex: cfg.MaxIndex,
	}
}

// Parse returns the ParsedKey for a field name. A name whose index does not
// fit in an int or exceeds the configured maximum is scalar. It panics if a
// name ending in a digit does not match the index pattern, which cannot happen
// for valid input.
func (p *Parser) Parse(name string) model.ParsedKey {
	key := model.ParsedKey{Name: name, Basename: name}
	if name == "" || !isDigit(name[len(name)-1]) || p.scalar[name] {
		return key
	}

	m := p.re.FindStringSubmatch(name)
	if m == nil {
		panic(fmt.Sprintf("flat: field name %q did not match the index pattern", name))
	}
	var indices []int
	for _, num := range strings.Split(m[2], ",") {
		idx, err := strconv.Atoi(num)
		if err != nil || (p.maxIndex > 0 && idx > p.maxIndex) {
			return key
		}
		indices = append(indices, idx)
	}
	key.Basename = m[1]
	key.Indices = indices
	return key
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
