package flat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p4g/internal/model"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name     string
		basename string
		indices  []int
	}{
		{name: "depotFile", basename: "depotFile"},
		{name: "rev0", basename: "rev", indices: []int{0}},
		{name: "rev10", basename: "rev", indices: []int{10}},
		{name: "who1,12", basename: "who", indices: []int{1, 12}},
		{name: "x3,0,7", basename: "x", indices: []int{3, 0, 7}},
		{name: "12", basename: "", indices: []int{12}},
		{name: "a,0", basename: "a,", indices: []int{0}},
		{name: "", basename: ""},
		{name: "desc ", basename: "desc "},
		{name: "sha99999999999999999999", basename: "sha99999999999999999999"},
		{name: "digest123456789012345678901234567890", basename: "digest123456789012345678901234567890"},
		{name: "change1000000000000", basename: "change1000000000000"},
		{name: "who0,99999999999999999999", basename: "who0,99999999999999999999"},
	}

	p := NewParser(testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := p.Parse(tt.name)
			assert.Equal(t, tt.name, key.Name)
			assert.Equal(t, tt.basename, key.Basename)
			assert.Equal(t, tt.indices, key.Indices)
			assert.Equal(t, len(tt.indices) > 0, key.Indexed())
		})
	}
}

func TestParser_RebuildsIndexedNames(t *testing.T) {
	p := NewParser(testConfig())
	for _, name := range []string{"rev0", "who1,12", "x3,0,7", "digest4", "a,0"} {
		key := p.Parse(name)
		require.True(t, key.Indexed(), name)
		assert.Equal(t, name, model.IndexName(key.Basename, key.Indices...))
	}
}

func TestParser_ScalarKeys(t *testing.T) {
	cfg := testConfig()
	cfg.ScalarKeys = []string{"revision2"}
	p := NewParser(cfg)

	key := p.Parse("revision2")
	assert.False(t, key.Indexed())
	assert.Equal(t, "revision2", key.Basename)

	key = p.Parse("revision3")
	assert.True(t, key.Indexed())
	assert.Equal(t, "revision", key.Basename)
}

func TestParser_MaxIndex(t *testing.T) {
	cfg := testConfig()
	cfg.MaxIndex = 100

	p := NewParser(cfg)
	assert.Equal(t, []int{100}, p.Parse("rev100").Indices)
	assert.False(t, p.Parse("rev101").Indexed())
	assert.False(t, p.Parse("who0,101").Indexed())

	cfg.MaxIndex = 0
	assert.Equal(t, []int{5000000}, NewParser(cfg).Parse("rev5000000").Indices)
}

func TestParsedKey_Signature(t *testing.T) {
	p := NewParser(testConfig())
	assert.Equal(t, "depotFile", p.Parse("depotFile").Signature())
	assert.Equal(t, "revN", p.Parse("rev3").Signature())
	assert.Equal(t, "whoN,N", p.Parse("who0,1").Signature())
}
