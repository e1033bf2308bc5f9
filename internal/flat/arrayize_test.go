package flat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p4g/internal/model"
)

func TestAssembler_Arrayize(t *testing.T) {
	asm := newTestAssembler(testConfig())

	arr := asm.Arrayize(model.Record{"a0": "x", "a1": "y", "name": "rev"})

	assert.Equal(t, model.Record{"name": "rev"}, arr.Unindexed)
	require.Contains(t, arr.Indexed, "a")
	g := arr.Indexed["a"]
	assert.Equal(t, "a", g.Basename)
	assert.Equal(t, []int{0}, g.Min)
	assert.Equal(t, []int{1}, g.Max)
	assert.Equal(t, 1, g.Arity())
	assert.Equal(t, model.Branch{model.Leaf("a0"), model.Leaf("a1")}, g.Tree)
	assert.Equal(t, []string{"x", "y"}, g.Data)
	assert.Equal(t, []string{"x", "y"}, g.Values)
}

func TestAssembler_Gaps(t *testing.T) {
	cfg := testConfig()
	cfg.NullStr = "-"
	cfg.EmptyStr = "<e>"
	asm := newTestAssembler(cfg)

	arr := asm.Arrayize(model.Record{"a2": "z", "a4": ""})

	g := arr.Indexed["a"]
	require.NotNil(t, g)
	assert.Equal(t, []int{2}, g.Min)
	assert.Equal(t, []int{4}, g.Max)
	assert.Equal(t, model.Branch{nil, nil, model.Leaf("a2"), nil, model.Leaf("a4")}, g.Tree)
	assert.Equal(t, []string{"-", "-", "z", "-", "<e>"}, g.Data)
	assert.Equal(t, []string{"-", "-", "z", "-", "<e>"}, g.Values)
}

func TestAssembler_TwoAxes(t *testing.T) {
	cfg := testConfig()
	cfg.NullStr = "-"
	asm := newTestAssembler(cfg)

	arr := asm.Arrayize(model.Record{
		"who0,0": "a",
		"who0,1": "b",
		"who1,1": "d",
	})

	g := arr.Indexed["who"]
	require.NotNil(t, g)
	assert.Equal(t, 2, g.Arity())
	assert.Equal(t, []int{0, 0}, g.Min)
	assert.Equal(t, []int{1, 1}, g.Max)
	assert.Equal(t, model.Branch{
		model.Branch{model.Leaf("who0,0"), model.Leaf("who0,1")},
		model.Branch{nil, model.Leaf("who1,1")},
	}, g.Tree)
	assert.Equal(t, []string{"[a b]", "[- d]"}, g.Data)
	assert.Equal(t, []string{"a", "b", "-", "d"}, g.Values)
}

func TestAssembler_ThreeAxesTerminates(t *testing.T) {
	asm := newTestAssembler(testConfig())

	arr := asm.Arrayize(model.Record{"x0,0,0": "a", "x0,0,1": "b", "x0,1,0": "c"})

	g := arr.Indexed["x"]
	require.NotNil(t, g)
	assert.Equal(t, 3, g.Arity())
	assert.Equal(t, []string{"[[a b] [c]]"}, g.Data)
	assert.Equal(t, []string{"a", "b", "c"}, g.Values)
}

func TestAssembler_MixedArityKeepsDeeperBranch(t *testing.T) {
	cfg := testConfig()
	cfg.NullStr = "-"
	asm := newTestAssembler(cfg)

	arr := asm.Arrayize(model.Record{"m0": "p", "m0,1": "q", "m1": "r"})

	g := arr.Indexed["m"]
	require.NotNil(t, g)
	assert.Equal(t, []int{0, 1}, g.Min)
	assert.Equal(t, []int{1, 1}, g.Max)
	assert.Equal(t, []string{"[- q]", "r"}, g.Data)
}

func TestMergeExtents(t *testing.T) {
	tests := []struct {
		name             string
		curMin, curMax   []int
		lo, hi           []int
		wantMin, wantMax []int
	}{
		{
			name:   "same width",
			curMin: []int{2}, curMax: []int{5},
			lo: []int{0}, hi: []int{3},
			wantMin: []int{0}, wantMax: []int{5},
		},
		{
			name:   "new axis appended",
			curMin: []int{1}, curMax: []int{1},
			lo: []int{0, 4}, hi: []int{0, 4},
			wantMin: []int{0, 4}, wantMax: []int{1, 4},
		},
		{
			name:   "narrower input keeps existing axes",
			curMin: []int{1, 2}, curMax: []int{3, 6},
			lo: []int{0}, hi: []int{7},
			wantMin: []int{0, 2}, wantMax: []int{7, 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := MergeExtents(tt.curMin, tt.curMax, tt.lo, tt.hi)
			assert.Equal(t, tt.wantMin, gotMin)
			assert.Equal(t, tt.wantMax, gotMax)
		})
	}
}

func TestLookup(t *testing.T) {
	tree := model.Branch{
		model.Branch{model.Leaf("w0,0")},
		nil,
		model.Leaf("w2"),
	}

	name, ok := Lookup(tree, 0, 0)
	assert.True(t, ok)
	assert.Equal(t, "w0,0", name)

	name, ok = Lookup(tree, 2)
	assert.True(t, ok)
	assert.Equal(t, "w2", name)

	_, ok = Lookup(tree, 1)
	assert.False(t, ok)
	_, ok = Lookup(tree, 0)
	assert.False(t, ok)
	_, ok = Lookup(tree, 2, 0)
	assert.False(t, ok)
	_, ok = Lookup(tree, 5)
	assert.False(t, ok)
}

func TestAssembler_HugeIndexStaysScalar(t *testing.T) {
	asm := newTestAssembler(testConfig())
	arr := asm.Arrayize(model.Record{
		"change1000000000000":     "x",
		"sha99999999999999999999": "y",
		"rev0":                    "1",
	})

	assert.Equal(t, model.Record{"change1000000000000": "x", "sha99999999999999999999": "y"}, arr.Unindexed)
	require.Len(t, arr.Indexed, 1)
	assert.Equal(t, []string{"1"}, arr.Indexed["rev"].Data)
}
