package flat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p4g/internal/model"
)

func newTestSplitter() *Splitter {
	return NewSplitter(newTestAssembler(testConfig()), nil)
}

func TestSplitter_OneAxis(t *testing.T) {
	out, err := newTestSplitter().Split(model.Record{"name": "rev", "who0": "alice", "who1": "bob"})
	require.NoError(t, err)
	assert.Equal(t, []model.Record{
		{"name": "rev", "who": "alice"},
		{"name": "rev", "who": "bob"},
	}, out)
}

func TestSplitter_TwoAxes(t *testing.T) {
	out, err := newTestSplitter().Split(model.Record{
		"who0,0": "a",
		"who0,1": "b",
		"who1,0": "c",
		"who1,1": "d",
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Record{
		{"who0": "a", "who1": "b"},
		{"who0": "c", "who1": "d"},
	}, out)
}

func TestSplitter_Filelog(t *testing.T) {
	rec := model.Record{
		"depotFile": "//depot/a.c",
		"rev0":      "3",
		"rev1":      "2",
		"rev2":      "1",
		"how0,0":    "copy from",
		"file0,0":   "//depot/b.c",
		"how0,1":    "edit from",
		"file0,1":   "//depot/c.c",
		"how2,0":    "branch from",
	}
	out, err := newTestSplitter().Split(rec)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, model.Record{
		"depotFile": "//depot/a.c",
		"rev":       "3",
		"how0":      "copy from",
		"how1":      "edit from",
		"file0":     "//depot/b.c",
		"file1":     "//depot/c.c",
	}, out[0])
	assert.Equal(t, model.Record{"depotFile": "//depot/a.c", "rev": "2"}, out[1])
	assert.Equal(t, model.Record{"depotFile": "//depot/a.c", "rev": "1", "how0": "branch from"}, out[2])
}

func TestSplitter_NoIndexedFields(t *testing.T) {
	rec := model.Record{"change": "12", "desc": "fix"}
	out, err := newTestSplitter().Split(rec)
	require.NoError(t, err)
	assert.Equal(t, []model.Record{rec}, out)

	out[0]["change"] = "13"
	assert.Equal(t, "12", rec["change"], "derived records must not alias the input")
}

func TestSplitter_EmptyValueCopied(t *testing.T) {
	out, err := newTestSplitter().Split(model.Record{"a0": "", "a1": "x"})
	require.NoError(t, err)
	assert.Equal(t, []model.Record{{"a": ""}, {"a": "x"}}, out)
}

func TestSplitter_UnsupportedArity(t *testing.T) {
	out, err := newTestSplitter().Split(model.Record{
		"name":   "n",
		"x0,0,0": "a",
		"x1,0,0": "b",
		"y0":     "p",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedArity))

	var arityErr *UnsupportedArityError
	require.True(t, errors.As(err, &arityErr))
	assert.Equal(t, "x", arityErr.Basename)
	assert.Equal(t, 3, arityErr.Arity)

	assert.Equal(t, []model.Record{{"name": "n", "y": "p"}}, out)
}
