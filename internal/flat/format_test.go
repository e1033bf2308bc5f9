package flat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatter_Format(t *testing.T) {
	vf := NewFormatter(testConfig())

	tests := []struct {
		in   string
		want string
	}{
		{in: "42", want: "42"},
		{in: "1000000", want: "1000000"},
		{in: "1000001", want: "1000001 (Mon Jan 12 13:46:41 1970)"},
		{in: "1700000000", want: "1700000000 (Tue Nov 14 22:13:20 2023)"},
		{in: " 1700000000 ", want: "1700000000 (Tue Nov 14 22:13:20 2023)"},
		{in: "-1700000000", want: "-1700000000"},
		{in: "//depot/main/a.c", want: "//depot/main/a.c"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, vf.Format(tt.in, "time"))
		})
	}
}

func TestFormatter_FormatIsIdempotent(t *testing.T) {
	vf := NewFormatter(testConfig())
	for _, v := range []string{"1700000000", "42", "text", ""} {
		once := vf.Format(v, "")
		assert.Equal(t, once, vf.Format(once, ""), v)
	}
}

func TestFormatter_Threshold(t *testing.T) {
	cfg := testConfig()
	cfg.TimestampThreshold = 10
	vf := NewFormatter(cfg)
	assert.Equal(t, "11 (Thu Jan  1 00:00:11 1970)", vf.Format("11", ""))
	assert.Equal(t, "10", vf.Format("10", ""))
}

func TestFormatter_Resolve(t *testing.T) {
	cfg := testConfig()
	cfg.NullStr = "<null>"
	cfg.EmptyStr = "<empty>"
	vf := NewFormatter(cfg)

	assert.Equal(t, "<null>", vf.Resolve("", false))
	assert.Equal(t, "<null>", vf.Resolve("ignored", false))
	assert.Equal(t, "<empty>", vf.Resolve("", true))
	assert.Equal(t, "x", vf.Resolve("x", true))
	assert.Equal(t, "<null>", vf.Null())
}

func TestFormatter_Join(t *testing.T) {
	cfg := testConfig()
	cfg.Separator = ", "
	vf := NewFormatter(cfg)

	assert.Equal(t, "a, b", vf.Join("a", "b"))
	assert.Equal(t, "a, 3, true", vf.Join("a", 3, true))
	assert.Equal(t, "", vf.Join())
	assert.Equal(t, "x, y", vf.JoinStrings([]string{"x", "y"}))
}

func TestFormatter_Range(t *testing.T) {
	vf := NewFormatter(testConfig())
	assert.Equal(t, "3", vf.Range(3, 3, false))
	assert.Equal(t, "0-4", vf.Range(0, 4, true))
	assert.Equal(t, "1-1700000000 (Tue Nov 14 22:13:20 2023)", vf.Range(1, 1700000000, true))
	assert.Equal(t, "1-1700000000", vf.Range(1, 1700000000, false))
}
