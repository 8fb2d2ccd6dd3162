package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Seed(12345)
	w.Comment("a note")
	w.Action("mk-sort", "BV", "8")
	w.Return("s1")
	w.Action("check-sat")
	require.NoError(t, w.Flush())

	want := "set-seed 12345\n# a note\nmk-sort BV 8\nreturn s1\ncheck-sat\n"
	assert.Equal(t, want, buf.String())
}

func TestScannerSkipsCommentsAndTracksLines(t *testing.T) {
	in := "# header\n\nnew\nmk-sort BV 8\nreturn s1\n# trailing\ncheck-sat\n"
	sc := NewScanner(strings.NewReader(in))

	var lines []Line
	for sc.Scan() {
		lines = append(lines, sc.Line())
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 4)

	assert.Equal(t, Line{Number: 3, Kind: "new", Args: []string{}}, normalize(lines[0]))
	assert.Equal(t, "mk-sort", lines[1].Kind)
	assert.Equal(t, []string{"BV", "8"}, lines[1].Args)
	assert.Equal(t, 4, lines[1].Number)
	assert.Equal(t, "return", lines[2].Kind)
	assert.Equal(t, 7, lines[3].Number)
}

// normalize maps a nil Args slice to an empty one for comparison.
func normalize(l Line) Line {
	if l.Args == nil {
		l.Args = []string{}
	}
	return l
}

func TestIDTokens(t *testing.T) {
	assert.Equal(t, "s42", SortID(42))
	assert.Equal(t, "t173", TermID(173))

	id, err := ParseSortID("s42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	id, err = ParseTermID("t173")
	require.NoError(t, err)
	assert.Equal(t, uint64(173), id)

	_, err = ParseSortID("t1")
	assert.Error(t, err)
	_, err = ParseTermID("s1")
	assert.Error(t, err)
	_, err = ParseSortID("sx")
	assert.Error(t, err)
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{"x", "_s12", "a~!@$%", ""} {
		q := Quote(s)
		assert.NotContains(t, q, " ")
		got, err := Unquote(q)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}
