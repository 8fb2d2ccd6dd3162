// Package trace implements the canonical textual serialization of a run:
// one line per executed action, argument objects referenced by id, object
// creation tagged with return lines. The stream is the only artifact a
// run persists and is sufficient for deterministic replay.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Writer emits trace lines. It buffers internally; Flush must be called
// before every blocking backend call so a killed process leaves a usable
// prefix behind.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps out in a trace writer.
func NewWriter(out io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(out)}
}

// Seed writes a set-seed line.
func (t *Writer) Seed(seed uint64) {
	fmt.Fprintf(t.w, "set-seed %d\n", seed)
}

// Action writes one action line: the kind tag followed by its argument
// tokens.
func (t *Writer) Action(kind string, args ...string) {
	t.w.WriteString(kind)
	for _, a := range args {
		t.w.WriteByte(' ')
		t.w.WriteString(a)
	}
	t.w.WriteByte('\n')
}

// Return tags the object id defined by the preceding action line.
func (t *Writer) Return(id string) {
	fmt.Fprintf(t.w, "return %s\n", id)
}

// Comment writes a comment line.
func (t *Writer) Comment(text string) {
	fmt.Fprintf(t.w, "# %s\n", text)
}

// Flush drains the buffer to the underlying writer.
func (t *Writer) Flush() error {
	return t.w.Flush()
}

// SortID renders a sort id token.
func SortID(id uint64) string {
	return "s" + strconv.FormatUint(id, 10)
}

// TermID renders a term id token.
func TermID(id uint64) string {
	return "t" + strconv.FormatUint(id, 10)
}

// Quote renders a symbol or string literal token.
func Quote(s string) string {
	return strconv.Quote(s)
}

// Unquote parses a quoted token back to its value.
func Unquote(tok string) (string, error) {
	return strconv.Unquote(tok)
}

// ParseSortID parses an "s<uint>" token.
func ParseSortID(tok string) (uint64, error) {
	if !strings.HasPrefix(tok, "s") {
		return 0, fmt.Errorf("trace: %q is not a sort id", tok)
	}
	return strconv.ParseUint(tok[1:], 10, 64)
}

// ParseTermID parses a "t<uint>" token.
func ParseTermID(tok string) (uint64, error) {
	if !strings.HasPrefix(tok, "t") {
		return 0, fmt.Errorf("trace: %q is not a term id", tok)
	}
	return strconv.ParseUint(tok[1:], 10, 64)
}

// ParseUint parses a bare unsigned numeral token.
func ParseUint(tok string) (uint64, error) {
	return strconv.ParseUint(tok, 10, 64)
}

// Line is one tokenized, non-comment trace line.
type Line struct {
	// Number is the 1-based position in the stream, counting comments
	// and blank lines.
	Number int
	Kind   string
	Args   []string
}

// Scanner reads a trace stream line by line, skipping comments and blank
// lines and tracking line numbers for error reporting.
type Scanner struct {
	s    *bufio.Scanner
	line int
	err  error
	cur  Line
}

// NewScanner wraps in for reading.
func NewScanner(in io.Reader) *Scanner {
	return &Scanner{s: bufio.NewScanner(in)}
}

// Scan advances to the next action, seed, or return line. It returns
// false at end of stream or on error.
func (sc *Scanner) Scan() bool {
	for sc.s.Scan() {
		sc.line++
		text := strings.TrimSpace(sc.s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		sc.cur = Line{Number: sc.line, Kind: fields[0], Args: fields[1:]}
		return true
	}
	sc.err = sc.s.Err()
	return false
}

// Line returns the current line.
func (sc *Scanner) Line() Line {
	return sc.cur
}

// Err returns the first underlying read error, if any.
func (sc *Scanner) Err() error {
	return sc.err
}
