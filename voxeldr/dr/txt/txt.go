// Package txt reads the line-oriented voxel text format:
//
//	# comment
//	<x> <z> <y> <rrggbb>   # optional trailing comment
//
// The second field is the grid Z axis and the third is the grid Y axis,
// negated, so the file's Y-up convention lands in the renderer's Y-down grid.
package txt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gekko3d/janus/voxeldr/dr/volume"
)

// ErrSyntax is matched by every *ParseError via errors.Is.
var ErrSyntax = errors.New("txt: syntax error")

// ParseError locates the first malformed line; Column is 1-based.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("txt: line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

const fieldsPerLine = 4

type token struct {
	text string
	col  int // 1-based
}

// Parse returns every data line as a record, in file order. A single bad
// line fails the whole input and no records are returned.
func Parse(input string) ([]volume.Record, error) {
	return ParseReader(strings.NewReader(input))
}

// ParseReader is Parse over a stream, reading it line by line.
func ParseReader(r io.Reader) ([]volume.Record, error) {
	var records []volume.Record

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		rec, ok, err := parseLine(scanner.Text(), lineNo)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("txt: reading input: %w", err)
	}
	return records, nil
}

func parseLine(line string, lineNo int) (volume.Record, bool, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	tokens := tokenize(line)
	if len(tokens) == 0 {
		return volume.Record{}, false, nil
	}

	fail := func(col int, format string, args ...any) (volume.Record, bool, error) {
		return volume.Record{}, false, &ParseError{Line: lineNo, Column: col, Msg: fmt.Sprintf(format, args...)}
	}

	if len(tokens) < fieldsPerLine {
		return fail(len(line)+1, "expected %d fields (x z y color), got %d", fieldsPerLine, len(tokens))
	}
	if len(tokens) > fieldsPerLine {
		return fail(tokens[fieldsPerLine].col, "unexpected %q after color", tokens[fieldsPerLine].text)
	}

	var coords [3]int
	for i := 0; i < 3; i++ {
		n, err := parseInt(tokens[i].text)
		if err != nil {
			return fail(tokens[i].col, "%v", err)
		}
		coords[i] = n
	}

	color, err := parseHexColor(tokens[3].text)
	if err != nil {
		return fail(tokens[3].col, "%v", err)
	}

	x, zRaw, yRaw := coords[0], coords[1], coords[2]
	return volume.Record{
		Pos:   [3]int{x, -yRaw, zRaw},
		Color: color,
	}, true, nil
}

func tokenize(line string) []token {
	var tokens []token
	start := -1
	for i := 0; i < len(line); i++ {
		if isSpace(line[i]) {
			if start >= 0 {
				tokens = append(tokens, token{text: line[start:i], col: start + 1})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: line[start:], col: start + 1})
	}
	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// parseInt accepts an optional leading '-' followed by decimal digits.
func parseInt(s string) (int, error) {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return 0, fmt.Errorf("invalid integer %q", s)
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("integer %q out of range", s)
	}
	return int(n), nil
}

func parseHexColor(s string) ([3]uint8, error) {
	var rgb [3]uint8
	if len(s) != 6 {
		return rgb, fmt.Errorf("color %q must be 6 hex digits", s)
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return rgb, fmt.Errorf("color %q has non-hex digit %q", s, s[i])
		}
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return rgb, fmt.Errorf("color %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return rgb, nil
}
