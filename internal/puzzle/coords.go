package puzzle

import (
	"errors"
	"strconv"
	"strings"
)

var ErrBadCoordinate = errors.New("bad cell coordinate")

// ColumnLabel names column col as a letter starting at "a".
func ColumnLabel(col int) string { return string(rune('a' + col)) }

// RowLabel names row row (top row first) starting at "1".
func RowLabel(row int) string { return strconv.Itoa(row + 1) }

// CellLabel returns the chat coordinate of index i, e.g. "b3".
func CellLabel(size, i int) string {
	return ColumnLabel(i%size) + RowLabel(i/size)
}

// ParseCell accepts a coordinate ("b3", "B3") or a 1-based cell number in
// reading order ("8") and returns the zero-based index.
func ParseCell(size int, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || size <= 0 {
		return 0, ErrBadCoordinate
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > size*size {
			return 0, ErrBadCoordinate
		}
		return n - 1, nil
	}
	col := int(s[0]) - 'a'
	row, err := strconv.Atoi(s[1:])
	if err != nil || col < 0 || col >= size || row < 1 || row > size {
		return 0, ErrBadCoordinate
	}
	return (row-1)*size + col, nil
}
