package pixel

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The on-disk format is one row per line, cells space-separated, each cell a
// decimal integer. Baselines hold values in [0,255]; diff maps hold signed
// values in [-255,255].

// EncodeMatrix writes m in the text row format.
func EncodeMatrix(w io.Writer, m *Matrix) error {
	return encodeRows(w, m.rows)
}

// EncodeDiffMap writes d in the text row format.
func EncodeDiffMap(w io.Writer, d *DiffMap) error {
	return encodeRows(w, d.rows)
}

func encodeRows(w io.Writer, rows [][]int) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for c, v := range row {
			if c > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.Itoa(v)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeMatrix parses the text row format and validates the result as a
// Matrix. Malformed cells, ragged rows, and out-of-range values all fail.
func DecodeMatrix(r io.Reader) (*Matrix, error) {
	rows, err := decodeRows(r)
	if err != nil {
		return nil, err
	}
	return NewMatrix(rows)
}

func decodeRows(r io.Reader) ([][]int, error) {
	var rows [][]int
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		row := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad cell %q: %w", line, f, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
