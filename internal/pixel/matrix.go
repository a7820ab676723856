// Package pixel implements the grayscale sample matrix that the visual
// verification engine compares. A Matrix is validated once, at construction:
// it must be non-empty, rectangular, and every cell must lie in [0,255].
// Code holding a *Matrix can therefore rely on those invariants without
// re-checking them.
package pixel

import "fmt"

// MaxValue is the largest legal cell value. Cells are grayscale intensity
// samples, so the range is a single 8-bit channel.
const MaxValue = 255

// ShapeError reports a malformed matrix shape: an empty matrix or a row
// whose length differs from the first row.
type ShapeError struct {
	Row  int // offending row index, -1 when the matrix is empty
	Want int // expected row length
	Got  int
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return "pixel matrix must not be empty"
	}
	return fmt.Sprintf("pixel matrix is not rectangular: row %d has %d cells, want %d", e.Row, e.Got, e.Want)
}

// ValueRangeError reports a cell value outside [0,255].
type ValueRangeError struct {
	Row, Col int
	Value    int
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("pixel value %d at (%d,%d) outside [0,%d]", e.Value, e.Row, e.Col, MaxValue)
}

// Matrix is an immutable rectangular grid of grayscale samples.
type Matrix struct {
	rows [][]int
}

// NewMatrix validates and deep-copies cells into a Matrix.
func NewMatrix(cells [][]int) (*Matrix, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, &ShapeError{Row: -1}
	}
	width := len(cells[0])
	rows := make([][]int, len(cells))
	for r, row := range cells {
		if len(row) != width {
			return nil, &ShapeError{Row: r, Want: width, Got: len(row)}
		}
		dst := make([]int, width)
		for c, v := range row {
			if v < 0 || v > MaxValue {
				return nil, &ValueRangeError{Row: r, Col: c, Value: v}
			}
			dst[c] = v
		}
		rows[r] = dst
	}
	return &Matrix{rows: rows}, nil
}

// MustMatrix is a test helper that panics on invalid cells.
func MustMatrix(cells [][]int) *Matrix {
	m, err := NewMatrix(cells)
	if err != nil {
		panic(err)
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns the number of cells per row.
func (m *Matrix) Cols() int { return len(m.rows[0]) }

// At returns the cell at row r, column c.
func (m *Matrix) At(r, c int) int { return m.rows[r][c] }

// Cells returns a deep copy of the underlying grid.
func (m *Matrix) Cells() [][]int {
	out := make([][]int, len(m.rows))
	for r, row := range m.rows {
		out[r] = append([]int(nil), row...)
	}
	return out
}

// Equal reports whether two matrices hold identical cells.
func (m *Matrix) Equal(other *Matrix) bool {
	if m == other {
		return true
	}
	if other == nil || m.Rows() != other.Rows() || m.Cols() != other.Cols() {
		return false
	}
	for r, row := range m.rows {
		for c, v := range row {
			if other.rows[r][c] != v {
				return false
			}
		}
	}
	return true
}

// SameShape reports whether both matrices have identical dimensions.
func (m *Matrix) SameShape(other *Matrix) bool {
	return other != nil && m.Rows() == other.Rows() && m.Cols() == other.Cols()
}

// DiffMap is the per-cell signed difference between a candidate matrix and
// its baseline (candidate minus baseline). It carries no value-range
// invariant beyond rectangularity; cells span [-255,255].
type DiffMap struct {
	rows [][]int
}

// NewDiffMap wraps already-rectangular signed difference rows. The caller
// (the diff engine) guarantees the shape.
func NewDiffMap(rows [][]int) *DiffMap {
	return &DiffMap{rows: rows}
}

// Rows returns the number of rows.
func (d *DiffMap) Rows() int { return len(d.rows) }

// Cells returns a deep copy of the signed difference grid.
func (d *DiffMap) Cells() [][]int {
	out := make([][]int, len(d.rows))
	for r, row := range d.rows {
		out[r] = append([]int(nil), row...)
	}
	return out
}
