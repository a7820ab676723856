// Package visual implements the visual regression verification engine:
// pixel diffing, sensitivity resolution, diff artifact generation, and the
// Core facade that composes them with the baseline store into a single
// Verify operation.
package visual

import (
	"fmt"

	"pixelproof/internal/pixel"
)

// DimensionMismatchError reports that a candidate's shape differs from its
// stored baseline. No artifact is written and no state mutates when this
// occurs.
type DimensionMismatchError struct {
	BaselineRows, BaselineCols   int
	CandidateRows, CandidateCols int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("baseline and candidate dimensions do not match: baseline %dx%d, candidate %dx%d",
		e.BaselineRows, e.BaselineCols, e.CandidateRows, e.CandidateCols)
}

// DiffEngine computes a normalized, magnitude-aware difference ratio between
// two matrices of equal shape. Every cell contributes its absolute
// difference scaled by the maximum possible value, so a uniform +30 shift
// scores lower than scattered full-range swings over the same cell count.
type DiffEngine struct{}

// Ratio returns the difference ratio in [0,1]: 0.0 for identical matrices,
// approaching 1.0 as every cell diverges maximally.
func (e DiffEngine) Ratio(baseline, candidate *pixel.Matrix) (float64, error) {
	ratio, _, err := e.Compare(baseline, candidate)
	return ratio, err
}

// Compare returns the difference ratio together with the signed per-cell
// difference map (candidate minus baseline). The map is nil when the inputs
// are reference-identical; that short-circuit is an optimization, and
// callers only need the map on failing comparisons, which a zero ratio can
// never produce.
func (e DiffEngine) Compare(baseline, candidate *pixel.Matrix) (float64, *pixel.DiffMap, error) {
	if baseline == candidate {
		return 0.0, nil, nil
	}
	if !baseline.SameShape(candidate) {
		return 0, nil, &DimensionMismatchError{
			BaselineRows: baseline.Rows(), BaselineCols: baseline.Cols(),
			CandidateRows: candidate.Rows(), CandidateCols: candidate.Cols(),
		}
	}

	rows, cols := baseline.Rows(), baseline.Cols()
	total := 0.0
	signed := make([][]int, rows)
	for r := 0; r < rows; r++ {
		row := make([]int, cols)
		for c := 0; c < cols; c++ {
			delta := candidate.At(r, c) - baseline.At(r, c)
			row[c] = delta
			if delta < 0 {
				delta = -delta
			}
			total += float64(delta) / float64(pixel.MaxValue)
		}
		signed[r] = row
	}

	ratio := total / float64(rows*cols)
	return ratio, pixel.NewDiffMap(signed), nil
}
