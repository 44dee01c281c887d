package volume

import (
	"fmt"
	"math"
)

// Bounds is an inclusive per-axis range.
type Bounds struct {
	Min [3]int
	Max [3]int
}

func (b Bounds) Size() [3]int {
	return [3]int{
		b.Max[0] - b.Min[0] + 1,
		b.Max[1] - b.Min[1] + 1,
		b.Max[2] - b.Min[2] + 1,
	}
}

// dims returns the per-axis cell counts, or ErrGridTooLarge when an axis
// exceeds uint32 or the box holds more than MaxCells cells.
func (b Bounds) dims() ([3]uint32, error) {
	var dims [3]uint32
	cells := uint64(1)
	for axis := 0; axis < 3; axis++ {
		// wrapping subtraction still yields the exact span as unsigned
		span := uint64(b.Max[axis] - b.Min[axis])
		if span >= math.MaxUint32 {
			return dims, fmt.Errorf("%w: axis %d spans %d..%d", ErrGridTooLarge, axis, b.Min[axis], b.Max[axis])
		}
		dims[axis] = uint32(span + 1)
		cells *= span + 1
		if cells > MaxCells {
			return dims, fmt.Errorf("%w: bounds %v..%v exceed %d cells", ErrGridTooLarge, b.Min, b.Max, MaxCells)
		}
	}
	return dims, nil
}

// Offset is the shift that moves Min onto the origin.
func (b Bounds) Offset() [3]int {
	return [3]int{-b.Min[0], -b.Min[1], -b.Min[2]}
}

// ComputeBounds seeds min/max from the first record, so records must be non-empty.
func ComputeBounds(records []Record) (Bounds, error) {
	if len(records) == 0 {
		return Bounds{}, ErrEmptyInput
	}

	b := Bounds{Min: records[0].Pos, Max: records[0].Pos}
	for _, r := range records[1:] {
		for axis := 0; axis < 3; axis++ {
			if r.Pos[axis] < b.Min[axis] {
				b.Min[axis] = r.Pos[axis]
			}
			if r.Pos[axis] > b.Max[axis] {
				b.Max[axis] = r.Pos[axis]
			}
		}
	}
	return b, nil
}

// FromRecords densifies sparse records into a grid sized to their bounding box.
// Cells not named by any record stay Clear. A later record at the same position wins.
func FromRecords(records []Record) (*Grid, error) {
	bounds, err := ComputeBounds(records)
	if err != nil {
		return nil, err
	}

	dims, err := bounds.dims()
	if err != nil {
		return nil, err
	}
	off := bounds.Offset()
	width, height, depth := dims[0], dims[1], dims[2]

	colors := make([]Color, int(width)*int(height)*int(depth))
	g := &Grid{Colors: colors, Width: width, Height: height, Depth: depth}

	for _, r := range records {
		x := uint32(r.Pos[0] + off[0])
		y := uint32(r.Pos[1] + off[1])
		z := uint32(r.Pos[2] + off[2])
		colors[g.Index(x, y, z)] = NewColor(r.Color[0], r.Color[1], r.Color[2])
	}
	return g, nil
}
