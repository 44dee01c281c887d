package volume

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a grid is requested for zero records.
	ErrEmptyInput = errors.New("volume: no voxel records")
	// ErrDimensionMismatch is returned by NewGrid when len(colors) != w*h*d.
	ErrDimensionMismatch = errors.New("volume: color count does not match dimensions")
	// ErrGridTooLarge is returned when a bounding box needs more than MaxCells cells.
	ErrGridTooLarge = errors.New("volume: grid too large")
)

// MaxCells caps the dense cell count of a grid (256 MiB of colors).
const MaxCells = 1 << 26

type Color struct {
	R, G, B uint8
	Visible bool
}

// Clear marks an empty cell.
var Clear = Color{}

func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Visible: true}
}

func (c Color) RGBA() [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, 0xFF}
}

// Record is a single sparse voxel as read from a model file.
type Record struct {
	Pos   [3]int
	Color [3]uint8
}

// Grid is a dense voxel volume. Cell (x,y,z) lives at x*H*D + y*D + z.
type Grid struct {
	Colors []Color
	Width  uint32
	Height uint32
	Depth  uint32
}

func NewGrid(colors []Color, width, height, depth uint32) (*Grid, error) {
	want := uint64(width) * uint64(height) * uint64(depth)
	if want > MaxCells {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrGridTooLarge, width, height, depth)
	}
	if uint64(len(colors)) != want {
		return nil, fmt.Errorf("%w: %d colors for %dx%dx%d", ErrDimensionMismatch, len(colors), width, height, depth)
	}
	return &Grid{
		Colors: colors,
		Width:  width,
		Height: height,
		Depth:  depth,
	}, nil
}

func (g *Grid) Index(x, y, z uint32) uint32 {
	return x*g.Height*g.Depth + y*g.Depth + z
}

func (g *Grid) At(x, y, z uint32) Color {
	return g.Colors[g.Index(x, y, z)]
}

func (g *Grid) Len() int {
	return len(g.Colors)
}

// VisibleCount returns the number of cells that will produce geometry.
func (g *Grid) VisibleCount() int {
	n := 0
	for _, c := range g.Colors {
		if c.Visible {
			n++
		}
	}
	return n
}
