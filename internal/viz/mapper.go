package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Mapper maps world coordinates to image coordinates:
//
//	pixel = size * ((1 + pos/radius) / 2)
//
// so -radius lands on 0, the origin on size/2 and +radius on size.
type Mapper struct {
	Size   int
	Radius float64
}

// Coord maps one world coordinate. Values are floored, so anything left of
// -radius becomes negative. ok is false for NaN or Inf input.
func (m Mapper) Coord(v float64) (int, bool) {
	px := float64(m.Size) * ((1 + v/m.Radius) / 2)
	if math.IsNaN(px) || math.IsInf(px, 0) {
		return 0, false
	}
	// Clamp far outliers before converting so the int stays well defined.
	lim := float64(4 * (m.Size + 1))
	px = math.Max(-lim, math.Min(lim, px))
	return int(math.Floor(px)), true
}

// Pixel maps a position. ok is false when either coordinate falls outside
// [0, Size) or is not finite.
func (m Mapper) Pixel(p r2.Vec) (x, y int, ok bool) {
	x, okX := m.Coord(p.X)
	y, okY := m.Coord(p.Y)
	return x, y, okX && okY && m.InBounds(x, y)
}

func (m Mapper) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Size && y < m.Size
}
