// Package teleport reconstructs teleport sessions from an ordered event stream
// and derives per-session movement statistics.
package teleport

import "math"

// Point is a 3D position whose components may be missing from the source log.
type Point struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	Z *float64 `json:"z,omitempty"`
}

// NewPoint builds a Point with all three components set.
func NewPoint(x, y, z float64) Point {
	return Point{X: &x, Y: &y, Z: &z}
}

// Distance returns the Euclidean distance between a and b.
// Missing components count as zero.
func Distance(a, b Point) float64 {
	dx := coord(a.X) - coord(b.X)
	dy := coord(a.Y) - coord(b.Y)
	dz := coord(a.Z) - coord(b.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func coord(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (p Point) clone() *Point {
	c := Point{}
	if p.X != nil {
		x := *p.X
		c.X = &x
	}
	if p.Y != nil {
		y := *p.Y
		c.Y = &y
	}
	if p.Z != nil {
		z := *p.Z
		c.Z = &z
	}
	return &c
}
