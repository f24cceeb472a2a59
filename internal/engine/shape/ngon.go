// Package shape generates procedural 2D geometry.
package shape

import (
	gomath "math"

	"github.com/Faultbox/roadloop/pkg/math"
)

// N-gon limits and size.
const (
	MinSides   = 5
	MaxSides   = 12
	NgonRadius = 0.7
)

// Vertex2D is a 2D position with a vertex color.
type Vertex2D struct {
	Position [2]float32
	Color    [3]float32
}

// ClampSides limits n to [MinSides, MaxSides].
func ClampSides(n int) int {
	if n < MinSides {
		return MinSides
	}
	if n > MaxSides {
		return MaxSides
	}
	return n
}

// Ngon builds a regular polygon as a triangle fan: a white center vertex
// followed by the perimeter, colored along a cosine rainbow. Perimeter
// vertex i sits at angle 2πi/n.
func Ngon(sides int) ([]Vertex2D, []uint32) {
	n := ClampSides(sides)

	vertices := make([]Vertex2D, n+1)
	vertices[0] = Vertex2D{Color: [3]float32{1, 1, 1}}
	for i := 0; i < n; i++ {
		angle := 2 * gomath.Pi * float64(i) / float64(n)
		p := math.Polar(NgonRadius, float32(angle))
		vertices[i+1] = Vertex2D{
			Position: [2]float32{p.X, p.Y},
			Color:    RainbowColor(float32(i) / float32(n)),
		}
	}

	indices := make([]uint32, 0, n*3)
	for i := 0; i < n; i++ {
		indices = append(indices, 0, uint32(i+1), uint32((i+1)%n+1))
	}
	return vertices, indices
}

// RainbowColor maps hue in [0,1) to a smooth RGB wheel.
func RainbowColor(hue float32) [3]float32 {
	channel := func(offset float32) float32 {
		return 0.5 + 0.5*float32(gomath.Cos(2*gomath.Pi*float64(hue+offset)))
	}
	return [3]float32{channel(0), channel(0.333), channel(0.666)}
}
