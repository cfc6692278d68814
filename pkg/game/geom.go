package game

import "math"

type Vector struct {
	X, Y float64
}

func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y}
}

func (v Vector) Mul(k float64) Vector {
	return Vector{v.X * k, v.Y * k}
}

// Scale returns a vector of length k pointing the same way as v. Vectors too
// short to normalize come back unchanged.
func (v Vector) Scale(k float64) Vector {
	if mag := v.Magnitude(); mag > 1e-6 {
		return v.Mul(k / mag)
	}
	return v
}

func Distance(from, to Vector) float64 {
	return from.Sub(to).Magnitude()
}
