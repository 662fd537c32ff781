// Package geom provides the small amount of 3D vector math the simulation
// needs. The ground plane is XZ; Y is up. Headings are yaw angles in degrees,
// 0 facing +Z and 90 facing +X.
package geom

import "math"

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V is shorthand for constructing a Vec3.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// SqrLen returns the squared length.
func (v Vec3) SqrLen() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Len returns the Euclidean length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.SqrLen())
}

// Dist returns the distance between two points.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalize returns the unit vector in the same direction.
// The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Flat projects the vector onto the ground plane.
func (v Vec3) Flat() Vec3 {
	return Vec3{v.X, 0, v.Z}
}

// MoveTowards moves v toward target by at most maxDelta.
func (v Vec3) MoveTowards(target Vec3, maxDelta float64) Vec3 {
	d := target.Sub(v)
	dist := d.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return v.Add(d.Scale(maxDelta / dist))
}

// Yaw returns the heading in degrees of a direction on the ground plane.
func Yaw(dir Vec3) float64 {
	return normalizeAngle(math.Atan2(dir.X, dir.Z) * 180 / math.Pi)
}

// Forward returns the unit ground-plane direction for a heading.
func Forward(yaw float64) Vec3 {
	r := yaw * math.Pi / 180
	return Vec3{math.Sin(r), 0, math.Cos(r)}
}

// DeltaAngle returns the signed shortest difference from a to b, in (-180, 180].
func DeltaAngle(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// RotateTowards turns current toward target by at most maxDelta degrees.
func RotateTowards(current, target, maxDelta float64) float64 {
	d := DeltaAngle(current, target)
	if math.Abs(d) <= maxDelta {
		return normalizeAngle(target)
	}
	if d > 0 {
		return normalizeAngle(current + maxDelta)
	}
	return normalizeAngle(current - maxDelta)
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
