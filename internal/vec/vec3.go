// Package vec provides the three-component float32 vector shared by the
// particle layouts.
//
// Every product is converted back to float32 explicitly. The Go compiler
// may otherwise fuse x*y+z into a single FMA instruction on some targets,
// and the fusion decision can differ between call sites, which would break
// bit-for-bit agreement between the AoS and SoA systems.
package vec

// Vec3 is an immutable 3D vector. Methods return new values.
type Vec3 struct {
	X, Y, Z float32
}

func New(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v multiplied by f.
func (v Vec3) Scale(f float32) Vec3 {
	return Vec3{float32(v.X * f), float32(v.Y * f), float32(v.Z * f)}
}

// LengthSq returns x*x + y*y + z*z, summed left to right.
func (v Vec3) LengthSq() float32 {
	return float32(v.X*v.X) + float32(v.Y*v.Y) + float32(v.Z*v.Z)
}
