package geom

// Identity4x4 is a 4x4 identity matrix for world transforms.
// T is row-major: [m00,m01,m02,m03, m10,m11,m12,m13, m20,m21,m22,m23, m30,m31,m32,m33]
var Identity4x4 = Transform4x4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// Transform4x4 is a 4x4 row-major affine transform.
type Transform4x4 [16]float64

// Apply applies the transform to point (x,y,z).
func (t Transform4x4) Apply(x, y, z float64) (wx, wy, wz float64) {
	wx = t[0]*x + t[1]*y + t[2]*z + t[3]
	wy = t[4]*x + t[5]*y + t[6]*z + t[7]
	wz = t[8]*x + t[9]*y + t[10]*z + t[11]
	return
}

// Translation returns a transform that offsets points by (dx,dy,dz).
func Translation(dx, dy, dz float64) Transform4x4 {
	t := Identity4x4
	t[3] = dx
	t[7] = dy
	t[11] = dz
	return t
}

// UniformScale returns a transform that scales points by s about the origin.
func UniformScale(s float64) Transform4x4 {
	return Transform4x4{s, 0, 0, 0, 0, s, 0, 0, 0, 0, s, 0, 0, 0, 0, 1}
}

// Compose returns a*b, the transform equivalent to applying b first, then a.
func Compose(a, b Transform4x4) Transform4x4 {
	var out Transform4x4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[row*4+k] * b[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}
