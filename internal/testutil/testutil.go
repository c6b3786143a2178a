// Package testutil provides shared test utilities and mesh fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"

	"smole/internal/geom"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within delta of want.
func AssertInDelta(t *testing.T, got, want, delta float64) {
	t.Helper()
	if math.Abs(got-want) > delta {
		t.Errorf("value = %g, want %g (±%g)", got, want, delta)
	}
}

// UnitCube returns a closed unit cube [0,1]³ with outward-facing quad faces.
// Its analytic volume is exactly 1.
func UnitCube() *geom.MeshSample {
	return &geom.MeshSample{
		Vertices: []geom.Vec3{
			{X: 0, Y: 0, Z: 0}, // 0
			{X: 1, Y: 0, Z: 0}, // 1
			{X: 1, Y: 1, Z: 0}, // 2
			{X: 0, Y: 1, Z: 0}, // 3
			{X: 0, Y: 0, Z: 1}, // 4
			{X: 1, Y: 0, Z: 1}, // 5
			{X: 1, Y: 1, Z: 1}, // 6
			{X: 0, Y: 1, Z: 1}, // 7
		},
		Faces: [][]int{
			{0, 3, 2, 1}, // bottom (normal -Z)
			{4, 5, 6, 7}, // top (normal +Z)
			{0, 1, 5, 4}, // front (normal -Y)
			{2, 3, 7, 6}, // back (normal +Y)
			{0, 4, 7, 3}, // left (normal -X)
			{1, 2, 6, 5}, // right (normal +X)
		},
	}
}

// InvertedCube returns the unit cube with every face wound inward, so its
// signed volume is exactly -1.
func InvertedCube() *geom.MeshSample {
	m := UnitCube()
	for _, face := range m.Faces {
		for i, j := 0, len(face)-1; i < j; i, j = i+1, j-1 {
			face[i], face[j] = face[j], face[i]
		}
	}
	return m
}

// Tetrahedron returns a closed tetrahedron with vertices at the origin and the
// three unit axis points. Its analytic volume is 1/6.
func Tetrahedron() *geom.MeshSample {
	return &geom.MeshSample{
		Vertices: []geom.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
		Faces: [][]int{
			{0, 2, 1},
			{0, 1, 3},
			{0, 3, 2},
			{1, 2, 3},
		},
	}
}

// PlanarQuad returns a flat, open quad in the XY plane. Degenerate geometry:
// its enclosed volume is zero.
func PlanarQuad() *geom.MeshSample {
	return &geom.MeshSample{
		Vertices: []geom.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Faces: [][]int{{0, 1, 2, 3}},
	}
}

// UVSphere returns a closed latitude/longitude sphere of the given radius
// centred at the origin. With enough segments its volume approaches 4/3·π·r³
// from below (inscribed discretisation).
func UVSphere(radius float64, segments, rings int) *geom.MeshSample {
	m := &geom.MeshSample{}

	// Poles plus interior ring vertices.
	m.Vertices = append(m.Vertices, geom.Vec3{X: 0, Y: 0, Z: radius}) // 0: north
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			m.Vertices = append(m.Vertices, geom.Vec3{
				X: radius * math.Sin(phi) * math.Cos(theta),
				Y: radius * math.Sin(phi) * math.Sin(theta),
				Z: radius * math.Cos(phi),
			})
		}
	}
	south := len(m.Vertices)
	m.Vertices = append(m.Vertices, geom.Vec3{X: 0, Y: 0, Z: -radius})

	ringStart := func(r int) int { return 1 + (r-1)*segments }

	// North cap.
	for s := 0; s < segments; s++ {
		next := (s + 1) % segments
		m.Faces = append(m.Faces, []int{0, ringStart(1) + s, ringStart(1) + next})
	}
	// Interior quads.
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			next := (s + 1) % segments
			a := ringStart(r) + s
			b := ringStart(r) + next
			c := ringStart(r+1) + next
			d := ringStart(r+1) + s
			m.Faces = append(m.Faces, []int{a, d, c, b})
		}
	}
	// South cap.
	for s := 0; s < segments; s++ {
		next := (s + 1) % segments
		m.Faces = append(m.Faces, []int{south, ringStart(rings-1) + next, ringStart(rings-1) + s})
	}
	return m
}
