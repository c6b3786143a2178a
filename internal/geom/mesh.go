// Package geom provides the mesh representation and the signed-volume
// computation used by the volume triage pipeline.
package geom

import "fmt"

// Vec3 is a point in 3D Cartesian space.
type Vec3 struct {
	X, Y, Z float64
}

// MeshSample is an evaluated mesh snapshot: vertex positions plus polygonal
// faces indexing into them. It is derived fresh from a scene object per
// measurement and discarded afterwards; geometry may change between calls, so
// samples are never cached.
type MeshSample struct {
	Vertices []Vec3
	Faces    [][]int
}

// Validate checks the structural invariants: at least one vertex, every face
// at least a triangle, every index in range.
func (m *MeshSample) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}
	for fi, face := range m.Faces {
		if len(face) < 3 {
			return fmt.Errorf("face %d has %d indices, need at least 3", fi, len(face))
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", fi, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// Transform applies a 4x4 affine transform to every vertex in place.
func (m *MeshSample) Transform(t Transform4x4) {
	for i, v := range m.Vertices {
		x, y, z := t.Apply(v.X, v.Y, v.Z)
		m.Vertices[i] = Vec3{X: x, Y: y, Z: z}
	}
}

// Clone returns a deep copy of the mesh.
func (m *MeshSample) Clone() *MeshSample {
	out := &MeshSample{
		Vertices: make([]Vec3, len(m.Vertices)),
		Faces:    make([][]int, len(m.Faces)),
	}
	copy(out.Vertices, m.Vertices)
	for i, face := range m.Faces {
		out.Faces[i] = make([]int, len(face))
		copy(out.Faces[i], face)
	}
	return out
}

// PolygonCount returns the number of faces.
func (m *MeshSample) PolygonCount() int {
	return len(m.Faces)
}

// SignedVolume computes the enclosed volume of the mesh via the divergence
// theorem: each face is fan-triangulated and every triangle contributes the
// signed volume of the tetrahedron it forms with the origin. A closed mesh
// with consistent outward winding yields a positive sum; inverted winding a
// negative one; open or planar geometry tends towards zero.
//
// The result is exact for arbitrary closed polyhedra (up to floating point).
func SignedVolume(m *MeshSample) float64 {
	var total float64
	for _, face := range m.Faces {
		if len(face) < 3 {
			continue
		}
		v0 := m.Vertices[face[0]]
		for i := 1; i < len(face)-1; i++ {
			v1 := m.Vertices[face[i]]
			v2 := m.Vertices[face[i+1]]
			total += signedTetraVolume(v0, v1, v2)
		}
	}
	return total
}

// signedTetraVolume returns the signed volume of the tetrahedron (origin, a, b, c),
// i.e. the scalar triple product a · (b × c) / 6.
func signedTetraVolume(a, b, c Vec3) float64 {
	cx := b.Y*c.Z - b.Z*c.Y
	cy := b.Z*c.X - b.X*c.Z
	cz := b.X*c.Y - b.Y*c.X
	return (a.X*cx + a.Y*cy + a.Z*cz) / 6.0
}
