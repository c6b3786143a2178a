package geom_test

import (
	"math"
	"testing"

	"smole/internal/geom"
	"smole/internal/testutil"
)

func TestSignedVolume_UnitCube(t *testing.T) {
	got := geom.SignedVolume(testutil.UnitCube())
	if math.Abs(got-1.0) > 1e-12 {
		t.Errorf("unit cube volume = %g, want 1.0", got)
	}
}

func TestSignedVolume_Tetrahedron(t *testing.T) {
	got := geom.SignedVolume(testutil.Tetrahedron())
	if math.Abs(got-1.0/6.0) > 1e-12 {
		t.Errorf("tetrahedron volume = %g, want 1/6", got)
	}
}

func TestSignedVolume_InvertedWindingIsNegative(t *testing.T) {
	got := geom.SignedVolume(testutil.InvertedCube())
	if math.Abs(got - -1.0) > 1e-12 {
		t.Errorf("inverted cube volume = %g, want -1.0", got)
	}
}

func TestSignedVolume_PlanarGeometryIsZero(t *testing.T) {
	got := geom.SignedVolume(testutil.PlanarQuad())
	if math.Abs(got) > 1e-12 {
		t.Errorf("planar quad volume = %g, want 0", got)
	}
}

func TestSignedVolume_SphereApproachesAnalytic(t *testing.T) {
	const r = 2.0
	got := geom.SignedVolume(testutil.UVSphere(r, 64, 32))
	want := 4.0 / 3.0 * math.Pi * r * r * r

	// An inscribed lat/long sphere underestimates; 1% is ample at this density.
	if math.Abs(got-want)/want > 0.01 {
		t.Errorf("sphere volume = %g, want %g within 1%%", got, want)
	}
	if got >= want {
		t.Errorf("inscribed sphere volume %g should be below analytic %g", got, want)
	}
}

func TestSignedVolume_TranslationInvariant(t *testing.T) {
	m := testutil.UnitCube()
	m.Transform(geom.Translation(42, -17, 3.5))
	got := geom.SignedVolume(m)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("translated cube volume = %g, want 1.0", got)
	}
}

func TestSignedVolume_ScalesCubically(t *testing.T) {
	const s = 2.5
	m := testutil.UnitCube()
	m.Transform(geom.UniformScale(s))
	got := geom.SignedVolume(m)
	want := s * s * s
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("scaled cube volume = %g, want %g", got, want)
	}
}

func TestTransform_Compose(t *testing.T) {
	// Scale then translate: point (1,1,1) -> (2,2,2) -> (3,2,2).
	tf := geom.Compose(geom.Translation(1, 0, 0), geom.UniformScale(2))
	x, y, z := tf.Apply(1, 1, 1)
	if x != 3 || y != 2 || z != 2 {
		t.Errorf("composed transform gave (%g,%g,%g), want (3,2,2)", x, y, z)
	}
}

func TestValidate(t *testing.T) {
	if err := testutil.UnitCube().Validate(); err != nil {
		t.Errorf("unit cube should validate: %v", err)
	}

	empty := &geom.MeshSample{}
	if err := empty.Validate(); err == nil {
		t.Error("empty mesh should fail validation")
	}

	outOfRange := &geom.MeshSample{
		Vertices: []geom.Vec3{{}, {X: 1}, {Y: 1}},
		Faces:    [][]int{{0, 1, 3}},
	}
	if err := outOfRange.Validate(); err == nil {
		t.Error("out-of-range face index should fail validation")
	}

	degenerate := &geom.MeshSample{
		Vertices: []geom.Vec3{{}, {X: 1}},
		Faces:    [][]int{{0, 1}},
	}
	if err := degenerate.Validate(); err == nil {
		t.Error("two-index face should fail validation")
	}
}

func TestClone_Independent(t *testing.T) {
	m := testutil.UnitCube()
	c := m.Clone()
	c.Vertices[0].X = 99
	c.Faces[0][0] = 7
	if m.Vertices[0].X == 99 || m.Faces[0][0] == 7 {
		t.Error("clone shares storage with original")
	}
}
