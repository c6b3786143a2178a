package measure_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"smole/internal/geom"
	"smole/internal/measure"
	"smole/internal/scene"
	"smole/internal/testutil"
)

func TestMeasure_UnitCube(t *testing.T) {
	obj := scene.NewMeshObject("cube", testutil.UnitCube(), geom.Identity4x4)

	res := measure.Measure(obj)

	if !res.Ok() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if math.Abs(res.Volume-1.0) > 1e-12 {
		t.Errorf("volume = %g, want 1.0", res.Volume)
	}
	if obj.ReleaseCount != 1 {
		t.Errorf("evaluated mesh released %d times, want 1", obj.ReleaseCount)
	}
}

func TestMeasure_WorldTransformApplied(t *testing.T) {
	// Same local geometry, scaled 3x in world space: volume scales by 27.
	obj := scene.NewMeshObject("scaled", testutil.UnitCube(), geom.UniformScale(3))

	res := measure.Measure(obj)

	if !res.Ok() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if math.Abs(res.Volume-27.0) > 1e-9 {
		t.Errorf("volume = %g, want 27 (3³)", res.Volume)
	}
}

func TestMeasure_TranslationDoesNotChangeVolume(t *testing.T) {
	obj := scene.NewMeshObject("moved", testutil.UnitCube(), geom.Translation(100, -50, 7))

	res := measure.Measure(obj)

	if !res.Ok() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if math.Abs(res.Volume-1.0) > 1e-9 {
		t.Errorf("volume = %g, want 1.0 under pure translation", res.Volume)
	}
}

func TestMeasure_NotAMesh(t *testing.T) {
	res := measure.Measure(scene.NewNonMeshObject("camera"))

	if res.Ok() {
		t.Fatal("expected failure for non-mesh object")
	}
	if res.Err.Kind != measure.ErrNotAMesh {
		t.Errorf("kind = %s, want %s", res.Err.Kind, measure.ErrNotAMesh)
	}
}

func TestMeasure_EmptyGeometry(t *testing.T) {
	for name, mesh := range map[string]*geom.MeshSample{
		"nil mesh":    nil,
		"no vertices": {},
	} {
		obj := scene.NewMeshObject("empty", mesh, geom.Identity4x4)
		res := measure.Measure(obj)
		if res.Ok() || res.Err.Kind != measure.ErrEmptyGeometry {
			t.Errorf("%s: expected empty_geometry, got %+v", name, res)
		}
	}
}

func TestMeasure_InvalidVolume(t *testing.T) {
	planar := scene.NewMeshObject("planar", testutil.PlanarQuad(), geom.Identity4x4)
	res := measure.Measure(planar)
	if res.Ok() || res.Err.Kind != measure.ErrInvalidVolume {
		t.Fatalf("planar: expected invalid_volume, got %+v", res)
	}
	if !strings.Contains(res.Err.Message, "zero volume") {
		t.Errorf("planar message should mention zero volume: %q", res.Err.Message)
	}

	inverted := scene.NewMeshObject("inverted", testutil.InvertedCube(), geom.Identity4x4)
	res = measure.Measure(inverted)
	if res.Ok() || res.Err.Kind != measure.ErrInvalidVolume {
		t.Fatalf("inverted: expected invalid_volume, got %+v", res)
	}
	if !strings.Contains(res.Err.Message, "negative volume") {
		t.Errorf("inverted message should mention negative volume: %q", res.Err.Message)
	}
	if planar.ReleaseCount != 1 || inverted.ReleaseCount != 1 {
		t.Error("evaluated mesh must be released on invalid-volume paths")
	}
}

func TestMeasure_EvaluationError(t *testing.T) {
	obj := scene.NewMeshObject("broken", testutil.UnitCube(), geom.Identity4x4)
	obj.EvalErr = errors.New("depsgraph unavailable")

	res := measure.Measure(obj)

	if res.Ok() || res.Err.Kind != measure.ErrEvaluationError {
		t.Fatalf("expected evaluation_error, got %+v", res)
	}
}

func TestMeasure_CollaboratorPanicRecovered(t *testing.T) {
	obj := scene.NewMeshObject("panicky", testutil.UnitCube(), geom.Identity4x4)
	obj.EvalPanic = "host scene went away"

	res := measure.Measure(obj)

	if res.Ok() {
		t.Fatal("expected failure after collaborator panic")
	}
	if res.Err.Kind != measure.ErrEvaluationError {
		t.Errorf("kind = %s, want %s", res.Err.Kind, measure.ErrEvaluationError)
	}
	if !strings.Contains(res.Err.Message, "host scene went away") {
		t.Errorf("panic value should be carried in message: %q", res.Err.Message)
	}
}

func TestMeasure_MalformedMeshIsEvaluationError(t *testing.T) {
	bad := &geom.MeshSample{
		Vertices: []geom.Vec3{{}, {X: 1}, {Y: 1}},
		Faces:    [][]int{{0, 1, 9}},
	}
	obj := scene.NewMeshObject("malformed", bad, geom.Identity4x4)

	res := measure.Measure(obj)

	if res.Ok() || res.Err.Kind != measure.ErrEvaluationError {
		t.Fatalf("expected evaluation_error for malformed mesh, got %+v", res)
	}
	if obj.ReleaseCount != 1 {
		t.Errorf("evaluated mesh released %d times, want 1", obj.ReleaseCount)
	}
}

func TestMeasure_ErrorImplementsError(t *testing.T) {
	res := measure.Measure(scene.NewNonMeshObject("light"))
	var err error = res.Err
	if !strings.Contains(err.Error(), "not_a_mesh") {
		t.Errorf("Error() should include the kind: %q", err.Error())
	}
}
