// Package measure computes a validated world-space volume for a single scene
// object. Failures are typed and per-object: a bad object never aborts a
// batch, callers bucket results and move on.
package measure

import (
	"fmt"

	"smole/internal/geom"
	"smole/internal/scene"
)

// ErrorKind classifies why a measurement failed.
type ErrorKind string

const (
	// ErrNotAMesh marks objects without mesh geometry (cameras, lights, empties).
	ErrNotAMesh ErrorKind = "not_a_mesh"
	// ErrEmptyGeometry marks mesh objects whose evaluated mesh has no vertices.
	ErrEmptyGeometry ErrorKind = "empty_geometry"
	// ErrInvalidVolume marks zero (planar/degenerate) or negative (inverted
	// winding) volumes; both are equally unusable as a size reference.
	ErrInvalidVolume ErrorKind = "invalid_volume"
	// ErrEvaluationError marks collaborator failures while producing the
	// evaluated mesh, including panics recovered mid-measurement.
	ErrEvaluationError ErrorKind = "evaluation_error"
)

// Error is a typed measurement failure for one object.
type Error struct {
	Kind     ErrorKind
	ObjectID string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// VolumeResult is the tagged outcome of measuring one object. Exactly one of
// Volume (> 0) or Err is meaningful.
type VolumeResult struct {
	ObjectID string
	Volume   float64
	Err      *Error
}

// Ok reports whether the measurement produced a usable volume.
func (r VolumeResult) Ok() bool { return r.Err == nil }

// Func is the measurement contract consumed by the statistics, threshold and
// partition layers. It exists so those layers can be tested without real
// geometry.
type Func func(scene.Object) VolumeResult

// Measure computes the world-space volume of one object.
//
// Policy: reject non-mesh objects; obtain the evaluated local-space mesh from
// the collaborator; transform every vertex by the object's world transform so
// scale and skew count; sum signed tetrahedra over fan-triangulated faces;
// reclassify results <= 0 as invalid. The temporary evaluated mesh is released
// on every exit path, and a collaborator panic is recovered into an
// evaluation error rather than crashing the batch.
func Measure(obj scene.Object) (result VolumeResult) {
	id := obj.ID()
	result = VolumeResult{ObjectID: id}

	if !obj.IsMesh() {
		result.Err = &Error{
			Kind:     ErrNotAMesh,
			ObjectID: id,
			Message:  fmt.Sprintf("object %q is not a mesh", id),
		}
		return result
	}

	mesh, release, err := func() (m *geom.MeshSample, rel func(), err error) {
		defer func() {
			if r := recover(); r != nil {
				m, rel = nil, nil
				err = fmt.Errorf("mesh evaluation panicked: %v", r)
			}
		}()
		return obj.EvaluatedMesh()
	}()
	if release != nil {
		defer release()
	}
	if err != nil {
		result.Err = &Error{
			Kind:     ErrEvaluationError,
			ObjectID: id,
			Message:  fmt.Sprintf("failed to evaluate mesh for %q: %v", id, err),
		}
		return result
	}
	if mesh == nil || len(mesh.Vertices) == 0 {
		result.Err = &Error{
			Kind:     ErrEmptyGeometry,
			ObjectID: id,
			Message:  fmt.Sprintf("object %q has no vertices (empty mesh)", id),
		}
		return result
	}
	if verr := mesh.Validate(); verr != nil {
		result.Err = &Error{
			Kind:     ErrEvaluationError,
			ObjectID: id,
			Message:  fmt.Sprintf("evaluated mesh for %q is malformed: %v", id, verr),
		}
		return result
	}

	mesh.Transform(obj.WorldTransform())
	volume := geom.SignedVolume(mesh)

	if volume <= 0 {
		msg := fmt.Sprintf("object %q has invalid negative volume", id)
		if volume == 0 {
			msg = fmt.Sprintf("object %q has zero volume (possibly 2D/planar geometry)", id)
		}
		result.Err = &Error{Kind: ErrInvalidVolume, ObjectID: id, Message: msg}
		return result
	}

	result.Volume = volume
	return result
}
