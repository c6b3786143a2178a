// Package scene defines the host-scene collaborator interfaces the triage
// core consumes, plus an in-memory implementation and a Wavefront OBJ loader.
//
// The core never walks a scene graph itself: it sees objects only through
// these interfaces, so any host (a file-backed scene, a test double, a DCC
// bridge) can plug in.
package scene

import "smole/internal/geom"

// Object is one candidate object in a scene.
type Object interface {
	// ID returns the object's unique name within the scene.
	ID() string

	// IsMesh reports whether the object carries mesh geometry at all.
	// Non-mesh objects (cameras, lights, empties) are never measured.
	IsMesh() bool

	// EvaluatedMesh returns the modifier-resolved local-space geometry, a
	// release function for any temporary resource backing it, and an error if
	// evaluation failed. A nil mesh with nil error signals "no geometry".
	// The release function, when non-nil, must be called exactly once.
	EvaluatedMesh() (*geom.MeshSample, func(), error)

	// WorldTransform returns the object's full 4x4 world transform.
	WorldTransform() geom.Transform4x4

	// Containers returns every container the object currently belongs to.
	Containers() []Container
}

// Container is a named grouping of objects (a collection, layer or folder in
// host terms). Membership is a set: inserting twice is a no-op.
type Container interface {
	Name() string
	Hidden() bool
	SetHidden(bool)
	Contains(id string) bool
	Insert(Object)
	Remove(Object)
	ObjectIDs() []string
}

// Scene enumerates candidate objects and owns container lifecycle.
type Scene interface {
	// Objects returns all candidate objects. The core filters by mesh type.
	Objects() []Object

	// GetOrCreateContainer returns the container with the given name,
	// creating it if absent. The second return reports whether it was
	// created by this call.
	GetOrCreateContainer(name string) (Container, bool, error)
}
