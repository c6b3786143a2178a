package scene

import (
	"sort"

	"smole/internal/geom"
)

// MemScene is an in-memory Scene. It backs the OBJ loader, the web server's
// demo mode and the test suite.
type MemScene struct {
	objects    []*MemObject
	containers map[string]*MemContainer
}

// NewMemScene creates an empty in-memory scene.
func NewMemScene() *MemScene {
	return &MemScene{containers: make(map[string]*MemContainer)}
}

// Add registers an object with the scene.
func (s *MemScene) Add(obj *MemObject) {
	s.objects = append(s.objects, obj)
}

// Objects returns all objects in insertion order.
func (s *MemScene) Objects() []Object {
	out := make([]Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = o
	}
	return out
}

// GetOrCreateContainer returns the named container, creating it if absent.
func (s *MemScene) GetOrCreateContainer(name string) (Container, bool, error) {
	if c, ok := s.containers[name]; ok {
		return c, false, nil
	}
	c := &MemContainer{name: name, members: make(map[string]Object)}
	s.containers[name] = c
	return c, true, nil
}

// Container returns the named container if it exists.
func (s *MemScene) Container(name string) (*MemContainer, bool) {
	c, ok := s.containers[name]
	return c, ok
}

// MemObject is an in-memory Object. The Eval* hooks let tests inject
// collaborator failures without a real host scene.
type MemObject struct {
	id        string
	mesh      *geom.MeshSample
	transform geom.Transform4x4
	isMesh    bool

	// EvalErr, when set, is returned from EvaluatedMesh.
	EvalErr error
	// EvalPanic, when set, makes EvaluatedMesh panic with this value after
	// handing out the release function's resource.
	EvalPanic any

	// ReleaseCount tracks how many times the release function ran.
	ReleaseCount int

	memberships []Container
}

// NewMeshObject creates a mesh-typed object. A nil mesh models an object
// whose evaluation produces no geometry.
func NewMeshObject(id string, mesh *geom.MeshSample, transform geom.Transform4x4) *MemObject {
	return &MemObject{id: id, mesh: mesh, transform: transform, isMesh: true}
}

// NewNonMeshObject creates a camera/light-style object with no geometry.
func NewNonMeshObject(id string) *MemObject {
	return &MemObject{id: id, transform: geom.Identity4x4}
}

func (o *MemObject) ID() string   { return o.id }
func (o *MemObject) IsMesh() bool { return o.isMesh }

func (o *MemObject) WorldTransform() geom.Transform4x4 { return o.transform }

// SetWorldTransform replaces the object's transform.
func (o *MemObject) SetWorldTransform(t geom.Transform4x4) { o.transform = t }

// EvaluatedMesh returns a fresh copy of the stored mesh so callers may
// transform it in place, mirroring a host's temporary evaluated mesh.
func (o *MemObject) EvaluatedMesh() (*geom.MeshSample, func(), error) {
	release := func() { o.ReleaseCount++ }
	if o.EvalErr != nil {
		return nil, nil, o.EvalErr
	}
	if o.EvalPanic != nil {
		panic(o.EvalPanic)
	}
	if o.mesh == nil {
		return nil, release, nil
	}
	return o.mesh.Clone(), release, nil
}

// Containers returns the containers this object belongs to, sorted by name
// for deterministic iteration.
func (o *MemObject) Containers() []Container {
	out := make([]Container, len(o.memberships))
	copy(out, o.memberships)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// memberships is maintained by MemContainer on Insert/Remove.
func (o *MemObject) addMembership(c Container) {
	for _, m := range o.memberships {
		if m == c {
			return
		}
	}
	o.memberships = append(o.memberships, c)
}

func (o *MemObject) dropMembership(c Container) {
	for i, m := range o.memberships {
		if m == c {
			o.memberships = append(o.memberships[:i], o.memberships[i+1:]...)
			return
		}
	}
}

// MemContainer is an in-memory Container with set semantics.
type MemContainer struct {
	name    string
	hidden  bool
	members map[string]Object
}

func (c *MemContainer) Name() string     { return c.name }
func (c *MemContainer) Hidden() bool     { return c.hidden }
func (c *MemContainer) SetHidden(h bool) { c.hidden = h }

func (c *MemContainer) Contains(id string) bool {
	_, ok := c.members[id]
	return ok
}

// Insert adds the object; inserting an existing member is a no-op.
func (c *MemContainer) Insert(obj Object) {
	if _, ok := c.members[obj.ID()]; ok {
		return
	}
	c.members[obj.ID()] = obj
	if mo, ok := obj.(*MemObject); ok {
		mo.addMembership(c)
	}
}

// Remove drops the object if present.
func (c *MemContainer) Remove(obj Object) {
	if _, ok := c.members[obj.ID()]; !ok {
		return
	}
	delete(c.members, obj.ID())
	if mo, ok := obj.(*MemObject); ok {
		mo.dropMembership(c)
	}
}

// ObjectIDs returns member IDs in sorted order.
func (c *MemContainer) ObjectIDs() []string {
	out := make([]string, 0, len(c.members))
	for id := range c.members {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
