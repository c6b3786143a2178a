package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smole/internal/geom"
	"smole/internal/testutil"
)

const cubeOBJ = `# unit cube centered at origin
v -0.5 -0.5 -0.5
v  0.5 -0.5 -0.5
v  0.5  0.5 -0.5
v -0.5  0.5 -0.5
v -0.5 -0.5  0.5
v  0.5 -0.5  0.5
v  0.5  0.5  0.5
v -0.5  0.5  0.5
f 1 4 3 2
f 5 6 7 8
f 1 2 6 5
f 2 3 7 6
f 3 4 8 7
f 4 1 5 8
`

func writeOBJ(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestParseOBJFile_Cube(t *testing.T) {
	path := writeOBJ(t, t.TempDir(), "cube.obj", cubeOBJ)

	mesh, err := ParseOBJFile(path)
	testutil.AssertNoError(t, err)

	if got := len(mesh.Vertices); got != 8 {
		t.Errorf("got %d vertices, want 8", got)
	}
	if got := len(mesh.Faces); got != 6 {
		t.Errorf("got %d faces, want 6", got)
	}
	testutil.AssertInDelta(t, 1.0, geom.SignedVolume(mesh), 1e-9)
}

func TestParseOBJ_SlashForms(t *testing.T) {
	// Same tetrahedron three ways: plain, v/vt, v/vt/vn and v//vn.
	obj := `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1/1 3/3 2/2
f 1/1/1 2/2/2 4/4/4
f 1//1 4//4 3//3
f 2//2 3//3 4//4
`
	path := writeOBJ(t, t.TempDir(), "tetra.obj", obj)

	mesh, err := ParseOBJFile(path)
	testutil.AssertNoError(t, err)
	testutil.AssertInDelta(t, 1.0/6.0, geom.SignedVolume(mesh), 1e-12)
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	// Negative indices count back from the most recent vertex.
	obj := `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f -4 -2 -3
f -4 -3 -1
f -4 -1 -2
f -3 -2 -1
`
	path := writeOBJ(t, t.TempDir(), "tetra.obj", obj)

	mesh, err := ParseOBJFile(path)
	testutil.AssertNoError(t, err)
	testutil.AssertInDelta(t, 1.0/6.0, geom.SignedVolume(mesh), 1e-12)
}

func TestParseOBJ_SkipsUnsupportedElements(t *testing.T) {
	obj := `mtllib scene.mtl
o triangle
vn 0 0 1
vt 0.5 0.5
v 0 0 0
v 1 0 0
v 0 1 0
usemtl steel
s off
f 1 2 3
`
	path := writeOBJ(t, t.TempDir(), "tri.obj", obj)

	mesh, err := ParseOBJFile(path)
	testutil.AssertNoError(t, err)
	if got := len(mesh.Vertices); got != 3 {
		t.Errorf("got %d vertices, want 3", got)
	}
	if got := len(mesh.Faces); got != 1 {
		t.Errorf("got %d faces, want 1", got)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	cases := []struct {
		name string
		obj  string
		want string
	}{
		{"short vertex", "v 1 2\n", "vertex needs 3 coordinates"},
		{"bad coordinate", "v 1 two 3\n", "bad y coordinate"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", "face needs at least 3 indices"},
		{"bad index", "v 0 0 0\nf 1 a 1\n", "bad face index"},
		{"zero index", "v 0 0 0\nf 0 1 1\n", "face index 0 is not valid"},
		{"out of range", "v 0 0 0\nf 1 2 3\n", "face index out of range"},
		{"negative out of range", "v 0 0 0\nf -2 -1 -1\n", "face index out of range"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeOBJ(t, t.TempDir(), "bad.obj", tc.obj)
			_, err := ParseOBJFile(path)
			testutil.AssertError(t, err)
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadOBJDir(t *testing.T) {
	dir := t.TempDir()
	writeOBJ(t, dir, "cube.obj", cubeOBJ)
	writeOBJ(t, dir, "tetra.OBJ", "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 0 0 1\nf 1 3 2\nf 1 2 4\nf 1 4 3\nf 2 3 4\n")
	writeOBJ(t, dir, "notes.txt", "not geometry")
	if err := os.Mkdir(filepath.Join(dir, "nested.obj"), 0755); err != nil {
		t.Fatal(err)
	}

	scn, err := LoadOBJDir(dir)
	testutil.AssertNoError(t, err)

	objs := scn.Objects()
	if len(objs) != 2 {
		t.Fatalf("got %d objects, want 2", len(objs))
	}
	// Sorted by file name, ID is the base name without extension.
	if objs[0].ID() != "cube" || objs[1].ID() != "tetra" {
		t.Errorf("got IDs %q, %q; want cube, tetra", objs[0].ID(), objs[1].ID())
	}
	for _, obj := range objs {
		if !obj.IsMesh() {
			t.Errorf("object %s should be a mesh", obj.ID())
		}
		if obj.WorldTransform() != geom.Identity4x4 {
			t.Errorf("object %s should load with an identity transform", obj.ID())
		}
	}
}

func TestLoadOBJDir_MissingDir(t *testing.T) {
	_, err := LoadOBJDir(filepath.Join(t.TempDir(), "nope"))
	testutil.AssertError(t, err)
}

func TestLoadOBJDir_BadFile(t *testing.T) {
	dir := t.TempDir()
	writeOBJ(t, dir, "broken.obj", "v 1 2\n")

	_, err := LoadOBJDir(dir)
	testutil.AssertError(t, err)
	if !strings.Contains(err.Error(), "broken.obj") {
		t.Errorf("error %q should name the offending file", err)
	}
}
