package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"smole/internal/geom"
)

// LoadOBJDir builds a scene from a directory of Wavefront OBJ files. Each
// .obj file becomes one mesh object whose ID is the file name without
// extension. Objects load with an identity world transform; hosts with real
// transform chains implement Object directly instead.
func LoadOBJDir(dir string) (*MemScene, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene directory: %w", err)
	}

	scn := NewMemScene()
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".obj") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		mesh, err := ParseOBJFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		scn.Add(NewMeshObject(id, mesh, geom.Identity4x4))
	}
	return scn, nil
}

// ParseOBJFile reads one OBJ file from disk.
func ParseOBJFile(path string) (*geom.MeshSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseOBJ(bufio.NewScanner(f))
}

// parseOBJ handles the v/f subset of the OBJ format: geometric vertices and
// polygonal faces, with 1-based and negative (relative) indices and the
// "v/vt/vn" index forms. Everything else (normals, UVs, groups, materials)
// is skipped; only positions matter for volume.
func parseOBJ(sc *bufio.Scanner) (*geom.MeshSample, error) {
	mesh := &geom.MeshSample{}
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			x, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad x coordinate: %w", lineNo, err)
			}
			y, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad y coordinate: %w", lineNo, err)
			}
			z, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad z coordinate: %w", lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, geom.Vec3{X: x, Y: y, Z: z})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 indices", lineNo)
			}
			face := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				// "f 1/2/3" forms: the position index is the first component.
				if slash := strings.IndexByte(tok, '/'); slash >= 0 {
					tok = tok[:slash]
				}
				idx, err := strconv.Atoi(tok)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad face index %q: %w", lineNo, tok, err)
				}
				switch {
				case idx > 0:
					idx-- // OBJ indices are 1-based
				case idx < 0:
					idx = len(mesh.Vertices) + idx // relative to end
				default:
					return nil, fmt.Errorf("line %d: face index 0 is not valid", lineNo)
				}
				if idx < 0 || idx >= len(mesh.Vertices) {
					return nil, fmt.Errorf("line %d: face index out of range", lineNo)
				}
				face = append(face, idx)
			}
			mesh.Faces = append(mesh.Faces, face)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}
