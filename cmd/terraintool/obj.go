package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Davaakhatan/PromptPlay-sub005/internal/terrain"
)

// WriteMeshOBJ saves mesh buffers as a Wavefront OBJ file. Positions, UVs,
// and normals are written per vertex; faces reference all three.
func WriteMeshOBJ(path string, mesh *terrain.TerrainMesh) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	for i := 0; i < len(mesh.Positions); i += 3 {
		fmt.Fprintf(w, "v %g %g %g\n", mesh.Positions[i], mesh.Positions[i+1], mesh.Positions[i+2])
	}
	for i := 0; i < len(mesh.UVs); i += 2 {
		fmt.Fprintf(w, "vt %g %g\n", mesh.UVs[i], mesh.UVs[i+1])
	}
	for i := 0; i < len(mesh.Normals); i += 3 {
		fmt.Fprintf(w, "vn %g %g %g\n", mesh.Normals[i], mesh.Normals[i+1], mesh.Normals[i+2])
	}

	// OBJ indices are 1-based
	for i := 0; i < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i]+1, mesh.Indices[i+1]+1, mesh.Indices[i+2]+1
		fmt.Fprintf(w, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}

	return w.Flush()
}
