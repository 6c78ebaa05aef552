// Package shaders holds the GLSL sources for the flat color, line and
// textured programs.
package shaders

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

//go:embed glsl/*.vert glsl/*.frag
var embedded embed.FS

// Program names, also the file stems under a shader directory.
const (
	Color   = "color"
	Line    = "line"
	Texture = "texture"
)

// Names lists every program a Set must provide.
var Names = []string{Color, Line, Texture}

// Source is one vertex/fragment pair.
type Source struct {
	Vertex   string
	Fragment string
}

// Set maps program names to sources.
type Set map[string]Source

// Default returns the built-in sources.
func Default() Set {
	set, err := Load(embedded, "glsl")
	if err != nil {
		panic(fmt.Sprintf("embedded shaders: %v", err))
	}
	return set
}

// Load reads <name>.vert and <name>.frag for every program from dir in fsys.
func Load(fsys fs.FS, dir string) (Set, error) {
	set := make(Set, len(Names))
	for _, name := range Names {
		vs, err := fs.ReadFile(fsys, path.Join(dir, name+".vert"))
		if err != nil {
			return nil, fmt.Errorf("failed to read vertex shader %s: %w", name, err)
		}
		frag, err := fs.ReadFile(fsys, path.Join(dir, name+".frag"))
		if err != nil {
			return nil, fmt.Errorf("failed to read fragment shader %s: %w", name, err)
		}
		set[name] = Source{Vertex: string(vs), Fragment: string(frag)}
	}
	return set, nil
}
