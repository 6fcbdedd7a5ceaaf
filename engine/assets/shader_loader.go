package assets

import (
	"embed"
	"fmt"
	"os"
)

//go:embed shaders/*.vert shaders/*.frag
var shaderFS embed.FS

// LoadShader returns an embedded shader source by file name.
func LoadShader(name string) (string, error) {
	b, err := shaderFS.ReadFile("shaders/" + name)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return string(b), nil
}

// LoadShaderFile reads a shader from disk, for overriding the embedded set.
func LoadShaderFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", path, err)
	}
	return string(b), nil
}

// Renderer2DShaders returns the vertex and fragment sources of the batch renderer.
func Renderer2DShaders() (vs, fs string, err error) {
	if vs, err = LoadShader("renderer2d.vert"); err != nil {
		return "", "", err
	}
	if fs, err = LoadShader("renderer2d.frag"); err != nil {
		return "", "", err
	}
	return vs, fs, nil
}
