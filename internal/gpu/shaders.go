//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"
	"slices"
)

// Embedded WGSL shader sources.

//go:embed shaders/gamma.wgsl
var gammaShaderSource string

//go:embed shaders/blit.wgsl
var blitShaderSource string

//go:embed shaders/blit_cs.wgsl
var blitComputeShaderSource string

//go:embed shaders/tonemap.wgsl
var tonemapShaderSource string

//go:embed shaders/tonemap_cs.wgsl
var tonemapComputeShaderSource string

// Shader describes one embedded WGSL module.
type Shader struct {
	// Name is the file name without extension, e.g. "tonemap_cs".
	Name string

	// Source is the WGSL text.
	Source string

	// EntryPoints lists the entry points the module defines.
	EntryPoints []string
}

// Shaders returns every embedded shader, sorted by name.
func Shaders() []Shader {
	return []Shader{
		{Name: "blit", Source: blitShaderSource, EntryPoints: []string{"vs_main", "fs_main"}},
		{Name: "blit_cs", Source: blitComputeShaderSource, EntryPoints: []string{"cs_main"}},
		{Name: "gamma", Source: gammaShaderSource, EntryPoints: []string{"cs_main"}},
		{Name: "tonemap", Source: tonemapShaderSource, EntryPoints: []string{"vs_main", "fs_main"}},
		{Name: "tonemap_cs", Source: tonemapComputeShaderSource, EntryPoints: []string{"cs_main"}},
	}
}

// ShaderByName returns the embedded shader called name.
func ShaderByName(name string) (Shader, error) {
	shaders := Shaders()
	i := slices.IndexFunc(shaders, func(s Shader) bool { return s.Name == name })
	if i < 0 {
		return Shader{}, fmt.Errorf("gpu: unknown shader %q", name)
	}
	return shaders[i], nil
}
