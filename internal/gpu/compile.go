//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

// CompileSPIRV compiles WGSL source to a SPIR-V binary.
func CompileSPIRV(source string) ([]byte, error) {
	if source == "" {
		return nil, errors.New("gpu: empty shader source")
	}
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}
	if len(spirv) < 4 || len(spirv)%4 != 0 {
		return nil, fmt.Errorf("gpu: compile shader: malformed SPIR-V (%d bytes)", len(spirv))
	}
	if binary.LittleEndian.Uint32(spirv) != SPIRVMagic {
		return nil, fmt.Errorf("gpu: compile shader: bad SPIR-V magic 0x%08x", binary.LittleEndian.Uint32(spirv))
	}
	return spirv, nil
}

// SPIRVWords converts a SPIR-V binary to little-endian 32-bit words, the
// form hal.ShaderSource expects.
func SPIRVWords(spirv []byte) []uint32 {
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words
}

// CompileAll compiles every embedded shader. The map is keyed by shader
// name. The first failure is returned with the shader name.
func CompileAll() (map[string][]byte, error) {
	out := make(map[string][]byte)
	for _, s := range Shaders() {
		spirv, err := CompileSPIRV(s.Source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		out[s.Name] = spirv
	}
	return out, nil
}
