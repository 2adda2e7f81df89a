// Package postfx implements the full-screen color stages that sit between a
// renderer and the display: gamma encoding, textured blits and a
// parameterized tonemap that resolves a premultiplied linear target.
//
// # Overview
//
// Every stage exists in two renditions. The CPU rendition is a set of pure
// per-pixel and per-vertex functions (EncodeGamma, TonemapTexel,
// BlitFragment, TriangleVertex, QuadVertex) mapped over a float Pixmap by a
// worker pool. The GPU rendition is WGSL embedded in internal/gpu and run
// by an optional accelerator registered with a blank import:
//
//	import _ "github.com/gogpu/postfx/gpu" // enables GPU acceleration
//
// When no accelerator is registered, or it declines an operation, the CPU
// path runs transparently.
//
// # Quick Start
//
//	src, err := postfx.PixmapFromImage(img)
//	if err != nil {
//		return err
//	}
//	out, err := postfx.NewPipeline().
//		Tonemap(postfx.SRGBTransfer()).
//		Blit(1280, 720, postfx.LinearSampler()).
//		Run(ctx, src)
//
// # Color Model
//
// Pixmaps hold float32 RGBA, row-major, top row first. Unless stated
// otherwise, RGB is linear light premultiplied by alpha. Values are not
// clamped; the stages only clamp where a power function requires a
// non-negative base.
//
// # Coordinate System
//
// Clip space spans [-1, 1] on both axes with +Y up. Texture coordinates
// span [0, 1] with (0, 0) at the top-left corner of the top-left texel.
package postfx

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
