package postfx

// Position is a clip-space vertex position. The z and w components of the
// full-screen stages are always 0 and 1.
type Position struct {
	X, Y float32
}

const (
	// TriangleVertexCount is the draw count of the full-screen triangle.
	TriangleVertexCount = 3

	// QuadVertexCount is the draw count of the full-screen quad.
	QuadVertexCount = 6
)

// TriangleVertex returns vertex index of a triangle that covers the whole
// viewport: (-1,-1), (3,-1), (-1,3) for indices 0, 1, 2.
//
// Only bits 0 and 1 of index are read, as in the vertex shader.
func TriangleVertex(index uint32) Position {
	return Position{
		X: float32((index&1)*4) - 1,
		Y: float32((index&2)*2) - 1,
	}
}

// quadVertices is the two-triangle quad, counter-clockwise:
// (0,1,2) = top-left, bottom-left, bottom-right and
// (3,4,5) = top-left, bottom-right, top-right.
var quadVertices = [QuadVertexCount]Position{
	{X: -1, Y: 1},
	{X: -1, Y: -1},
	{X: 1, Y: -1},
	{X: -1, Y: 1},
	{X: 1, Y: -1},
	{X: 1, Y: 1},
}

// QuadVertex returns vertex index of the full-screen quad. Indices above 5
// are rejected with ok == false.
func QuadVertex(index uint32) (pos Position, ok bool) {
	if index >= QuadVertexCount {
		return Position{}, false
	}
	return quadVertices[index], true
}

// TexCoord maps a clip-space position to texture coordinates, flipping Y so
// that clip (-1, 1) lands on texture (0, 0).
func TexCoord(p Position) (u, v float32) {
	return (p.X + 1) / 2, (1 - p.Y) / 2
}
