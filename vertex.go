package glyphatlas

// Vertex is one corner of an emitted triangle, in the flat vertex format
// shared with the 2D renderer.
type Vertex struct {
	// Pos is the screen-space position in pixels.
	Pos Vec2

	// TexCoord is the normalized atlas texture coordinate.
	TexCoord Vec2

	// Color is the flat glyph color.
	Color RGBA

	// TextureMix selects between flat color (0) and texture (1).
	// Glyph primitives always use 1.
	TextureMix float32

	// CircleMix is a rendering-mode flag belonging to the renderer's
	// vertex format, passed through unchanged. Glyph primitives always
	// use 0.
	CircleMix float32
}

// Primitive is one textured triangle emitted to the renderer.
// Vertices are in clockwise winding order.
type Primitive struct {
	// Texture is the atlas texture to bind, shared by both triangles of
	// a glyph quad.
	Texture Texture

	// Vertices are the triangle corners, clockwise.
	Vertices [3]Vertex
}
