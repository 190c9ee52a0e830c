// Package glb reads and writes GLB (binary glTF) containers: a 12-byte
// header, one JSON structure chunk and one binary payload chunk.
//
// The JSON chunk is decoded into a small typed subset (buffers, buffer
// views, images, textures, materials) while every object keeps its raw
// fields; encoding re-marshals only the fields this tool rewrites, so
// vendor extensions such as the VRM profile round-trip untouched.
package glb

import "encoding/json"

// Container is a fully parsed GLB file: the structure document plus the
// single binary payload blob its buffer views index into.
type Container struct {
	Doc     *Document
	Payload []byte
}

// Document is the decoded JSON structure chunk. Buffers, BufferViews and
// Images are read-write; Textures and Materials are read-only views used
// for classification and are never re-marshaled.
type Document struct {
	root map[string]json.RawMessage

	Buffers        []Buffer
	BufferViews    []BufferView
	Images         []Image
	Textures       []Texture
	Materials      []Material
	ExtensionsUsed []string
}

// Buffer describes one payload blob. The design assumes exactly one.
type Buffer struct {
	raw map[string]json.RawMessage

	ByteLength int
}

// BufferView is a byte range [ByteOffset, ByteOffset+ByteLength) inside a
// buffer. A missing byteOffset in the source JSON decodes as 0.
type BufferView struct {
	raw map[string]json.RawMessage

	Buffer     int
	ByteOffset int
	ByteLength int
}

// Image is an embedded image. BufferView is nil for images referenced by
// URI instead of an embedded region; such images are skipped.
type Image struct {
	raw map[string]json.RawMessage

	Name       string
	MimeType   string
	BufferView *int
}

// Texture maps a sampler to a source image index. Source may be absent.
type Texture struct {
	Source *int
}

// Material carries the one reference the classifier needs: the optional
// normal-map texture index.
type Material struct {
	NormalTexture *NormalTextureInfo
}

// NormalTextureInfo is a material's normalTexture object.
type NormalTextureInfo struct {
	Index *int `json:"index"`
}

// IsVRM reports whether the document carries a VRM profile marker, either
// in extensionsUsed or as a top-level extension key.
func (d *Document) IsVRM() bool {
	for _, e := range d.ExtensionsUsed {
		if e == "VRM" || e == "VRMC_vrm" {
			return true
		}
	}
	if raw, ok := d.root["extensions"]; ok {
		var ext map[string]json.RawMessage
		if json.Unmarshal(raw, &ext) == nil {
			if _, ok := ext["VRM"]; ok {
				return true
			}
			if _, ok := ext["VRMC_vrm"]; ok {
				return true
			}
		}
	}
	return false
}
