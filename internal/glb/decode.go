package glb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

const (
	headerLen = 12

	magicGLTF = 0x46546C67 // "glTF"
	version2  = 2

	chunkJSON = 0x4E4F534A // "JSON"
	chunkBIN  = 0x004E4942 // "BIN\0"
)

// Decode parses a GLB container. The first chunk must be the JSON structure
// chunk and a binary payload chunk must follow; chunks of unknown type after
// those two are ignored.
func Decode(data []byte) (*Container, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != magicGLTF {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != version2 {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, v)
	}
	total := int(binary.LittleEndian.Uint32(data[8:12]))
	if total > len(data) {
		return nil, fmt.Errorf("%w: declared length %d exceeds %d bytes", ErrTruncated, total, len(data))
	}

	var jsonChunk, binChunk []byte
	off := headerLen
	for off < total {
		if off+8 > total {
			return nil, fmt.Errorf("%w: chunk header at %d", ErrTruncated, off)
		}
		length := int(binary.LittleEndian.Uint32(data[off : off+4]))
		ctype := binary.LittleEndian.Uint32(data[off+4 : off+8])
		off += 8
		if off+length > total {
			return nil, fmt.Errorf("%w: chunk data at %d", ErrTruncated, off)
		}
		body := data[off : off+length]
		off += length

		switch {
		case jsonChunk == nil:
			if ctype != chunkJSON {
				return nil, ErrNoJSONChunk
			}
			jsonChunk = body
		case ctype == chunkBIN && binChunk == nil:
			binChunk = body
		}
	}

	if jsonChunk == nil {
		return nil, ErrNoJSONChunk
	}
	if binChunk == nil {
		return nil, ErrNoPayload
	}

	doc, err := decodeDocument(jsonChunk)
	if err != nil {
		return nil, err
	}

	// The payload is shared with the caller's input slice; treat it as
	// immutable.
	return &Container{Doc: doc, Payload: binChunk}, nil
}

func decodeDocument(data []byte) (*Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("glb: structure chunk: %w", err)
	}

	doc := &Document{root: root}

	rawBuffers, err := rawList(root, "buffers")
	if err != nil {
		return nil, err
	}
	for _, r := range rawBuffers {
		var f struct {
			ByteLength int `json:"byteLength"`
		}
		if err := json.Unmarshal(r.bytes, &f); err != nil {
			return nil, fmt.Errorf("glb: buffer: %w", err)
		}
		doc.Buffers = append(doc.Buffers, Buffer{raw: r.fields, ByteLength: f.ByteLength})
	}

	rawViews, err := rawList(root, "bufferViews")
	if err != nil {
		return nil, err
	}
	for _, r := range rawViews {
		var f struct {
			Buffer     int `json:"buffer"`
			ByteOffset int `json:"byteOffset"`
			ByteLength int `json:"byteLength"`
		}
		if err := json.Unmarshal(r.bytes, &f); err != nil {
			return nil, fmt.Errorf("glb: bufferView: %w", err)
		}
		doc.BufferViews = append(doc.BufferViews, BufferView{
			raw:        r.fields,
			Buffer:     f.Buffer,
			ByteOffset: f.ByteOffset,
			ByteLength: f.ByteLength,
		})
	}

	rawImages, err := rawList(root, "images")
	if err != nil {
		return nil, err
	}
	for _, r := range rawImages {
		var f struct {
			Name       string `json:"name"`
			MimeType   string `json:"mimeType"`
			BufferView *int   `json:"bufferView"`
		}
		if err := json.Unmarshal(r.bytes, &f); err != nil {
			return nil, fmt.Errorf("glb: image: %w", err)
		}
		doc.Images = append(doc.Images, Image{
			raw:        r.fields,
			Name:       f.Name,
			MimeType:   f.MimeType,
			BufferView: f.BufferView,
		})
	}

	if raw, ok := root["textures"]; ok {
		if err := json.Unmarshal(raw, &doc.Textures); err != nil {
			return nil, fmt.Errorf("glb: textures: %w", err)
		}
	}
	if raw, ok := root["materials"]; ok {
		var mats []struct {
			NormalTexture *NormalTextureInfo `json:"normalTexture"`
		}
		if err := json.Unmarshal(raw, &mats); err != nil {
			return nil, fmt.Errorf("glb: materials: %w", err)
		}
		for _, m := range mats {
			doc.Materials = append(doc.Materials, Material(m))
		}
	}
	if raw, ok := root["extensionsUsed"]; ok {
		if err := json.Unmarshal(raw, &doc.ExtensionsUsed); err != nil {
			return nil, fmt.Errorf("glb: extensionsUsed: %w", err)
		}
	}

	return doc, nil
}

// rawObject is one array element kept both as original bytes and as a
// field map so individual fields can be rewritten without disturbing the
// rest of the object.
type rawObject struct {
	bytes  json.RawMessage
	fields map[string]json.RawMessage
}

func rawList(root map[string]json.RawMessage, key string) ([]rawObject, error) {
	raw, ok := root[key]
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("glb: %s: %w", key, err)
	}
	out := make([]rawObject, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			return nil, fmt.Errorf("glb: %s[%d]: %w", key, i, err)
		}
		out[i] = rawObject{bytes: item, fields: fields}
	}
	return out, nil
}
