package glb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Encode serializes the container back to GLB bytes. The JSON chunk is
// space-padded and the payload chunk zero-padded to 4-byte boundaries, as
// the format requires. Output is deterministic for a given container.
func (c *Container) Encode() ([]byte, error) {
	structure, err := c.Doc.marshal()
	if err != nil {
		return nil, err
	}

	jsonPad := (4 - len(structure)%4) % 4
	binPad := (4 - len(c.Payload)%4) % 4
	total := headerLen + 8 + len(structure) + jsonPad + 8 + len(c.Payload) + binPad

	var buf bytes.Buffer
	buf.Grow(total)

	var word [4]byte
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(word[:], v)
		buf.Write(word[:])
	}

	putU32(magicGLTF)
	putU32(version2)
	putU32(uint32(total))

	putU32(uint32(len(structure) + jsonPad))
	putU32(chunkJSON)
	buf.Write(structure)
	for i := 0; i < jsonPad; i++ {
		buf.WriteByte(' ')
	}

	putU32(uint32(len(c.Payload) + binPad))
	putU32(chunkBIN)
	buf.Write(c.Payload)
	for i := 0; i < binPad; i++ {
		buf.WriteByte(0)
	}

	return buf.Bytes(), nil
}

// marshal re-serializes the structure chunk. Only the arrays this tool
// rewrites (buffers, bufferViews, images) are rebuilt from their typed
// fields; all other top-level keys are emitted from the original raw bytes.
func (d *Document) marshal() ([]byte, error) {
	root := make(map[string]json.RawMessage, len(d.root))
	for k, v := range d.root {
		root[k] = v
	}

	if len(d.Buffers) > 0 {
		items := make([]map[string]json.RawMessage, len(d.Buffers))
		for i, b := range d.Buffers {
			items[i] = withField(b.raw, "byteLength", b.ByteLength)
		}
		if err := setKey(root, "buffers", items); err != nil {
			return nil, err
		}
	}

	if len(d.BufferViews) > 0 {
		items := make([]map[string]json.RawMessage, len(d.BufferViews))
		for i, bv := range d.BufferViews {
			m := withField(bv.raw, "byteOffset", bv.ByteOffset)
			setField(m, "byteLength", bv.ByteLength)
			items[i] = m
		}
		if err := setKey(root, "bufferViews", items); err != nil {
			return nil, err
		}
	}

	if len(d.Images) > 0 {
		items := make([]map[string]json.RawMessage, len(d.Images))
		for i, img := range d.Images {
			m := cloneFields(img.raw)
			if img.MimeType != "" {
				setField(m, "mimeType", img.MimeType)
			}
			items[i] = m
		}
		if err := setKey(root, "images", items); err != nil {
			return nil, err
		}
	}

	out, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("glb: marshal structure: %w", err)
	}
	return out, nil
}

func cloneFields(src map[string]json.RawMessage) map[string]json.RawMessage {
	dst := make(map[string]json.RawMessage, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func setField(m map[string]json.RawMessage, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		// ints and strings only; cannot fail
		panic(err)
	}
	m[key] = raw
}

func withField(src map[string]json.RawMessage, key string, v any) map[string]json.RawMessage {
	m := cloneFields(src)
	setField(m, key, v)
	return m
}

func setKey(root map[string]json.RawMessage, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("glb: marshal %s: %w", key, err)
	}
	root[key] = raw
	return nil
}
