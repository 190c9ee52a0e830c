package glb

import "errors"

var (
	ErrInvalidMagic       = errors.New("glb: invalid magic")
	ErrUnsupportedVersion = errors.New("glb: unsupported version")
	ErrTruncated          = errors.New("glb: truncated container")
	ErrNoJSONChunk        = errors.New("glb: first chunk is not JSON")
	ErrNoPayload          = errors.New("glb: no binary payload chunk")
	ErrNoBuffers          = errors.New("glb: document declares no buffers")
)
