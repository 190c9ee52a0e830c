// Package optimize re-encodes the embedded textures of a GLB/VRM container
// and rebuilds its binary payload, optionally searching re-encoding
// settings until the output fits a target size.
package optimize

import (
	"errors"
	"fmt"

	"vrm-optimizer/internal/blob"
	"vrm-optimizer/internal/classify"
	"vrm-optimizer/internal/codec"
	"vrm-optimizer/internal/glb"
)

var ErrNoImages = errors.New("optimize: no images in model")

// Settings holds the per-class max dimension and WebP quality used for one
// optimization pass.
type Settings struct {
	MaxSize       int
	Quality       int
	ThumbMax      int
	ThumbQuality  int
	NormalMax     int
	NormalQuality int
}

// DefaultSettings mirrors the tool's stock parameters: normal maps keep
// more quality than general textures, thumbnails less.
func DefaultSettings() Settings {
	return Settings{
		MaxSize:       512,
		Quality:       60,
		ThumbMax:      512,
		ThumbQuality:  45,
		NormalMax:     512,
		NormalQuality: 70,
	}
}

// policy returns the (max dimension, quality) pair for an image class.
func (s Settings) policy(c classify.Class) (int, int) {
	switch c {
	case classify.Thumbnail:
		return s.ThumbMax, s.ThumbQuality
	case classify.NormalMap:
		return s.NormalMax, s.NormalQuality
	default:
		return s.MaxSize, s.Quality
	}
}

// Result is the outcome of one optimization pass over one container.
type Result struct {
	Output    []byte
	Reencoded int
	Skipped   int
	WasVRM    bool
	Warnings  []string
}

// Container runs one full pass over raw GLB bytes: decode the container,
// classify its images, re-encode each decodable embedded image under its
// class policy, rebuild the payload and re-serialize. The input bytes are
// never modified; every call decodes them fresh, so repeated passes with
// the same settings produce identical output.
//
// Images that fail to decode are left untouched and reported as warnings.
// A container with no images, no buffers or no buffer views is unusable
// and returns an error.
func Container(raw []byte, s Settings) (Result, error) {
	c, err := glb.Decode(raw)
	if err != nil {
		return Result{}, err
	}
	doc := c.Doc

	if len(doc.Images) == 0 {
		return Result{}, ErrNoImages
	}
	if len(doc.Buffers) == 0 {
		return Result{}, glb.ErrNoBuffers
	}

	res := Result{WasVRM: doc.IsVRM()}
	classes := classify.Images(doc)
	replacements := make(map[int][]byte)

	for i := range doc.Images {
		img := &doc.Images[i]
		if img.BufferView == nil {
			continue
		}
		bvIndex := *img.BufferView
		if bvIndex < 0 || bvIndex >= len(doc.BufferViews) {
			return Result{}, fmt.Errorf("optimize: image %d references bufferView %d of %d", i, bvIndex, len(doc.BufferViews))
		}
		bv := doc.BufferViews[bvIndex]
		if bv.ByteOffset < 0 || bv.ByteOffset+bv.ByteLength > len(c.Payload) {
			return Result{}, fmt.Errorf("optimize: image %d bufferView exceeds payload", i)
		}

		pix, err := codec.Decode(c.Payload[bv.ByteOffset : bv.ByteOffset+bv.ByteLength])
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping image %d (%s): %v", i, img.Name, err))
			res.Skipped++
			continue
		}

		limit, quality := s.policy(classes[i])
		encoded, err := codec.Encode(codec.Resize(pix, limit), quality)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping image %d (%s): %v", i, img.Name, err))
			res.Skipped++
			continue
		}

		replacements[bvIndex] = encoded
		img.MimeType = "image/webp"
		res.Reencoded++
	}

	regions := make([]blob.Region, len(doc.BufferViews))
	for i, bv := range doc.BufferViews {
		regions[i] = blob.Region{Offset: bv.ByteOffset, Length: bv.ByteLength}
	}

	payload, updated, err := blob.Rebuild(c.Payload, regions, replacements)
	if err != nil {
		return Result{}, err
	}

	for i := range doc.BufferViews {
		doc.BufferViews[i].ByteOffset = updated[i].Offset
		doc.BufferViews[i].ByteLength = updated[i].Length
	}
	doc.Buffers[0].ByteLength = len(payload)

	out, err := (&glb.Container{Doc: doc, Payload: payload}).Encode()
	if err != nil {
		return Result{}, err
	}
	res.Output = out
	return res, nil
}
