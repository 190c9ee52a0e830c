// Package classify labels every image in a GLB document so each can be
// re-encoded under its own size/quality policy.
package classify

import (
	"strings"

	"vrm-optimizer/internal/glb"
)

// Class is an image's re-encoding category.
type Class int

const (
	// General is any texture not matched by a more specific rule.
	General Class = iota
	// Thumbnail is an image whose name contains "thumbnail" (VRM meta
	// thumbnails). Checked before NormalMap; an image matching both rules
	// is a Thumbnail.
	Thumbnail
	// NormalMap is an image reachable through some material's normal-map
	// texture reference.
	NormalMap
)

func (c Class) String() string {
	switch c {
	case Thumbnail:
		return "thumbnail"
	case NormalMap:
		return "normal"
	default:
		return "general"
	}
}

// Images returns one Class per image index. Pure function of the document.
func Images(doc *glb.Document) []Class {
	normal := normalMapImages(doc)

	classes := make([]Class, len(doc.Images))
	for i, img := range doc.Images {
		switch {
		case strings.Contains(strings.ToLower(img.Name), "thumbnail"):
			classes[i] = Thumbnail
		case normal[i]:
			classes[i] = NormalMap
		default:
			classes[i] = General
		}
	}
	return classes
}

// normalMapImages collects the set of image indices referenced by any
// material's normalTexture, via the material → texture → image chain.
func normalMapImages(doc *glb.Document) map[int]bool {
	texIndices := make(map[int]bool)
	for _, m := range doc.Materials {
		if m.NormalTexture != nil && m.NormalTexture.Index != nil {
			texIndices[*m.NormalTexture.Index] = true
		}
	}

	images := make(map[int]bool)
	for t := range texIndices {
		if t < 0 || t >= len(doc.Textures) {
			continue
		}
		if src := doc.Textures[t].Source; src != nil {
			images[*src] = true
		}
	}
	return images
}
