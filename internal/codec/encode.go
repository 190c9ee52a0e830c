package codec

import (
	"bytes"
	"fmt"
	"image"

	"github.com/HugoSmits86/nativewebp"
)

// Encode produces WebP bytes for img at the given quality in [1, 100].
//
// nativewebp encodes losslessly, so quality selects a posterization preset
// applied first: lower settings keep fewer levels per channel, which the
// lossless stream then compresses much harder. Quality 90 and above
// encodes the pixels untouched.
func Encode(img *image.NRGBA, quality int) ([]byte, error) {
	img = posterize(img, qualityBits(quality))

	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("codec: webp encode: %w", err)
	}
	return buf.Bytes(), nil
}

// qualityBits maps a quality in [1, 100] to retained bits per channel.
// Discrete presets keep the size/quality trade-off stable and predictable.
func qualityBits(quality int) int {
	switch {
	case quality >= 90:
		return 8
	case quality >= 75:
		return 7
	case quality >= 60:
		return 6
	case quality >= 45:
		return 5
	case quality >= 30:
		return 4
	default:
		return 3
	}
}

// posterize quantizes each color channel to 2^bits evenly spaced levels.
// Alpha keeps one extra bit so soft mask edges survive lower presets.
func posterize(src *image.NRGBA, bits int) *image.NRGBA {
	if bits >= 8 {
		return src
	}

	colorLUT := levelLUT(bits)
	alphaLUT := levelLUT(min(8, bits+1))

	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
		out := dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			out[i] = colorLUT[row[i]]
			out[i+1] = colorLUT[row[i+1]]
			out[i+2] = colorLUT[row[i+2]]
			out[i+3] = alphaLUT[row[i+3]]
		}
	}
	return dst
}

// levelLUT maps every byte value to the nearest of 2^bits evenly spaced
// levels spanning [0, 255].
func levelLUT(bits int) [256]byte {
	var lut [256]byte
	levels := (1 << bits) - 1
	for v := 0; v < 256; v++ {
		q := (v*levels + 127) / 255
		lut[v] = byte(q * 255 / levels)
	}
	return lut
}
