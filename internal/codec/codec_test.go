package codec

import (
	"bytes"
	"image"
	"image/png"
	"math/rand"
	"testing"

	"golang.org/x/image/webp"
)

func pngBytes(t *testing.T, img *image.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func noiseImage(w, h int) *image.NRGBA {
	rng := rand.New(rand.NewSource(42))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(rng.Intn(256))
	}
	return img
}

func TestDecode(t *testing.T) {
	src := noiseImage(8, 6)
	got, err := Decode(pngBytes(t, src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), src.Bounds())
	}
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Error("pixel data changed through png round trip")
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte("not an image at all")); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := Decode(nil); err == nil {
		t.Fatal("expected decode error on empty input")
	}
}

func TestResizePreservesAspect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	out := Resize(img, 40)
	if got := out.Bounds(); got.Dx() != 40 || got.Dy() != 20 {
		t.Errorf("bounds = %dx%d, want 40x20", got.Dx(), got.Dy())
	}
}

func TestResizeNeverUpscales(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if out := Resize(img, 512); out != img {
		t.Error("image within the limit must be returned unchanged")
	}
	if out := Resize(img, 0); out != img {
		t.Error("non-positive limit must disable resizing")
	}
}

func TestResizeNeverCollapsesToZero(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 2))
	out := Resize(img, 128)
	if out.Bounds().Dy() < 1 {
		t.Error("short side collapsed below 1 pixel")
	}
}

func TestEncodeDecodable(t *testing.T) {
	for _, quality := range []int{95, 60, 20} {
		data, err := Encode(noiseImage(16, 16), quality)
		if err != nil {
			t.Fatalf("Encode(q=%d) failed: %v", quality, err)
		}
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Encode(q=%d) output not decodable: %v", quality, err)
		}
		if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
			t.Errorf("Encode(q=%d) bounds = %v", quality, b)
		}
	}
}

func TestEncodeLowerQualityIsSmaller(t *testing.T) {
	// Noise is incompressible at full depth, so the posterization presets
	// must show up directly in the stream size.
	img := noiseImage(64, 64)
	high, err := Encode(img, 95)
	if err != nil {
		t.Fatal(err)
	}
	low, err := Encode(img, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) >= len(high) {
		t.Errorf("quality 20 output (%d bytes) not smaller than quality 95 (%d bytes)", len(low), len(high))
	}
}

func TestQualityBits(t *testing.T) {
	cases := []struct {
		quality int
		bits    int
	}{
		{100, 8}, {90, 8}, {89, 7}, {75, 7}, {60, 6}, {45, 5}, {30, 4}, {10, 3}, {1, 3},
	}
	for _, c := range cases {
		if got := qualityBits(c.quality); got != c.bits {
			t.Errorf("qualityBits(%d) = %d, want %d", c.quality, got, c.bits)
		}
	}
}

func TestPosterizeLevels(t *testing.T) {
	img := noiseImage(32, 32)
	out := posterize(img, 3)

	levels := make(map[byte]bool)
	for i := 0; i < len(out.Pix); i += 4 {
		levels[out.Pix[i]] = true
	}
	if len(levels) > 8 {
		t.Errorf("3-bit posterization left %d red levels, want at most 8", len(levels))
	}

	if full := posterize(img, 8); full != img {
		t.Error("8-bit posterization must be a no-op")
	}
}
