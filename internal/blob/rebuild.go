// Package blob rebuilds a GLB binary payload after some of its buffer-view
// regions have been replaced with new content. Regions keep their relative
// order from the source payload; bytes between and after regions are copied
// verbatim, while per-region padding is re-derived rather than copied.
package blob

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNoRegions    = errors.New("blob: no regions to rebuild")
	ErrRegionBounds = errors.New("blob: region out of payload bounds")
)

// Region is a half-open byte range [Offset, Offset+Length) inside a payload.
type Region struct {
	Offset int
	Length int
}

// pad4 returns the number of zero bytes needed to round n up to a multiple of 4.
func pad4(n int) int {
	return (4 - n%4) % 4
}

// Rebuild produces a new payload in which every region listed in replacements
// holds its replacement bytes and every other region holds its original bytes.
// The returned slice of regions carries the recomputed offsets; Length is the
// logical (unpadded) size of each region's content, while the physical storage
// is zero-padded to a multiple of 4.
//
// Layout is determined by sorting regions on (original offset, index); gap
// bytes between consecutive regions and any trailer past the last region are
// copied verbatim. Inputs are never mutated.
func Rebuild(payload []byte, regions []Region, replacements map[int][]byte) ([]byte, []Region, error) {
	if len(regions) == 0 {
		return nil, nil, ErrNoRegions
	}
	for i, r := range regions {
		if r.Offset < 0 || r.Length < 0 || r.Offset+r.Length > len(payload) {
			return nil, nil, fmt.Errorf("%w: region %d [%d, %d)", ErrRegionBounds, i, r.Offset, r.Offset+r.Length)
		}
	}

	order := make([]int, len(regions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return regions[order[a]].Offset < regions[order[b]].Offset
	})

	updated := make([]Region, len(regions))
	out := make([]byte, 0, len(payload))
	cursor := 0

	for _, i := range order {
		off := regions[i].Offset
		ln := regions[i].Length

		// Bytes between the previous region's end and this region's start
		// are not owned by any region; preserve them as-is.
		if off > cursor {
			out = append(out, payload[cursor:off]...)
		}

		if repl, ok := replacements[i]; ok {
			updated[i] = Region{Offset: len(out), Length: len(repl)}
			out = append(out, repl...)
			out = append(out, make([]byte, pad4(len(repl)))...)
		} else {
			updated[i] = Region{Offset: len(out), Length: ln}
			out = append(out, payload[off:off+ln]...)
			out = append(out, make([]byte, pad4(ln))...)
		}

		// Advance past the unpadded source content only; source padding is
		// gap content and handled above on the next iteration.
		cursor = off + ln
	}

	if cursor < len(payload) {
		out = append(out, payload[cursor:]...)
	}

	return out, updated, nil
}
