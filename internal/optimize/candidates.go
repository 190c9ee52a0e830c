package optimize

// Candidate ladder bounds. Resolutions never drop below minDimension and
// qualities never below minQuality, whatever the baseline.
const (
	minDimension = 128
	minQuality   = 10
)

// Candidates returns the finite, ordered sequence of settings the target
// search walks: an outer descent over resolution (the most impactful
// lever) and an inner descent over quality. Thumbnail and normal-map
// parameters are derived from each pair — normal maps tolerate lower
// resolution but need more preserved quality for directional accuracy,
// thumbnails the reverse.
//
// Every candidate stays at or below the baseline; duplicates are removed
// preserving first occurrence, so the slice is bounded at construction.
func Candidates(base Settings) []Settings {
	sizes := dedupe(filterRange(
		[]int{base.MaxSize, 448, 384, 320, 256},
		minDimension, base.MaxSize,
	))
	qualities := dedupe(filterRange(
		[]int{base.Quality, min(65, base.Quality), 60, 55, 50, 45},
		minQuality, base.Quality,
	))

	out := make([]Settings, 0, len(sizes)*len(qualities))
	for _, size := range sizes {
		for _, q := range qualities {
			out = append(out, Settings{
				MaxSize:       size,
				Quality:       q,
				ThumbMax:      min(base.ThumbMax, max(256, size)),
				ThumbQuality:  min(base.ThumbQuality, max(30, q-10)),
				NormalMax:     min(base.NormalMax, size),
				NormalQuality: min(base.NormalQuality, max(40, q+5)),
			})
		}
	}
	return out
}

func filterRange(vals []int, lo, hi int) []int {
	out := vals[:0:0]
	for _, v := range vals {
		if v >= lo && v <= hi {
			out = append(out, v)
		}
	}
	return out
}

func dedupe(vals []int) []int {
	seen := make(map[int]bool, len(vals))
	out := vals[:0:0]
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
