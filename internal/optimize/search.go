package optimize

import "fmt"

// DefaultMaxAttempts bounds the target search when the caller gives no
// attempt budget of its own.
const DefaultMaxAttempts = 12

// SearchResult is the outcome of a target-size search: the winning (or,
// when the target was not met, smallest) attempt's pass result plus the
// settings that produced it.
type SearchResult struct {
	Result
	Settings  Settings
	Size      int
	Attempts  int
	TargetMet bool
}

// Target tries candidate settings derived from base, in order, until one
// pass produces output of at most targetBytes or maxAttempts candidates
// have been tried. Every attempt re-runs the full pipeline from the
// original raw bytes, never from a previous attempt's output, so lossy
// degradation cannot stack across attempts.
//
// When the ladder or the budget runs out without meeting the target, the
// smallest attempt observed is returned with TargetMet false; that is a
// best-effort outcome, not an error. attemptFn, when non-nil, is called
// before each attempt with its number and settings.
func Target(raw []byte, targetBytes int, base Settings, maxAttempts int, attemptFn func(int, Settings)) (SearchResult, error) {
	run := func(s Settings) (Result, error) {
		return Container(raw, s)
	}
	return searchTarget(targetBytes, base, maxAttempts, run, attemptFn)
}

func searchTarget(targetBytes int, base Settings, maxAttempts int, run func(Settings) (Result, error), attemptFn func(int, Settings)) (SearchResult, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	candidates := Candidates(base)
	if len(candidates) == 0 {
		return SearchResult{}, fmt.Errorf("optimize: no candidate settings for baseline %dpx q%d", base.MaxSize, base.Quality)
	}

	var best SearchResult
	for i, s := range candidates {
		if i >= maxAttempts {
			break
		}
		attempt := i + 1
		if attemptFn != nil {
			attemptFn(attempt, s)
		}

		res, err := run(s)
		if err != nil {
			return SearchResult{}, err
		}

		size := len(res.Output)
		if best.Attempts == 0 || size < best.Size {
			best = SearchResult{Result: res, Settings: s, Size: size}
		}
		best.Attempts = attempt

		if size <= targetBytes {
			return SearchResult{Result: res, Settings: s, Size: size, Attempts: attempt, TargetMet: true}, nil
		}
	}

	return best, nil
}
