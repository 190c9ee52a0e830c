package optimize

import (
	"errors"
	"testing"
)

// fakeRun returns outputs of the given sizes, one per call, in order.
func fakeRun(t *testing.T, sizes []int) func(Settings) (Result, error) {
	t.Helper()
	call := 0
	return func(Settings) (Result, error) {
		if call >= len(sizes) {
			t.Fatalf("run called %d times, only %d sizes scripted", call+1, len(sizes))
		}
		out := make([]byte, sizes[call])
		call++
		return Result{Output: out}, nil
	}
}

func TestSearchStopsAtFirstAttemptMeetingTarget(t *testing.T) {
	target := 5_000_000
	run := fakeRun(t, []int{6_200_000, 4_800_000})

	res, err := searchTarget(target, DefaultSettings(), 12, run, nil)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !res.TargetMet {
		t.Error("target met but not reported")
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
	if res.Size != 4_800_000 || len(res.Output) != 4_800_000 {
		t.Errorf("size = %d, want 4800000", res.Size)
	}
	if res.Size > target {
		t.Error("reported success above the target")
	}
}

func TestSearchReportsBestOnExhaustion(t *testing.T) {
	// No attempt fits; the smallest one (not the last) must be reported.
	run := fakeRun(t, []int{8_000_000, 6_500_000, 7_200_000})
	var tried []Settings
	attemptFn := func(_ int, s Settings) { tried = append(tried, s) }

	res, err := searchTarget(1_000_000, DefaultSettings(), 3, run, attemptFn)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.TargetMet {
		t.Error("target reported met on exhaustion")
	}
	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
	if res.Size != 6_500_000 {
		t.Errorf("best size = %d, want 6500000", res.Size)
	}
	if len(tried) != 3 || res.Settings != tried[1] {
		t.Errorf("best settings %+v do not match second attempt %+v", res.Settings, tried)
	}
}

func TestSearchHonorsAttemptBudget(t *testing.T) {
	calls := 0
	run := func(Settings) (Result, error) {
		calls++
		return Result{Output: make([]byte, 9_000_000)}, nil
	}

	res, err := searchTarget(1, DefaultSettings(), 4, run, nil)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 4 || res.Attempts != 4 {
		t.Errorf("calls=%d attempts=%d, want 4 and 4", calls, res.Attempts)
	}
}

func TestSearchDefaultBudget(t *testing.T) {
	calls := 0
	run := func(Settings) (Result, error) {
		calls++
		return Result{Output: make([]byte, 9_000_000)}, nil
	}

	// The default ladder has 20 candidates; a zero budget falls back to 12.
	if _, err := searchTarget(1, DefaultSettings(), 0, run, nil); err != nil {
		t.Fatal(err)
	}
	if calls != DefaultMaxAttempts {
		t.Errorf("calls = %d, want %d", calls, DefaultMaxAttempts)
	}
}

func TestSearchWalksCandidatesInOrder(t *testing.T) {
	var tried []Settings
	run := func(s Settings) (Result, error) {
		tried = append(tried, s)
		return Result{Output: make([]byte, 9_000_000)}, nil
	}

	if _, err := searchTarget(1, DefaultSettings(), 3, run, nil); err != nil {
		t.Fatal(err)
	}

	want := Candidates(DefaultSettings())[:3]
	for i := range want {
		if tried[i] != want[i] {
			t.Errorf("attempt %d ran %+v, want %+v", i+1, tried[i], want[i])
		}
	}
}

func TestSearchPropagatesPipelineError(t *testing.T) {
	boom := errors.New("boom")
	run := func(Settings) (Result, error) { return Result{}, boom }

	if _, err := searchTarget(1, DefaultSettings(), 3, run, nil); !errors.Is(err, boom) {
		t.Errorf("got %v, want pipeline error", err)
	}
}

func TestSearchNoCandidates(t *testing.T) {
	base := DefaultSettings()
	base.MaxSize = 64 // below the resolution floor, empty ladder

	run := func(Settings) (Result, error) {
		t.Fatal("run must not be called without candidates")
		return Result{}, nil
	}
	if _, err := searchTarget(1, base, 3, run, nil); err == nil {
		t.Error("expected error for an empty candidate ladder")
	}
}

func TestSearchAttemptCallback(t *testing.T) {
	var numbers []int
	attemptFn := func(n int, _ Settings) { numbers = append(numbers, n) }
	run := fakeRun(t, []int{9_000_000, 9_000_000, 500})

	res, err := searchTarget(1_000, DefaultSettings(), 12, run, attemptFn)
	if err != nil {
		t.Fatal(err)
	}
	if res.Attempts != 3 || len(numbers) != 3 || numbers[0] != 1 || numbers[2] != 3 {
		t.Errorf("attempt callbacks = %v, attempts = %d", numbers, res.Attempts)
	}
}

func TestTargetSearchEndToEnd(t *testing.T) {
	raw, _, _, _ := fixture(t)

	// A generous target succeeds on the first attempt.
	res, err := Target(raw, 10_000_000, DefaultSettings(), 12, nil)
	if err != nil {
		t.Fatalf("Target failed: %v", err)
	}
	if !res.TargetMet || res.Attempts != 1 {
		t.Errorf("met=%v attempts=%d, want first-attempt success", res.TargetMet, res.Attempts)
	}
	if len(res.Output) != res.Size {
		t.Errorf("size %d does not match output length %d", res.Size, len(res.Output))
	}

	// An impossible target exhausts the budget and still returns output.
	res, err = Target(raw, 1, DefaultSettings(), 3, nil)
	if err != nil {
		t.Fatalf("Target failed: %v", err)
	}
	if res.TargetMet || res.Attempts != 3 || len(res.Output) == 0 {
		t.Errorf("met=%v attempts=%d output=%d bytes, want best-effort result", res.TargetMet, res.Attempts, len(res.Output))
	}
}

func TestTargetSearchDeterministic(t *testing.T) {
	raw, _, _, _ := fixture(t)

	first, err := Target(raw, 1, DefaultSettings(), 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Target(raw, 1, DefaultSettings(), 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(first.Output) != string(second.Output) {
		t.Error("identical searches produced different outputs")
	}
}
