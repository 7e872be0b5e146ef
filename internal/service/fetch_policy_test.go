package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomaswaltmans/marketvault/internal/model"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func points(symbol string, days ...time.Time) []model.PricePoint {
	out := make([]model.PricePoint, len(days))
	for i, d := range days {
		out[i] = model.PricePoint{Symbol: symbol, Date: d, Close: decimal.NewFromInt(100)}
	}
	return out
}

// TestPlanFetchJobs tests the per-symbol staleness decision.
//
// WHY: This is the heart of the cache: which symbols hit the provider and
// over which windows determines both correctness and external call volume.
// The function is pure, so every policy branch is pinned down here without
// a database or network.
func TestPlanFetchJobs(t *testing.T) {
	start := day(2026, 1, 1)
	end := day(2026, 1, 31)

	t.Run("uncached symbol gets the full window", func(t *testing.T) {
		jobs := planFetchJobs(map[string][]model.PricePoint{}, []string{"AAA"}, start, end, 2, 7)

		if len(jobs) != 1 {
			t.Fatalf("Expected 1 job, got %d", len(jobs))
		}
		if !jobs[0].Start.Equal(start) || !jobs[0].End.Equal(end) {
			t.Errorf("Expected full window [%v, %v), got [%v, %v)", start, end, jobs[0].Start, jobs[0].End)
		}
	})

	t.Run("fresh symbol gets no job", func(t *testing.T) {
		// Latest cached close is Jan 29, the refresh threshold for an end
		// of Jan 31 with a 2 day staleness allowance.
		cached := map[string][]model.PricePoint{
			"AAA": points("AAA", day(2026, 1, 28), day(2026, 1, 29)),
		}

		jobs := planFetchJobs(cached, []string{"AAA"}, start, end, 2, 7)

		if len(jobs) != 0 {
			t.Errorf("Expected no jobs for fresh symbol, got %d", len(jobs))
		}
	})

	t.Run("stale symbol refetches overlap window through end", func(t *testing.T) {
		cached := map[string][]model.PricePoint{
			"AAA": points("AAA", day(2026, 1, 19), day(2026, 1, 20)),
		}

		jobs := planFetchJobs(cached, []string{"AAA"}, start, end, 2, 7)

		if len(jobs) != 1 {
			t.Fatalf("Expected 1 job, got %d", len(jobs))
		}
		// Latest is Jan 20; overlap of 7 days starts the fetch at Jan 13.
		if want := day(2026, 1, 13); !jobs[0].Start.Equal(want) {
			t.Errorf("Expected fetch start %v, got %v", want, jobs[0].Start)
		}
		if !jobs[0].End.Equal(end) {
			t.Errorf("Expected fetch end %v, got %v", end, jobs[0].End)
		}
	})

	t.Run("overlap window is clamped to the requested start", func(t *testing.T) {
		cached := map[string][]model.PricePoint{
			"AAA": points("AAA", day(2026, 1, 2)),
		}

		jobs := planFetchJobs(cached, []string{"AAA"}, start, end, 2, 7)

		if len(jobs) != 1 {
			t.Fatalf("Expected 1 job, got %d", len(jobs))
		}
		if !jobs[0].Start.Equal(start) {
			t.Errorf("Expected fetch start clamped to %v, got %v", start, jobs[0].Start)
		}
	})

	t.Run("mixed freshness only plans jobs for stale symbols", func(t *testing.T) {
		cached := map[string][]model.PricePoint{
			"FRESH": points("FRESH", day(2026, 1, 30)),
			"STALE": points("STALE", day(2026, 1, 10)),
		}

		jobs := planFetchJobs(cached, []string{"FRESH", "STALE", "NEW"}, start, end, 2, 7)

		if len(jobs) != 2 {
			t.Fatalf("Expected 2 jobs, got %d", len(jobs))
		}
		if jobs[0].Symbol != "STALE" || jobs[1].Symbol != "NEW" {
			t.Errorf("Expected jobs for STALE and NEW, got %s and %s", jobs[0].Symbol, jobs[1].Symbol)
		}
	})
}

// TestBatchFetchJobs tests grouping of planned jobs into provider calls.
//
// WHY: Grouping controls provider call volume but must never change the
// planned windows; jobs only share a call when their windows are identical.
func TestBatchFetchJobs(t *testing.T) {
	start := day(2026, 1, 1)
	end := day(2026, 1, 31)

	t.Run("jobs with identical windows share a batch", func(t *testing.T) {
		jobs := []fetchJob{
			{Symbol: "AAA", Start: start, End: end},
			{Symbol: "BBB", Start: start, End: end},
		}

		batches := batchFetchJobs(jobs, 8)

		if len(batches) != 1 {
			t.Fatalf("Expected 1 batch, got %d", len(batches))
		}
		if len(batches[0].Symbols) != 2 {
			t.Errorf("Expected 2 symbols in batch, got %d", len(batches[0].Symbols))
		}
	})

	t.Run("jobs with different windows never share a batch", func(t *testing.T) {
		jobs := []fetchJob{
			{Symbol: "AAA", Start: start, End: end},
			{Symbol: "BBB", Start: day(2026, 1, 13), End: end},
		}

		batches := batchFetchJobs(jobs, 8)

		if len(batches) != 2 {
			t.Fatalf("Expected 2 batches, got %d", len(batches))
		}
	})

	t.Run("batches are capped at the batch size", func(t *testing.T) {
		var jobs []fetchJob
		for _, symbol := range []string{"A", "B", "C", "D", "E"} {
			jobs = append(jobs, fetchJob{Symbol: symbol, Start: start, End: end})
		}

		batches := batchFetchJobs(jobs, 2)

		if len(batches) != 3 {
			t.Fatalf("Expected 3 batches, got %d", len(batches))
		}
		for i, batch := range batches {
			if len(batch.Symbols) > 2 {
				t.Errorf("Batch %d exceeds cap: %d symbols", i, len(batch.Symbols))
			}
		}
	})
}

// TestFetchBackoff tests the retry delay policy without sleeping.
//
// WHY: Backoff is deliberately a pure policy value separate from the code
// that waits, so the exact delay sequence can be asserted instantly.
func TestFetchBackoff(t *testing.T) {
	b := fetchBackoff()

	wantDelays := []time.Duration{500 * time.Millisecond, time.Second}
	for i, want := range wantDelays {
		got, stop := b.Next()
		if stop {
			t.Fatalf("Backoff stopped early at delay %d", i)
		}
		if got != want {
			t.Errorf("Delay %d: expected %v, got %v", i, want, got)
		}
	}

	// Two retries exhausted; a third attempt is never scheduled.
	if _, stop := b.Next(); !stop {
		t.Error("Expected backoff to stop after the final retry")
	}
}

// TestCalendarDays tests the shared calendar axis helper.
func TestCalendarDays(t *testing.T) {
	t.Run("end is exclusive", func(t *testing.T) {
		days := calendarDays(day(2026, 1, 1), day(2026, 1, 4))
		if len(days) != 3 {
			t.Fatalf("Expected 3 days, got %d", len(days))
		}
		if !days[2].Equal(day(2026, 1, 3)) {
			t.Errorf("Expected last day Jan 3, got %v", days[2])
		}
	})

	t.Run("empty range yields no days", func(t *testing.T) {
		if days := calendarDays(day(2026, 1, 4), day(2026, 1, 4)); len(days) != 0 {
			t.Errorf("Expected no days, got %d", len(days))
		}
	})
}
