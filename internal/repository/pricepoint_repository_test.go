package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomaswaltmans/marketvault/internal/model"
	"github.com/thomaswaltmans/marketvault/internal/repository"
	"github.com/thomaswaltmans/marketvault/internal/testutil"
)

func makePoint(symbol string, day time.Time, closePrice float64) model.PricePoint {
	return model.PricePoint{
		ID:     testutil.MakeID(),
		Symbol: symbol,
		Date:   day,
		Close:  decimal.NewFromFloat(closePrice),
	}
}

// TestPricePointRepository_InsertIgnoringDuplicates tests duplicate-safe writes.
//
// WHY: Concurrent fetch jobs and overlap-window refetches routinely write
// the same (symbol, date) twice. The storage layer must skip the duplicate
// silently instead of erroring or creating a second row.
func TestPricePointRepository_InsertIgnoringDuplicates(t *testing.T) {
	day1 := testutil.Day(2026, 1, 5)
	day2 := testutil.Day(2026, 1, 6)

	t.Run("inserts new points and reports the count", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewPricePointRepository(db)

		// Execute
		inserted, err := repo.InsertIgnoringDuplicates(context.Background(), []model.PricePoint{
			makePoint("VWCE.DE", day1, 105.5),
			makePoint("VWCE.DE", day2, 106),
		})

		// Assert
		if err != nil {
			t.Fatalf("InsertIgnoringDuplicates() returned unexpected error: %v", err)
		}
		if inserted != 2 {
			t.Errorf("Expected 2 inserted rows, got %d", inserted)
		}
	})

	t.Run("skips existing (symbol, date) rows without error", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewPricePointRepository(db)

		if _, err := repo.InsertIgnoringDuplicates(context.Background(), []model.PricePoint{
			makePoint("VWCE.DE", day1, 105.5),
		}); err != nil {
			t.Fatalf("Seed insert failed: %v", err)
		}

		// Execute: re-insert the same day with a different close, plus one
		// genuinely new day.
		inserted, err := repo.InsertIgnoringDuplicates(context.Background(), []model.PricePoint{
			makePoint("VWCE.DE", day1, 999),
			makePoint("VWCE.DE", day2, 106),
		})

		// Assert
		if err != nil {
			t.Fatalf("InsertIgnoringDuplicates() returned unexpected error: %v", err)
		}
		if inserted != 1 {
			t.Errorf("Expected 1 inserted row, got %d", inserted)
		}

		// The original close survives; the duplicate write did not update it.
		points, err := repo.GetPricePoints([]string{"VWCE.DE"}, day1, day2.AddDate(0, 0, 1))
		if err != nil {
			t.Fatalf("GetPricePoints() returned unexpected error: %v", err)
		}
		if got := points["VWCE.DE"][0].Close; !got.Equal(decimal.NewFromFloat(105.5)) {
			t.Errorf("Expected original close 105.5 to survive, got %s", got)
		}
	})
}

// TestPricePointRepository_GetPricePoints tests the end-exclusive range read.
//
// WHY: The cache's staleness decisions key off "latest cached point in
// range", so the read must be end-exclusive, date-ascending and grouped by
// symbol exactly.
func TestPricePointRepository_GetPricePoints(t *testing.T) {
	t.Run("end date is exclusive and order is ascending", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewPricePointRepository(db)

		for d := 5; d <= 8; d++ {
			testutil.InsertPricePoint(t, db, "VWCE.DE", testutil.Day(2026, 1, d), float64(100+d))
		}

		// Execute: [Jan 5, Jan 8) must omit Jan 8.
		points, err := repo.GetPricePoints([]string{"VWCE.DE"}, testutil.Day(2026, 1, 5), testutil.Day(2026, 1, 8))

		// Assert
		if err != nil {
			t.Fatalf("GetPricePoints() returned unexpected error: %v", err)
		}
		got := points["VWCE.DE"]
		if len(got) != 3 {
			t.Fatalf("Expected 3 points, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if !got[i-1].Date.Before(got[i].Date) {
				t.Errorf("Points not date-ascending at index %d", i)
			}
		}
		if last := got[2].Date; !last.Equal(testutil.Day(2026, 1, 7)) {
			t.Errorf("Expected last point Jan 7, got %v", last)
		}
	})

	t.Run("symbols without points are absent from the map", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPricePointRepository(db)

		testutil.InsertPricePoint(t, db, "VWCE.DE", testutil.Day(2026, 1, 5), 100)

		points, err := repo.GetPricePoints([]string{"VWCE.DE", "GHOST"}, testutil.Day(2026, 1, 1), testutil.Day(2026, 1, 31))
		if err != nil {
			t.Fatalf("GetPricePoints() returned unexpected error: %v", err)
		}

		if _, ok := points["GHOST"]; ok {
			t.Error("Expected GHOST to be absent from the result map")
		}
	})
}
