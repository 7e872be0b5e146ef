package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thomaswaltmans/marketvault/internal/model"
	"github.com/thomaswaltmans/marketvault/internal/testutil"
)

func TestDashboardHandler_Growth(t *testing.T) {
	today := testutil.Day(2026, 8, 15)

	t.Run("empty portfolio serves the empty payload with 200", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAnalyticsService(t, db, testutil.NewMockMarketDataClient(), today)
		handler := NewDashboardHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/growth", nil)
		w := httptest.NewRecorder()

		handler.Growth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var payload model.GrowthPayload
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&payload)

		// Empty shape, not nulls: the frontend renders these directly.
		if payload.Dates == nil || payload.PortfolioValue == nil || payload.Invested == nil {
			t.Errorf("Expected non-nil empty slices, got %s", w.Body.String())
		}
	})

	t.Run("serves computed growth for a populated portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAnalyticsService(t, db, testutil.NewMockMarketDataClient(), today)
		handler := NewDashboardHandler(svc)

		asset := testutil.NewAsset().WithDataSymbol("VWCE.DE").Build(t, db)
		testutil.NewTransaction(asset.ID).Buy(10, 100).On(testutil.Day(2026, 8, 10)).Build(t, db)
		testutil.InsertPriceRange(t, db, "VWCE.DE", testutil.Day(2026, 8, 10), today.AddDate(0, 0, 1), 110)

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/growth", nil)
		w := httptest.NewRecorder()

		handler.Growth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var payload model.GrowthPayload
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&payload)

		if len(payload.Dates) != 6 {
			t.Errorf("Expected 6 days, got %d", len(payload.Dates))
		}
		if payload.PortfolioValue[len(payload.PortfolioValue)-1] != 1100 {
			t.Errorf("Expected closing value 1100, got %v", payload.PortfolioValue[len(payload.PortfolioValue)-1])
		}
	})
}

func TestDashboardHandler_Allocation(t *testing.T) {
	today := testutil.Day(2026, 8, 15)

	t.Run("empty portfolio serves the empty payload with 200", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAnalyticsService(t, db, testutil.NewMockMarketDataClient(), today)
		handler := NewDashboardHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/allocation", nil)
		w := httptest.NewRecorder()

		handler.Allocation(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var payload model.AllocationPayload
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&payload)

		if payload.Labels == nil || payload.Values == nil || payload.AssetTypes == nil {
			t.Errorf("Expected non-nil empty slices, got %s", w.Body.String())
		}
	})
}
