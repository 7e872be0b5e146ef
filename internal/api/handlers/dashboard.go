package handlers

import (
	"net/http"

	"github.com/thomaswaltmans/marketvault/internal/api/response"
	"github.com/thomaswaltmans/marketvault/internal/service"
)

// DashboardHandler handles HTTP requests for the portfolio dashboard
// endpoints. It serves as the HTTP layer adapter and delegates all
// computation to the AnalyticsService.
type DashboardHandler struct {
	analyticsService *service.AnalyticsService
}

// NewDashboardHandler creates a new DashboardHandler with the provided service dependency.
func NewDashboardHandler(analyticsService *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{
		analyticsService: analyticsService,
	}
}

// Growth handles GET requests for the portfolio growth chart.
// An empty portfolio yields the empty payload shape, never an error.
//
// Endpoint: GET /api/dashboard/growth
// Response: 200 OK with GrowthPayload
// Error: 500 Internal Server Error if computation fails
func (h *DashboardHandler) Growth(w http.ResponseWriter, r *http.Request) {
	payload, err := h.analyticsService.Growth(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to compute portfolio growth", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Allocation handles GET requests for the current allocation chart.
//
// Endpoint: GET /api/dashboard/allocation
// Response: 200 OK with AllocationPayload
// Error: 500 Internal Server Error if computation fails
func (h *DashboardHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	payload, err := h.analyticsService.Allocation(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to compute allocation", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// AssetGrowth handles GET requests for the per-asset growth chart.
//
// Endpoint: GET /api/dashboard/asset-growth
// Response: 200 OK with AssetGrowthPayload
// Error: 500 Internal Server Error if computation fails
func (h *DashboardHandler) AssetGrowth(w http.ResponseWriter, r *http.Request) {
	payload, err := h.analyticsService.AssetGrowth(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to compute asset growth", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, payload)
}
