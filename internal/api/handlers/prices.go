package handlers

import (
	"errors"
	"net/http"

	"github.com/thomaswaltmans/marketvault/internal/api/request"
	"github.com/thomaswaltmans/marketvault/internal/api/response"
	"github.com/thomaswaltmans/marketvault/internal/apperrors"
	"github.com/thomaswaltmans/marketvault/internal/service"
)

// PricesHandler handles HTTP requests for the close price matrix.
type PricesHandler struct {
	priceService *service.PriceService
}

// NewPricesHandler creates a new PricesHandler with the provided service dependency.
func NewPricesHandler(priceService *service.PriceService) *PricesHandler {
	return &PricesHandler{
		priceService: priceService,
	}
}

// PriceMatrixResponse is the wire shape of a close price matrix: one date
// row per calendar day and one close series per symbol that had data.
type PriceMatrixResponse struct {
	Dates  []string             `json:"dates"`
	Closes map[string][]float64 `json:"closes"`
}

// ClosePrices handles GET requests for daily close prices over a date range.
// Serves cached data where fresh, fetches from the provider where stale.
// The end date is exclusive.
//
// Endpoint: GET /api/prices?symbols=AAPL,VWCE.DE&start=2026-01-01&end=2026-02-01
// Response: 200 OK with PriceMatrixResponse
// Error: 400 Bad Request if the query is malformed or the range is empty
// Error: 500 Internal Server Error if retrieval fails
func (h *PricesHandler) ClosePrices(w http.ResponseWriter, r *http.Request) {
	q, err := request.ParsePricesQuery(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	matrix, err := h.priceService.GetClosePrices(r.Context(), q.Symbols, q.Start, q.End)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDateRange) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve prices", err.Error())
		return
	}

	resp := PriceMatrixResponse{
		Dates:  make([]string, 0, len(matrix.Dates)),
		Closes: make(map[string][]float64, len(matrix.Symbols)),
	}
	for _, d := range matrix.Dates {
		resp.Dates = append(resp.Dates, d.Format("2006-01-02"))
	}
	for _, symbol := range matrix.Symbols {
		if column, ok := matrix.Column(symbol); ok {
			resp.Closes[symbol] = column
		}
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
