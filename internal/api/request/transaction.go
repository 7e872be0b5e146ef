package request

// CreateTransactionRequest is the body for recording a portfolio event.
// BUY and SELL carry quantity and unitPrice; DIVIDEND carries divAmount.
// Timestamp accepts YYYY-MM-DD or RFC 3339.
type CreateTransactionRequest struct {
	AssetID   string   `json:"assetId"`
	Type      string   `json:"type"`
	Quantity  *float64 `json:"quantity,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	DivAmount *float64 `json:"divAmount,omitempty"`
	Timestamp string   `json:"timestamp"`
}
