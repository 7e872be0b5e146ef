package validation

import (
	"fmt"
	"strings"

	"github.com/thomaswaltmans/marketvault/internal/api/request"
	"github.com/thomaswaltmans/marketvault/internal/model"
	"github.com/thomaswaltmans/marketvault/internal/repository"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	model.TransactionBuy:      true,
	model.TransactionSell:     true,
	model.TransactionDividend: true,
}

// ValidateCreateTransaction validates a transaction creation request,
// including the per-type field shape.
//
// Required fields:
//   - assetId: Must be a valid UUID
//   - type: Must be one of: BUY, SELL, DIVIDEND
//   - timestamp: Must be YYYY-MM-DD or RFC 3339
//
// Type-dependent fields:
//   - BUY and SELL require positive quantity and unitPrice and forbid divAmount
//   - DIVIDEND requires positive divAmount and forbids quantity and unitPrice
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if assetErr := ValidateUUID(req.AssetID); assetErr != nil {
		return assetErr
	}

	if strings.TrimSpace(req.Timestamp) == "" {
		errors["timestamp"] = "timestamp is required"
	} else if _, err := repository.ParseTime(req.Timestamp); err != nil {
		errors["timestamp"] = err.Error()
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["transactionType"] = "type is required"
	} else if !ValidTransactionType[req.Type] {
		errors["transactionType"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	switch req.Type {
	case model.TransactionBuy, model.TransactionSell:
		if req.Quantity == nil || *req.Quantity <= 0.0 {
			errors["quantity"] = "quantity must be positive"
		}
		if req.UnitPrice == nil || *req.UnitPrice <= 0.0 {
			errors["unitPrice"] = "unitPrice must be positive"
		}
		if req.DivAmount != nil {
			errors["divAmount"] = fmt.Sprintf("divAmount not allowed for %s", req.Type)
		}
	case model.TransactionDividend:
		if req.DivAmount == nil || *req.DivAmount <= 0.0 {
			errors["divAmount"] = "divAmount must be positive"
		}
		if req.Quantity != nil {
			errors["quantity"] = "quantity not allowed for DIVIDEND"
		}
		if req.UnitPrice != nil {
			errors["unitPrice"] = "unitPrice not allowed for DIVIDEND"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
