package validation_test

import (
	"errors"
	"testing"

	"github.com/thomaswaltmans/marketvault/internal/api/request"
	"github.com/thomaswaltmans/marketvault/internal/testutil"
	"github.com/thomaswaltmans/marketvault/internal/validation"
)

func f(v float64) *float64 { return &v }

// TestValidateCreateTransaction tests the per-type shape rules.
//
// WHY: The analytics pipeline relies on every stored transaction having
// exactly the fields its type requires. This boundary check is the only
// place those shape rules are enforced.
func TestValidateCreateTransaction(t *testing.T) {
	validBuy := func() request.CreateTransactionRequest {
		return request.CreateTransactionRequest{
			AssetID:   testutil.MakeID(),
			Type:      "BUY",
			Quantity:  f(10),
			UnitPrice: f(100),
			Timestamp: "2026-01-05",
		}
	}

	t.Run("accepts a well-formed buy", func(t *testing.T) {
		if err := validation.ValidateCreateTransaction(validBuy()); err != nil {
			t.Errorf("Expected valid request, got %v", err)
		}
	})

	t.Run("accepts a well-formed dividend", func(t *testing.T) {
		req := request.CreateTransactionRequest{
			AssetID:   testutil.MakeID(),
			Type:      "DIVIDEND",
			DivAmount: f(25),
			Timestamp: "2026-01-05",
		}
		if err := validation.ValidateCreateTransaction(req); err != nil {
			t.Errorf("Expected valid request, got %v", err)
		}
	})

	t.Run("rejects an invalid asset ID", func(t *testing.T) {
		req := validBuy()
		req.AssetID = "not-a-uuid"
		if err := validation.ValidateCreateTransaction(req); err == nil {
			t.Error("Expected error for invalid asset ID")
		}
	})

	t.Run("rejects a buy without quantity or unit price", func(t *testing.T) {
		req := validBuy()
		req.Quantity = nil
		req.UnitPrice = nil

		err := validation.ValidateCreateTransaction(req)
		if err == nil {
			t.Fatal("Expected validation error")
		}

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected *validation.Error, got %T", err)
		}
		if _, ok := vErr.Fields["quantity"]; !ok {
			t.Error("Expected a quantity field error")
		}
		if _, ok := vErr.Fields["unitPrice"]; !ok {
			t.Error("Expected a unitPrice field error")
		}
	})

	t.Run("rejects a buy carrying a dividend amount", func(t *testing.T) {
		req := validBuy()
		req.DivAmount = f(5)

		err := validation.ValidateCreateTransaction(req)
		if err == nil {
			t.Fatal("Expected validation error")
		}

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected *validation.Error, got %T", err)
		}
		if _, ok := vErr.Fields["divAmount"]; !ok {
			t.Error("Expected a divAmount field error")
		}
	})

	t.Run("rejects a dividend carrying trade fields", func(t *testing.T) {
		req := request.CreateTransactionRequest{
			AssetID:   testutil.MakeID(),
			Type:      "DIVIDEND",
			DivAmount: f(25),
			Quantity:  f(1),
			UnitPrice: f(2),
			Timestamp: "2026-01-05",
		}

		err := validation.ValidateCreateTransaction(req)
		if err == nil {
			t.Fatal("Expected validation error")
		}

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected *validation.Error, got %T", err)
		}
		if _, ok := vErr.Fields["quantity"]; !ok {
			t.Error("Expected a quantity field error")
		}
		if _, ok := vErr.Fields["unitPrice"]; !ok {
			t.Error("Expected a unitPrice field error")
		}
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		req := validBuy()
		req.Quantity = f(-1)
		if err := validation.ValidateCreateTransaction(req); err == nil {
			t.Error("Expected error for negative quantity")
		}
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		req := validBuy()
		req.Type = "SHORT"
		if err := validation.ValidateCreateTransaction(req); err == nil {
			t.Error("Expected error for unknown type")
		}
	})

	t.Run("rejects a malformed timestamp", func(t *testing.T) {
		req := validBuy()
		req.Timestamp = "05-01-2026"
		if err := validation.ValidateCreateTransaction(req); err == nil {
			t.Error("Expected error for malformed timestamp")
		}
	})

	t.Run("accepts an RFC 3339 timestamp", func(t *testing.T) {
		req := validBuy()
		req.Timestamp = "2026-01-05T14:30:00Z"
		if err := validation.ValidateCreateTransaction(req); err != nil {
			t.Errorf("Expected valid request, got %v", err)
		}
	})
}
