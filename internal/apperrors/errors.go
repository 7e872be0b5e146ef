package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAssetNotFound indicates that an asset with the given ID does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is on or after the exclusive end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidSymbol indicates that a required provider symbol is empty or unknown.
	ErrInvalidSymbol = errors.New("symbol is required")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Market data errors classify provider failures. Both are recovered locally
// by the price cache (retry, then degrade to "no data for this symbol");
// neither ever fails a whole request.
var (
	// ErrProviderUnavailable indicates a transient market-data provider failure.
	ErrProviderUnavailable = errors.New("market data provider unavailable")

	// ErrNoProviderData indicates the provider had no data for a symbol/range.
	// This is not a failure: the symbol's column is simply absent downstream.
	ErrNoProviderData = errors.New("no provider data for symbol")
)
