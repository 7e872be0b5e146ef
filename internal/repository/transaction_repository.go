package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thomaswaltmans/marketvault/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// Transactions are always returned joined with their asset so callers get the
// provider symbol and asset type without a second query.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetTransactions retrieves the full transaction log ordered by timestamp ascending.
// This ordering is what the analytics pipeline's cumulative series depend on.
// Returns an empty slice if the log is empty.
func (r *TransactionRepository) GetTransactions() ([]model.Transaction, error) {
	query := `
		SELECT t.id, t.asset_id, a.data_symbol, a.asset_type, t.type,
		       t.quantity, t.unit_price, t.div_amount, t.timestamp, t.created_at
		FROM "transaction" t
		JOIN asset a ON a.id = t.asset_id
		ORDER BY t.timestamp ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		var t model.Transaction
		var quantityStr, unitPriceStr, divAmountStr sql.NullString
		var timestampStr, createdAtStr string

		err := rows.Scan(
			&t.ID,
			&t.AssetID,
			&t.Symbol,
			&t.AssetType,
			&t.Type,
			&quantityStr,
			&unitPriceStr,
			&divAmountStr,
			&timestampStr,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		if t.Quantity, err = parseNullDecimal(quantityStr); err != nil {
			return nil, fmt.Errorf("failed to parse quantity: %w", err)
		}
		if t.UnitPrice, err = parseNullDecimal(unitPriceStr); err != nil {
			return nil, fmt.Errorf("failed to parse unit price: %w", err)
		}
		if t.DivAmount, err = parseNullDecimal(divAmountStr); err != nil {
			return nil, fmt.Errorf("failed to parse dividend amount: %w", err)
		}

		t.Timestamp, err = ParseTime(timestampStr)
		if err != nil || t.Timestamp.IsZero() {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}

		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil || t.CreatedAt.IsZero() {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// InsertTransaction inserts a new transaction record.
// Decimal fields are stored as text to preserve their exact value.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, asset_id, type, quantity, unit_price, div_amount, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.AssetID,
		t.Type,
		nullDecimalString(t.Quantity),
		nullDecimalString(t.UnitPrice),
		nullDecimalString(t.DivAmount),
		t.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

func parseNullDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func nullDecimalString(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}
