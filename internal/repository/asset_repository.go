package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thomaswaltmans/marketvault/internal/apperrors"
	"github.com/thomaswaltmans/marketvault/internal/model"
)

// AssetRepository provides data access methods for the asset table.
type AssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// GetAssets retrieves all assets, ordered by ticker.
// Returns an empty slice if no assets exist.
func (r *AssetRepository) GetAssets() ([]model.Asset, error) {
	query := `
		SELECT id, ticker, name, asset_type, currency, exchange, data_symbol
		FROM asset
		ORDER BY ticker ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	assets := []model.Asset{}

	for rows.Next() {
		var a model.Asset

		err := rows.Scan(
			&a.ID,
			&a.Ticker,
			&a.Name,
			&a.AssetType,
			&a.Currency,
			&a.Exchange,
			&a.DataSymbol,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset table results: %w", err)
		}
		assets = append(assets, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset table: %w", err)
	}

	return assets, nil
}

// GetAsset retrieves a single asset by ID.
// Returns apperrors.ErrAssetNotFound if no asset with the ID exists.
func (r *AssetRepository) GetAsset(id string) (model.Asset, error) {
	query := `
		SELECT id, ticker, name, asset_type, currency, exchange, data_symbol
		FROM asset
		WHERE id = ?
	`

	var a model.Asset

	err := r.db.QueryRow(query, id).Scan(
		&a.ID,
		&a.Ticker,
		&a.Name,
		&a.AssetType,
		&a.Currency,
		&a.Exchange,
		&a.DataSymbol,
	)
	if err == sql.ErrNoRows {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to query asset table: %w", err)
	}

	return a, nil
}

// GetDataSymbols returns the provider symbols of all assets, ordered by symbol.
// Used by the scheduled cache refresh to know which symbols to keep warm.
func (r *AssetRepository) GetDataSymbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT data_symbol FROM asset ORDER BY data_symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}

	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan asset symbol: %w", err)
		}
		symbols = append(symbols, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset symbols: %w", err)
	}

	return symbols, nil
}

// InsertAsset inserts a new asset record.
func (r *AssetRepository) InsertAsset(ctx context.Context, a *model.Asset) error {
	query := `
		INSERT INTO asset (id, ticker, name, asset_type, currency, exchange, data_symbol)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Ticker,
		a.Name,
		a.AssetType,
		a.Currency,
		a.Exchange,
		a.DataSymbol,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateEntry, a.Ticker)
		}
		return fmt.Errorf("failed to insert asset: %w", err)
	}

	return nil
}
