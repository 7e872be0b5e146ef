package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thomaswaltmans/marketvault/internal/model"
)

// insertChunkSize bounds the number of rows per bulk INSERT so the
// statement stays well under SQLite's bind-variable limit.
const insertChunkSize = 200

// PricePointRepository provides data access methods for the price_point table.
// It is the storage half of the price cache: reads are grouped per symbol and
// writes are insert-or-skip-on-conflict, backed by the table's unique
// (symbol, date) constraint.
type PricePointRepository struct {
	db *sql.DB
}

// NewPricePointRepository creates a new PricePointRepository with the provided database connection.
func NewPricePointRepository(db *sql.DB) *PricePointRepository {
	return &PricePointRepository{db: db}
}

// GetPricePoints retrieves cached price points for the given symbols with
// date in [start, end), the cache's canonical end-exclusive window.
//
// Returns a map of symbol -> []PricePoint sorted by date ascending. Symbols
// with no cached points are simply absent from the map.
func (r *PricePointRepository) GetPricePoints(symbols []string, start, end time.Time) (map[string][]model.PricePoint, error) {
	if len(symbols) == 0 {
		return make(map[string][]model.PricePoint), nil
	}

	if !start.Before(end) {
		return nil, fmt.Errorf("start date (%s) must be before end date (%s)",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	placeholders := make([]string, len(symbols))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `
		SELECT id, symbol, date, close
		FROM price_point
		WHERE symbol IN (` + strings.Join(placeholders, ",") + `)
		AND date >= ?
		AND date < ?
		ORDER BY symbol ASC, date ASC
	`

	args := make([]any, 0, len(symbols)+2)
	for _, s := range symbols {
		args = append(args, s)
	}
	args = append(args, start.Format("2006-01-02"))
	args = append(args, end.Format("2006-01-02"))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price_point table: %w", err)
	}
	defer rows.Close()

	pointsBySymbol := make(map[string][]model.PricePoint)

	for rows.Next() {
		var p model.PricePoint
		var dateStr, closeStr string

		err := rows.Scan(
			&p.ID,
			&p.Symbol,
			&dateStr,
			&closeStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price_point table results: %w", err)
		}

		p.Date, err = ParseTime(dateStr)
		if err != nil || p.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		p.Close, err = decimal.NewFromString(closeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse close price: %w", err)
		}

		pointsBySymbol[p.Symbol] = append(pointsBySymbol[p.Symbol], p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_point table: %w", err)
	}

	return pointsBySymbol, nil
}

// InsertIgnoringDuplicates bulk-inserts price points, silently skipping any
// point whose (symbol, date) already exists. The unique index on the table
// makes this safe under concurrent fetch jobs without application locking.
//
// Returns the number of rows actually inserted.
func (r *PricePointRepository) InsertIgnoringDuplicates(ctx context.Context, points []model.PricePoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	inserted := 0

	for chunkStart := 0; chunkStart < len(points); chunkStart += insertChunkSize {
		chunkEnd := chunkStart + insertChunkSize
		if chunkEnd > len(points) {
			chunkEnd = len(points)
		}
		chunk := points[chunkStart:chunkEnd]

		valuePlaceholders := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*4)
		for i, p := range chunk {
			valuePlaceholders[i] = "(?, ?, ?, ?)"
			args = append(args,
				p.ID,
				p.Symbol,
				p.Date.Format("2006-01-02"),
				p.Close.String(),
			)
		}

		//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
		query := `
			INSERT OR IGNORE INTO price_point (id, symbol, date, close)
			VALUES ` + strings.Join(valuePlaceholders, ", ")

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert price points: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(rowsAffected)
	}

	return inserted, nil
}
