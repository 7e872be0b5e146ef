package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/thomaswaltmans/marketvault/internal/apperrors"
	"github.com/thomaswaltmans/marketvault/internal/model"
	"github.com/thomaswaltmans/marketvault/internal/provider/yahoo"
	"github.com/thomaswaltmans/marketvault/internal/repository"
)

const (
	// defaultStalenessDays is how old a symbol's latest cached close may be,
	// relative to the requested end date, before a refresh is scheduled.
	defaultStalenessDays = 2

	// defaultOverlapDays is the trailing window re-fetched on a stale
	// refresh, absorbing provider-side corrections near the cache frontier.
	defaultOverlapDays = 7

	defaultFetchBatchSize = 8
	defaultFetchWorkers   = 4
	defaultFetchTimeout   = 30 * time.Second

	maxFetchAttempts    = 3
	initialFetchBackoff = 500 * time.Millisecond
)

// errEmptyFetch marks a structurally valid but empty provider result so the
// retry harness treats emptiness as possibly transient.
var errEmptyFetch = errors.New("provider returned no data")

// PriceCacheOptions tunes the cache's staleness policy and fetch execution.
// The staleness and overlap values carry no documented rationale beyond
// matching provider behavior in practice; they are kept overridable rather
// than hard-coded.
type PriceCacheOptions struct {
	StalenessDays int
	OverlapDays   int
	BatchSize     int
	Workers       int
	FetchTimeout  time.Duration
}

// DefaultPriceCacheOptions returns the standard cache tuning.
func DefaultPriceCacheOptions() PriceCacheOptions {
	return PriceCacheOptions{
		StalenessDays: defaultStalenessDays,
		OverlapDays:   defaultOverlapDays,
		BatchSize:     defaultFetchBatchSize,
		Workers:       defaultFetchWorkers,
		FetchTimeout:  defaultFetchTimeout,
	}
}

func (o PriceCacheOptions) withDefaults() PriceCacheOptions {
	defaults := DefaultPriceCacheOptions()
	if o.StalenessDays <= 0 {
		o.StalenessDays = defaults.StalenessDays
	}
	if o.OverlapDays <= 0 {
		o.OverlapDays = defaults.OverlapDays
	}
	if o.BatchSize <= 0 {
		o.BatchSize = defaults.BatchSize
	}
	if o.Workers <= 0 {
		o.Workers = defaults.Workers
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = defaults.FetchTimeout
	}
	return o
}

// PriceService is the caching layer between the market-data provider and
// everything that needs daily close prices. Per request it decides, per
// symbol, whether cached points are fresh enough to serve, fetches only the
// missing or stale slice, persists new points with duplicate-safe inserts
// and returns a calendar-complete, gap-filled price matrix.
type PriceService struct {
	pricePointRepo *repository.PricePointRepository
	marketData     yahoo.Client
	opts           PriceCacheOptions
}

// NewPriceService creates a PriceService. Zero-valued option fields fall
// back to the defaults.
func NewPriceService(pricePointRepo *repository.PricePointRepository, marketData yahoo.Client, opts PriceCacheOptions) *PriceService {
	return &PriceService{
		pricePointRepo: pricePointRepo,
		marketData:     marketData,
		opts:           opts.withDefaults(),
	}
}

// GetClosePrices returns a price matrix covering every calendar day in
// [start, end) for the requested symbols.
//
// Symbols whose cache is fresh are served without touching the provider;
// stale or uncached symbols trigger bounded parallel fetch jobs. A job that
// fails or yields nothing only costs its own symbols their new points; the
// request itself never fails because of the provider. Symbols with no price
// data at all end up without a column.
func (s *PriceService) GetClosePrices(ctx context.Context, symbols []string, start, end time.Time) (PriceMatrix, error) {
	if len(symbols) == 0 {
		return PriceMatrix{}, nil
	}

	start = dayUTC(start)
	end = dayUTC(end)
	if !start.Before(end) {
		return PriceMatrix{}, apperrors.ErrInvalidDateRange
	}

	cached, err := s.pricePointRepo.GetPricePoints(symbols, start, end)
	if err != nil {
		return PriceMatrix{}, err
	}

	jobs := planFetchJobs(cached, symbols, start, end, s.opts.StalenessDays, s.opts.OverlapDays)
	if len(jobs) > 0 {
		s.runFetchBatches(ctx, batchFetchJobs(jobs, s.opts.BatchSize), start, end)

		// Read-after-write for this request: reload everything persisted
		// for the window, including points other jobs just wrote.
		cached, err = s.pricePointRepo.GetPricePoints(symbols, start, end)
		if err != nil {
			return PriceMatrix{}, err
		}
	}

	return newPriceMatrix(cached, symbols, start, end), nil
}

// fetchJob is one symbol's planned provider fetch window.
type fetchJob struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

// fetchBatch groups jobs sharing a fetch window into one provider call.
type fetchBatch struct {
	Symbols []string
	Start   time.Time
	End     time.Time
}

// planFetchJobs applies the per-symbol staleness policy:
//
//  1. no cached points in range: fetch the full window
//  2. latest cached point older than end minus the staleness threshold:
//     fetch from max(start, latest - overlap window) to end
//  3. otherwise the symbol is fresh and gets no job
//
// cached must hold date-ascending points per symbol. The function is pure;
// execution and persistence happen elsewhere.
func planFetchJobs(cached map[string][]model.PricePoint, symbols []string, start, end time.Time, stalenessDays, overlapDays int) []fetchJob {
	refreshIfOlderThan := end.AddDate(0, 0, -stalenessDays)

	var jobs []fetchJob
	for _, symbol := range symbols {
		points := cached[symbol]
		if len(points) == 0 {
			jobs = append(jobs, fetchJob{Symbol: symbol, Start: start, End: end})
			continue
		}

		latest := points[len(points)-1].Date
		if latest.Before(refreshIfOlderThan) {
			fetchStart := latest.AddDate(0, 0, -overlapDays)
			if fetchStart.Before(start) {
				fetchStart = start
			}
			jobs = append(jobs, fetchJob{Symbol: symbol, Start: fetchStart, End: end})
		}
	}

	return jobs
}

// batchFetchJobs groups jobs with identical windows into provider calls of
// at most batchSize symbols. Grouping only changes call shape, never the
// planned windows.
func batchFetchJobs(jobs []fetchJob, batchSize int) []fetchBatch {
	type window struct {
		start, end time.Time
	}

	order := []window{}
	grouped := map[window][]string{}
	for _, job := range jobs {
		w := window{job.Start, job.End}
		if _, seen := grouped[w]; !seen {
			order = append(order, w)
		}
		grouped[w] = append(grouped[w], job.Symbol)
	}

	var batches []fetchBatch
	for _, w := range order {
		symbols := grouped[w]
		for i := 0; i < len(symbols); i += batchSize {
			j := i + batchSize
			if j > len(symbols) {
				j = len(symbols)
			}
			batches = append(batches, fetchBatch{Symbols: symbols[i:j], Start: w.start, End: w.end})
		}
	}

	return batches
}

// runFetchBatches executes fetch batches on a bounded worker pool.
// Batches are independent: a failure in one never aborts the others, so
// every goroutine returns nil to the group.
func (s *PriceService) runFetchBatches(ctx context.Context, batches []fetchBatch, overallStart, overallEnd time.Time) {
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Workers)

	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			s.executeFetchBatch(ctx, batch, overallStart, overallEnd)
			return nil
		})
	}

	_ = g.Wait()
}

// executeFetchBatch fetches one batch with retry/backoff and persists the
// results. Each batch is bounded by its own timeout so a slow provider
// cannot stall the whole request indefinitely.
func (s *PriceService) executeFetchBatch(ctx context.Context, batch fetchBatch, overallStart, overallEnd time.Time) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	matrix := s.fetchWithRetry(fetchCtx, batch.Symbols, batch.Start, batch.End)
	if matrix.IsEmpty() {
		return
	}

	points := collectPricePoints(matrix, batch, overallStart, overallEnd)
	if len(points) == 0 {
		return
	}

	if _, err := s.pricePointRepo.InsertIgnoringDuplicates(ctx, points); err != nil {
		log.Printf("failed to persist fetched prices for %v: %v", batch.Symbols, err)
	}
}

// fetchBackoff returns the retry delay policy for provider fetches:
// 0.5s before the second attempt, then doubling (1s, 2s, ...), capped at
// maxFetchAttempts attempts in total. Kept as its own constructor so the
// delay sequence is testable without sleeping.
func fetchBackoff() retry.Backoff {
	return retry.WithMaxRetries(maxFetchAttempts-1, retry.NewExponential(initialFetchBackoff))
}

// fetchWithRetry fetches a symbol batch, retrying transient failures and
// empty results alike (emptiness may be a provider hiccup). Exhausted
// retries degrade to the last result, possibly empty, rather than an
// error: no data for a job is never fatal to the caller.
func (s *PriceService) fetchWithRetry(ctx context.Context, symbols []string, start, end time.Time) yahoo.CloseMatrix {
	last := yahoo.CloseMatrix{}

	err := retry.Do(ctx, fetchBackoff(), func(ctx context.Context) error {
		matrix, err := s.marketData.FetchDailyCloses(ctx, symbols, start, end)
		if err != nil {
			return retry.RetryableError(err)
		}

		last = matrix
		if matrix.IsEmpty() {
			return retry.RetryableError(errEmptyFetch)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errEmptyFetch) {
		log.Printf("price fetch for %v degraded to no data: %v", symbols, err)
	}

	return last
}

// collectPricePoints converts a fetched matrix into storable points,
// keeping only dates inside the job's own window and the overall requested
// range. Overlap-window re-fetches routinely return dates the request
// doesn't want; they are filtered here, not at the provider.
func collectPricePoints(matrix yahoo.CloseMatrix, batch fetchBatch, overallStart, overallEnd time.Time) []model.PricePoint {
	var points []model.PricePoint

	for _, symbol := range batch.Symbols {
		for day, closePrice := range matrix[symbol] {
			if day.Before(batch.Start) || !day.Before(batch.End) {
				continue
			}
			if day.Before(overallStart) || !day.Before(overallEnd) {
				continue
			}
			points = append(points, model.PricePoint{
				ID:     uuid.New().String(),
				Symbol: symbol,
				Date:   day,
				Close:  decimal.NewFromFloat(closePrice),
			})
		}
	}

	return points
}
