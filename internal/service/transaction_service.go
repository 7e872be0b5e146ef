package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thomaswaltmans/marketvault/internal/api/request"
	"github.com/thomaswaltmans/marketvault/internal/model"
	"github.com/thomaswaltmans/marketvault/internal/repository"
)

// TransactionService handles transaction-log business logic operations.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	assetRepo       *repository.AssetRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	assetRepo *repository.AssetRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
	}
}

// GetTransactions retrieves the full transaction log, oldest first.
func (s *TransactionService) GetTransactions() ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactions()
}

// CreateTransaction records a portfolio event against a registered asset.
// The request must already be shape-validated for its type.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	asset, err := s.assetRepo.GetAsset(req.AssetID)
	if err != nil {
		return nil, err
	}

	timestamp, err := repository.ParseTime(req.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	transaction := &model.Transaction{
		ID:        uuid.New().String(),
		AssetID:   asset.ID,
		Symbol:    asset.DataSymbol,
		AssetType: asset.AssetType,
		Type:      req.Type,
		Quantity:  optionalDecimal(req.Quantity),
		UnitPrice: optionalDecimal(req.UnitPrice),
		DivAmount: optionalDecimal(req.DivAmount),
		Timestamp: timestamp,
		CreatedAt: time.Now(),
	}

	if err := s.transactionRepo.InsertTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return transaction, nil
}

func optionalDecimal(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v))
}
