package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/thomaswaltmans/marketvault/internal/api/request"
	"github.com/thomaswaltmans/marketvault/internal/model"
	"github.com/thomaswaltmans/marketvault/internal/repository"
)

// AssetService handles asset registry operations.
type AssetService struct {
	assetRepo *repository.AssetRepository
}

// NewAssetService creates a new AssetService with the provided repository dependencies.
func NewAssetService(assetRepo *repository.AssetRepository) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
	}
}

// GetAssets retrieves all registered assets.
func (s *AssetService) GetAssets() ([]model.Asset, error) {
	return s.assetRepo.GetAssets()
}

// GetAsset retrieves a single asset by its ID.
func (s *AssetService) GetAsset(id string) (model.Asset, error) {
	return s.assetRepo.GetAsset(id)
}

// CreateAsset registers a new asset. The data symbol defaults to the ticker
// when the request leaves it empty.
func (s *AssetService) CreateAsset(ctx context.Context, req request.CreateAssetRequest) (*model.Asset, error) {
	dataSymbol := req.DataSymbol
	if dataSymbol == "" {
		dataSymbol = req.Ticker
	}

	asset := &model.Asset{
		ID:         uuid.New().String(),
		Ticker:     req.Ticker,
		Name:       req.Name,
		AssetType:  req.AssetType,
		Currency:   req.Currency,
		Exchange:   req.Exchange,
		DataSymbol: dataSymbol,
	}

	if err := s.assetRepo.InsertAsset(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	return asset, nil
}
