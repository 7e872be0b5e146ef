package validation

import (
	"fmt"
	"strings"

	"github.com/thomaswaltmans/marketvault/internal/api/request"
	"github.com/thomaswaltmans/marketvault/internal/model"
)

// ValidAssetType contains the allowed asset type values.
var ValidAssetType = map[string]bool{
	model.AssetTypeStock:  true,
	model.AssetTypeETF:    true,
	model.AssetTypeETC:    true,
	model.AssetTypeCrypto: true,
}

// ValidateCreateAsset validates an asset registration request.
//
// Required fields:
//   - ticker: non-empty
//   - name: non-empty
//   - assetType: one of STOCK, ETF, ETC, CRYPTO
//   - currency: three-letter code
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateAsset(req request.CreateAssetRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if strings.TrimSpace(req.AssetType) == "" {
		errors["assetType"] = "assetType is required"
	} else if !ValidAssetType[req.AssetType] {
		errors["assetType"] = fmt.Sprintf("invalid assetType: %s", req.AssetType)
	}

	if len(strings.TrimSpace(req.Currency)) != 3 {
		errors["currency"] = "currency must be a three-letter code"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
