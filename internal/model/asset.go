package model

// Asset type values as stored in the asset table.
const (
	AssetTypeStock  = "STOCK"
	AssetTypeETF    = "ETF"
	AssetTypeETC    = "ETC"
	AssetTypeCrypto = "CRYPTO"
)

// Asset represents a registered instrument in the asset registry. Ticker
// is the user-facing identifier and is unique; DataSymbol is the symbol
// used against the market data provider and defaults to the ticker.
type Asset struct {
	ID         string `json:"id"`
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	AssetType  string `json:"assetType"`
	Currency   string `json:"currency"`
	Exchange   string `json:"exchange"`
	DataSymbol string `json:"dataSymbol"`
}

// assetTypeRank orders asset types for allocation and growth payloads:
// broad funds first, single names next, commodities and crypto last.
var assetTypeRank = map[string]int{
	AssetTypeETF:    0,
	AssetTypeStock:  1,
	AssetTypeETC:    2,
	AssetTypeCrypto: 3,
}

// AssetTypePriority returns the display rank of an asset type. Unknown
// types sort after all known ones.
func AssetTypePriority(assetType string) int {
	if rank, ok := assetTypeRank[assetType]; ok {
		return rank
	}
	return 99
}
