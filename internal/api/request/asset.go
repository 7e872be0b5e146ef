package request

// CreateAssetRequest is the body for registering a new asset.
// DataSymbol is the provider-side symbol; it defaults to the ticker when
// left empty.
type CreateAssetRequest struct {
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	AssetType  string `json:"assetType"`
	Currency   string `json:"currency"`
	Exchange   string `json:"exchange"`
	DataSymbol string `json:"dataSymbol,omitempty"`
}
