package core

import "fmt"

// AssetClass identifies the crypto asset a wallet or transaction belongs to.
// The set is closed: fee schedules and confirmation behavior are defined per
// asset class and selected by switching on this tag.
type AssetClass string

const (
	AssetBitcoin  AssetClass = "BITCOIN"
	AssetEthereum AssetClass = "ETHEREUM"
)

// ParseAssetClass converts external input into an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	switch AssetClass(s) {
	case AssetBitcoin:
		return AssetBitcoin, nil
	case AssetEthereum:
		return AssetEthereum, nil
	default:
		return "", fmt.Errorf("unknown asset class %q", s)
	}
}

// Valid reports whether the asset class is part of the closed set.
func (a AssetClass) Valid() bool {
	return a == AssetBitcoin || a == AssetEthereum
}
