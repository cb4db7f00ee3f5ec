package wallet

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/coinops/walletcore/core"
)

const addressHexLen = 40

// GenerateAddress produces a fresh simulated address for the asset class:
// a "bc1" prefix for Bitcoin, "0x" for Ethereum, each followed by 40 hex
// characters. Addresses are random, not derived from keys; nothing in this
// core verifies signatures.
func GenerateAddress(asset core.AssetClass) string {
	buf := make([]byte, addressHexLen/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand on supported platforms does not fail; treat it as fatal.
		panic(err)
	}

	prefix := "bc1"
	if asset == core.AssetEthereum {
		prefix = "0x"
	}
	return prefix + hex.EncodeToString(buf)
}
