package chain

import (
	"fmt"
	"regexp"
)

// Chain IDs for the supported Celo networks.
const (
	ChainIDSepolia = 11142220
	ChainIDMainnet = 42220
)

// Fixed external facts: token and payments contract addresses. These are
// deployment constants, not configuration this codebase designs.
const (
	CUSDAddressSepolia = "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1"
	CUSDAddressMainnet = "0x765DE816845861e75A25fCA122bb6898B8B1282a"

	// PaymentsContractSepolia receives subscription purchase transfers.
	PaymentsContractSepolia = "0xEc2B9dde309737CCaeC137939aCb4f8524876D1d"

	// TipRecipientAddress receives super-like tip transfers.
	TipRecipientAddress = "0x395358d1236D01de9193b1F3AEB61A1ACb2Af2b9"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsHexAddress reports whether s is a well-formed 20-byte hex address.
func IsHexAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// CUSDAddress returns the cUSD token address for the chain.
func CUSDAddress(chainID int) string {
	if chainID == ChainIDSepolia {
		return CUSDAddressSepolia
	}
	return CUSDAddressMainnet
}

// ExplorerTxURL returns the block-explorer URL for a transaction, for
// manual status lookup when the client loses track of a transfer.
func ExplorerTxURL(chainID int, txHash string) string {
	if chainID == ChainIDMainnet {
		return fmt.Sprintf("https://celoscan.io/tx/%s", txHash)
	}
	return fmt.Sprintf("https://sepolia.celoscan.io/tx/%s", txHash)
}
