package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHexAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "valid checksummed", in: "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1", want: true},
		{name: "valid lowercase", in: "0x874069fa1eb16d44d622f2e0ca25eea172369bc1", want: true},
		{name: "missing prefix", in: "874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1", want: false},
		{name: "too short", in: "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369b", want: false},
		{name: "too long", in: "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1ab", want: false},
		{name: "non-hex characters", in: "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bZZ", want: false},
		{name: "empty", in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHexAddress(tt.in))
		})
	}
}

func TestCUSDAddress(t *testing.T) {
	assert.Equal(t, CUSDAddressSepolia, CUSDAddress(ChainIDSepolia))
	assert.Equal(t, CUSDAddressMainnet, CUSDAddress(ChainIDMainnet))
	// Unknown chains fall back to mainnet
	assert.Equal(t, CUSDAddressMainnet, CUSDAddress(1))
}

func TestExplorerTxURL(t *testing.T) {
	hash := "0xdeadbeef"
	assert.Equal(t, "https://celoscan.io/tx/0xdeadbeef", ExplorerTxURL(ChainIDMainnet, hash))
	assert.Equal(t, "https://sepolia.celoscan.io/tx/0xdeadbeef", ExplorerTxURL(ChainIDSepolia, hash))
}
