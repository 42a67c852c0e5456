package launchpad

import (
	"encoding/binary"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata(name, symbol, uri string) TokenMetadata {
	return TokenMetadata{
		UpdateAuthority:    types.NewAccount().PublicKey,
		Mint:               types.NewAccount().PublicKey,
		Name:               name,
		Symbol:             symbol,
		URI:                uri,
		AdditionalMetadata: []MetadataField{},
	}
}

func TestMintLenWithMetadataPointer(t *testing.T) {
	assert.Equal(t, uint64(234), MintLenWithMetadataPointer())
}

func TestTokenMetadataPack(t *testing.T) {
	meta := testMetadata("Test", "TST", "https://x/y.json")
	packed, err := meta.Pack()
	require.NoError(t, err)
	require.Len(t, packed, 32+32+4+4+4+3+4+16+4)

	assert.Equal(t, meta.UpdateAuthority.Bytes(), packed[:32])
	assert.Equal(t, meta.Mint.Bytes(), packed[32:64])
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(packed[64:68]))
	assert.Equal(t, "Test", string(packed[68:72]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(packed[len(packed)-4:]))
}

func TestTokenMetadataPackAdditionalFields(t *testing.T) {
	meta := testMetadata("Test", "TST", "https://x/y.json")
	base, err := meta.Pack()
	require.NoError(t, err)

	meta.AdditionalMetadata = []MetadataField{{Key: "k", Value: "vv"}}
	withField, err := meta.Pack()
	require.NoError(t, err)
	assert.Equal(t, len(base)+4+1+4+2, len(withField))
}

func TestCalculateLayout(t *testing.T) {
	layout, err := CalculateLayout(testMetadata("Test", "TST", "https://x/y.json"))
	require.NoError(t, err)
	assert.Equal(t, uint64(234), layout.MintLen)
	assert.Equal(t, uint64(107), layout.MetadataLen)
	assert.Equal(t, uint64(341), layout.Total())
}

func TestCalculateLayoutMintLenFixed(t *testing.T) {
	cases := []TokenMetadata{
		testMetadata("A", "B", "C"),
		testMetadata("A much longer token name", "LONGSYM", "https://example.com/a/very/long/path/metadata.json"),
		testMetadata("代币", "币", "ipfs://cid"),
	}
	for _, meta := range cases {
		layout, err := CalculateLayout(meta)
		require.NoError(t, err)
		assert.Equal(t, MintLenWithMetadataPointer(), layout.MintLen)
	}
}

func TestCalculateLayoutMetadataLenGrows(t *testing.T) {
	var prev uint64
	for i, meta := range []TokenMetadata{
		testMetadata("A", "B", "C"),
		testMetadata("AA", "B", "C"),
		testMetadata("AA", "BB", "C"),
		testMetadata("AA", "BB", "https://x"),
		testMetadata("代币", "BB", "https://x"),
	} {
		layout, err := CalculateLayout(meta)
		require.NoError(t, err)
		if i > 0 {
			assert.Greater(t, layout.MetadataLen, prev)
		}
		prev = layout.MetadataLen
	}
}
