package launchpad

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/near/borsh-go"
)

// MetadataField 是 uri 之后的附加键值对
type MetadataField struct {
	Key   string
	Value string
}

// TokenMetadata 是写入 mint 元数据扩展的记录
type TokenMetadata struct {
	UpdateAuthority    common.PublicKey
	Mint               common.PublicKey
	Name               string
	Symbol             string
	URI                string
	AdditionalMetadata []MetadataField
}

// packedTokenMetadata 与链上 TokenMetadata 的 borsh 布局一致
type packedTokenMetadata struct {
	UpdateAuthority    [32]byte
	Mint               [32]byte
	Name               string
	Symbol             string
	URI                string
	AdditionalMetadata []packedMetadataField
}

type packedMetadataField struct {
	Key   string
	Value string
}

// Pack 返回元数据记录的规范二进制形式（不含 TLV 头）
func (m TokenMetadata) Pack() ([]byte, error) {
	fields := make([]packedMetadataField, 0, len(m.AdditionalMetadata))
	for _, f := range m.AdditionalMetadata {
		fields = append(fields, packedMetadataField{Key: f.Key, Value: f.Value})
	}
	data, err := borsh.Serialize(packedTokenMetadata{
		UpdateAuthority:    m.UpdateAuthority,
		Mint:               m.Mint,
		Name:               m.Name,
		Symbol:             m.Symbol,
		URI:                m.URI,
		AdditionalMetadata: fields,
	})
	if err != nil {
		return nil, fmt.Errorf("pack token metadata: %w", err)
	}
	return data, nil
}
