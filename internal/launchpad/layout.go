package launchpad

// AccountLayout 是一次发行所需的字节数，每个请求重新计算
type AccountLayout struct {
	MintLen     uint64 // mint + metadata-pointer 扩展，create-account 时分配
	MetadataLen uint64 // metadata TLV 头 + 打包后的元数据，由 initialize 指令扩容
}

// Total 是需要按免租计算的总字节数
func (l AccountLayout) Total() uint64 {
	return l.MintLen + l.MetadataLen
}

// MintLenWithMetadataPointer 只声明一个扩展时 mint 账户的长度。
// 扩展 mint 先补齐到 token account 长度，再加账户类型标记和扩展 TLV。
func MintLenWithMetadataPointer() uint64 {
	return AccountSize + AccountTypeSize + TypeSize + LengthSize + MetadataPointerSize
}

// CalculateLayout 根据元数据计算 mint 账户和元数据所需空间
func CalculateLayout(meta TokenMetadata) (AccountLayout, error) {
	packed, err := meta.Pack()
	if err != nil {
		return AccountLayout{}, err
	}
	return AccountLayout{
		MintLen:     MintLenWithMetadataPointer(),
		MetadataLen: uint64(TypeSize + LengthSize + len(packed)),
	}, nil
}
