package launchpad

import "github.com/blocto/solana-go-sdk/common"

// 程序地址（base58），与链上部署保持一致
var (
	SystemProgramID          = common.PublicKeyFromString("11111111111111111111111111111111")
	Token2022ProgramID       = common.PublicKeyFromString("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgramID = common.PublicKeyFromString("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SysVarRentPubkey         = common.PublicKeyFromString("SysvarRent111111111111111111111111111111111")
)

// Token-2022 账户布局常量（字节）
const (
	MintSize            = 82  // 基础 mint 状态
	AccountSize         = 165 // 基础 token account 状态，扩展 mint 对齐到此长度
	AccountTypeSize     = 1   // 扩展区前的账户类型标记
	TypeSize            = 2   // TLV 类型字段
	LengthSize          = 2   // TLV 长度字段
	MetadataPointerSize = 64  // authority + metadata address
)

// token 指令编号
const (
	instructionInitializeMint           uint8 = 0
	instructionMintTo                   uint8 = 7
	instructionMetadataPointerExtension uint8 = 39
	metadataPointerInitialize           uint8 = 0
)

// 关联账户程序指令，CreateIdempotent 在账户已存在时直接成功
const associatedTokenCreateIdempotent uint8 = 1

// sha256("spl_token_metadata_interface:initialize_account")[:8]
var metadataInitializeDiscriminator = [8]byte{210, 225, 30, 162, 88, 184, 77, 141}

// MintDecimals 只发行整数单位的代币
const MintDecimals uint8 = 0
