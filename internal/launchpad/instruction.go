package launchpad

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"
)

// CreateMintAccountParam 在 mint 地址上分配空间并把所有权交给 Token-2022
type CreateMintAccountParam struct {
	Payer    common.PublicKey
	Mint     common.PublicKey
	Lamports uint64
	Space    uint64
}

func CreateMintAccount(param CreateMintAccountParam) types.Instruction {
	return system.CreateAccount(system.CreateAccountParam{
		From:     param.Payer,
		New:      param.Mint,
		Owner:    Token2022ProgramID,
		Lamports: param.Lamports,
		Space:    param.Space,
	})
}

type InitializeMetadataPointerParam struct {
	Mint            common.PublicKey
	Authority       common.PublicKey
	MetadataAddress common.PublicKey
}

// InitializeMetadataPointer 必须在 InitializeMint 之前执行
func InitializeMetadataPointer(param InitializeMetadataPointerParam) (types.Instruction, error) {
	data, err := borsh.Serialize(struct {
		Instruction     uint8
		Sub             uint8
		Authority       [32]byte
		MetadataAddress [32]byte
	}{
		Instruction:     instructionMetadataPointerExtension,
		Sub:             metadataPointerInitialize,
		Authority:       param.Authority,
		MetadataAddress: param.MetadataAddress,
	})
	if err != nil {
		return types.Instruction{}, fmt.Errorf("serialize initialize metadata pointer: %w", err)
	}
	return types.Instruction{
		ProgramID: Token2022ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: param.Mint, IsSigner: false, IsWritable: true},
		},
		Data: data,
	}, nil
}

type InitializeMintParam struct {
	Mint       common.PublicKey
	Decimals   uint8
	MintAuth   common.PublicKey
	FreezeAuth *common.PublicKey
}

func InitializeMint(param InitializeMintParam) (types.Instruction, error) {
	// freeze authority 是 COption：1 字节标记 + 32 字节公钥
	var freeze *[32]byte
	if param.FreezeAuth != nil {
		k := [32]byte(*param.FreezeAuth)
		freeze = &k
	}
	data, err := borsh.Serialize(struct {
		Instruction     uint8
		Decimals        uint8
		MintAuthority   [32]byte
		FreezeAuthority *[32]byte
	}{
		Instruction:     instructionInitializeMint,
		Decimals:        param.Decimals,
		MintAuthority:   param.MintAuth,
		FreezeAuthority: freeze,
	})
	if err != nil {
		return types.Instruction{}, fmt.Errorf("serialize initialize mint: %w", err)
	}
	return types.Instruction{
		ProgramID: Token2022ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: param.Mint, IsSigner: false, IsWritable: true},
			{PubKey: SysVarRentPubkey, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}, nil
}

type InitializeMetadataParam struct {
	Metadata        common.PublicKey
	UpdateAuthority common.PublicKey
	Mint            common.PublicKey
	MintAuthority   common.PublicKey
	Name            string
	Symbol          string
	URI             string
}

// InitializeMetadata 写入 name/symbol/uri，空间由 create-account 时预付的租金覆盖
func InitializeMetadata(param InitializeMetadataParam) (types.Instruction, error) {
	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		Name          string
		Symbol        string
		URI           string
	}{
		Discriminator: metadataInitializeDiscriminator,
		Name:          param.Name,
		Symbol:        param.Symbol,
		URI:           param.URI,
	})
	if err != nil {
		return types.Instruction{}, fmt.Errorf("serialize initialize metadata: %w", err)
	}
	return types.Instruction{
		ProgramID: Token2022ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: param.Metadata, IsSigner: false, IsWritable: true},
			{PubKey: param.UpdateAuthority, IsSigner: false, IsWritable: false},
			{PubKey: param.Mint, IsSigner: false, IsWritable: false},
			{PubKey: param.MintAuthority, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}, nil
}

type CreateAssociatedTokenAccountParam struct {
	Funder                 common.PublicKey
	Owner                  common.PublicKey
	Mint                   common.PublicKey
	AssociatedTokenAccount common.PublicKey
}

// CreateAssociatedTokenAccount 使用幂等创建，T2 已上链后重新提交不会失败
func CreateAssociatedTokenAccount(param CreateAssociatedTokenAccountParam) types.Instruction {
	return types.Instruction{
		ProgramID: AssociatedTokenProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: param.Funder, IsSigner: true, IsWritable: true},
			{PubKey: param.AssociatedTokenAccount, IsSigner: false, IsWritable: true},
			{PubKey: param.Owner, IsSigner: false, IsWritable: false},
			{PubKey: param.Mint, IsSigner: false, IsWritable: false},
			{PubKey: SystemProgramID, IsSigner: false, IsWritable: false},
			{PubKey: Token2022ProgramID, IsSigner: false, IsWritable: false},
		},
		Data: []byte{associatedTokenCreateIdempotent},
	}
}

type MintToParam struct {
	Mint    common.PublicKey
	To      common.PublicKey
	Auth    common.PublicKey
	Signers []common.PublicKey
	Amount  uint64
}

func MintTo(param MintToParam) (types.Instruction, error) {
	data, err := borsh.Serialize(struct {
		Instruction uint8
		Amount      uint64
	}{
		Instruction: instructionMintTo,
		Amount:      param.Amount,
	})
	if err != nil {
		return types.Instruction{}, fmt.Errorf("serialize mint to: %w", err)
	}

	// 多签时 authority 本身不签名，由附加签名者签
	accounts := make([]types.AccountMeta, 0, 3+len(param.Signers))
	accounts = append(accounts,
		types.AccountMeta{PubKey: param.Mint, IsSigner: false, IsWritable: true},
		types.AccountMeta{PubKey: param.To, IsSigner: false, IsWritable: true},
		types.AccountMeta{PubKey: param.Auth, IsSigner: len(param.Signers) == 0, IsWritable: false},
	)
	for _, s := range param.Signers {
		accounts = append(accounts, types.AccountMeta{PubKey: s, IsSigner: true, IsWritable: false})
	}
	return types.Instruction{
		ProgramID: Token2022ProgramID,
		Accounts:  accounts,
		Data:      data,
	}, nil
}

// AssociatedTokenAddress 由 (owner, Token-2022, mint) 派生，不访问网络
func AssociatedTokenAddress(owner, mint common.PublicKey) (common.PublicKey, error) {
	addr, _, err := common.FindProgramAddress(
		[][]byte{
			owner.Bytes(),
			Token2022ProgramID.Bytes(),
			mint.Bytes(),
		},
		AssociatedTokenProgramID,
	)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("find associated token address: %w", err)
	}
	return addr, nil
}
