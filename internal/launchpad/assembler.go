package launchpad

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// TransactionUnit 是待签名的交易：指令、手续费付款人、最新区块哈希和共签者。
// 构建后只签名、提交一次。
type TransactionUnit struct {
	Label           string
	Instructions    []types.Instruction
	FeePayer        common.PublicKey
	RecentBlockhash string
	CoSigners       []types.Account
}

// Compile 生成交易并由共签者先行签名，付款人的签名留给钱包补齐
func (u TransactionUnit) Compile() (types.Transaction, error) {
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: u.CoSigners,
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        u.FeePayer,
			RecentBlockhash: u.RecentBlockhash,
			Instructions:    u.Instructions,
		}),
	})
	if err != nil {
		return types.Transaction{}, fmt.Errorf("compile %s: %w", u.Label, err)
	}
	return tx, nil
}

// MintTransactionParam 是 T1 的输入
type MintTransactionParam struct {
	Wallet          common.PublicKey
	Mint            types.Account
	Metadata        TokenMetadata
	Layout          AccountLayout
	Lamports        uint64
	RecentBlockhash string
}

// BuildMintTransaction 组装 T1，指令顺序不可调整：
// create-account -> init-metadata-pointer -> init-mint -> init-metadata
func BuildMintTransaction(param MintTransactionParam) (TransactionUnit, error) {
	mint := param.Mint.PublicKey

	pointer, err := InitializeMetadataPointer(InitializeMetadataPointerParam{
		Mint:            mint,
		Authority:       param.Wallet,
		MetadataAddress: mint,
	})
	if err != nil {
		return TransactionUnit{}, err
	}

	freeze := param.Wallet
	initMint, err := InitializeMint(InitializeMintParam{
		Mint:       mint,
		Decimals:   MintDecimals,
		MintAuth:   param.Wallet,
		FreezeAuth: &freeze,
	})
	if err != nil {
		return TransactionUnit{}, err
	}

	initMetadata, err := InitializeMetadata(InitializeMetadataParam{
		Metadata:        mint,
		UpdateAuthority: param.Wallet,
		Mint:            mint,
		MintAuthority:   param.Wallet,
		Name:            param.Metadata.Name,
		Symbol:          param.Metadata.Symbol,
		URI:             param.Metadata.URI,
	})
	if err != nil {
		return TransactionUnit{}, err
	}

	instructions := []types.Instruction{
		CreateMintAccount(CreateMintAccountParam{
			Payer:    param.Wallet,
			Mint:     mint,
			Lamports: param.Lamports,
			Space:    param.Layout.MintLen,
		}),
		pointer,
		initMint,
		initMetadata,
	}
	if err := VerifyMintInstructionOrder(instructions); err != nil {
		return TransactionUnit{}, err
	}
	return TransactionUnit{
		Label:           "T1",
		Instructions:    instructions,
		FeePayer:        param.Wallet,
		RecentBlockhash: param.RecentBlockhash,
		CoSigners:       []types.Account{param.Mint},
	}, nil
}

// BuildAssociatedAccountTransaction 组装 T2，返回派生出的关联账户地址
func BuildAssociatedAccountTransaction(wallet, mint common.PublicKey, recentBlockhash string) (TransactionUnit, common.PublicKey, error) {
	ata, err := AssociatedTokenAddress(wallet, mint)
	if err != nil {
		return TransactionUnit{}, common.PublicKey{}, err
	}
	return TransactionUnit{
		Label: "T2",
		Instructions: []types.Instruction{
			CreateAssociatedTokenAccount(CreateAssociatedTokenAccountParam{
				Funder:                 wallet,
				Owner:                  wallet,
				Mint:                   mint,
				AssociatedTokenAccount: ata,
			}),
		},
		FeePayer:        wallet,
		RecentBlockhash: recentBlockhash,
	}, ata, nil
}

// BuildMintToTransaction 组装 T3，decimals 为 0，数量不缩放
func BuildMintToTransaction(wallet, mint, ata common.PublicKey, amount uint64, recentBlockhash string) (TransactionUnit, error) {
	mintTo, err := MintTo(MintToParam{
		Mint:    mint,
		To:      ata,
		Auth:    wallet,
		Signers: []common.PublicKey{},
		Amount:  amount,
	})
	if err != nil {
		return TransactionUnit{}, err
	}
	return TransactionUnit{
		Label:           "T3",
		Instructions:    []types.Instruction{mintTo},
		FeePayer:        wallet,
		RecentBlockhash: recentBlockhash,
	}, nil
}

// mint 交易中每条指令的类别
const (
	kindUnknown = iota
	kindCreateAccount
	kindInitMetadataPointer
	kindInitMint
	kindInitMetadata
)

var mintInstructionOrder = []int{kindCreateAccount, kindInitMetadataPointer, kindInitMint, kindInitMetadata}

func classifyInstruction(ins types.Instruction) int {
	switch ins.ProgramID {
	case SystemProgramID:
		// system 指令编号为 u32，create-account 为 0
		if len(ins.Data) >= 4 && ins.Data[0] == 0 && ins.Data[1] == 0 && ins.Data[2] == 0 && ins.Data[3] == 0 {
			return kindCreateAccount
		}
	case Token2022ProgramID:
		if len(ins.Data) >= 8 && [8]byte(ins.Data[:8]) == metadataInitializeDiscriminator {
			return kindInitMetadata
		}
		if len(ins.Data) >= 2 && ins.Data[0] == instructionMetadataPointerExtension && ins.Data[1] == metadataPointerInitialize {
			return kindInitMetadataPointer
		}
		if len(ins.Data) >= 1 && ins.Data[0] == instructionInitializeMint {
			return kindInitMint
		}
	}
	return kindUnknown
}

// VerifyMintInstructionOrder 检查 T1 的指令是否严格按依赖顺序排列
func VerifyMintInstructionOrder(instructions []types.Instruction) error {
	if len(instructions) != len(mintInstructionOrder) {
		return fmt.Errorf("mint transaction must have %d instructions, got %d", len(mintInstructionOrder), len(instructions))
	}
	for i, ins := range instructions {
		if got := classifyInstruction(ins); got != mintInstructionOrder[i] {
			return fmt.Errorf("mint transaction instruction %d out of order", i)
		}
	}
	return nil
}
