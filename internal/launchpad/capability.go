package launchpad

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// Wallet 是发起人的钱包能力：报告公钥、补齐非共签签名并提交
type Wallet interface {
	// PublicKey 未连接时第二个返回值为 false
	PublicKey() (common.PublicKey, bool)
	CanSign() bool
	SignTransaction(ctx context.Context, tx types.Transaction) (types.Transaction, error)
	SendTransaction(ctx context.Context, tx types.Transaction, conn Connection) (string, error)
}

// TxStatus 是单次查询到的交易状态
type TxStatus string

const (
	TxNotFound   TxStatus = "not_found"
	TxProcessing TxStatus = "processing" // 已上链但未达到配置的确认级别
	TxConfirmed  TxStatus = "confirmed"
	TxFailed     TxStatus = "failed"
)

// Connection 是网络能力
type Connection interface {
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (string, error)
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)
	// ConfirmTransaction 阻塞到交易达到配置的确认级别，链上失败或超时返回错误
	ConfirmTransaction(ctx context.Context, signature string) error
	// SignatureStatus 查询一次签名状态，包括历史交易，不等待
	SignatureStatus(ctx context.Context, signature string) (TxStatus, error)
	// IsBlockhashValid 为 false 时，使用该 blockhash 的交易不会再上链
	IsBlockhashValid(ctx context.Context, blockhash string) (bool, error)
}
