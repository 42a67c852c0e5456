package launchpad

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
)

type LaunchStatus string

const (
	LaunchPending   LaunchStatus = "pending"
	LaunchSucceeded LaunchStatus = "succeeded"
	LaunchFailed    LaunchStatus = "failed"
)

// Launch 是一次发行的可恢复快照，以 mint 地址为键持久化
type Launch struct {
	RequestID         string
	Mint              common.PublicKey
	Owner             common.PublicKey
	AssociatedAccount common.PublicKey
	Name              string
	Symbol            string
	URI               string
	Supply            uint64
	State             State // 失败时为失败前所处的状态
	Status            LaunchStatus
	Signatures        [3]string // T1, T2, T3，仅在确认后写入

	// 已提交但未确认的交易，属于第一个没有确认签名的阶段
	PendingSignature string
	PendingBlockhash string
	LastError        string
}

func (l Launch) MintConfirmed() bool {
	return l.Signatures[0] != ""
}

func (l Launch) AccountConfirmed() bool {
	return l.Signatures[1] != ""
}

// Resumable 失败的发行在 T1 已确认或待核对时可以恢复
func (l Launch) Resumable() bool {
	return l.Status == LaunchFailed && (l.MintConfirmed() || l.PendingSignature != "")
}

// NextStage 返回第一个未确认阶段的下标，全部确认时返回 len(Signatures)
func (l Launch) NextStage() int {
	for i, sig := range l.Signatures {
		if sig == "" {
			return i
		}
	}
	return len(l.Signatures)
}

// Recorder 持久化发行快照，失败只记日志不影响链上流程
type Recorder interface {
	Record(ctx context.Context, launch Launch) error
}

const (
	EventMintCreated    = "mint_created"
	EventAccountCreated = "account_created"
	EventSupplyMinted   = "supply_minted"
	EventLaunchFailed   = "launch_failed"
)

// stageEvents 按阶段下标对应的完成事件
var stageEvents = [3]string{EventMintCreated, EventAccountCreated, EventSupplyMinted}

// Event 是阶段完成或失败时发出的通知
type Event struct {
	Type      string
	RequestID string
	Mint      string
	Owner     string
	Signature string
	Amount    uint64
	State     State
	Error     string
}

type EventSink interface {
	Emit(ctx context.Context, evt Event)
}
