package launchpad

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	DefaultRpcEndpoint    = rpc.DevnetRPCEndpoint
	defaultConfirmTimeout = 60 * time.Second
	defaultPollInterval   = time.Second
)

var ErrConfirmTimeout = errors.New("transaction confirmation timeout")

// RPCConnection 基于 blocto 客户端实现 Connection
type RPCConnection struct {
	client         *client.Client
	endpoint       string
	commitment     rpc.Commitment
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

type RPCOption func(*RPCConnection)

func WithCommitment(commitment string) RPCOption {
	return func(c *RPCConnection) {
		if commitment != "" {
			c.commitment = rpc.Commitment(commitment)
		}
	}
}

func WithConfirmTimeout(d time.Duration) RPCOption {
	return func(c *RPCConnection) {
		if d > 0 {
			c.confirmTimeout = d
		}
	}
}

func WithPollInterval(d time.Duration) RPCOption {
	return func(c *RPCConnection) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

func NewRPCConnection(endpoint string, opts ...RPCOption) *RPCConnection {
	if endpoint == "" {
		endpoint = DefaultRpcEndpoint
	}
	c := &RPCConnection{
		client:         client.NewClient(endpoint),
		endpoint:       endpoint,
		commitment:     rpc.CommitmentConfirmed,
		confirmTimeout: defaultConfirmTimeout,
		pollInterval:   defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RPCConnection) Endpoint() string {
	return c.endpoint
}

func (c *RPCConnection) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	return c.client.GetMinimumBalanceForRentExemption(ctx, size)
}

func (c *RPCConnection) GetLatestBlockhash(ctx context.Context) (string, error) {
	recent, err := c.client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}
	return recent.Blockhash, nil
}

func (c *RPCConnection) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	return c.client.SendTransaction(ctx, tx)
}

// ConfirmTransaction 轮询签名状态，不重发交易
func (c *RPCConnection) ConfirmTransaction(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.client.GetSignatureStatus(ctx, signature)
		if err != nil {
			logx.WithContext(ctx).Infof("查询交易状态失败，继续等待: %s, %v", signature, err)
		} else {
			switch c.classify(status) {
			case TxFailed:
				return fmt.Errorf("transaction %s failed on chain: %v", signature, status.Err)
			case TxConfirmed:
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrConfirmTimeout, signature)
		case <-ticker.C:
		}
	}
}

func (c *RPCConnection) SignatureStatus(ctx context.Context, signature string) (TxStatus, error) {
	status, err := c.client.GetSignatureStatusWithConfig(ctx, signature, client.GetSignatureStatusesConfig{
		SearchTransactionHistory: true,
	})
	if err != nil {
		return "", fmt.Errorf("get signature status %s: %w", signature, err)
	}
	return c.classify(status), nil
}

func (c *RPCConnection) IsBlockhashValid(ctx context.Context, blockhash string) (bool, error) {
	return c.client.IsBlockhashValid(ctx, blockhash)
}

func (c *RPCConnection) classify(status *rpc.SignatureStatus) TxStatus {
	switch {
	case status == nil:
		return TxNotFound
	case status.Err != nil:
		return TxFailed
	case status.ConfirmationStatus != nil && commitmentReached(*status.ConfirmationStatus, c.commitment):
		return TxConfirmed
	default:
		return TxProcessing
	}
}

func commitmentReached(got, want rpc.Commitment) bool {
	return commitmentRank(got) >= commitmentRank(want)
}

func commitmentRank(c rpc.Commitment) int {
	switch c {
	case rpc.CommitmentProcessed:
		return 1
	case rpc.CommitmentConfirmed:
		return 2
	case rpc.CommitmentFinalized:
		return 3
	default:
		return 0
	}
}
