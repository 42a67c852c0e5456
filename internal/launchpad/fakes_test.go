package launchpad

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

var errRejected = errors.New("transaction rejected")

type fakeConnection struct {
	mu         sync.Mutex
	calls      []string
	blockhash  string
	rentErr    error
	hashErr    error
	sendErr    map[int]error // 第 n 次提交（从 1 开始）
	confirmErr map[int]error
	sent       []types.Transaction
	statuses   map[string]TxStatus // 未设置的签名视为查不到
	expired    bool                // blockhash 是否已过期
}

func newFakeConnection() *fakeConnection {
	return &fakeConnection{
		blockhash:  types.NewAccount().PublicKey.ToBase58(),
		sendErr:    map[int]error{},
		confirmErr: map[int]error{},
		statuses:   map[string]TxStatus{},
	}
}

func (c *fakeConnection) log(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeConnection) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *fakeConnection) GetMinimumBalanceForRentExemption(_ context.Context, size uint64) (uint64, error) {
	c.log(fmt.Sprintf("rent:%d", size))
	if c.rentErr != nil {
		return 0, c.rentErr
	}
	return (128 + size) * 3480 * 2, nil
}

func (c *fakeConnection) GetLatestBlockhash(context.Context) (string, error) {
	c.log("blockhash")
	if c.hashErr != nil {
		return "", c.hashErr
	}
	return c.blockhash, nil
}

func (c *fakeConnection) SendTransaction(_ context.Context, tx types.Transaction) (string, error) {
	c.mu.Lock()
	c.sent = append(c.sent, tx)
	n := len(c.sent)
	c.mu.Unlock()
	c.log(fmt.Sprintf("send:%d", n))
	if err := c.sendErr[n]; err != nil {
		return "", err
	}
	return fmt.Sprintf("sig-%d", n), nil
}

func (c *fakeConnection) ConfirmTransaction(_ context.Context, signature string) error {
	c.log("confirm:" + signature)
	var n int
	fmt.Sscanf(signature, "sig-%d", &n)
	return c.confirmErr[n]
}

func (c *fakeConnection) SignatureStatus(_ context.Context, signature string) (TxStatus, error) {
	c.log("status:" + signature)
	c.mu.Lock()
	defer c.mu.Unlock()
	if status, ok := c.statuses[signature]; ok {
		return status, nil
	}
	return TxNotFound, nil
}

func (c *fakeConnection) IsBlockhashValid(context.Context, string) (bool, error) {
	c.log("blockhash_valid")
	return !c.expired, nil
}

type fakeWallet struct {
	account   types.Account
	connected bool
	canSign   bool
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{account: types.NewAccount(), connected: true, canSign: true}
}

func (w *fakeWallet) PublicKey() (common.PublicKey, bool) {
	if !w.connected {
		return common.PublicKey{}, false
	}
	return w.account.PublicKey, true
}

func (w *fakeWallet) CanSign() bool {
	return w.canSign
}

func (w *fakeWallet) SignTransaction(_ context.Context, tx types.Transaction) (types.Transaction, error) {
	data, err := tx.Message.Serialize()
	if err != nil {
		return tx, err
	}
	if err := tx.AddSignature(w.account.Sign(data)); err != nil {
		return tx, err
	}
	return tx, nil
}

func (w *fakeWallet) SendTransaction(ctx context.Context, tx types.Transaction, conn Connection) (string, error) {
	signed, err := w.SignTransaction(ctx, tx)
	if err != nil {
		return "", err
	}
	return conn.SendTransaction(ctx, signed)
}

type memRecorder struct {
	mu      sync.Mutex
	records []Launch
}

func (r *memRecorder) Record(_ context.Context, l Launch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, l)
	return nil
}

func (r *memRecorder) last() Launch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[len(r.records)-1]
}

type memSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *memSink) Emit(_ context.Context, evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *memSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}
