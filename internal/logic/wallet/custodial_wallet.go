package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"launchpad/internal/launchpad"
	"launchpad/internal/model"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// CustodialWallet 是服务端托管的钱包。地址不在库中时视为未连接。
type CustodialWallet struct {
	address string
	account *types.Account
}

// LoadCustodialWallet 只有数据库错误和密钥损坏才返回 error
func LoadCustodialWallet(ctx context.Context, dao model.WalletsDao, address string) (*CustodialWallet, error) {
	w := &CustodialWallet{address: address}
	if address == "" {
		return w, nil
	}

	row, err := dao.FindOneByAddress(ctx, address)
	if errors.Is(err, model.ErrNotFound) {
		return w, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find wallet %s: %w", address, err)
	}

	key, err := hex.DecodeString(row.EncryptedPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decode private key of %s: %w", address, err)
	}
	// account 直接引用 key，由 Close 清除
	account, err := types.AccountFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", address, err)
	}
	if account.PublicKey.ToBase58() != address {
		return nil, fmt.Errorf("stored key does not match address %s", address)
	}
	w.account = &account
	return w, nil
}

func (w *CustodialWallet) Address() string {
	return w.address
}

func (w *CustodialWallet) PublicKey() (common.PublicKey, bool) {
	if w.account == nil {
		return common.PublicKey{}, false
	}
	return w.account.PublicKey, true
}

func (w *CustodialWallet) CanSign() bool {
	return w.account != nil && len(w.account.PrivateKey) > 0
}

// SignTransaction 补齐付款人签名，保留已有的共签
func (w *CustodialWallet) SignTransaction(_ context.Context, tx types.Transaction) (types.Transaction, error) {
	if !w.CanSign() {
		return tx, launchpad.ErrWalletCannotSign
	}
	data, err := tx.Message.Serialize()
	if err != nil {
		return tx, fmt.Errorf("serialize message: %w", err)
	}
	if err := tx.AddSignature(w.account.Sign(data)); err != nil {
		return tx, fmt.Errorf("add signature: %w", err)
	}
	return tx, nil
}

func (w *CustodialWallet) SendTransaction(ctx context.Context, tx types.Transaction, conn launchpad.Connection) (string, error) {
	signed, err := w.SignTransaction(ctx, tx)
	if err != nil {
		return "", err
	}
	return conn.SendTransaction(ctx, signed)
}

// Close 清除内存中的私钥
func (w *CustodialWallet) Close() {
	if w.account != nil {
		clear(w.account.PrivateKey)
		w.account = nil
	}
}
