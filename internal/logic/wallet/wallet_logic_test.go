package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"sync"
	"testing"

	"launchpad/internal/config"
	"launchpad/internal/launchpad"
	"launchpad/internal/model"
	"launchpad/internal/svc"
	"launchpad/internal/types"

	solanatypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWalletsDao struct {
	mu   sync.Mutex
	rows map[string]*model.Wallets
}

func newMemWalletsDao() *memWalletsDao {
	return &memWalletsDao{rows: map[string]*model.Wallets{}}
}

func (d *memWalletsDao) Insert(_ context.Context, data *model.Wallets) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows[data.Address] = data
	return nil
}

func (d *memWalletsDao) FindOneByAddress(_ context.Context, address string) (*model.Wallets, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if row, ok := d.rows[address]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, model.ErrNotFound
}

func newTestServiceContext(dao model.WalletsDao) *svc.ServiceContext {
	var c config.Config
	c.Solana.Cluster = "devnet"
	return &svc.ServiceContext{Config: c, WalletsDao: dao}
}

func TestWalletInit(t *testing.T) {
	dao := newMemWalletsDao()
	l := NewWalletLogic(context.Background(), newTestServiceContext(dao))

	resp, err := l.WalletInit(&types.WalletInitReq{Name: "issuer", Email: "a@b.c"})
	require.NoError(t, err)
	require.Len(t, resp.Wallets, 1)
	assert.Equal(t, "SOLANA", resp.Wallets[0].Chain)
	assert.Contains(t, resp.Wallets[0].ExplorerUrl, "cluster=devnet")

	row, err := dao.FindOneByAddress(context.Background(), resp.Wallets[0].Address)
	require.NoError(t, err)
	assert.Equal(t, "issuer", row.Name)
	assert.True(t, row.Email.Valid)
	assert.False(t, row.PhoneNumber.Valid)
	assert.Len(t, row.EncryptedPrivateKey, 128)
	assert.Equal(t, "SOLANA", row.ChainType.String)
}

func TestWalletInitChain(t *testing.T) {
	dao := newMemWalletsDao()
	l := NewWalletLogic(context.Background(), newTestServiceContext(dao))

	resp, err := l.WalletInit(&types.WalletInitReq{Name: "issuer", Chain: "SOLANA"})
	require.NoError(t, err)
	assert.Equal(t, "SOLANA", resp.Wallets[0].Chain)

	_, err = l.WalletInit(&types.WalletInitReq{Name: "issuer", Chain: "ETH"})
	assert.ErrorIs(t, err, ErrUnsupportedChain)
	assert.Len(t, dao.rows, 1)
}

func TestLoadCustodialWalletSigns(t *testing.T) {
	dao := newMemWalletsDao()
	resp, err := NewWalletLogic(context.Background(), newTestServiceContext(dao)).WalletInit(&types.WalletInitReq{Name: "issuer"})
	require.NoError(t, err)
	address := resp.Wallets[0].Address

	w, err := LoadCustodialWallet(context.Background(), dao, address)
	require.NoError(t, err)
	pub, ok := w.PublicKey()
	require.True(t, ok)
	assert.Equal(t, address, pub.ToBase58())
	assert.True(t, w.CanSign())

	mint := solanatypes.NewAccount().PublicKey
	ata, err := launchpad.AssociatedTokenAddress(pub, mint)
	require.NoError(t, err)
	unit, err := launchpad.BuildMintToTransaction(pub, mint, ata, 1, solanatypes.NewAccount().PublicKey.ToBase58())
	require.NoError(t, err)
	tx, err := unit.Compile()
	require.NoError(t, err)

	signed, err := w.SignTransaction(context.Background(), tx)
	require.NoError(t, err)
	data, err := signed.Message.Serialize()
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub.Bytes(), data, signed.Signatures[0]))

	w.Close()
	assert.False(t, w.CanSign())
	_, ok = w.PublicKey()
	assert.False(t, ok)
}

func TestLoadCustodialWalletUnknownAddress(t *testing.T) {
	w, err := LoadCustodialWallet(context.Background(), newMemWalletsDao(), solanatypes.NewAccount().PublicKey.ToBase58())
	require.NoError(t, err)
	_, ok := w.PublicKey()
	assert.False(t, ok)
	assert.False(t, w.CanSign())

	empty, err := LoadCustodialWallet(context.Background(), newMemWalletsDao(), "")
	require.NoError(t, err)
	assert.False(t, empty.CanSign())

	_, err = w.SignTransaction(context.Background(), solanatypes.Transaction{})
	assert.ErrorIs(t, err, launchpad.ErrWalletCannotSign)
}

func TestLoadCustodialWalletMismatchedKey(t *testing.T) {
	dao := newMemWalletsDao()
	other := solanatypes.NewAccount()
	address := solanatypes.NewAccount().PublicKey.ToBase58()
	require.NoError(t, dao.Insert(context.Background(), &model.Wallets{
		Address:             address,
		EncryptedPrivateKey: hex.EncodeToString(other.PrivateKey),
	}))

	_, err := LoadCustodialWallet(context.Background(), dao, address)
	assert.Error(t, err)

	require.NoError(t, dao.Insert(context.Background(), &model.Wallets{Address: "bad", EncryptedPrivateKey: "zz"}))
	_, err = LoadCustodialWallet(context.Background(), dao, "bad")
	assert.Error(t, err)
}
