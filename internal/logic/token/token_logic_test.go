package token

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"launchpad/internal/config"
	"launchpad/internal/guard"
	"launchpad/internal/launchpad"
	"launchpad/internal/logic/wallet"
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

type memLaunchesDao struct {
	mu   sync.Mutex
	rows map[string]*model.MintLaunches
}

func (d *memLaunchesDao) Upsert(_ context.Context, data *model.MintLaunches) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now()
	if old, ok := d.rows[data.MintAddress]; ok {
		data.CreatedAt = old.CreatedAt
	} else {
		data.CreatedAt = now
	}
	data.UpdatedAt = now
	cp := *data
	d.rows[data.MintAddress] = &cp
	return nil
}

func (d *memLaunchesDao) FindOneByMint(_ context.Context, mint string) (*model.MintLaunches, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if row, ok := d.rows[mint]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, model.ErrNotFound
}

func (d *memLaunchesDao) FindByOwner(_ context.Context, owner string) ([]*model.MintLaunches, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*model.MintLaunches
	for _, row := range d.rows {
		if row.OwnerAddress == owner {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

// stubConnection 立即确认所有交易，failSend 指定第几次提交失败，unconfirmed 的签名确认超时
type stubConnection struct {
	mu          sync.Mutex
	blockhash   string
	sends       int
	failSend    int
	unconfirmed string
	statuses    map[string]launchpad.TxStatus
}

func (c *stubConnection) GetMinimumBalanceForRentExemption(_ context.Context, size uint64) (uint64, error) {
	return (128 + size) * 6960, nil
}

func (c *stubConnection) GetLatestBlockhash(context.Context) (string, error) {
	return c.blockhash, nil
}

func (c *stubConnection) SendTransaction(context.Context, solanatypes.Transaction) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sends++
	if c.sends == c.failSend {
		return "", fmt.Errorf("blockhash not found")
	}
	return fmt.Sprintf("sig-%d", c.sends), nil
}

func (c *stubConnection) ConfirmTransaction(_ context.Context, sig string) error {
	if sig == c.unconfirmed {
		return fmt.Errorf("confirm %s: timeout", sig)
	}
	return nil
}

func (c *stubConnection) SignatureStatus(_ context.Context, sig string) (launchpad.TxStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if status, ok := c.statuses[sig]; ok {
		return status, nil
	}
	return launchpad.TxNotFound, nil
}

// IsBlockhashValid 旧 blockhash 一律视为过期
func (c *stubConnection) IsBlockhashValid(context.Context, string) (bool, error) {
	return false, nil
}

func (c *stubConnection) setStatus(sig string, status launchpad.TxStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[sig] = status
}

func (c *stubConnection) Sends() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sends
}

type fixture struct {
	svcCtx   *svc.ServiceContext
	conn     *stubConnection
	launches *memLaunchesDao
	owner    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	var c config.Config
	c.Solana.Cluster = "devnet"

	conn := &stubConnection{
		blockhash: solanatypes.NewAccount().PublicKey.ToBase58(),
		statuses:  map[string]launchpad.TxStatus{},
	}
	launches := &memLaunchesDao{rows: map[string]*model.MintLaunches{}}
	svcCtx := &svc.ServiceContext{
		Config:          c,
		WalletsDao:      &memWalletsDao{rows: map[string]*model.Wallets{}},
		MintLaunchesDao: launches,
		Connection:      conn,
		Guard:           guard.NewLocalGuard(),
		Pipeline:        launchpad.NewPipeline(conn, launchpad.WithRecorder(model.NewLaunchRecorder(launches))),
	}

	resp, err := wallet.NewWalletLogic(context.Background(), svcCtx).WalletInit(&types.WalletInitReq{Name: "issuer"})
	require.NoError(t, err)
	return &fixture{svcCtx: svcCtx, conn: conn, launches: launches, owner: resp.Wallets[0].Address}
}

func (f *fixture) createReq() *types.TokenCreateReq {
	return &types.TokenCreateReq{
		OwnerAddress:  f.owner,
		Name:          "Test",
		Symbol:        "TST",
		Uri:           "https://x/y.json",
		InitialSupply: "1000",
	}
}

func TestCreateToken(t *testing.T) {
	f := newFixture(t)
	l := NewTokenLogic(context.Background(), f.svcCtx)

	resp, err := l.CreateToken(f.createReq())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "successfully")
	assert.NotEmpty(t, resp.MintAddress)
	assert.NotEmpty(t, resp.AssociatedAccount)
	assert.NotEmpty(t, resp.RequestId)
	assert.Equal(t, []string{"sig-1", "sig-2", "sig-3"}, resp.Signatures)
	assert.Contains(t, resp.ExplorerUrl, resp.MintAddress)
	require.Len(t, resp.TxExplorerUrls, 3)
	assert.Equal(t, "https://explorer.solana.com/tx/sig-3?cluster=devnet", resp.TxExplorerUrls[2])

	status, err := l.LaunchStatus(&types.TokenStatusReq{MintAddress: resp.MintAddress})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", status.Status)
	assert.Equal(t, "succeeded", status.Stage)
	assert.Equal(t, f.owner, status.OwnerAddress)
	assert.Equal(t, "1000", status.InitialSupply)
	assert.False(t, status.Resumable)

	// 锁已释放，可以再次发行
	again, err := l.CreateToken(f.createReq())
	require.NoError(t, err)
	assert.True(t, again.Success)
	assert.NotEqual(t, resp.MintAddress, again.MintAddress)
}

func TestCreateTokenInvalidInput(t *testing.T) {
	f := newFixture(t)
	req := f.createReq()
	req.InitialSupply = "abc"

	resp, err := NewTokenLogic(context.Background(), f.svcCtx).CreateToken(req)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, launchpad.MessageInvalidInput, resp.Message)
	assert.Zero(t, f.conn.Sends())
}

func TestCreateTokenUnknownWallet(t *testing.T) {
	f := newFixture(t)
	req := f.createReq()
	req.OwnerAddress = solanatypes.NewAccount().PublicKey.ToBase58()

	resp, err := NewTokenLogic(context.Background(), f.svcCtx).CreateToken(req)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, launchpad.MessageFailed, resp.Message)
	assert.Zero(t, f.conn.Sends())
	assert.Empty(t, f.launches.rows)
}

func TestCreateTokenInFlight(t *testing.T) {
	f := newFixture(t)
	release, err := f.svcCtx.Guard.TryAcquire(context.Background(), f.owner)
	require.NoError(t, err)
	defer release()

	resp, err := NewTokenLogic(context.Background(), f.svcCtx).CreateToken(f.createReq())
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, launchpad.MessageInFlight, resp.Message)
	assert.Zero(t, f.conn.Sends())

	_, err = NewTokenLogic(context.Background(), f.svcCtx).acquire(loadWallet(t, f))
	assert.ErrorIs(t, err, launchpad.ErrLaunchInFlight)
}

func loadWallet(t *testing.T, f *fixture) *wallet.CustodialWallet {
	t.Helper()
	w, err := wallet.LoadCustodialWallet(context.Background(), f.svcCtx.WalletsDao, f.owner)
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return w
}

func TestResumeLaunch(t *testing.T) {
	f := newFixture(t)
	f.conn.failSend = 2
	l := NewTokenLogic(context.Background(), f.svcCtx)

	resp, err := l.CreateToken(f.createReq())
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, launchpad.MessageFailed, resp.Message)
	assert.Equal(t, []string{"sig-1"}, resp.Signatures)
	require.NotEmpty(t, resp.MintAddress)

	status, err := l.LaunchStatus(&types.TokenStatusReq{MintAddress: resp.MintAddress})
	require.NoError(t, err)
	assert.Equal(t, "failed", status.Status)
	assert.Equal(t, "submitting_t2", status.Stage)
	assert.True(t, status.Resumable)
	assert.NotEmpty(t, status.LastError)

	resumed, err := l.ResumeLaunch(&types.TokenResumeReq{MintAddress: resp.MintAddress})
	require.NoError(t, err)
	assert.True(t, resumed.Success)
	assert.Equal(t, resp.MintAddress, resumed.MintAddress)
	assert.Equal(t, []string{"sig-1", "sig-3", "sig-4"}, resumed.Signatures)
	assert.Equal(t, 4, f.conn.Sends())

	status, err = l.LaunchStatus(&types.TokenStatusReq{MintAddress: resp.MintAddress})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", status.Status)
	assert.Empty(t, status.LastError)

	// 已完成的发行不能再次恢复
	again, err := l.ResumeLaunch(&types.TokenResumeReq{MintAddress: resp.MintAddress})
	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Equal(t, 4, f.conn.Sends())
}

func TestResumeLaunchNotFound(t *testing.T) {
	f := newFixture(t)
	l := NewTokenLogic(context.Background(), f.svcCtx)

	_, err := l.ResumeLaunch(&types.TokenResumeReq{MintAddress: solanatypes.NewAccount().PublicKey.ToBase58()})
	assert.ErrorIs(t, err, ErrLaunchNotFound)

	_, err = l.LaunchStatus(&types.TokenStatusReq{MintAddress: "missing"})
	assert.ErrorIs(t, err, ErrLaunchNotFound)

	_, err = l.LaunchStatus(&types.TokenStatusReq{})
	assert.Error(t, err)
}

func TestResumeLaunchLandedMintTo(t *testing.T) {
	f := newFixture(t)
	f.conn.unconfirmed = "sig-3"
	l := NewTokenLogic(context.Background(), f.svcCtx)

	resp, err := l.CreateToken(f.createReq())
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, []string{"sig-1", "sig-2"}, resp.Signatures)

	status, err := l.LaunchStatus(&types.TokenStatusReq{MintAddress: resp.MintAddress})
	require.NoError(t, err)
	assert.Equal(t, "failed", status.Status)
	assert.True(t, status.Resumable)
	assert.Equal(t, "sig-3", status.PendingSignature)
	assert.Equal(t, string(launchpad.TxNotFound), status.PendingStatus)

	// 确认超时但交易实际已上链
	f.conn.setStatus("sig-3", launchpad.TxConfirmed)
	status, err = l.LaunchStatus(&types.TokenStatusReq{MintAddress: resp.MintAddress})
	require.NoError(t, err)
	assert.Equal(t, string(launchpad.TxConfirmed), status.PendingStatus)

	resumed, err := l.ResumeLaunch(&types.TokenResumeReq{MintAddress: resp.MintAddress})
	require.NoError(t, err)
	assert.True(t, resumed.Success)
	assert.Equal(t, []string{"sig-1", "sig-2", "sig-3"}, resumed.Signatures)
	assert.Equal(t, 3, f.conn.Sends())

	status, err = l.LaunchStatus(&types.TokenStatusReq{MintAddress: resp.MintAddress})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", status.Status)
	assert.Empty(t, status.PendingSignature)
	assert.Empty(t, status.PendingStatus)
}

func TestListLaunches(t *testing.T) {
	f := newFixture(t)
	l := NewTokenLogic(context.Background(), f.svcCtx)

	first, err := l.CreateToken(f.createReq())
	require.NoError(t, err)
	second, err := l.CreateToken(f.createReq())
	require.NoError(t, err)

	list, err := l.ListLaunches(&types.TokenListReq{OwnerAddress: f.owner})
	require.NoError(t, err)
	require.Len(t, list.Launches, 2)
	mints := []string{list.Launches[0].MintAddress, list.Launches[1].MintAddress}
	assert.ElementsMatch(t, []string{first.MintAddress, second.MintAddress}, mints)
	for _, item := range list.Launches {
		assert.Equal(t, f.owner, item.OwnerAddress)
		assert.Equal(t, "succeeded", item.Status)
		assert.Len(t, item.TxExplorerUrls, 3)
	}

	other, err := l.ListLaunches(&types.TokenListReq{OwnerAddress: solanatypes.NewAccount().PublicKey.ToBase58()})
	require.NoError(t, err)
	assert.Empty(t, other.Launches)

	_, err = l.ListLaunches(&types.TokenListReq{})
	assert.Error(t, err)
}
