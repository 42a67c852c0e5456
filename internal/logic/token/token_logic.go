package token

import (
	"context"
	"errors"
	"fmt"

	"launchpad/internal/constant"
	"launchpad/internal/guard"
	"launchpad/internal/launchpad"
	"launchpad/internal/logic/wallet"
	"launchpad/internal/model"
	"launchpad/internal/svc"
	"launchpad/internal/types"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/zeromicro/go-zero/core/logx"
)

var ErrLaunchNotFound = errors.New("launch not found")

type TokenLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewTokenLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TokenLogic {
	return &TokenLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// CreateToken 每次调用都会创建新的 mint；同一钱包同时只允许一次发行
func (l *TokenLogic) CreateToken(req *types.TokenCreateReq) (*types.TokenLaunchResp, error) {
	l.Infof("--- 开始处理 /token/create 请求, owner: %s, name: %s, symbol: %s ---", req.OwnerAddress, req.Name, req.Symbol)

	mintReq := launchpad.MintRequest{
		Name:          req.Name,
		Symbol:        req.Symbol,
		URI:           req.Uri,
		InitialSupply: req.InitialSupply,
	}
	if _, err := mintReq.Validate(); err != nil {
		l.Infof("请求参数无效: %v", err)
		return failure(launchpad.MessageInvalidInput), nil
	}

	w, err := wallet.LoadCustodialWallet(l.ctx, l.svcCtx.WalletsDao, req.OwnerAddress)
	if err != nil {
		l.Errorf("加载钱包失败: %v", err)
		return failure(launchpad.MessageFailed), nil
	}
	defer w.Close()

	release, err := l.acquire(w)
	if err != nil {
		l.Errorf("获取发行锁失败: %v", err)
		return lockFailure(err), nil
	}
	defer release()

	res := l.svcCtx.Pipeline.Run(l.ctx, w, mintReq)
	l.Infof("--- /token/create 请求处理完成, success: %v, message: %s ---", res.Outcome.Success, res.Outcome.Message)
	return l.toLaunchResp(res), nil
}

// ResumeLaunch 只补做缺失的阶段，不会创建新的 mint
func (l *TokenLogic) ResumeLaunch(req *types.TokenResumeReq) (*types.TokenLaunchResp, error) {
	l.Infof("--- 开始处理 /token/resume 请求, mint: %s ---", req.MintAddress)

	launch, err := l.findLaunch(req.MintAddress)
	if err != nil {
		return nil, err
	}

	w, err := wallet.LoadCustodialWallet(l.ctx, l.svcCtx.WalletsDao, launch.Owner.ToBase58())
	if err != nil {
		l.Errorf("加载钱包失败: %v", err)
		return failure(launchpad.MessageFailed), nil
	}
	defer w.Close()

	release, err := l.acquire(w)
	if err != nil {
		l.Errorf("获取发行锁失败: %v", err)
		return lockFailure(err), nil
	}
	defer release()

	res := l.svcCtx.Pipeline.Resume(l.ctx, w, launch)
	l.Infof("--- /token/resume 请求处理完成, success: %v ---", res.Outcome.Success)
	return l.toLaunchResp(res), nil
}

func (l *TokenLogic) LaunchStatus(req *types.TokenStatusReq) (*types.LaunchStatusResp, error) {
	if req.MintAddress == "" {
		return nil, fmt.Errorf("mint_address is required")
	}
	row, err := l.svcCtx.MintLaunchesDao.FindOneByMint(l.ctx, req.MintAddress)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrLaunchNotFound, req.MintAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("find launch %s: %w", req.MintAddress, err)
	}
	resp, err := l.toStatusResp(row)
	if err != nil {
		return nil, err
	}

	// 有未确认的交易时查询一次链上状态，不修改记录
	if resp.PendingSignature != "" {
		status, err := l.svcCtx.Connection.SignatureStatus(l.ctx, resp.PendingSignature)
		if err != nil {
			l.Errorf("查询未确认交易状态失败 tx=%s: %v", resp.PendingSignature, err)
		} else {
			resp.PendingStatus = string(status)
		}
	}
	return resp, nil
}

// ListLaunches 按创建时间倒序返回某个钱包的发行记录
func (l *TokenLogic) ListLaunches(req *types.TokenListReq) (*types.LaunchListResp, error) {
	if req.OwnerAddress == "" {
		return nil, fmt.Errorf("owner_address is required")
	}
	rows, err := l.svcCtx.MintLaunchesDao.FindByOwner(l.ctx, req.OwnerAddress)
	if err != nil {
		return nil, fmt.Errorf("find launches of %s: %w", req.OwnerAddress, err)
	}

	resp := &types.LaunchListResp{Launches: make([]types.LaunchStatusResp, 0, len(rows))}
	for _, row := range rows {
		item, err := l.toStatusResp(row)
		if err != nil {
			l.Errorf("跳过无法解析的发行记录 mint=%s: %v", row.MintAddress, err)
			continue
		}
		resp.Launches = append(resp.Launches, *item)
	}
	return resp, nil
}

func (l *TokenLogic) toStatusResp(row *model.MintLaunches) (*types.LaunchStatusResp, error) {
	launch, err := row.ToLaunch()
	if err != nil {
		return nil, err
	}
	sigs := signatures(launch)
	return &types.LaunchStatusResp{
		RequestId:         row.RequestId,
		MintAddress:       row.MintAddress,
		OwnerAddress:      row.OwnerAddress,
		AssociatedAccount: row.AssociatedAccount,
		Name:              row.Name,
		Symbol:            row.Symbol,
		Uri:               row.Uri,
		InitialSupply:     row.InitialSupply,
		Stage:             row.Stage,
		Status:            row.Status,
		Signatures:        sigs,
		TxExplorerUrls:    l.txExplorerUrls(sigs),
		PendingSignature:  row.PendingSignature,
		LastError:         row.LastError,
		Resumable:         launch.Resumable(),
		ExplorerUrl:       constant.ExplorerAddressURL(l.svcCtx.Config.Solana.Cluster, row.MintAddress),
		CreatedAt:         row.CreatedAt.Unix(),
		UpdatedAt:         row.UpdatedAt.Unix(),
	}, nil
}

func (l *TokenLogic) findLaunch(mint string) (launchpad.Launch, error) {
	row, err := l.svcCtx.MintLaunchesDao.FindOneByMint(l.ctx, mint)
	if errors.Is(err, model.ErrNotFound) {
		return launchpad.Launch{}, fmt.Errorf("%w: %s", ErrLaunchNotFound, mint)
	}
	if err != nil {
		return launchpad.Launch{}, fmt.Errorf("find launch %s: %w", mint, err)
	}
	return row.ToLaunch()
}

// acquire 钱包未连接时不加锁，由流水线返回前置条件错误
func (l *TokenLogic) acquire(w *wallet.CustodialWallet) (func(), error) {
	if _, ok := w.PublicKey(); !ok {
		return func() {}, nil
	}
	release, err := l.svcCtx.Guard.TryAcquire(l.ctx, w.Address())
	if errors.Is(err, guard.ErrBusy) {
		return nil, fmt.Errorf("%w: wallet %s", launchpad.ErrLaunchInFlight, w.Address())
	}
	if err != nil {
		return nil, fmt.Errorf("acquire launch lock: %w", err)
	}
	return release, nil
}

func lockFailure(err error) *types.TokenLaunchResp {
	if errors.Is(err, launchpad.ErrLaunchInFlight) {
		return failure(launchpad.MessageInFlight)
	}
	return failure(launchpad.MessageFailed)
}

func (l *TokenLogic) toLaunchResp(res *launchpad.Result) *types.TokenLaunchResp {
	sigs := signatures(res.Launch)
	resp := &types.TokenLaunchResp{
		Success:        res.Outcome.Success,
		Message:        res.Outcome.Message,
		RequestId:      res.Launch.RequestID,
		Signatures:     sigs,
		TxExplorerUrls: l.txExplorerUrls(sigs),
	}
	if res.Launch.Mint != (common.PublicKey{}) {
		resp.MintAddress = res.Launch.Mint.ToBase58()
		resp.ExplorerUrl = constant.ExplorerAddressURL(l.svcCtx.Config.Solana.Cluster, resp.MintAddress)
	}
	if res.Launch.AssociatedAccount != (common.PublicKey{}) {
		resp.AssociatedAccount = res.Launch.AssociatedAccount.ToBase58()
	}
	return resp
}

func (l *TokenLogic) txExplorerUrls(sigs []string) []string {
	urls := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		urls = append(urls, constant.ExplorerTxURL(l.svcCtx.Config.Solana.Cluster, sig))
	}
	return urls
}

func failure(message string) *types.TokenLaunchResp {
	return &types.TokenLaunchResp{Message: message, Signatures: []string{}, TxExplorerUrls: []string{}}
}

func signatures(launch launchpad.Launch) []string {
	out := make([]string, 0, len(launch.Signatures))
	for _, sig := range launch.Signatures {
		if sig != "" {
			out = append(out, sig)
		}
	}
	return out
}
