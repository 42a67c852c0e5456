package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"launchpad/internal/constant"
	"launchpad/internal/model"
	"launchpad/internal/svc"
	"launchpad/internal/types"

	"github.com/mr-tron/base58"
	"github.com/zeromicro/go-zero/core/logx"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

type WalletLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewWalletLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WalletLogic {
	return &WalletLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// WalletInit 创建一个托管的 Solana 钱包，作为代币发行的付款人和 mint authority
func (l *WalletLogic) WalletInit(req *types.WalletInitReq) (resp *types.WalletInitResp, err error) {
	l.Infof("--- 开始处理 /wallet_init 请求, name: %s, chain: %s ---", req.Name, req.Chain)

	chain := req.Chain
	if chain == "" {
		chain = string(constant.ChainSOLANA)
	}
	if !constant.IsChainSupported(chain) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}

	// 1. Solana 使用 Ed25519 加密算法
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Solana private key: %w", err)
	}

	// Solana 地址就是公钥的 Base58 编码
	address := base58.Encode(publicKey)
	l.Infof("步骤 1: Solana 钱包生成成功, 地址: %s", address)

	// 2. 存入数据库
	// !!! 警告: 在生产环境中，私钥在存入数据库前必须经过强加密 !!!
	newWallet := &model.Wallets{
		UserId:              "_test_user_id_",
		Name:                req.Name,
		Address:             address,
		EncryptedPrivateKey: hex.EncodeToString(privateKey),
		PhoneNumber:         sql.NullString{String: req.PhoneNumber, Valid: req.PhoneNumber != ""},
		Email:               sql.NullString{String: req.Email, Valid: req.Email != ""},
		ChainType:           sql.NullString{String: chain, Valid: true},
	}
	clear(privateKey)

	if err := l.svcCtx.WalletsDao.Insert(l.ctx, newWallet); err != nil {
		return nil, fmt.Errorf("failed to save wallet to database: %w", err)
	}
	l.Infof("步骤 2: 钱包已保存")

	resp = &types.WalletInitResp{
		Wallets: []types.WalletAddress{{
			Chain:       chain,
			Address:     address,
			ExplorerUrl: constant.ExplorerAddressURL(l.svcCtx.Config.Solana.Cluster, address),
		}},
	}
	l.Infof("--- /wallet_init 请求处理完成 ---")
	return resp, nil
}
