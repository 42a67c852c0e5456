package handler

import (
	"net/http"

	"launchpad/internal/logic/wallet"
	"launchpad/internal/svc"
	"launchpad/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// WalletInitHandler 创建托管的 Solana 钱包
func WalletInitHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.WalletInitReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := wallet.NewWalletLogic(r.Context(), svcCtx)
		resp, err := l.WalletInit(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
