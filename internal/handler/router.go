package handler

import (
	"net/http"
	"time"

	"launchpad/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

// 三笔交易各自等待确认，超时需覆盖三次确认
const launchTimeout = 180 * time.Second

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/wallet_init",
				Handler: WalletInitHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/token/status",
				Handler: TokenStatusHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/token/list",
				Handler: TokenListHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api/"),
		rest.WithTimeout(30000*time.Millisecond),
	)

	// --- Token Launch Routes ---
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/token/create",
				Handler: TokenCreateHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/token/resume",
				Handler: TokenResumeHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api/"),
		rest.WithTimeout(launchTimeout),
	)
}
