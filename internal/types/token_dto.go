package types

// TokenCreateReq 发行请求。字段都标记为 optional，空值由发行流程统一校验并返回提示。
type TokenCreateReq struct {
	OwnerAddress  string `json:"owner_address,optional"`
	Name          string `json:"name,optional"`
	Symbol        string `json:"symbol,optional"`
	Uri           string `json:"uri,optional"`
	InitialSupply string `json:"initial_supply,optional"` // 十进制整数，decimals 为 0
}

// TokenResumeReq 补做失败发行中缺失的 T2/T3
type TokenResumeReq struct {
	MintAddress string `json:"mint_address"`
}

type TokenStatusReq struct {
	MintAddress string `form:"mint_address"`
}

type TokenListReq struct {
	OwnerAddress string `form:"owner_address"`
}

// TokenLaunchResp 发行或恢复的结果，失败时同样以 200 返回
type TokenLaunchResp struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	RequestId         string   `json:"request_id,omitempty"`
	MintAddress       string   `json:"mint_address,omitempty"`
	AssociatedAccount string   `json:"associated_account,omitempty"`
	Signatures        []string `json:"signatures"`
	TxExplorerUrls    []string `json:"tx_explorer_urls"`
	ExplorerUrl       string   `json:"explorer_url,omitempty"`
}

// LaunchStatusResp 发行恢复记录
type LaunchStatusResp struct {
	RequestId         string   `json:"request_id"`
	MintAddress       string   `json:"mint_address"`
	OwnerAddress      string   `json:"owner_address"`
	AssociatedAccount string   `json:"associated_account,omitempty"`
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"`
	Uri               string   `json:"uri"`
	InitialSupply     string   `json:"initial_supply"`
	Stage             string   `json:"stage"`
	Status            string   `json:"status"`
	Signatures        []string `json:"signatures"`
	TxExplorerUrls    []string `json:"tx_explorer_urls"`
	PendingSignature  string   `json:"pending_signature,omitempty"`
	PendingStatus     string   `json:"pending_status,omitempty"` // 未确认交易的链上状态
	LastError         string   `json:"last_error,omitempty"`
	Resumable         bool     `json:"resumable"`
	ExplorerUrl       string   `json:"explorer_url"`
	CreatedAt         int64    `json:"created_at"`
	UpdatedAt         int64    `json:"updated_at"`
}

// LaunchListResp 某个钱包的全部发行记录
type LaunchListResp struct {
	Launches []LaunchStatusResp `json:"launches"`
}
