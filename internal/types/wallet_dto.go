package types

// WalletInitReq defines the request body for initializing a new custodial wallet.
type WalletInitReq struct {
	// A user-defined name for the wallet.
	Name string `json:"name"`
	// The user's phone number (optional).
	PhoneNumber string `json:"phone_number,optional"`
	// The user's email address (optional).
	Email string `json:"email,optional"`
	// 为空时默认 SOLANA
	Chain string `json:"chain,optional"`
}

// WalletAddress 单个链的钱包地址信息
type WalletAddress struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
	// 浏览器链接
	ExplorerUrl string `json:"explorer_url"`
}

// WalletInitResp defines the response body for a successful wallet initialization.
type WalletInitResp struct {
	Wallets []WalletAddress `json:"wallets"`
}
