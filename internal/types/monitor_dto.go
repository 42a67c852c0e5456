package types

// TokenEvent 代币发行事件，发送到 Kafka 的消息体
type TokenEvent struct {
	RequestId string `json:"requestId"`
	TxHash    string `json:"txHash"`
	Timestamp int64  `json:"timestamp"`
	EventType string `json:"eventType"` // mint_created/account_created/supply_minted/launch_failed
	OwnerAddr string `json:"ownerAddr"`
	TokenAddr string `json:"tokenAddr"` // mint 地址
	Amount    string `json:"amount"`    // 使用string存储以避免精度问题
	Stage     string `json:"stage"`
	Error     string `json:"error,omitempty"`
	Cluster   string `json:"cluster"`
}
