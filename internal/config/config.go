package config

import (
	"os"
	"time"

	"launchpad/internal/constant"

	"github.com/zeromicro/go-zero/rest"
)

// RpcUrlEnv 覆盖配置文件中的 Solana.RpcUrl
const RpcUrlEnv = "SOLANA_RPC_URL"

type SolanaConf struct {
	RpcUrl            string `json:",optional"`
	Cluster           string `json:",default=devnet"`
	Commitment        string `json:",default=confirmed"`
	ConfirmTimeoutSec int    `json:",default=60"`
	ConfirmPollMs     int    `json:",default=1000"`
}

// ResolveRpcUrl 环境变量优先，其次配置文件，最后回退到 devnet
func (c SolanaConf) ResolveRpcUrl() string {
	if v := os.Getenv(RpcUrlEnv); v != "" {
		return v
	}
	if c.RpcUrl != "" {
		return c.RpcUrl
	}
	return constant.DefaultRpcUrl
}

func (c SolanaConf) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutSec) * time.Second
}

func (c SolanaConf) ConfirmPollInterval() time.Duration {
	return time.Duration(c.ConfirmPollMs) * time.Millisecond
}

type RedisConf struct {
	// 为空时只使用进程内的发行锁
	Addr     string `json:",optional"`
	Password string `json:",optional"`
	DB       int    `json:",optional"`
	LockTTL  int    `json:",default=300"` // 秒，需覆盖三次确认的最长耗时
}

type KafkaConf struct {
	// Brokers 多个用英文逗号分隔，为空时不发送发行事件
	Brokers   string `json:",optional"`
	Topic     string `json:",default=token-launch-events"`
	LingerMs  int    `json:",default=5"`
	TimeoutMs int    `json:",default=5000"`
}

type Config struct {
	rest.RestConf
	Postgres struct {
		DSN string
	}
	Solana SolanaConf
	Redis  RedisConf  `json:",optional"`
	Kafka  KafkaConf  `json:",optional"`
}
