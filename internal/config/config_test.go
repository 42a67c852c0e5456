package config

import (
	"testing"
	"time"

	"launchpad/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestResolveRpcUrl(t *testing.T) {
	t.Setenv(RpcUrlEnv, "")
	assert.Equal(t, constant.DefaultRpcUrl, SolanaConf{}.ResolveRpcUrl())
	assert.Equal(t, "http://127.0.0.1:8899", SolanaConf{RpcUrl: "http://127.0.0.1:8899"}.ResolveRpcUrl())

	t.Setenv(RpcUrlEnv, "https://rpc.example.com")
	assert.Equal(t, "https://rpc.example.com", SolanaConf{RpcUrl: "http://127.0.0.1:8899"}.ResolveRpcUrl())
}

func TestSolanaDurations(t *testing.T) {
	c := SolanaConf{ConfirmTimeoutSec: 60, ConfirmPollMs: 500}
	assert.Equal(t, time.Minute, c.ConfirmTimeout())
	assert.Equal(t, 500*time.Millisecond, c.ConfirmPollInterval())
}
