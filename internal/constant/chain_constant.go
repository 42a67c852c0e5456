package constant

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/rpc"
)

type Chain string

const (
	ChainSOLANA Chain = "SOLANA"
)

// SupportedChains 托管钱包支持的链
var SupportedChains = []Chain{
	ChainSOLANA,
}

// IsChainSupported checks if a given chain is in the list of supported chains.
func IsChainSupported(chain string) bool {
	for _, supportedChain := range SupportedChains {
		if string(supportedChain) == chain {
			return true
		}
	}
	return false
}

type Cluster string

const (
	ClusterDevnet  Cluster = "devnet"
	ClusterTestnet Cluster = "testnet"
	ClusterMainnet Cluster = "mainnet-beta"
	ClusterLocal   Cluster = "localnet"
)

const DefaultRpcUrl = rpc.DevnetRPCEndpoint

const explorerBase = "https://explorer.solana.com"

// ExplorerAddressURL 返回地址在浏览器中的链接
func ExplorerAddressURL(cluster, address string) string {
	return explorerBase + "/address/" + address + clusterQuery(cluster)
}

// ExplorerTxURL 返回交易在浏览器中的链接
func ExplorerTxURL(cluster, signature string) string {
	return explorerBase + "/tx/" + signature + clusterQuery(cluster)
}

func clusterQuery(cluster string) string {
	switch Cluster(cluster) {
	case ClusterMainnet:
		return ""
	case ClusterLocal:
		return "?cluster=custom&customUrl=http%3A%2F%2Flocalhost%3A8899"
	case "":
		return fmt.Sprintf("?cluster=%s", ClusterDevnet)
	default:
		return fmt.Sprintf("?cluster=%s", cluster)
	}
}
