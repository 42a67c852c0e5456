package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"launchpad/internal/config"
	"launchpad/internal/handler"
	"launchpad/internal/svc"

	"github.com/joho/godotenv"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/launchpad.yaml", "the config file")

func init() {
	// .env 不存在时忽略
	//nolint:errcheck
	godotenv.Load()
}

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)

	server := rest.MustNewServer(c.RestConf)

	ctx := svc.NewServiceContext(c)
	handler.RegisterHandlers(server, ctx)

	// 设置优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
	fmt.Printf("🔗 Solana RPC: %s (%s)\n", c.Solana.ResolveRpcUrl(), c.Solana.Cluster)
	if c.Kafka.Brokers != "" {
		fmt.Printf("📤 发行事件将发送到 Kafka topic: %s\n", c.Kafka.Topic)
	}

	// 在独立的goroutine中启动服务器
	go func() {
		server.Start()
	}()

	// 等待退出信号
	<-quit
	fmt.Println("\n🛑 收到退出信号，正在优雅关闭服务...")

	server.Stop()
	ctx.Close()

	fmt.Println("✅ 服务已安全退出")
}
