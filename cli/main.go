package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load()
}

const defaultApi = "http://localhost:8888"

func main() {
	app := &cli.App{
		Name:  "launchpad-cli",
		Usage: "Token-2022 发行服务的命令行客户端",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   defaultApi,
				Usage:   "服务地址",
				EnvVars: []string{"LAUNCHPAD_API"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "wallet-init",
				Usage: "创建托管的 Solana 钱包",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Value: "My-CLI-Wallet", Usage: "为钱包自定义的名称"},
					&cli.StringFlag{Name: "phone", Usage: "用户的手机号 (可选)"},
					&cli.StringFlag{Name: "email", Usage: "用户的邮箱地址 (可选)"},
					&cli.StringFlag{Name: "chain", Value: "SOLANA", Usage: "钱包所属的链"},
				},
				Action: func(c *cli.Context) error {
					return post(c, "/api/wallet_init", map[string]any{
						"name":         c.String("name"),
						"phone_number": c.String("phone"),
						"email":        c.String("email"),
						"chain":        c.String("chain"),
					})
				},
			},
			{
				Name:  "create-token",
				Usage: "发行 Token-2022 代币并铸造初始供应量",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true, Usage: "钱包地址"},
					&cli.StringFlag{Name: "name", Required: true, Usage: "代币名称"},
					&cli.StringFlag{Name: "symbol", Required: true, Usage: "代币符号"},
					&cli.StringFlag{Name: "uri", Required: true, Usage: "元数据 JSON 地址"},
					&cli.StringFlag{Name: "supply", Required: true, Usage: "初始供应量 (整数)"},
				},
				Action: func(c *cli.Context) error {
					return post(c, "/api/token/create", map[string]any{
						"owner_address":  c.String("owner"),
						"name":           c.String("name"),
						"symbol":         c.String("symbol"),
						"uri":            c.String("uri"),
						"initial_supply": c.String("supply"),
					})
				},
			},
			{
				Name:  "resume",
				Usage: "补做失败发行中缺失的关联账户和铸造交易",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mint", Required: true, Usage: "mint 地址"},
				},
				Action: func(c *cli.Context) error {
					return post(c, "/api/token/resume", map[string]any{
						"mint_address": c.String("mint"),
					})
				},
			},
			{
				Name:  "launch-status",
				Usage: "查询发行记录",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mint", Required: true, Usage: "mint 地址"},
				},
				Action: func(c *cli.Context) error {
					return get(c, "/api/token/status?mint_address="+url.QueryEscape(c.String("mint")))
				},
			},
			{
				Name:  "list-launches",
				Usage: "列出某个钱包的全部发行记录",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true, Usage: "钱包地址"},
				},
				Action: func(c *cli.Context) error {
					return get(c, "/api/token/list?owner_address="+url.QueryEscape(c.String("owner")))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// 发行需要等待三次确认
var httpClient = &http.Client{Timeout: 200 * time.Second}

func post(c *cli.Context, path string, body map[string]any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("无法打包 JSON 数据: %w", err)
	}

	target := c.String("api") + path
	fmt.Printf("正向 %s 发送请求...\n", target)
	fmt.Printf("请求体: %s\n", string(jsonData))

	resp, err := httpClient.Post(target, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	return printResponse(resp)
}

func get(c *cli.Context, path string) error {
	target := c.String("api") + path
	fmt.Printf("正向 %s 发送请求...\n", target)
	resp, err := httpClient.Get(target)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应体失败: %w", err)
	}

	fmt.Println("\n--- 响应结果 ---")
	fmt.Printf("HTTP 状态码: %d\n", resp.StatusCode)

	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		fmt.Printf("响应体:\n%s\n", pretty.String())
	} else {
		fmt.Printf("响应体: %s\n", string(body))
	}
	return nil
}
