package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"userstock-go-server/internal/dataview"
	"userstock-go-server/internal/stockapi"

	"github.com/joho/godotenv"
)

// 终端版数据页客户端：行情查询 + 收藏管理
// 和网页客户端走同一套服务端 API，主要用于本地联调

func main() {
	server := flag.String("server", "http://localhost:8102", "收藏服务地址")
	auth0ID := flag.String("user", "", "身份提供方 user_id；留空表示访客浏览")
	token := flag.String("token", "", "Bearer Token（服务端启用认证时必填）")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ 未找到 .env 文件，使用系统环境变量")
	}

	apiKey := os.Getenv("STOCK_API_KEY")
	if apiKey == "" {
		log.Fatal("❌ 缺少必需环境变量: STOCK_API_KEY")
	}

	favoritesClient := dataview.NewClient(*server, *token)
	quoteClient := stockapi.NewClient(apiKey)
	view := dataview.NewView(favoritesClient, quoteClient, *auth0ID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := view.LoadFavorites(ctx); err != nil {
		log.Printf("⚠️ %s", view.ErrorMessage())
	}
	cancel()

	if view.SignedIn() {
		fmt.Printf("已登录: %s\n", *auth0ID)
	} else {
		fmt.Println("访客模式：可以查询行情，无法管理收藏")
	}
	fmt.Println("输入股票代码查询行情；命令: ls 收藏列表 / fav 收藏开关 / rm <代码> 移除 / q 退出")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case line == "q":
			return
		case line == "ls":
			printFavorites(view)
		case line == "fav":
			runCommand(view, func(ctx context.Context) error {
				return view.ToggleFavorite(ctx)
			})
			printQuote(view)
		case strings.HasPrefix(line, "rm "):
			favoriteID := strings.TrimSpace(strings.TrimPrefix(line, "rm "))
			runCommand(view, func(ctx context.Context) error {
				return view.RemoveFavorite(ctx, favoriteID)
			})
			printFavorites(view)
		default:
			runCommand(view, func(ctx context.Context) error {
				return view.SubmitSymbol(ctx, line)
			})
			printQuote(view)
		}
	}
}

// runCommand 带超时执行一次视图操作并打印提示消息
// 原网页客户端没有超时保护，这里补上 Context 超时兜底
func runCommand(view *dataview.View, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = fn(ctx)

	if msg := view.StockErrorMessage(); msg != "" {
		fmt.Println(msg)
	}
	if msg := view.ErrorMessage(); msg != "" {
		fmt.Println(msg)
	}
}

func printQuote(view *dataview.View) {
	quote := view.Quote()
	if quote == nil {
		return
	}
	fmt.Printf("%s - %s\nPrice: $%.2f\n", quote.Symbol, quote.CompanyName, quote.CurrentPrice)
	if view.SignedIn() {
		if view.IsFavorite() {
			fmt.Println("[已收藏] fav 命令将移除收藏")
		} else {
			fmt.Println("[未收藏] fav 命令将加入收藏")
		}
	}
}

func printFavorites(view *dataview.View) {
	favorites := view.Favorites()
	if len(favorites) == 0 {
		fmt.Println("You have no favorites.")
		return
	}
	for _, f := range favorites {
		fmt.Printf("  %s - %s\n", f.ID, f.StockName)
	}
}
