package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userstock-go-server/api/controller"
	"userstock-go-server/api/middleware"
	"userstock-go-server/api/route"
	"userstock-go-server/bootstrap"
	"userstock-go-server/repository"
	"userstock-go-server/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("[Server] UserStock Go Server 启动中...")

	// 加载环境变量
	env := bootstrap.LoadEnv()

	// 连接数据库
	db := bootstrap.NewDatabase(env.DatabaseURL)

	// 依赖注入 - Repository 层
	userRepo := repository.NewUserRepository(db)

	// 依赖注入 - UseCase 层
	favoritesUseCase := usecase.NewFavoritesUseCase(userRepo)

	// 依赖注入 - Controller 层
	profileController := controller.NewProfileController(favoritesUseCase)
	webhookController := controller.NewWebhookController(favoritesUseCase, env.WebhookSecret)

	// 可选认证：配置了密钥才初始化 Clerk 并保护收藏变更路由
	var authMiddleware gin.HandlerFunc
	if env.ClerkSecretKey != "" {
		bootstrap.InitClerk(env.ClerkSecretKey)
		authMiddleware = middleware.ClerkAuth()
	} else {
		log.Println("[Server] ⚠️ 未配置 CLERK_SECRET_KEY，收藏变更路由不做 Token 校验")
	}

	// 配置 Gin 路由
	router := gin.Default()

	// CORS 配置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 设置路由
	route.Setup(router, &route.Dependencies{
		ProfileController: profileController,
		WebhookController: webhookController,
		AuthMiddleware:    authMiddleware,
	})

	// 启动 HTTP 服务
	srv := &http.Server{
		Addr:    ":" + env.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[Server] 服务已启动: http://localhost:%s", env.Port)
		log.Printf("[Server] API 端点:")
		log.Printf("   GET  /health                    - 健康检查")
		log.Printf("   GET  /getprofiledata/:auth0id   - 获取用户资料（含收藏）")
		log.Printf("   POST /addUser                   - 首次登录注册用户")
		log.Printf("   POST /addToFavorites            - 添加收藏")
		log.Printf("   POST /removeFromFavorites       - 移除收藏")
		log.Printf("   POST /webhook/clerk             - Clerk Webhook")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] 服务启动失败: %v", err)
		}
	}()

	// 优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] 收到停机信号，正在优雅关闭...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[Server] 服务强制关闭: %v", err)
	}

	log.Println("[Server] 服务已安全停止")
}
