package route

import (
	"net/http"

	"userstock-go-server/api/controller"

	"github.com/gin-gonic/gin"
)

// Dependencies 路由依赖注入结构
type Dependencies struct {
	ProfileController *controller.ProfileController
	WebhookController *controller.WebhookController

	// AuthMiddleware 可选：配置了 CLERK_SECRET_KEY 时挂载到收藏变更路由
	AuthMiddleware gin.HandlerFunc
}

// Setup 配置所有路由
func Setup(router *gin.Engine, deps *Dependencies) {
	// --- 公开路由 ---

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "userstock-go-server",
		})
	})

	// 读取用户资料（收藏列表随 data 返回）
	router.GET("/getprofiledata/:auth0id", deps.ProfileController.GetProfileData)

	// Clerk Webhook（使用签名验证，不使用 JWT）
	if deps.WebhookController != nil {
		router.POST("/webhook/clerk", deps.WebhookController.HandleClerkWebhook)
	}

	// --- 变更路由（配置了 Clerk 时要求 JWT）---
	mutations := router.Group("/")
	if deps.AuthMiddleware != nil {
		mutations.Use(deps.AuthMiddleware)
	}
	{
		// 注册路由同时挂大小写两种拼写，兼容旧客户端
		mutations.POST("/addUser", deps.ProfileController.AddUser)
		mutations.POST("/adduser", deps.ProfileController.AddUser)

		mutations.POST("/addToFavorites", deps.ProfileController.AddToFavorites)
		mutations.POST("/removeFromFavorites", deps.ProfileController.RemoveFromFavorites)
	}

	// --- 兜底路由 ---
	// 固定包体，和历史行为保持一致
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  http.StatusNotFound,
			"message": "This isn't the endpoint you're looking for!",
		})
	})
}
