package controller

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"userstock-go-server/usecase"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
)

// WebhookController 处理身份提供方 (Clerk) Webhook 回调
// 用户记录的首次登录预置走这里：user.created → RegisterUser
type WebhookController struct {
	favoritesUseCase *usecase.FavoritesUseCase
	webhookSecret    string
}

// NewWebhookController 构造函数
func NewWebhookController(favoritesUseCase *usecase.FavoritesUseCase, webhookSecret string) *WebhookController {
	return &WebhookController{
		favoritesUseCase: favoritesUseCase,
		webhookSecret:    webhookSecret,
	}
}

// ClerkWebhookPayload Clerk Webhook 事件结构
type ClerkWebhookPayload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ClerkUserData Clerk 用户数据结构
type ClerkUserData struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// HandleClerkWebhook 处理 Clerk Webhook 回调
// POST /webhook/clerk
func (wc *WebhookController) HandleClerkWebhook(c *gin.Context) {
	// 1. 读取请求体
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("[Webhook] ❌ 读取请求体失败: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取请求体"})
		return
	}

	// 2. 验证 Webhook 签名（使用 Svix SDK）
	if wc.webhookSecret != "" {
		wh, err := svix.NewWebhook(wc.webhookSecret)
		if err != nil {
			log.Printf("[Webhook] ❌ 初始化 Webhook 验证器失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook 配置错误"})
			return
		}

		headers := http.Header{}
		headers.Set("svix-id", c.GetHeader("svix-id"))
		headers.Set("svix-timestamp", c.GetHeader("svix-timestamp"))
		headers.Set("svix-signature", c.GetHeader("svix-signature"))

		if err := wh.Verify(body, headers); err != nil {
			log.Printf("[Webhook] ❌ 签名验证失败: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "签名验证失败"})
			return
		}
	} else {
		log.Println("[Webhook] ⚠️ 未配置 CLERK_WEBHOOK_SECRET，跳过签名验证（仅限开发环境）")
	}

	// 3. 解析事件
	var payload ClerkWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[Webhook] ❌ 解析 Webhook 失败: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 JSON 格式"})
		return
	}

	log.Printf("[Webhook] 📥 收到事件: %s", payload.Type)

	// 4. 根据事件类型处理
	switch payload.Type {
	case "user.created":
		wc.handleUserCreated(payload.Data)
	case "user.updated":
		// 重复登录不刷新 name/email 是当前的产品行为，这里只记录不处理
		log.Printf("[Webhook] ℹ️ 忽略 user.updated（注册后不刷新用户资料）")
	case "user.deleted":
		// 本子系统从不删除用户记录
		log.Printf("[Webhook] ℹ️ 忽略 user.deleted（收藏子系统不删除用户记录）")
	default:
		log.Printf("[Webhook] ℹ️ 忽略事件: %s", payload.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// handleUserCreated 处理用户创建事件（首次登录预置用户记录）
func (wc *WebhookController) handleUserCreated(data json.RawMessage) {
	var userData ClerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		log.Printf("[Webhook] ❌ 解析用户数据失败: %v", err)
		return
	}

	// 提取邮箱（取第一个）
	email := ""
	if len(userData.EmailAddresses) > 0 {
		email = userData.EmailAddresses[0].EmailAddress
	}

	// 组合姓名
	name := userData.FirstName
	if userData.LastName != "" {
		if name != "" {
			name += " "
		}
		name += userData.LastName
	}

	created, err := wc.favoritesUseCase.RegisterUser(userData.ID, name, email)
	if err != nil {
		log.Printf("[Webhook] ❌ 预置用户记录失败: %v", err)
		return
	}

	if created {
		log.Printf("[Webhook] ✅ 用户记录已创建: %s (%s)", userData.ID, email)
	} else {
		log.Printf("[Webhook] ℹ️ 用户记录已存在，跳过: %s", userData.ID)
	}
}
