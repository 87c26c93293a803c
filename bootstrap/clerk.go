package bootstrap

import (
	"log"

	"github.com/clerk/clerk-sdk-go/v2"
)

// InitClerk 初始化 Clerk SDK
// 本服务的查询路由是公开的，只有收藏变更路由在配置密钥后才要求 JWT，
// 所以密钥缺失不是致命错误，由调用方决定是否挂载认证中间件
func InitClerk(secretKey string) {
	clerk.SetKey(secretKey)
	log.Println("✅ Clerk 初始化成功")
}
