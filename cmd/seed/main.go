package main

import (
	"errors"
	"log"
	"os"

	"userstock-go-server/bootstrap"
	"userstock-go-server/domain/entity"
	domainErrors "userstock-go-server/domain/errors"
	"userstock-go-server/repository"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

// 开发用种子数据：预置一个带收藏的测试用户，方便本地联调
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ 未找到 .env 文件，使用系统环境变量")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("❌ DATABASE_URL 环境变量未设置")
	}

	db := bootstrap.NewDatabase(dsn)
	userRepo := repository.NewUserRepository(db)

	defaultUser := &entity.User{
		ID:    "auth0|test-user",
		Name:  "Testy",
		Email: "testy@tester.com",
		Favorites: datatypes.JSON(`[
			{"id":"AAPL","stockName":"Apple Inc."},
			{"id":"TSLA","stockName":"Tesla, Inc."},
			{"id":"TD.TO","stockName":"Toronto-Dominion Bank"}
		]`),
	}

	err := userRepo.Create(defaultUser)
	if errors.Is(err, domainErrors.ErrUserExists) {
		log.Printf("ℹ️ 测试用户已存在，跳过: %s", defaultUser.ID)
		return
	}
	if err != nil {
		log.Fatalf("❌ 写入测试用户失败: %v", err)
	}

	log.Printf("✅ 测试用户已创建: %s", defaultUser.ID)
}
