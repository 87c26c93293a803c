package entity

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Favorite 收藏条目（存储在 users.favorites JSONB 数组中）
// ID 是规范化（大写）后的股票代码，也是唯一性判断的 key
type Favorite struct {
	ID        string `json:"id"`        // 股票代码，如 "AAPL"
	StockName string `json:"stockName"` // 收藏时的公司名称，之后不再与行情数据同步
}

// User 用户记录（身份提供方同步表 + 收藏列表）
type User struct {
	ID        string         `gorm:"primaryKey;size:64" json:"auth0Id"` // 身份提供方 user_id (sub)
	Name      string         `gorm:"size:100" json:"name"`
	Email     string         `gorm:"size:255" json:"email"`
	Favorites datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"favorites"`
	Version   int64          `gorm:"default:0" json:"-"` // 乐观锁版本号，每次收藏变更 +1
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}

// NormalizeSymbol 规范化股票代码：去空白 + 大写
// ⚠️ 所有写入和成员判断必须统一走这里，禁止混用原始形式
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// FavoriteList 解析 JSONB 收藏列表
// 空字段视为空列表（新用户 favorites 默认 '[]'）
func (u *User) FavoriteList() ([]Favorite, error) {
	if len(u.Favorites) == 0 {
		return nil, nil
	}
	var favorites []Favorite
	if err := json.Unmarshal(u.Favorites, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// ContainsFavorite 判断列表中是否已存在指定代码（调用方需传入规范化后的 id）
func ContainsFavorite(favorites []Favorite, id string) bool {
	for _, f := range favorites {
		if f.ID == id {
			return true
		}
	}
	return false
}

// RemoveFavorite 从列表中移除指定代码，返回新列表和是否移除了条目
// 保持剩余条目的插入顺序不变
func RemoveFavorite(favorites []Favorite, id string) ([]Favorite, bool) {
	removed := false
	result := make([]Favorite, 0, len(favorites))
	for _, f := range favorites {
		if f.ID == id {
			removed = true
			continue
		}
		result = append(result, f)
	}
	return result, removed
}
