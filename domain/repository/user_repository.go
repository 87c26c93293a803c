package repository

import "userstock-go-server/domain/entity"

// UserRepository 用户数据仓库接口
type UserRepository interface {
	// GetByAuth0ID 根据身份提供方 user_id 获取用户
	// 用户不存在时返回 (nil, nil)，调用方需处理
	GetByAuth0ID(auth0ID string) (*entity.User, error)

	// Create 创建新用户（仅用于首次注册）
	// 记录已存在时返回 ErrUserExists，不修改已有数据
	Create(user *entity.User) error

	// UpdateFavorites 原子替换收藏列表（收藏变更的热路径）
	// oldVersion: 读取时的版本号，用于乐观锁检查
	// 版本不匹配（并发写入抢先）时返回 ErrOptimisticLock
	UpdateFavorites(auth0ID string, favorites []entity.Favorite, oldVersion int64) error
}
