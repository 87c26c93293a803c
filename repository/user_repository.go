package repository

import (
	"encoding/json"
	"errors"

	"userstock-go-server/domain/entity"
	domainErrors "userstock-go-server/domain/errors"
	domainRepo "userstock-go-server/domain/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository GORM 实现 UserRepository 接口
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 构造函数
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

// GetByAuth0ID 根据身份提供方 user_id 查询用户
func (r *userRepository) GetByAuth0ID(auth0ID string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("id = ?", auth0ID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // 返回 nil 表示不存在，调用方需处理
	}
	return &user, err
}

// Create 创建新用户（仅用于首次注册）
// 使用 PostgreSQL ON CONFLICT DO NOTHING：
// 两个并发注册请求只有一个真正插入，另一个通过 RowsAffected 感知到已存在
func (r *userRepository) Create(user *entity.User) error {
	if len(user.Favorites) == 0 {
		user.Favorites = datatypes.JSON("[]")
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}}, // 冲突字段
		DoNothing: true,
	}).Create(user)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrUserExists
	}
	return nil
}

// UpdateFavorites 只更新收藏列表字段（收藏变更热路径）
// oldVersion: 读取用户时的版本号（用于 WHERE 条件）
func (r *userRepository) UpdateFavorites(auth0ID string, favorites []entity.Favorite, oldVersion int64) error {
	if favorites == nil {
		favorites = []entity.Favorite{} // 序列化为 []，不要 null
	}
	payload, err := json.Marshal(favorites)
	if err != nil {
		return err
	}

	result := r.db.Model(&entity.User{}).
		// ⚠️ 关键：WHERE 带上读取时的版本号，单条 UPDATE 即可保证同一用户的写入串行化
		Where("id = ? AND version = ?", auth0ID, oldVersion).
		Updates(map[string]interface{}{
			"favorites": datatypes.JSON(payload),
			"version":   oldVersion + 1,
		})

	if result.Error != nil {
		return result.Error
	}

	// ⚠️ 关键：检查是否真的更新了记录
	// 如果 RowsAffected == 0，说明版本冲突或用户不存在，由调用方重读后区分
	if result.RowsAffected == 0 {
		return domainErrors.ErrOptimisticLock
	}

	return nil
}
