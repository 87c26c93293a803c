package usecase

import (
	"errors"

	"userstock-go-server/domain/entity"
	domainErrors "userstock-go-server/domain/errors"
	"userstock-go-server/domain/repository"
)

// maxUpdateRetries 乐观锁冲突时的最大重试次数
// 重试的是"重读-检查-条件写入"整个循环，不是失败的网络调用
const maxUpdateRetries = 3

// FavoritesUseCase 收藏业务逻辑层
// 不变量都在这里收口：
// - 代码规范化（大写）在每次写入和成员判断前统一执行
// - 同一用户的收藏列表中每个规范化代码最多出现一条
// - 同一用户的并发变更通过 repository 的条件更新串行化
type FavoritesUseCase struct {
	repo repository.UserRepository
}

// NewFavoritesUseCase 构造函数，依赖注入
func NewFavoritesUseCase(repo repository.UserRepository) *FavoritesUseCase {
	return &FavoritesUseCase{repo: repo}
}

// GetProfile 获取用户记录（含收藏列表）
func (uc *FavoritesUseCase) GetProfile(auth0ID string) (*entity.User, error) {
	user, err := uc.repo.GetByAuth0ID(auth0ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainErrors.ErrUserNotFound
	}
	return user, nil
}

// RegisterUser 首次登录时注册用户记录（幂等）
// 记录已存在时返回 created=false 且不报错，也不刷新 name/email
// （重复登录不更新资料是当前的产品行为）
func (uc *FavoritesUseCase) RegisterUser(auth0ID, name, email string) (created bool, err error) {
	existing, err := uc.repo.GetByAuth0ID(auth0ID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	err = uc.repo.Create(&entity.User{
		ID:    auth0ID,
		Name:  name,
		Email: email,
	})
	if errors.Is(err, domainErrors.ErrUserExists) {
		// 并发注册被对方抢先，同样视为幂等成功
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddFavorite 添加收藏
// 返回 ErrUserNotFound / ErrFavoriteExists，或重试耗尽后的 ErrOptimisticLock
func (uc *FavoritesUseCase) AddFavorite(auth0ID, symbol, stockName string) error {
	id := entity.NormalizeSymbol(symbol)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		user, err := uc.repo.GetByAuth0ID(auth0ID)
		if err != nil {
			return err
		}
		if user == nil {
			return domainErrors.ErrUserNotFound
		}

		favorites, err := user.FavoriteList()
		if err != nil {
			return err
		}

		// ⚠️ 重复检查必须在条件写入的同一轮循环内：
		// 两个并发的相同添加中，后写的一方会版本冲突、重读后在这里看到重复
		if entity.ContainsFavorite(favorites, id) {
			return domainErrors.ErrFavoriteExists
		}

		favorites = append(favorites, entity.Favorite{ID: id, StockName: stockName})

		err = uc.repo.UpdateFavorites(auth0ID, favorites, user.Version)
		if errors.Is(err, domainErrors.ErrOptimisticLock) {
			continue // 版本被并发写入推进，重读再试
		}
		return err
	}

	return domainErrors.ErrOptimisticLock
}

// RemoveFavorite 移除收藏
// 返回 ErrUserNotFound / ErrFavoriteNotFound，或重试耗尽后的 ErrOptimisticLock
func (uc *FavoritesUseCase) RemoveFavorite(auth0ID, symbol string) error {
	id := entity.NormalizeSymbol(symbol)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		user, err := uc.repo.GetByAuth0ID(auth0ID)
		if err != nil {
			return err
		}
		if user == nil {
			return domainErrors.ErrUserNotFound
		}

		favorites, err := user.FavoriteList()
		if err != nil {
			return err
		}

		updated, removed := entity.RemoveFavorite(favorites, id)
		if !removed {
			return domainErrors.ErrFavoriteNotFound
		}

		err = uc.repo.UpdateFavorites(auth0ID, updated, user.Version)
		if errors.Is(err, domainErrors.ErrOptimisticLock) {
			continue
		}
		return err
	}

	return domainErrors.ErrOptimisticLock
}
