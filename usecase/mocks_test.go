package usecase

import (
	"github.com/stretchr/testify/mock"

	"userstock-go-server/domain/entity"
)

// ========== MockUserRepository ==========
// 实现 domain/repository.UserRepository 接口，用于业务逻辑单元测试

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*entity.User, error) {
	args := m.Called(auth0ID)
	// 处理 nil 情况
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFavorites(auth0ID string, favorites []entity.Favorite, oldVersion int64) error {
	args := m.Called(auth0ID, favorites, oldVersion)
	return args.Error(0)
}
