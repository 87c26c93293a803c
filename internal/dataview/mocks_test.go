package dataview

import (
	"context"

	"github.com/stretchr/testify/mock"

	"userstock-go-server/domain/entity"
	"userstock-go-server/internal/stockapi"
)

// ========== MockFavoritesService ==========
// 实现 FavoritesService 接口，用于视图状态机单元测试

type MockFavoritesService struct {
	mock.Mock
}

func (m *MockFavoritesService) FetchFavorites(ctx context.Context, auth0ID string) ([]entity.Favorite, error) {
	args := m.Called(ctx, auth0ID)
	// 处理 nil 情况
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Favorite), args.Error(1)
}

func (m *MockFavoritesService) AddToFavorites(ctx context.Context, auth0ID, favoriteID, favoriteName string) error {
	args := m.Called(ctx, auth0ID, favoriteID, favoriteName)
	return args.Error(0)
}

func (m *MockFavoritesService) RemoveFromFavorites(ctx context.Context, auth0ID, favoriteID string) error {
	args := m.Called(ctx, auth0ID, favoriteID)
	return args.Error(0)
}

// ========== MockQuoteService ==========

type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) GetQuote(ctx context.Context, symbol string) (*stockapi.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stockapi.Quote), args.Error(1)
}
