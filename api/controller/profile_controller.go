package controller

import (
	"errors"
	"log"
	"net/http"

	"userstock-go-server/api/middleware"
	domainErrors "userstock-go-server/domain/errors"
	"userstock-go-server/usecase"

	"github.com/gin-gonic/gin"
)

// --- 响应结构定义 ---
// 与原有客户端约定的 {status, message, data} 包体保持一致

// StatusResponse 通用响应结构
type StatusResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// --- 控制器定义 ---

// ProfileController 用户资料与收藏 HTTP 控制器
type ProfileController struct {
	favoritesUseCase *usecase.FavoritesUseCase
}

// NewProfileController 创建 ProfileController 实例
func NewProfileController(favoritesUseCase *usecase.FavoritesUseCase) *ProfileController {
	return &ProfileController{favoritesUseCase: favoritesUseCase}
}

// checkAuthSubject 校验请求体里的 auth0Id 与已验证的 Token subject 一致
// 未启用认证时（Context 中没有 userID）直接放行
func checkAuthSubject(c *gin.Context, auth0ID string) bool {
	subject, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		return true
	}
	if subject.(string) != auth0ID {
		c.JSON(http.StatusForbidden, StatusResponse{
			Status:  http.StatusForbidden,
			Message: "Token subject does not match auth0Id",
		})
		return false
	}
	return true
}

// GetProfileData 获取用户资料（含收藏列表）
// GET /getprofiledata/:auth0id
func (pc *ProfileController) GetProfileData(c *gin.Context) {
	auth0ID := c.Param("auth0id")

	user, err := pc.favoritesUseCase.GetProfile(auth0ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, StatusResponse{
				Status:  http.StatusNotFound,
				Message: "User was not found.",
			})
			return
		}
		log.Printf("[Profile] ❌ 查询用户资料失败: %v", err)
		c.JSON(http.StatusInternalServerError, StatusResponse{
			Status:  http.StatusInternalServerError,
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status: http.StatusOK,
		Data:   user,
	})
}

// AddUserRequest 注册用户请求结构
// binding:"required" 同时拒绝缺失和空字符串字段
type AddUserRequest struct {
	Auth0ID string `json:"auth0Id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
}

// AddUser 首次登录注册用户（幂等）
// POST /addUser
// 已存在永远不是错误：返回 200，新建返回 201
func (pc *ProfileController) AddUser(c *gin.Context) {
	var req AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StatusResponse{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
		return
	}

	if !checkAuthSubject(c, req.Auth0ID) {
		return
	}

	created, err := pc.favoritesUseCase.RegisterUser(req.Auth0ID, req.Name, req.Email)
	if err != nil {
		log.Printf("[Profile] ❌ 注册用户失败: %v", err)
		c.JSON(http.StatusInternalServerError, StatusResponse{
			Status:  http.StatusInternalServerError,
			Message: "Internal server error",
		})
		return
	}

	if !created {
		c.JSON(http.StatusOK, StatusResponse{
			Status:  http.StatusOK,
			Message: "User with this Auth0 ID already exists",
		})
		return
	}

	c.JSON(http.StatusCreated, StatusResponse{
		Status:  http.StatusCreated,
		Message: "User created",
	})
}

// AddToFavoritesRequest 添加收藏请求结构
type AddToFavoritesRequest struct {
	Auth0ID      string `json:"auth0Id" binding:"required"`
	FavoriteID   string `json:"favoriteId" binding:"required"`
	FavoriteName string `json:"favoriteName" binding:"required"`
}

// AddToFavorites 添加收藏
// POST /addToFavorites
// favoriteId 入库前由服务端统一大写，客户端不得假设其他位置大小写不敏感
func (pc *ProfileController) AddToFavorites(c *gin.Context) {
	var req AddToFavoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StatusResponse{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
		return
	}

	if !checkAuthSubject(c, req.Auth0ID) {
		return
	}

	if err := pc.favoritesUseCase.AddFavorite(req.Auth0ID, req.FavoriteID, req.FavoriteName); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, StatusResponse{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		case errors.Is(err, domainErrors.ErrFavoriteExists):
			c.JSON(http.StatusConflict, StatusResponse{
				Status:  http.StatusConflict,
				Message: "Item is already in favorites",
			})
		default:
			log.Printf("[Profile] ❌ 添加收藏失败: %v", err)
			c.JSON(http.StatusInternalServerError, StatusResponse{
				Status:  http.StatusInternalServerError,
				Message: "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status:  http.StatusOK,
		Message: "Item added to favorites",
	})
}

// RemoveFromFavoritesRequest 移除收藏请求结构
type RemoveFromFavoritesRequest struct {
	Auth0ID    string `json:"auth0Id" binding:"required"`
	FavoriteID string `json:"favoriteId" binding:"required"`
}

// RemoveFromFavorites 移除收藏
// POST /removeFromFavorites
// 用户不存在和收藏不存在统一映射为 404（沿用既有语义），message 有区分
func (pc *ProfileController) RemoveFromFavorites(c *gin.Context) {
	var req RemoveFromFavoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StatusResponse{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
		return
	}

	if !checkAuthSubject(c, req.Auth0ID) {
		return
	}

	if err := pc.favoritesUseCase.RemoveFavorite(req.Auth0ID, req.FavoriteID); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, StatusResponse{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		case errors.Is(err, domainErrors.ErrFavoriteNotFound):
			c.JSON(http.StatusNotFound, StatusResponse{
				Status:  http.StatusNotFound,
				Message: "Favorite item not found",
			})
		default:
			log.Printf("[Profile] ❌ 移除收藏失败: %v", err)
			c.JSON(http.StatusInternalServerError, StatusResponse{
				Status:  http.StatusInternalServerError,
				Message: "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status:  http.StatusOK,
		Message: "Item removed from favorites",
	})
}
