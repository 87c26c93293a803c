package dataview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"userstock-go-server/domain/entity"
)

// Client 收藏服务的 HTTP 实现，按服务端的 {status, message, data} 包体约定通信
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string // 可选 Bearer Token；服务端启用认证时必填
}

// 编译期检查：Client 实现 FavoritesService
var _ FavoritesService = (*Client)(nil)

// NewClient 构造函数；token 传空表示服务端未启用认证
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		token:      token,
	}
}

// profileResponse GET /getprofiledata 的响应包体
type profileResponse struct {
	Status int `json:"status"`
	Data   struct {
		Favorites []entity.Favorite `json:"favorites"`
	} `json:"data"`
}

// FetchFavorites 拉取完整收藏列表
func (c *Client) FetchFavorites(ctx context.Context, auth0ID string) ([]entity.Favorite, error) {
	endpoint := c.baseURL + "/getprofiledata/" + url.PathEscape(auth0ID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch favorites: unexpected status %d", resp.StatusCode)
	}

	var payload profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Data.Favorites, nil
}

// AddToFavorites 添加收藏
func (c *Client) AddToFavorites(ctx context.Context, auth0ID, favoriteID, favoriteName string) error {
	return c.postMutation(ctx, "/addToFavorites", map[string]string{
		"auth0Id":      auth0ID,
		"favoriteId":   favoriteID,
		"favoriteName": favoriteName,
	})
}

// RemoveFromFavorites 移除收藏
func (c *Client) RemoveFromFavorites(ctx context.Context, auth0ID, favoriteID string) error {
	return c.postMutation(ctx, "/removeFromFavorites", map[string]string{
		"auth0Id":    auth0ID,
		"favoriteId": favoriteID,
	})
}

// RegisterUser 首次登录后注册用户记录（幂等，200/201 都算成功）
func (c *Client) RegisterUser(ctx context.Context, auth0ID, name, email string) error {
	return c.postMutation(ctx, "/addUser", map[string]string{
		"auth0Id": auth0ID,
		"name":    name,
		"email":   email,
	})
}

// postMutation 发送变更请求；2xx 之外一律视为失败
func (c *Client) postMutation(ctx context.Context, path string, body map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
