package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"userstock-go-server/api/controller"
	"userstock-go-server/api/middleware"
	"userstock-go-server/api/route"
	"userstock-go-server/domain/entity"
	domainErrors "userstock-go-server/domain/errors"
	"userstock-go-server/usecase"
)

// ========== HTTP 层集成测试 ==========
// 用内存版仓库跑完整的 controller → usecase 链路，
// 验证状态码映射、包体约定和兜底 404

// fakeUserRepo 内存实现 UserRepository，带版本号模拟条件更新语义
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) GetByAuth0ID(auth0ID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[auth0ID]
	if !ok {
		return nil, nil
	}
	snapshot := *user // 返回快照，和真实数据库的读取语义一致
	return &snapshot, nil
}

func (r *fakeUserRepo) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return domainErrors.ErrUserExists
	}
	if len(user.Favorites) == 0 {
		user.Favorites = datatypes.JSON("[]")
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) UpdateFavorites(auth0ID string, favorites []entity.Favorite, oldVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[auth0ID]
	if !ok || user.Version != oldVersion {
		return domainErrors.ErrOptimisticLock
	}
	payload, err := json.Marshal(favorites)
	if err != nil {
		return err
	}
	user.Favorites = datatypes.JSON(payload)
	user.Version++
	return nil
}

// newTestRouter 组装被测路由；authMiddleware 可为 nil
func newTestRouter(repo *fakeUserRepo, authMiddleware gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	route.Setup(router, &route.Dependencies{
		ProfileController: controller.NewProfileController(usecase.NewFavoritesUseCase(repo)),
		AuthMiddleware:    authMiddleware,
	})
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestGetProfileData_UserNotFound 未知用户 → 404 + 固定文案
func TestGetProfileData_UserNotFound(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), nil)

	w := doJSON(router, http.MethodGet, "/getprofiledata/auth0%7Cnobody", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User was not found.")
}

// TestAddUser_CreateThenIdempotent 首次 201，重复 200，永远不报错
func TestAddUser_CreateThenIdempotent(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), nil)
	body := `{"auth0Id":"auth0|abc","name":"Testy","email":"testy@tester.com"}`

	w := doJSON(router, http.MethodPost, "/addUser", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User created")

	w = doJSON(router, http.MethodPost, "/addUser", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	// 旧客户端用的小写路由同样可用
	w = doJSON(router, http.MethodPost, "/adduser", body)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestAddUser_Validation 缺失或空字段 → 400
func TestAddUser_Validation(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), nil)

	testCases := []struct {
		name string
		body string
	}{
		{name: "Missing email", body: `{"auth0Id":"auth0|abc","name":"Testy"}`},
		{name: "Empty name", body: `{"auth0Id":"auth0|abc","name":"","email":"t@t.com"}`},
		{name: "Not JSON", body: `not json`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/addUser", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Missing required fields")
		})
	}
}

// TestFavorites_RoundTrip 添加 "aapl" 后读取到的是规范化的 AAPL 单条记录
func TestFavorites_RoundTrip(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), nil)
	doJSON(router, http.MethodPost, "/addUser", `{"auth0Id":"auth0|abc","name":"Testy","email":"t@t.com"}`)

	w := doJSON(router, http.MethodPost, "/addToFavorites",
		`{"auth0Id":"auth0|abc","favoriteId":"aapl","favoriteName":"Apple Inc."}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Item added to favorites")

	w = doJSON(router, http.MethodGet, "/getprofiledata/auth0%7Cabc", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status int `json:"status"`
		Data   struct {
			Favorites []entity.Favorite `json:"favorites"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []entity.Favorite{{ID: "AAPL", StockName: "Apple Inc."}}, resp.Data.Favorites)
}

// TestAddToFavorites_StatusMapping 404 / 409 / 400 映射
func TestAddToFavorites_StatusMapping(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), nil)
	doJSON(router, http.MethodPost, "/addUser", `{"auth0Id":"auth0|abc","name":"Testy","email":"t@t.com"}`)
	doJSON(router, http.MethodPost, "/addToFavorites",
		`{"auth0Id":"auth0|abc","favoriteId":"TSLA","favoriteName":"Tesla, Inc."}`)

	// 未知用户
	w := doJSON(router, http.MethodPost, "/addToFavorites",
		`{"auth0Id":"auth0|nobody","favoriteId":"TSLA","favoriteName":"Tesla, Inc."}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")

	// 重复添加（小写形式同样命中）
	w = doJSON(router, http.MethodPost, "/addToFavorites",
		`{"auth0Id":"auth0|abc","favoriteId":"tsla","favoriteName":"Tesla, Inc."}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Item is already in favorites")

	// 缺字段
	w = doJSON(router, http.MethodPost, "/addToFavorites", `{"auth0Id":"auth0|abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRemoveFromFavorites_StatusMapping 移除端点的 404 合并语义：
// 用户不存在和收藏不存在都返回 404，message 有区分
func TestRemoveFromFavorites_StatusMapping(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), nil)
	doJSON(router, http.MethodPost, "/addUser", `{"auth0Id":"auth0|abc","name":"Testy","email":"t@t.com"}`)
	doJSON(router, http.MethodPost, "/addToFavorites",
		`{"auth0Id":"auth0|abc","favoriteId":"tsla","favoriteName":"Tesla, Inc."}`)

	// 大写移除小写添加的条目（大小写不敏感）
	w := doJSON(router, http.MethodPost, "/removeFromFavorites",
		`{"auth0Id":"auth0|abc","favoriteId":"TSLA"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Item removed from favorites")

	// 再次移除：列表中已无此条目
	w = doJSON(router, http.MethodPost, "/removeFromFavorites",
		`{"auth0Id":"auth0|abc","favoriteId":"TSLA"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Favorite item not found")

	// 未知用户
	w = doJSON(router, http.MethodPost, "/removeFromFavorites",
		`{"auth0Id":"auth0|nobody","favoriteId":"TSLA"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

// TestNoRoute 兜底路由返回固定包体
func TestNoRoute(t *testing.T) {
	router := newTestRouter(newFakeUserRepo(), nil)

	w := doJSON(router, http.MethodGet, "/whatever/else", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "This isn't the endpoint you're looking for!")
}

// TestAuthSubjectMismatch 启用认证时，Token subject 与 auth0Id 不一致 → 403
func TestAuthSubjectMismatch(t *testing.T) {
	repo := newFakeUserRepo()
	// 模拟认证中间件：注入一个固定的已验证 subject
	fakeAuth := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, "auth0|someone-else")
		c.Next()
	}
	router := newTestRouter(repo, fakeAuth)

	w := doJSON(router, http.MethodPost, "/addToFavorites",
		`{"auth0Id":"auth0|abc","favoriteId":"AAPL","favoriteName":"Apple Inc."}`)

	assert.Equal(t, http.StatusForbidden, w.Code)

	// subject 一致时正常放行
	fakeAuthMatch := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, "auth0|abc")
		c.Next()
	}
	router = newTestRouter(repo, fakeAuthMatch)
	doJSON(router, http.MethodPost, "/addUser", `{"auth0Id":"auth0|abc","name":"Testy","email":"t@t.com"}`)
	w = doJSON(router, http.MethodPost, "/addToFavorites",
		`{"auth0Id":"auth0|abc","favoriteId":"AAPL","favoriteName":"Apple Inc."}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestConcurrentAddSameSymbol 并发加同一代码：恰好一个成功、一个 409，最终只有一条
func TestConcurrentAddSameSymbol(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, nil)
	doJSON(router, http.MethodPost, "/addUser", `{"auth0Id":"auth0|abc","name":"Testy","email":"t@t.com"}`)

	const workers = 2
	results := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doJSON(router, http.MethodPost, "/addToFavorites",
				`{"auth0Id":"auth0|abc","favoriteId":"MSFT","favoriteName":"Microsoft Corporation"}`)
			results <- w.Code
		}()
	}
	wg.Wait()
	close(results)

	counts := map[int]int{}
	for code := range results {
		counts[code]++
	}
	assert.Equal(t, 1, counts[http.StatusOK], "exactly one add succeeds")
	assert.Equal(t, 1, counts[http.StatusConflict], "the other observes conflict")

	user, err := repo.GetByAuth0ID("auth0|abc")
	assert.NoError(t, err)
	favorites, err := user.FavoriteList()
	assert.NoError(t, err)
	assert.Len(t, favorites, 1)
}
