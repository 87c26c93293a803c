package dataview

import (
	"context"
	"errors"
	"strings"

	"userstock-go-server/domain/entity"
	"userstock-go-server/internal/stockapi"
)

// ========== 客户端视图状态机 ==========
// 把"收藏列表"和"当前展示的行情"两份独立获取的数据对账成一个
// isFavorite 布尔值，并在变更期间做准入控制。
//
// 设计取舍（刻意保留）：
// - 变更成功后重新拉取完整收藏列表，而不是信任变更响应做乐观更新。
//   多一次往返，换取展示的列表必然反映刚才的变更。
// - pendingMutation 只是单客户端的准入控制，不是服务端锁；
//   两个独立客户端的真并发由服务端的条件更新兜底。
// - 任何失败只产生用户可见的提示消息，收藏列表保持最后一次成功的值，
//   pendingMutation 在所有退出路径上都会被清掉。

// ErrMutationInFlight 已有变更在途时再次发起变更
var ErrMutationInFlight = errors.New("favorites mutation already in flight")

// 用户可见提示消息，和历史客户端文案保持一致
const (
	msgLoadFailed   = "Could not load favorites."
	msgStockFailed  = "Failed to fetch stock data. Stock may not exist."
	msgAddFailed    = "Failed to add to favorites."
	msgRemoveFailed = "Failed to remove from favorites."
	msgSignInFirst  = "You must be signed in to modify favorites."
)

// FavoritesService 收藏服务接口（HTTP 实现见 apiclient.go）
type FavoritesService interface {
	FetchFavorites(ctx context.Context, auth0ID string) ([]entity.Favorite, error)
	AddToFavorites(ctx context.Context, auth0ID, favoriteID, favoriteName string) error
	RemoveFromFavorites(ctx context.Context, auth0ID, favoriteID string) error
}

// QuoteService 行情查询接口
type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (*stockapi.Quote, error)
}

// View 数据页视图状态
// ⚠️ 非并发安全：按单线程协作模型使用（对应原始 UI 的事件循环）
type View struct {
	favoritesSvc FavoritesService
	quoteSvc     QuoteService
	auth0ID      string // 空字符串表示访客

	favorites       []entity.Favorite
	quote           *stockapi.Quote
	isFavorite      bool
	pendingMutation bool
	errMsg          string // 收藏相关的提示消息
	stockErrMsg     string // 行情查询的提示消息
}

// NewView 构造函数；auth0ID 传空表示访客浏览
func NewView(favoritesSvc FavoritesService, quoteSvc QuoteService, auth0ID string) *View {
	return &View{
		favoritesSvc: favoritesSvc,
		quoteSvc:     quoteSvc,
		auth0ID:      auth0ID,
	}
}

// SignedIn 是否已登录
func (v *View) SignedIn() bool { return v.auth0ID != "" }

// Favorites 当前收藏列表（最后一次成功加载的值）
func (v *View) Favorites() []entity.Favorite { return v.favorites }

// Quote 当前展示的行情，可能为 nil
func (v *View) Quote() *stockapi.Quote { return v.quote }

// IsFavorite 当前展示的行情是否在收藏列表中
func (v *View) IsFavorite() bool { return v.isFavorite }

// MutationPending 是否有收藏变更在途（UI 用来禁用按钮）
func (v *View) MutationPending() bool { return v.pendingMutation }

// ErrorMessage 收藏相关的用户可见提示，空表示无
func (v *View) ErrorMessage() string { return v.errMsg }

// StockErrorMessage 行情查询的用户可见提示，空表示无
func (v *View) StockErrorMessage() string { return v.stockErrMsg }

// recompute 对账：收藏列表 × 当前行情 → isFavorite
// 成员判断必须用规范化后的代码，和服务端写入口径一致
func (v *View) recompute() {
	v.isFavorite = v.quote != nil &&
		entity.ContainsFavorite(v.favorites, entity.NormalizeSymbol(v.quote.Symbol))
}

// LoadFavorites 加载收藏列表（页面初始化或变更后的重新拉取）
// 访客直接跳过；失败时保留上一次的列表
func (v *View) LoadFavorites(ctx context.Context) error {
	if !v.SignedIn() {
		return nil
	}

	favorites, err := v.favoritesSvc.FetchFavorites(ctx, v.auth0ID)
	if err != nil {
		v.errMsg = msgLoadFailed
		return err
	}

	v.favorites = favorites
	v.errMsg = ""
	v.recompute()
	return nil
}

// SubmitSymbol 查询并展示一只股票的行情
// 手动输入和点击收藏条目共用这一条提交路径
func (v *View) SubmitSymbol(ctx context.Context, symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil
	}

	v.errMsg = ""
	v.stockErrMsg = ""

	quote, err := v.quoteSvc.GetQuote(ctx, symbol)
	if err != nil {
		// 不区分网络错误和未收录，统一提示"可能不存在"
		v.quote = nil
		v.stockErrMsg = msgStockFailed
		v.recompute()
		return err
	}

	v.quote = quote
	v.recompute()
	return nil
}

// SelectFavorite 点击收藏条目：复用同一条行情提交路径
func (v *View) SelectFavorite(ctx context.Context, favoriteID string) error {
	return v.SubmitSymbol(ctx, favoriteID)
}

// ToggleFavorite 把当前展示的股票加入/移出收藏（按当前成员状态决定方向）
func (v *View) ToggleFavorite(ctx context.Context) error {
	if !v.SignedIn() || v.quote == nil {
		v.errMsg = msgSignInFirst
		return nil
	}
	if v.pendingMutation {
		return ErrMutationInFlight
	}

	v.pendingMutation = true
	defer func() { v.pendingMutation = false }()

	removing := v.isFavorite

	var err error
	if removing {
		err = v.favoritesSvc.RemoveFromFavorites(ctx, v.auth0ID, v.quote.Symbol)
	} else {
		err = v.favoritesSvc.AddToFavorites(ctx, v.auth0ID, v.quote.Symbol, v.quote.CompanyName)
	}
	if err != nil {
		v.errMsg = mutationFailedMessage(removing)
		return err
	}

	return v.refetchAfterMutation(ctx, removing)
}

// RemoveFavorite 从收藏列表条目上直接移除（不要求该股票正在展示）
func (v *View) RemoveFavorite(ctx context.Context, favoriteID string) error {
	if !v.SignedIn() {
		v.errMsg = msgSignInFirst
		return nil
	}
	if v.pendingMutation {
		return ErrMutationInFlight
	}

	v.pendingMutation = true
	defer func() { v.pendingMutation = false }()

	if err := v.favoritesSvc.RemoveFromFavorites(ctx, v.auth0ID, favoriteID); err != nil {
		v.errMsg = msgRemoveFailed
		return err
	}

	return v.refetchAfterMutation(ctx, true)
}

// refetchAfterMutation 变更成功后重新拉取权威列表并对账
// 拉取失败时列表保持最后一次成功的值
func (v *View) refetchAfterMutation(ctx context.Context, removing bool) error {
	favorites, err := v.favoritesSvc.FetchFavorites(ctx, v.auth0ID)
	if err != nil {
		v.errMsg = mutationFailedMessage(removing)
		return err
	}

	v.favorites = favorites
	v.errMsg = ""
	v.recompute()
	return nil
}

func mutationFailedMessage(removing bool) string {
	if removing {
		return msgRemoveFailed
	}
	return msgAddFailed
}
