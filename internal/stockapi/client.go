package stockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"userstock-go-server/domain/entity"
)

// 行情查询客户端（financialmodelingprep 公司简介接口）
// 对调用方来说任何失败都是"股票可能不存在"，不区分网络错误和未收录

const defaultBaseURL = "https://financialmodelingprep.com"

// Quote 单只股票的行情快照
type Quote struct {
	Symbol       string  `json:"symbol"`       // 规范化（大写）后的代码
	CompanyName  string  `json:"companyName"`  // 公司名称
	CurrentPrice float64 `json:"currentPrice"` // 当前价格，接口原样返回，不做运算
}

// Client 行情查询 HTTP 客户端
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient 构造函数
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// GetQuote 按代码查询公司名称和当前价格
// 代码未收录、网络失败、响应结构异常都返回 error，由调用方统一提示
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v3/company/profile/%s?apikey=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stock api: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Symbol  string `json:"symbol"`
		Profile *struct {
			CompanyName string  `json:"companyName"`
			Price       float64 `json:"price"`
		} `json:"profile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	// 未收录的代码接口会返回空对象
	if payload.Profile == nil {
		return nil, fmt.Errorf("stock api: no profile for symbol %q", symbol)
	}

	return &Quote{
		Symbol:       entity.NormalizeSymbol(symbol),
		CompanyName:  payload.Profile.CompanyName,
		CurrentPrice: payload.Profile.Price,
	}, nil
}
