// Package twse は台湾証券取引所のOpenAPIから重大訊息と企業情報を取得するクライアントを提供します。
package twse

import (
	"os"
	"time"
)

// Config はTWSEクライアントの設定を保持します。
type Config struct {
	NewsBaseURL  string        // 重大訊息OpenAPIのベースURL（例: "https://openapi.twse.com.tw/v1"）
	StockBaseURL string        // 企業情報解決APIのベースURL
	Timeout      time.Duration // HTTPリクエストタイムアウト
}

// LoadConfig は環境変数からTWSEクライアント設定を読み込みます。
// 未設定の場合は本番エンドポイントを使います。
func LoadConfig() Config {
	cfg := Config{
		NewsBaseURL:  os.Getenv("TWSE_NEWS_BASE_URL"),
		StockBaseURL: os.Getenv("TWSE_STOCK_BASE_URL"),
		Timeout:      10 * time.Second,
	}
	if cfg.NewsBaseURL == "" {
		cfg.NewsBaseURL = "https://openapi.twse.com.tw/v1"
	}
	if cfg.StockBaseURL == "" {
		cfg.StockBaseURL = "https://stock-api.seriaati.xyz"
	}
	return cfg
}
