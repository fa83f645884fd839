// Package http は外部API呼び出し用のHTTPクライアント構築を提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部サービス呼び出し用のHTTPクライアントを作成します。
// ニュースソース・通知チャネル・メッセージングAPIのクライアントが共有します。
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
//   - Transportは接続の安定性とリソース管理のために明示的に設定
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
