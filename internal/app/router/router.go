package router

import (
	"github.com/gin-gonic/gin"

	bothandler "news_notify/internal/feature/bot/transport/handler"
	notifyhandler "news_notify/internal/feature/notify/transport/handler"
	subscriptionhandler "news_notify/internal/feature/subscription/transport/handler"
	"news_notify/internal/platform/http/handler"
)

// NewBotRouter はボットプロセスのHTTPルーターを構築します。
// Webhookの署名検証はハンドラ側で行います。
func NewBotRouter(webhook *bothandler.WebhookHandler, notify *notifyhandler.NotifyHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)
	// メッセージングプラットフォームからのWebhook
	r.POST("/callback", webhook.Callback)
	// 通知設定のOAuthコールバック
	r.GET("/line-notify", notify.Callback)

	return r
}

// NewAPIRouter は外部ツール向けAPIプロセスのHTTPルーターを構築します。
func NewAPIRouter(stock *subscriptionhandler.StockHandler) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"service": "news_notify"})
	})
	r.GET("/healthz", handler.Health)
	// 外部ツールからの追跡追加
	r.GET("/add-stock", stock.AddStock)

	return r
}
