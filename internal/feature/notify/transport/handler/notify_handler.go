// Package handler は通知設定のOAuthコールバックのHTTPハンドラを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"news_notify/internal/domain/entity"
)

// afterSetupURL は設定完了後にユーザーを戻すチャットのディープリンクです。
const afterSetupURL = "https://line.me/R/oaMessage/%40linenotify"

// SetupUsecase はOAuthコールバックの処理を抽象化します。
type SetupUsecase interface {
	CompleteTokenExchange(ctx context.Context, state, code string) (*entity.User, error)
}

// NotifyHandler は通知クレデンシャルのOAuthコールバックを処理します。
type NotifyHandler struct {
	uc SetupUsecase
}

// NewNotifyHandler は新しいNotifyHandlerを作成します。
func NewNotifyHandler(uc SetupUsecase) *NotifyHandler {
	return &NotifyHandler{uc: uc}
}

// Callback は認可サーバーからのリダイレクトを処理します。
// (state, code)でトークン交換を完了し、チャットに戻るリンクへリダイレクトします。
func (h *NotifyHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state and code are required"})
		return
	}

	if _, err := h.uc.CompleteTokenExchange(c.Request.Context(), state, code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, afterSetupURL)
}
