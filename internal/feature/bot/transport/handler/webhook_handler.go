// Package handler はボットのWebhookとOAuthコールバックのHTTPハンドラを提供します。
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	botusecase "news_notify/internal/feature/bot/usecase"
	"news_notify/internal/platform/line"
)

// EventUsecase は受信イベントの処理を抽象化します。
type EventUsecase interface {
	OnFollow(ctx context.Context, ev botusecase.FollowEvent) error
	OnMessage(ctx context.Context, ev botusecase.MessageEvent) error
	OnPostback(ctx context.Context, ev botusecase.PostbackEvent) error
}

// webhookRequest はプラットフォームからのWebhookペイロードです。
type webhookRequest struct {
	Events []webhookEvent `json:"events"`
}

type webhookEvent struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
	Postback struct {
		Data string `json:"data"`
	} `json:"postback"`
}

// WebhookHandler はメッセージングプラットフォームからのWebhookを処理します。
type WebhookHandler struct {
	channelSecret string
	uc            EventUsecase
}

// NewWebhookHandler は新しいWebhookHandlerを作成します。
func NewWebhookHandler(channelSecret string, uc EventUsecase) *WebhookHandler {
	return &WebhookHandler{channelSecret: channelSecret, uc: uc}
}

// Callback はWebhookのエンドポイントです。
// 署名が一致しないリクエストは処理せずに403を返します。
// イベント単位の失敗はログに出力し、レスポンスは常に200を返します。
func (h *WebhookHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	if !line.ValidateSignature(h.channelSecret, body, c.GetHeader("X-Line-Signature")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
		return
	}

	var req webhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	for _, ev := range req.Events {
		if err := h.handleEvent(ctx, ev); err != nil {
			slog.Error("failed to handle webhook event",
				"type", ev.Type, "user_id", ev.Source.UserID, "error", err)
		}
	}
	c.Status(http.StatusOK)
}

func (h *WebhookHandler) handleEvent(ctx context.Context, ev webhookEvent) error {
	switch ev.Type {
	case "follow":
		return h.uc.OnFollow(ctx, botusecase.FollowEvent{UserID: ev.Source.UserID})
	case "message":
		if ev.Message.Type != "text" {
			return nil
		}
		return h.uc.OnMessage(ctx, botusecase.MessageEvent{
			UserID:     ev.Source.UserID,
			ReplyToken: ev.ReplyToken,
			Text:       ev.Message.Text,
		})
	case "postback":
		return h.uc.OnPostback(ctx, botusecase.PostbackEvent{
			UserID:     ev.Source.UserID,
			ReplyToken: ev.ReplyToken,
			Data:       ev.Postback.Data,
		})
	default:
		return nil
	}
}
