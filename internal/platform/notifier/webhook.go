// Package notifier は通知チャネルの具体トランスポートを提供します。
// ファンアウトエンジンとテストメッセージコマンドは、どのトランスポートでも
// 同じChannelインターフェース経由で配信します。
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// WebhookChannel はユーザーごとのWebhook URLに配信するトランスポートです。
// credentialはWebhook URLそのものです（Discord Webhook形式）。
type WebhookChannel struct {
	client *http.Client
}

// NewWebhookChannel は指定されたHTTPクライアントでWebhookChannelを生成します。
func NewWebhookChannel(client *http.Client) *WebhookChannel {
	return &WebhookChannel{client: client}
}

// Send はcredential（Webhook URL）にJSONボディ {"content": message} をPOSTします。
// レスポンスボディは検証せず、ステータスのみ確認します。
func (w *WebhookChannel) Send(ctx context.Context, credential, message string) error {
	body, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, credential, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("webhook delivery: http %d", res.StatusCode)
	}
	return nil
}
