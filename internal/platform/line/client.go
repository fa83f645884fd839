package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const defaultAPIBaseURL = "https://api.line.me"

// Config はメッセージングAPIクライアントの設定です。
type Config struct {
	ChannelToken string
	BaseURL      string // 空の場合は本番エンドポイント
}

// Client はメッセージングプラットフォームの返信APIを呼び出します。
// HTTPクライアントは構築時に注入され、プロセス内でグローバル状態を持ちません。
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAPIBaseURL
	}
	return &Client{cfg: cfg, client: client}
}

// ReplyText はテキストメッセージ1件で返信します。
func (c *Client) ReplyText(ctx context.Context, replyToken, text string, quickReply *QuickReply) error {
	msg := map[string]any{"type": "text", "text": text}
	attachQuickReply(msg, quickReply)
	return c.reply(ctx, replyToken, []map[string]any{msg})
}

// ReplyButtons はボタンテンプレートで返信します。
func (c *Client) ReplyButtons(ctx context.Context, replyToken, altText string, tpl ButtonsTemplate, quickReply *QuickReply) error {
	template := map[string]any{
		"type":    "buttons",
		"text":    tpl.Text,
		"actions": encodeActions(tpl.Actions),
	}
	if tpl.Title != "" {
		template["title"] = tpl.Title
	}
	return c.replyTemplate(ctx, replyToken, altText, template, quickReply)
}

// ReplyConfirm は確認テンプレートで返信します。
func (c *Client) ReplyConfirm(ctx context.Context, replyToken, altText string, tpl ConfirmTemplate) error {
	template := map[string]any{
		"type":    "confirm",
		"text":    tpl.Text,
		"actions": encodeActions(tpl.Actions),
	}
	return c.replyTemplate(ctx, replyToken, altText, template, nil)
}

// ReplyCarousel はカルーセルテンプレートで返信します。
func (c *Client) ReplyCarousel(ctx context.Context, replyToken, altText string, columns []CarouselColumn, quickReply *QuickReply) error {
	encoded := make([]map[string]any, 0, len(columns))
	for _, col := range columns {
		m := map[string]any{
			"text":    col.Text,
			"actions": encodeActions(col.Actions),
		}
		if col.Title != "" {
			m["title"] = col.Title
		}
		encoded = append(encoded, m)
	}
	template := map[string]any{"type": "carousel", "columns": encoded}
	return c.replyTemplate(ctx, replyToken, altText, template, quickReply)
}

// LinkRichMenu は事前にアップロード済みのリッチメニューをユーザーに紐付けます。
// メニュー自体の作成・画像管理はこのクライアントの範囲外です。
func (c *Client) LinkRichMenu(ctx context.Context, userID, richMenuID string) error {
	return c.post(ctx, "/v2/bot/user/"+userID+"/richmenu/"+richMenuID, nil)
}

func (c *Client) replyTemplate(ctx context.Context, replyToken, altText string, template map[string]any, quickReply *QuickReply) error {
	msg := map[string]any{"type": "template", "altText": altText, "template": template}
	attachQuickReply(msg, quickReply)
	return c.reply(ctx, replyToken, []map[string]any{msg})
}

func (c *Client) reply(ctx context.Context, replyToken string, messages []map[string]any) error {
	body := map[string]any{"replyToken": replyToken, "messages": messages}
	return c.post(ctx, "/v2/bot/message/reply", body)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.ChannelToken)

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("line api %s: http %d", path, res.StatusCode)
	}
	return nil
}

func attachQuickReply(msg map[string]any, quickReply *QuickReply) {
	if quickReply == nil || len(quickReply.Items) == 0 {
		return
	}
	items := make([]map[string]any, 0, len(quickReply.Items))
	for _, item := range quickReply.Items {
		items = append(items, map[string]any{
			"type":   "action",
			"action": encodeAction(item.Action),
		})
	}
	msg["quickReply"] = map[string]any{"items": items}
}

func encodeActions(actions []Action) []map[string]any {
	out := make([]map[string]any, 0, len(actions))
	for _, a := range actions {
		out = append(out, encodeAction(a))
	}
	return out
}

func encodeAction(a Action) map[string]any {
	m := map[string]any{"type": string(a.Type), "label": a.Label}
	switch a.Type {
	case ActionPostback:
		m["data"] = a.Data
		if a.InputOption != "" {
			m["inputOption"] = a.InputOption
		}
	case ActionURI:
		m["uri"] = a.URI
	}
	return m
}
