package commands

import (
	"context"
	"errors"
	"log/slog"

	"news_notify/internal/domain"
	"news_notify/internal/feature/bot/command"
	"news_notify/internal/platform/line"
)

func registerNotify(r *command.Registry, d Deps) {
	r.MustRegister(command.Spec{
		Name: "start",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			tpl := line.ButtonsTemplate{
				Title: "歡迎使用重大訊息推播機器人",
				Text:  "我會在上市公司發布重大訊息時即時通知你\n開始前請先完成推播設定",
				Actions: []line.Action{
					{Type: line.ActionPostback, Label: "進行推播設定", Data: postbackData("set_line_notify")},
				},
			}
			return d.Replier.ReplyButtons(ctx, inv.ReplyToken, "開始使用", tpl, nil)
		},
	})

	r.MustRegister(command.Spec{
		Name: "continue_bot",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			if d.RichMenuID != "" {
				if err := d.Replier.LinkRichMenu(ctx, inv.UserID, d.RichMenuID); err != nil {
					slog.Warn("failed to link rich menu", "user_id", inv.UserID, "error", err)
				}
			}
			return d.Replier.ReplyText(ctx, inv.ReplyToken,
				"✅ 設定完成\n點擊「新增公司」即可開始追蹤感興趣的公司",
				quickReply(keyboardItem("新增公司", postbackData("add_company"))),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "set_line_notify",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return setupNotify(ctx, d, inv)
		},
	})

	r.MustRegister(command.Spec{
		Name: "set_webhook_url",
		Args: []command.ArgSpec{{Name: "url", Kind: command.ArgString, Required: true}},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			if err := d.Notify.SetWebhookURL(ctx, inv.UserID, inv.String("url")); err != nil {
				return err
			}
			return d.Replier.ReplyText(ctx, inv.ReplyToken,
				"✅ Webhook 設定成功",
				quickReply(
					postbackItem("發送測試訊息", postbackData("send_test_message")),
					postbackItem("繼續", postbackData("continue_bot")),
				),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "send_test_message",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			err := d.Notify.SendTest(ctx, inv.UserID)
			if errors.Is(err, domain.ErrNoCredential) {
				return d.Replier.ReplyText(ctx, inv.ReplyToken,
					"❌ 尚未完成推播設定, 請先進行設定",
					quickReply(postbackItem("進行推播設定", postbackData("set_line_notify"))),
				)
			}
			if err != nil {
				return err
			}
			return d.Replier.ReplyText(ctx, inv.ReplyToken, "✅ 已發送測試訊息",
				quickReply(postbackItem("繼續", postbackData("continue_bot"))),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "reset_line_notify",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			tpl := line.ConfirmTemplate{
				Text: "確定要解除綁定通知設定嗎?\n解除後將不會再收到重大訊息推播",
				Actions: []line.Action{
					{Type: line.ActionPostback, Label: "確定", Data: postbackData("reset_line_notify_confirm")},
					{Type: line.ActionPostback, Label: "取消", Data: postbackData("reset_line_notify_cancel")},
				},
			}
			return d.Replier.ReplyConfirm(ctx, inv.ReplyToken, "解除綁定", tpl)
		},
	})

	r.MustRegister(command.Spec{
		Name: "reset_line_notify_confirm",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			if err := d.Notify.Reset(ctx, inv.UserID); err != nil {
				return err
			}
			return d.Replier.ReplyText(ctx, inv.ReplyToken,
				"✅ 已解除綁定通知設定",
				quickReply(postbackItem("重新設定", postbackData("set_line_notify"))),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "reset_line_notify_cancel",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return d.Replier.ReplyText(ctx, inv.ReplyToken, "已取消", nil)
		},
	})
}

// setupNotify は通知設定の入口です。クレデンシャル未設定の場合は構成された
// トランスポートに応じた設定フローを開始し、設定済みの場合は管理メニューを出します。
func setupNotify(ctx context.Context, d Deps, inv *command.Invocation) error {
	has, err := d.Notify.HasCredential(ctx, inv.UserID)
	if err != nil {
		return err
	}

	if has {
		tpl := line.ButtonsTemplate{
			Title: "推播設定",
			Text:  "已完成推播設定",
			Actions: []line.Action{
				{Type: line.ActionPostback, Label: "發送測試訊息", Data: postbackData("send_test_message")},
				{Type: line.ActionPostback, Label: "解除綁定", Data: postbackData("reset_line_notify")},
			},
		}
		return d.Replier.ReplyButtons(ctx, inv.ReplyToken, "推播設定", tpl, nil)
	}

	if !d.TokenTransport {
		cont := command.Continuation{Command: "set_webhook_url", Slot: "url"}
		if err := d.State.SetContinuation(ctx, inv.UserID, cont); err != nil {
			return err
		}
		return d.Replier.ReplyText(ctx, inv.ReplyToken,
			"請輸入欲接收推播的 Webhook 連結",
			quickReply(postbackItem("取消", postbackData("cancel"))),
		)
	}

	authorizeURL, err := d.Notify.BeginTokenExchange(ctx, inv.UserID)
	if err != nil {
		return err
	}
	tpl := line.ButtonsTemplate{
		Title: "推播設定",
		Text:  "點擊下方按鈕前往授權頁面\n完成授權後即可接收推播",
		Actions: []line.Action{
			{Type: line.ActionURI, Label: "前往設定", URI: authorizeURL},
		},
	}
	return d.Replier.ReplyButtons(ctx, inv.ReplyToken, "推播設定", tpl, nil)
}
