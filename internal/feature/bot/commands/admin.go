package commands

import (
	"context"
	"log/slog"

	"news_notify/internal/feature/bot/command"
)

func registerAdmin(r *command.Registry, d Deps) {
	r.MustRegister(command.Spec{
		Name: "admin",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			if inv.UserID != d.OwnerID {
				return nil
			}
			return d.Replier.ReplyText(ctx, inv.ReplyToken, "管理員界面",
				quickReply(postbackItem("手動抓取重大訊息", postbackData("crawl_news"))),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "crawl_news",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			if inv.UserID != d.OwnerID {
				return nil
			}
			if err := d.Replier.ReplyText(ctx, inv.ReplyToken, "開始抓取重大訊息...", nil); err != nil {
				return err
			}
			if err := d.Ingester.Ingest(ctx); err != nil {
				slog.Error("manual ingest failed", "error", err)
			}
			return nil
		},
	})

	r.MustRegister(command.Spec{
		Name: "get_user_id",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return d.Replier.ReplyText(ctx, inv.ReplyToken, inv.UserID, nil)
		},
	})
}
