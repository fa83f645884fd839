package commands

import (
	"context"

	"news_notify/internal/feature/bot/command"
	"news_notify/internal/platform/line"
)

func registerInfo(r *command.Registry, d Deps) {
	r.MustRegister(command.Spec{
		Name: "about",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			tpl := line.ButtonsTemplate{
				Title: "關於",
				Text:  "重大訊息推播機器人\n資料來源為公開資訊觀測站的每日重大訊息",
				Actions: []line.Action{
					{Type: line.ActionPostback, Label: "贊助開發者", Data: postbackData("donate")},
				},
			}
			return d.Replier.ReplyButtons(ctx, inv.ReplyToken, "關於", tpl, nil)
		},
	})

	r.MustRegister(command.Spec{
		Name: "donate",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			tpl := line.ButtonsTemplate{
				Title: "贊助開發者",
				Text:  "如果這個機器人對你有幫助, 歡迎贊助支持開發與維護",
				Actions: []line.Action{
					{Type: line.ActionPostback, Label: "街口支付", Data: postbackData("jkopay")},
					{Type: line.ActionPostback, Label: "銀行轉帳", Data: postbackData("bank_transfer")},
				},
			}
			return d.Replier.ReplyButtons(ctx, inv.ReplyToken, "贊助開發者", tpl, nil)
		},
	})

	r.MustRegister(command.Spec{
		Name: "jkopay",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return d.Replier.ReplyText(ctx, inv.ReplyToken,
				"街口支付帳號: 901000012\n感謝你的支持 🙏",
				quickReply(postbackItem("返回", postbackData("donate"))),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "bank_transfer",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return d.Replier.ReplyText(ctx, inv.ReplyToken,
				"銀行代碼: 812 (台新銀行)\n帳號: 2888-10-0000000-0\n感謝你的支持 🙏",
				quickReply(postbackItem("返回", postbackData("donate"))),
			)
		},
	})
}
