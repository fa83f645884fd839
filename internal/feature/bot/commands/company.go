package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"news_notify/internal/domain"
	"news_notify/internal/feature/bot/command"
	"news_notify/internal/platform/line"
	"news_notify/internal/shared/listutil"
)

func registerCompany(r *command.Registry, d Deps) {
	r.MustRegister(command.Spec{
		Name: "add_company",
		Args: []command.ArgSpec{{Name: "stock_id_or_name", Kind: command.ArgString}},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			if !inv.Has("stock_id_or_name") {
				cont := command.Continuation{Command: "add_company", Slot: "stock_id_or_name"}
				if err := d.State.SetContinuation(ctx, inv.UserID, cont); err != nil {
					return err
				}
				return d.Replier.ReplyText(ctx, inv.ReplyToken,
					"請輸入欲新增的公司的股票代號或公司簡稱\n例如: 「2330」或「台積電」",
					quickReply(postbackItem("取消", postbackData("cancel"))),
				)
			}

			query := inv.String("stock_id_or_name")
			stock, err := d.Subscriptions.FollowStock(ctx, inv.UserID, query)
			if errors.Is(err, domain.ErrStockNotFound) {
				return d.Replier.ReplyText(ctx, inv.ReplyToken,
					fmt.Sprintf("❌ 找不到「%s」, 請確認輸入是否正確", query),
					quickReply(
						keyboardItem("重新輸入", postbackData("add_company")),
						postbackItem("取消", postbackData("cancel")),
					),
				)
			}
			if err != nil {
				return err
			}
			return d.Replier.ReplyText(ctx, inv.ReplyToken,
				fmt.Sprintf("✅ 成功\n已新增 %s 至你的公司清單", stock),
				quickReply(
					keyboardItem("繼續新增", postbackData("add_company")),
					postbackItem("先這樣", postbackData("view_companies")),
				),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "cancel",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return d.Replier.ReplyText(ctx, inv.ReplyToken, "已取消",
				quickReply(postbackItem("管理公司", postbackData("view_companies"))),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "search_company",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			cont := command.Continuation{Command: "view_companies", Slot: "stock_id_or_name"}
			if err := d.State.SetContinuation(ctx, inv.UserID, cont); err != nil {
				return err
			}
			return d.Replier.ReplyText(ctx, inv.ReplyToken,
				"請輸入欲搜尋的公司的股票代號或公司簡稱\n例如: 「2330」或「台積電」",
				quickReply(postbackItem("取消", postbackData("cancel"))),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "view_companies",
		Args: []command.ArgSpec{
			{Name: "index", Kind: command.ArgInt, Default: "0"},
			{Name: "stock_id_or_name", Kind: command.ArgString},
		},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return viewCompanies(ctx, d, inv)
		},
	})

	r.MustRegister(command.Spec{
		Name: "delete_company",
		Args: []command.ArgSpec{{Name: "stock_id", Kind: command.ArgString, Required: true}},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			stock, err := d.Subscriptions.UnfollowStock(ctx, inv.UserID, inv.String("stock_id"))
			if err != nil {
				return err
			}
			return d.Replier.ReplyText(ctx, inv.ReplyToken,
				fmt.Sprintf("✖️ 已取消追蹤 %s", stock),
				quickReply(
					postbackItem("管理公司", postbackData("view_companies")),
					keyboardItem("新增公司", postbackData("add_company")),
				),
			)
		},
	})

	r.MustRegister(command.Spec{
		Name: "view_news",
		Args: []command.ArgSpec{
			{Name: "stock_id", Kind: command.ArgString, Required: true},
			{Name: "index", Kind: command.ArgInt, Default: "0"},
		},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return viewNews(ctx, d, inv)
		},
	})

	r.MustRegister(command.Spec{
		Name: "show_news_detail",
		Args: []command.ArgSpec{
			{Name: "news_id", Kind: command.ArgString, Required: true},
			{Name: "stock_id", Kind: command.ArgString, Required: true},
		},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			news, err := d.Subscriptions.GetNews(ctx, inv.String("news_id"))
			if err != nil {
				return err
			}
			text := fmt.Sprintf("%s\n\n%s", news,
				"https://goodinfo.tw/tw/StockDetail.asp?STOCK_ID="+inv.String("stock_id"))
			return d.Replier.ReplyText(ctx, inv.ReplyToken, text,
				quickReply(postbackItem("返回", postbackData("view_news", "stock_id", inv.String("stock_id")))),
			)
		},
	})
}

// viewCompanies は追蹤中の公司をカルーセルで1ページ表示します。
// フィルタ文字列が束縛されている場合は部分一致で絞り込みます。
func viewCompanies(ctx context.Context, d Deps, inv *command.Invocation) error {
	filter := inv.String("stock_id_or_name")
	stocks, err := d.Subscriptions.ListFollowed(ctx, inv.UserID, filter)
	if err != nil {
		return err
	}
	if len(stocks) == 0 {
		if filter != "" {
			return d.Replier.ReplyText(ctx, inv.ReplyToken,
				fmt.Sprintf("找不到符合「%s」的公司", filter),
				quickReply(
					postbackItem("管理公司", postbackData("view_companies")),
					keyboardItem("重新搜尋", postbackData("search_company")),
				),
			)
		}
		return d.Replier.ReplyText(ctx, inv.ReplyToken,
			"目前還沒有新增任何公司",
			quickReply(keyboardItem("新增公司", postbackData("add_company"))),
		)
	}

	index := inv.Int("index")
	pages := listutil.Split(stocks, pageSize)
	page := pages[index]

	columns := make([]line.CarouselColumn, 0, len(page))
	for _, stock := range page {
		count, err := d.Subscriptions.NewsCount(ctx, stock.ID)
		if err != nil {
			return err
		}
		columns = append(columns, line.CarouselColumn{
			Title: stock.String(),
			Text:  fmt.Sprintf("目前已推播過 %d 則重大訊息", count),
			Actions: []line.Action{
				{
					Type:  line.ActionPostback,
					Label: "查看歷史重大訊息",
					Data:  postbackData("view_news", "stock_id", stock.ID),
				},
				{
					Type:  line.ActionPostback,
					Label: "✖️ 取消追蹤",
					Data:  postbackData("delete_company", "stock_id", stock.ID),
				},
			},
		})
	}

	items := []line.QuickReplyItem{keyboardItem("新增公司", postbackData("add_company"))}
	if index > 0 {
		items = append(items, postbackItem("上一頁",
			postbackData("view_companies", "index", strconv.Itoa(index-1), "stock_id_or_name", filter)))
	}
	if index < len(pages)-1 {
		items = append(items, postbackItem("下一頁",
			postbackData("view_companies", "index", strconv.Itoa(index+1), "stock_id_or_name", filter)))
	}
	items = append(items, keyboardItem("搜尋公司", postbackData("search_company")))

	altText := fmt.Sprintf("公司清單 (第 %d/%d 頁)", index+1, len(pages))
	return d.Replier.ReplyCarousel(ctx, inv.ReplyToken, altText, columns, quickReply(items...))
}

// viewNews は1つの公司の過去の重大訊息をカルーセルで1ページ表示します。
func viewNews(ctx context.Context, d Deps, inv *command.Invocation) error {
	stockID := inv.String("stock_id")
	stock, newsList, err := d.Subscriptions.ListNews(ctx, stockID)
	if err != nil {
		return err
	}
	if len(newsList) == 0 {
		return d.Replier.ReplyText(ctx, inv.ReplyToken,
			fmt.Sprintf("%s 目前還沒有推播過重大訊息", stock),
			quickReply(postbackItem("返回", postbackData("view_companies"))),
		)
	}

	index := inv.Int("index")
	pages := listutil.Split(newsList, pageSize)
	page := pages[index]

	columns := make([]line.CarouselColumn, 0, len(page))
	for _, news := range page {
		columns = append(columns, line.CarouselColumn{
			Title: news.Data["date_of_speech"],
			Text:  listutil.Shorten(news.Data["title"], 60),
			Actions: []line.Action{
				{
					Type:  line.ActionPostback,
					Label: "查看詳情",
					Data:  postbackData("show_news_detail", "news_id", news.ID, "stock_id", stockID),
				},
			},
		})
	}

	items := []line.QuickReplyItem{postbackItem("返回", postbackData("view_companies"))}
	if index > 0 {
		items = append(items, postbackItem("上一頁",
			postbackData("view_news", "stock_id", stockID, "index", strconv.Itoa(index-1))))
	}
	if index < len(pages)-1 {
		items = append(items, postbackItem("下一頁",
			postbackData("view_news", "stock_id", stockID, "index", strconv.Itoa(index+1))))
	}

	altText := fmt.Sprintf("%s 的重大訊息 (第 %d/%d 頁)", stock, index+1, len(pages))
	return d.Replier.ReplyCarousel(ctx, inv.ReplyToken, altText, columns, quickReply(items...))
}
