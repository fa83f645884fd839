// Package commands はチャットコマンドのハンドラ群を実装します。
// 各ファイルがコマンドの1グループ（企業管理・通知設定・管理者・案内）に対応します。
package commands

import (
	"context"
	"net/url"

	"news_notify/internal/domain/entity"
	"news_notify/internal/feature/bot/command"
	"news_notify/internal/platform/line"
)

// pageSize はカルーセル表示の1ページあたりの件数です。
const pageSize = 10

// Replier はメッセージングプラットフォームへの返信を抽象化します。
type Replier interface {
	ReplyText(ctx context.Context, replyToken, text string, quickReply *line.QuickReply) error
	ReplyButtons(ctx context.Context, replyToken, altText string, tpl line.ButtonsTemplate, quickReply *line.QuickReply) error
	ReplyConfirm(ctx context.Context, replyToken, altText string, tpl line.ConfirmTemplate) error
	ReplyCarousel(ctx context.Context, replyToken, altText string, columns []line.CarouselColumn, quickReply *line.QuickReply) error
	LinkRichMenu(ctx context.Context, userID, richMenuID string) error
}

// ConversationState は保留中の継続の書き込みを抽象化します。
type ConversationState interface {
	SetContinuation(ctx context.Context, userID string, cont command.Continuation) error
}

// SubscriptionUsecase は購読管理のビジネスロジックを抽象化します。
type SubscriptionUsecase interface {
	FollowStock(ctx context.Context, userID, idOrName string) (*entity.Stock, error)
	UnfollowStock(ctx context.Context, userID, stockID string) (*entity.Stock, error)
	ListFollowed(ctx context.Context, userID, filter string) ([]entity.Stock, error)
	NewsCount(ctx context.Context, stockID string) (int64, error)
	ListNews(ctx context.Context, stockID string) (*entity.Stock, []entity.News, error)
	GetNews(ctx context.Context, newsID string) (*entity.News, error)
}

// NotifySetup は通知クレデンシャルの設定フローを抽象化します。
type NotifySetup interface {
	HasCredential(ctx context.Context, userID string) (bool, error)
	BeginTokenExchange(ctx context.Context, userID string) (string, error)
	SetWebhookURL(ctx context.Context, userID, webhookURL string) error
	SendTest(ctx context.Context, userID string) error
	Reset(ctx context.Context, userID string) error
}

// Ingester は取り込みサイクルの手動起動を抽象化します（管理者コマンド用）。
type Ingester interface {
	Ingest(ctx context.Context) error
}

// Deps はコマンドハンドラ群の依存です。
type Deps struct {
	Replier       Replier
	State         ConversationState
	Subscriptions SubscriptionUsecase
	Notify        NotifySetup
	Ingester      Ingester

	// OwnerID は管理者コマンドを許可する運用者のユーザーIDです。
	OwnerID string

	// RichMenuID は設定完了後に紐付けるアップロード済みリッチメニューのIDです。
	// 空の場合は紐付けをスキップします。
	RichMenuID string

	// TokenTransport がtrueの場合、通知設定はOAuthトークン交換フローに
	// なります。falseの場合はWebhook URLの入力フローです。
	TokenTransport bool
}

// Register は全コマンドをレジストリに登録します。
// 宣言の誤りは起動時にpanicで弾かれます。
func Register(r *command.Registry, d Deps) {
	registerCompany(r, d)
	registerNotify(r, d)
	registerAdmin(r, d)
	registerInfo(r, d)
}

// postbackData は `cmd=<name>&<k>=<v>...` 形式のペイロードを組み立てます。
// 値はURLエンコードされるため、ニュースIDのような任意文字列も安全に運べます。
func postbackData(cmd string, kv ...string) string {
	values := url.Values{}
	values.Set("cmd", cmd)
	for i := 0; i+1 < len(kv); i += 2 {
		values.Set(kv[i], kv[i+1])
	}
	return values.Encode()
}

func quickReply(items ...line.QuickReplyItem) *line.QuickReply {
	if len(items) == 0 {
		return nil
	}
	return &line.QuickReply{Items: items}
}

func postbackItem(label, data string) line.QuickReplyItem {
	return line.QuickReplyItem{Action: line.Action{Type: line.ActionPostback, Label: label, Data: data}}
}

func keyboardItem(label, data string) line.QuickReplyItem {
	return line.QuickReplyItem{Action: line.Action{
		Type:        line.ActionPostback,
		Label:       label,
		Data:        data,
		InputOption: "openKeyboard",
	}}
}
