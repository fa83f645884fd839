// Package usecase は受信イベントの処理と会話状態の管理を実装します。
package usecase

import (
	"context"

	"news_notify/internal/domain/entity"
	"news_notify/internal/feature/bot/command"
)

// FollowEvent はユーザーがボットを友だち追加したイベントです。
type FollowEvent struct {
	UserID string
}

// MessageEvent はフリーテキストメッセージの受信イベントです。
type MessageEvent struct {
	UserID     string
	ReplyToken string
	Text       string
}

// PostbackEvent は構造化ペイロード付きのアクションイベントです。
type PostbackEvent struct {
	UserID     string
	ReplyToken string
	Data       string
}

// UserRepository はユーザーと会話状態の永続化を抽象化します。
type UserRepository interface {
	// Create はユーザーを作成します。既存IDは成功として扱います。
	Create(ctx context.Context, user *entity.User) error

	FindByID(ctx context.Context, id string) (*entity.User, error)

	// UpdateTempData は保留中の継続を保存（nilでクリア）します。
	UpdateTempData(ctx context.Context, userID string, tempData *string) error
}

// BotUsecase は受信イベントをコマンドディスパッチに変換します。
// ユーザーごとの会話状態は2状態です: 継続なし（idle）と継続あり（awaiting-reply）。
type BotUsecase struct {
	registry *command.Registry
	users    UserRepository
}

// NewBotUsecase は新しいBotUsecaseを作成します。
func NewBotUsecase(registry *command.Registry, users UserRepository) *BotUsecase {
	return &BotUsecase{registry: registry, users: users}
}

// OnFollow は初回接触でユーザーを作成します。再フォローは無害です。
func (bu *BotUsecase) OnFollow(ctx context.Context, ev FollowEvent) error {
	return bu.users.Create(ctx, &entity.User{ID: ev.UserID})
}

// OnPostback は構造化ペイロードをそのままディスパッチします。
func (bu *BotUsecase) OnPostback(ctx context.Context, ev PostbackEvent) error {
	return bu.registry.Dispatch(ctx, ev.UserID, ev.ReplyToken, ev.Data)
}

// OnMessage はフリーテキストメッセージを処理します。
// 保留中の継続がある場合、まず継続をクリアしてからテキストをスロットに束縛し、
// postbackとして受信したかのように再ディスパッチします（ワンショット、
// 内容にかかわらず次のメッセージで必ずidleに戻る）。
// 継続がない場合、フリーテキストは解釈されません。
func (bu *BotUsecase) OnMessage(ctx context.Context, ev MessageEvent) error {
	user, err := bu.users.FindByID(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if user.TempData == nil {
		return nil
	}

	cont, ok := command.ParseContinuation(*user.TempData)
	// 解釈できない継続も含め、必ず先にクリアする
	if err := bu.users.UpdateTempData(ctx, ev.UserID, nil); err != nil {
		return err
	}
	if !ok {
		return nil
	}

	return bu.registry.Dispatch(ctx, ev.UserID, ev.ReplyToken, cont.Fill(ev.Text))
}

// SetContinuation は保留中の継続を設定します。既存の継続は上書きされます
// （ユーザーあたり常に最大1件）。コマンドハンドラから使われます。
func (bu *BotUsecase) SetContinuation(ctx context.Context, userID string, cont command.Continuation) error {
	encoded := cont.Encode()
	return bu.users.UpdateTempData(ctx, userID, &encoded)
}
