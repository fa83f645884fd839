// Package usecase は通知クレデンシャルの設定・交換・解除のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"news_notify/internal/domain"
	"news_notify/internal/domain/entity"
)

// UserRepository はユーザーのクレデンシャル関連フィールドの永続化を抽象化します。
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByNotifyState は保留中のOAuth stateでユーザーを取得します。
	// 一致しない場合はdomain.ErrUserNotFoundを返します。
	FindByNotifyState(ctx context.Context, state string) (*entity.User, error)

	UpdateNotifyToken(ctx context.Context, userID string, token *string) error
	UpdateNotifyState(ctx context.Context, userID string, state *string) error
}

// Channel は通知メッセージの配信トランスポートを抽象化します。
// ファンアウトエンジンと同一の実装を共有します。
type Channel interface {
	Send(ctx context.Context, credential, message string) error
}

// TokenExchanger はOAuth形式のクレデンシャル交換を抽象化します。
// Webhookトランスポートの構成では不要なためnilを許容します。
type TokenExchanger interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	Revoke(ctx context.Context, credential string) error
}

// SetupUsecase は通知クレデンシャルのライフサイクルを管理します。
type SetupUsecase struct {
	users     UserRepository
	channel   Channel
	exchanger TokenExchanger

	// returnURL は交換完了メッセージに載せるボットへの戻りリンクです。
	returnURL string
}

// NewSetupUsecase は新しいSetupUsecaseを作成します。
// exchangerはWebhookトランスポート構成ではnilにできます。
func NewSetupUsecase(users UserRepository, channel Channel, exchanger TokenExchanger, returnURL string) *SetupUsecase {
	return &SetupUsecase{users: users, channel: channel, exchanger: exchanger, returnURL: returnURL}
}

// HasCredential はユーザーが配信可能な状態かどうかを返します。
func (su *SetupUsecase) HasCredential(ctx context.Context, userID string) (bool, error) {
	user, err := su.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.NotifyToken != nil, nil
}

// BeginTokenExchange は一時的なstateを発行してユーザーに保存し、認可URLを返します。
// 既に保留中のstateがある場合は上書きします。
func (su *SetupUsecase) BeginTokenExchange(ctx context.Context, userID string) (string, error) {
	if su.exchanger == nil {
		return "", fmt.Errorf("token exchange is not configured for this transport")
	}
	state := uuid.NewString()
	if err := su.users.UpdateNotifyState(ctx, userID, &state); err != nil {
		return "", err
	}
	return su.exchanger.AuthorizeURL(state), nil
}

// CompleteTokenExchange はOAuthコールバックからの(state, code)を処理します。
// stateでユーザーを同定し、コードをトークンに交換して保存、stateをクリアし、
// 新しいトークンで設定完了メッセージを配信します。
func (su *SetupUsecase) CompleteTokenExchange(ctx context.Context, state, code string) (*entity.User, error) {
	if su.exchanger == nil {
		return nil, fmt.Errorf("token exchange is not configured for this transport")
	}
	user, err := su.users.FindByNotifyState(ctx, state)
	if err != nil {
		return nil, err
	}

	token, err := su.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	if err := su.users.UpdateNotifyToken(ctx, user.ID, &token); err != nil {
		return nil, err
	}
	if err := su.users.UpdateNotifyState(ctx, user.ID, nil); err != nil {
		return nil, err
	}

	msg := "\n✅ 推播設定成功"
	if su.returnURL != "" {
		msg += "\n\n點擊此連結返回機器人:\n" + su.returnURL
	}
	if err := su.channel.Send(ctx, token, msg); err != nil {
		// 確認メッセージの失敗で交換自体は巻き戻さない
		slog.Warn("failed to send setup confirmation", "user_id", user.ID, "error", err)
	}
	user.NotifyToken = &token
	user.NotifyState = nil
	return user, nil
}

// SetWebhookURL はWebhook URLをクレデンシャルとして保存します。
func (su *SetupUsecase) SetWebhookURL(ctx context.Context, userID, webhookURL string) error {
	if _, err := su.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return su.users.UpdateNotifyToken(ctx, userID, &webhookURL)
}

// SendTest は設定済みのクレデンシャルにテストメッセージを配信します。
// 未設定の場合はdomain.ErrNoCredentialを返します。
func (su *SetupUsecase) SendTest(ctx context.Context, userID string) error {
	user, err := su.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.NotifyToken == nil {
		return domain.ErrNoCredential
	}
	return su.channel.Send(ctx, *user.NotifyToken, "這是一則測試訊息")
}

// Reset はクレデンシャルと保留中のstateをクリアします。
// トークン型のクレデンシャルはベストエフォートで失効させます。
func (su *SetupUsecase) Reset(ctx context.Context, userID string) error {
	user, err := su.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.NotifyToken != nil && su.exchanger != nil {
		if err := su.exchanger.Revoke(ctx, *user.NotifyToken); err != nil {
			slog.Warn("failed to revoke credential", "user_id", userID, "error", err)
		}
	}
	if err := su.users.UpdateNotifyToken(ctx, userID, nil); err != nil {
		return err
	}
	return su.users.UpdateNotifyState(ctx, userID, nil)
}
