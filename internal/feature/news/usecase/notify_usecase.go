package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"news_notify/internal/domain/entity"
	"news_notify/internal/shared/ratelimiter"
)

// Channel は通知メッセージの配信トランスポートを抽象化します。
// credentialはWebhook URLまたはプッシュトークンで、nilでない前提です
// （未設定ユーザーの除外は呼び出し側の責務です）。
type Channel interface {
	Send(ctx context.Context, credential, message string) error
}

// SubscriberRepository は銘柄ごとの購読者集合の読み出しを抽象化します。
type SubscriberRepository interface {
	ListSubscribers(ctx context.Context, stockID string) ([]entity.User, error)
}

// NotifyUsecase は1件のニュースについて未通知の購読者を算出し、
// 通知チャネル経由で配信して配信済みエッジを記録するファンアウトエンジンです。
type NotifyUsecase struct {
	news        NewsRepository
	subscribers SubscriberRepository
	channel     Channel
	rateLimiter ratelimiter.RateLimiterInterface
}

var _ FanOut = (*NotifyUsecase)(nil)

// NewNotifyUsecase は新しいNotifyUsecaseを作成します。
func NewNotifyUsecase(news NewsRepository, subscribers SubscriberRepository, channel Channel, rateLimiter ratelimiter.RateLimiterInterface) *NotifyUsecase {
	return &NotifyUsecase{news: news, subscribers: subscribers, channel: channel, rateLimiter: rateLimiter}
}

// Notify は未通知の購読者に配信し、成功したユーザーのエッジのみ記録します。
//
// 順序は送信→記録です。送信と記録の間でクラッシュした場合、次回の実行で
// 重複送信になり得ますが、通知が静かに失われることはありません。
func (nu *NotifyUsecase) Notify(ctx context.Context, news *entity.News, stock *entity.Stock) error {
	notifiedIDs, err := nu.news.ListNotifiedUserIDs(ctx, news.ID)
	if err != nil {
		return fmt.Errorf("list notified users: %w", err)
	}
	notified := make(map[string]struct{}, len(notifiedIDs))
	for _, id := range notifiedIDs {
		notified[id] = struct{}{}
	}

	subscribers, err := nu.subscribers.ListSubscribers(ctx, stock.ID)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}

	message := FormatNewsMessage(news, stock)
	for _, user := range subscribers {
		if _, ok := notified[user.ID]; ok {
			continue
		}
		// クレデンシャル未設定のユーザーは保留のまま飛ばす。
		// 設定した後のファンアウトから配信対象になる。
		if user.NotifyToken == nil {
			continue
		}

		nu.rateLimiter.WaitIfNeeded()
		if err := nu.channel.Send(ctx, *user.NotifyToken, message); err != nil {
			// 配信失敗はエッジを残さない。次のサイクルで再試行される。
			slog.Error("failed to deliver notification",
				"news_id", news.ID, "user_id", user.ID, "error", err)
			continue
		}
		if err := nu.news.AddNotifiedUser(ctx, news.ID, user.ID); err != nil {
			slog.Error("failed to record notified edge",
				"news_id", news.ID, "user_id", user.ID, "error", err)
			continue
		}
	}
	return nil
}

// FormatNewsMessage は通知メッセージ本文を組み立てます。
// ファンアウトとテストメッセージ以外でも同じ形式を使うため公開しています。
func FormatNewsMessage(news *entity.News, stock *entity.Stock) string {
	return fmt.Sprintf("\n%s\n發言時間: %s\n主旨: %s\n\nGoogle 搜尋:\n%s",
		stock,
		news.PublishedAt.In(taipei).Format("2006/01/02 15:04"),
		news.Data["title"],
		news.GoogleSearchURL(*stock),
	)
}

// taipei は表示用のローカルタイムゾーンです。
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)
