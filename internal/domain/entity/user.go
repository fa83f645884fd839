package entity

import "time"

// User はメッセージングプラットフォーム上の購読者です。
// 初回接触（フォローイベント）で作成され、削除はされません。
// 通知クレデンシャルをクリアすることで実質的に無効化されます。
type User struct {
	// ID はプラットフォームが割り当てる安定した識別子です。
	ID string `gorm:"primaryKey;size:33"`

	// Stocks はこのユーザーが追跡している企業の集合です（順序なし）。
	Stocks []Stock `gorm:"many2many:user_stocks"`

	// NotifyToken は通知の配信先クレデンシャルです
	// （Webhook URLまたはOAuth交換で得たプッシュトークン）。
	// nilは「未設定、配信しない」を意味します。
	NotifyToken *string `gorm:"size:255"`

	// NotifyState はクレデンシャル交換中のみ使う一時的なOAuth stateです。
	// 交換完了またはリセットでクリアされます。
	NotifyState *string `gorm:"size:255"`

	// TempData は保留中の継続（continuation）です。
	// 次のフリーテキストメッセージをコマンド引数として再解釈するための
	// ワンショット状態で、ユーザーあたり常に最大1件です。
	TempData *string

	NotifiedNews []News `gorm:"many2many:news_notified_users"`

	CreatedAt time.Time
}
