// Package entity は上場企業・重大訊息・購読者のドメインエンティティを定義します。
package entity

import "fmt"

// Stock は上場・上櫃企業の正規レコードです。
// 未知の銘柄コードがニュースまたは購読から参照された時点で遅延作成され、
// 以降は更新も削除もされません。
type Stock struct {
	// ID は証券取引所の銘柄コードです（安定した外部識別子）。
	ID   string `gorm:"primaryKey;size:10"`
	Name string `gorm:"size:20;not null"`

	News  []News `gorm:"foreignKey:StockID"`
	Users []User `gorm:"many2many:user_stocks"`
}

// String は通知メッセージやカルーセルで使う表示形式を返します。
func (s Stock) String() string {
	return fmt.Sprintf("[%s] %s", s.ID, s.Name)
}
