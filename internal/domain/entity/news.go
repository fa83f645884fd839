package entity

import (
	"fmt"
	"net/url"
	"time"
)

// newsIDMaxLength はNews.IDカラムのサイズ上限です。
const newsIDMaxLength = 100

// News は1件の重大訊息（material disclosure）です。
// IngestUsecaseによって一度だけ作成され、以降はNotifiedUsers以外不変です。
type News struct {
	// ID は内容由来の識別子です（銘柄コード+発言日時+主旨、100文字に切り詰め）。
	// 同じ訊息を複数回のポーリングで観測しても同一IDに収束します。
	ID string `gorm:"primaryKey;size:100"`

	// Data は開示元のフォーマット差異を吸収するための自由形式フィールドです
	// （發言日期・發生緣由・主旨・說明など）。
	Data map[string]string `gorm:"serializer:json"`

	StockID string `gorm:"size:10;not null;index"`
	Stock   Stock  `gorm:"foreignKey:StockID"`

	// PublishedAt は発言日時です。表示時はこの降順で並べます。
	PublishedAt time.Time `gorm:"not null;index"`

	// NotifiedUsers は配信済みの証跡です。エッジの有無が「配信済み」の唯一の根拠であり、
	// 別フラグは持ちません。
	NotifiedUsers []User `gorm:"many2many:news_notified_users"`

	CreatedAt time.Time
}

// NewsID は内容由来の識別子を組み立てます。
// 100文字を超える場合はルーン単位で切り詰めます。
func NewsID(stockID string, publishedAt time.Time, title string) string {
	id := fmt.Sprintf("%s:%s:%s", stockID, publishedAt.Format("2006-01-02 15:04:05"), title)
	runes := []rune(id)
	if len(runes) > newsIDMaxLength {
		return string(runes[:newsIDMaxLength])
	}
	return id
}

// String は詳細表示用のテキストを返します。
func (n News) String() string {
	return fmt.Sprintf("發言日期: %s\n主旨: %s\n\n", n.Data["date_of_speech"], n.Data["title"])
}

// GoogleSearchURL は通知メッセージに添付する検索ディープリンクを返します。
func (n News) GoogleSearchURL(stock Stock) string {
	q := url.Values{}
	q.Set("q", stock.Name+" "+n.Data["title"])
	return "https://www.google.com/search?" + q.Encode()
}
