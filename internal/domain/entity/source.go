package entity

import "time"

// SourceNews はニュースソースから取得した生の開示レコードです。
// 永続化前の形であり、StockIDの解決とID算出はIngestUsecaseが行います。
type SourceNews struct {
	StockID     string
	Title       string
	PublishedAt time.Time

	// Payload は開示元のスキーマ差異をそのまま保持します。
	Payload map[string]string
}

// SourceStock はニュースソースが解決した企業レコードです。
type SourceStock struct {
	ID   string
	Name string
}
