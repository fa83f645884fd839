// Package domain はフィーチャー横断で使うドメインエラーを定義します。
package domain

import "errors"

// ドメインエラー。ビジネスロジック上の失敗を表し、上位層で適切に処理されます。
var (
	// ErrStockNotFound は指定された銘柄コードまたは簡稱に一致する企業が
	// ストレージにもニュースソースにも存在しないことを示します。
	ErrStockNotFound = errors.New("stock not found")

	// ErrNewsNotFound は指定されたIDの重大訊息が存在しないことを示します。
	ErrNewsNotFound = errors.New("news not found")

	// ErrUserNotFound は指定されたIDのユーザーが存在しないことを示します。
	ErrUserNotFound = errors.New("user not found")

	// ErrNoCredential は通知クレデンシャルが未設定のユーザーへの配信要求を示します。
	// 呼び出し側が配信前に除外すべき状態です。
	ErrNoCredential = errors.New("notify credential is not configured")
)
