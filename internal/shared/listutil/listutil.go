// Package listutil はリスト表示用の分割・整形ヘルパーを提供します。
package listutil

// Split はリストをn件ずつの固定サイズページに分割します。
// 空のリストは空のページ列になります。nが0以下の場合はpanicします
// （ページサイズは呼び出し側の定数であり、実行時入力ではないため）。
func Split[T any](list []T, n int) [][]T {
	if n <= 0 {
		panic("listutil: page size must be a positive integer")
	}
	pages := make([][]T, 0, (len(list)+n-1)/n)
	for i := 0; i < len(list); i += n {
		end := i + n
		if end > len(list) {
			end = len(list)
		}
		pages = append(pages, list[i:end])
	}
	return pages
}

// Shorten はテキストをルーン単位でmaxLength文字に切り詰めます。
// 切り詰めた場合は末尾に「...」を付けます。
func Shorten(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) > maxLength {
		return string(runes[:maxLength-3]) + "..."
	}
	return text
}
