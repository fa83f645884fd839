// Package line はメッセージングプラットフォームAPIの最小限のクライアントを提供します。
// メッセージの構築と返信・署名検証のみを扱い、リッチメニューの画像管理などの
// 周辺機能は持ちません。
package line

// ActionType はボタンやクイックリプライのアクション種別です。
type ActionType string

const (
	ActionPostback ActionType = "postback"
	ActionURI      ActionType = "uri"
)

// Action はユーザーが押せる1つのアクションです。
// Postbackの場合はDataに `cmd=<name>&<k>=<v>...` 形式のペイロードを持ちます。
type Action struct {
	Type  ActionType
	Label string
	Data  string // postback用
	URI   string // uri用

	// InputOption が "openKeyboard" の場合、タップ時にキーボードを開きます。
	InputOption string
}

// QuickReplyItem はメッセージ下部に並ぶ1つのクイックリプライです。
type QuickReplyItem struct {
	Action Action
}

// QuickReply はクイックリプライの集合です。
type QuickReply struct {
	Items []QuickReplyItem
}

// CarouselColumn はカルーセルテンプレートの1カラムです。
type CarouselColumn struct {
	Title   string
	Text    string
	Actions []Action
}

// ButtonsTemplate はボタンテンプレートです。
type ButtonsTemplate struct {
	Title   string
	Text    string
	Actions []Action
}

// ConfirmTemplate は確認（はい/いいえ）テンプレートです。
type ConfirmTemplate struct {
	Text    string
	Actions []Action
}
