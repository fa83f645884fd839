package command

import (
	"net/url"
	"strings"
)

// slotPlaceholder は継続テンプレート内で次のフリーテキストが入る位置を示します。
const slotPlaceholder = "{text}"

// Continuation は「次のフリーテキストメッセージをどう解釈するか」の
// ワンショットの記録です。文字列テンプレートへの置換ではなく明示的な
// (コマンド, スロット名)の組として扱い、フリーテキスト自体がテンプレート
// 構文を含んでいても安全に束縛できるようにしています。
type Continuation struct {
	Command string
	Slot    string
}

// Encode は永続化形式 `cmd=<command>&<slot>={text}` を返します。
func (c Continuation) Encode() string {
	return "cmd=" + c.Command + "&" + c.Slot + "=" + slotPlaceholder
}

// ParseContinuation は永続化形式を解析します。
// プレースホルダを持つキーが見つからない場合はfalseを返します。
func ParseContinuation(s string) (Continuation, bool) {
	values, err := url.ParseQuery(s)
	if err != nil {
		return Continuation{}, false
	}
	cmd := values.Get("cmd")
	if cmd == "" {
		return Continuation{}, false
	}
	for key, vs := range values {
		if key == "cmd" {
			continue
		}
		for _, v := range vs {
			if strings.Contains(v, slotPlaceholder) {
				return Continuation{Command: cmd, Slot: key}, true
			}
		}
	}
	return Continuation{}, false
}

// Fill はフリーテキストをスロットに束縛したディスパッチ用ペイロードを返します。
// テキストはURLエンコードされるため、`&` や `{text}` を含んでいても
// ペイロードの構造を壊せません。
func (c Continuation) Fill(text string) string {
	values := url.Values{}
	values.Set("cmd", c.Command)
	values.Set(c.Slot, text)
	return values.Encode()
}
