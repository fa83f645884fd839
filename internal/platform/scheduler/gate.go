// Package scheduler は定時取り込みのクロックゲートとスケジューラを提供します。
package scheduler

import "time"

// taipei は開示ソースのローカルタイムゾーン（UTC+8、固定オフセット）です。
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// Gate は「このtickで取り込みを実行すべきか」を判定する純粋な述語です。
// 述語自体はミューテックスではないため、同一秒内の多重呼び出しの抑止は
// 呼び出し側（Scheduler）が担います。
type Gate struct {
	// IntervalMinutes は取り込み周期（分）です。15または30。
	IntervalMinutes int

	// QuietStartHour/QuietEndHour は抑止時間帯の開始・終了時（UTC+8）です。
	// 両方-1で無効。開始>終了の場合は日跨ぎ（例: 23時〜翌6時）として扱います。
	QuietStartHour int
	QuietEndHour   int
}

// ShouldRun はnowが取り込みを実行すべき時刻かどうかを返します。
// `minute % interval == 0` かつ秒が1未満のとき真です（スケジューラの
// サブ秒ジッタに耐性を持たせつつ、同一分内で1回だけ成立します）。
// クワイエットウィンドウ内では分が一致しても常に偽です。
func (g Gate) ShouldRun(now time.Time) bool {
	local := now.In(taipei)
	if local.Minute()%g.IntervalMinutes != 0 || local.Second() >= 1 {
		return false
	}
	return !g.inQuietWindow(local.Hour())
}

func (g Gate) inQuietWindow(hour int) bool {
	if g.QuietStartHour < 0 || g.QuietEndHour < 0 {
		return false
	}
	if g.QuietStartHour <= g.QuietEndHour {
		return hour >= g.QuietStartHour && hour < g.QuietEndHour
	}
	// 日跨ぎ（例: 23→6）
	return hour >= g.QuietStartHour || hour < g.QuietEndHour
}
