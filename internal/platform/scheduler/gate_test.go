package scheduler

import (
	"testing"
	"time"
)

// at はUTC+8の壁時計時刻を生成します。
func at(hour, minute, sec int) time.Time {
	return time.Date(2024, 3, 15, hour, minute, sec, 0, taipei)
}

func TestGate_ShouldRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		gate Gate
		now  time.Time
		want bool
	}{
		{
			name: "fires on interval minute at second zero",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: -1, QuietEndHour: -1},
			now:  at(10, 15, 0),
			want: true,
		},
		{
			name: "fires on the hour",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: -1, QuietEndHour: -1},
			now:  at(10, 0, 0),
			want: true,
		},
		{
			name: "does not fire off-interval minute",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: -1, QuietEndHour: -1},
			now:  at(10, 7, 0),
			want: false,
		},
		{
			name: "does not re-fire later in the same minute",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: -1, QuietEndHour: -1},
			now:  at(10, 15, 1),
			want: false,
		},
		{
			name: "thirty minute interval",
			gate: Gate{IntervalMinutes: 30, QuietStartHour: -1, QuietEndHour: -1},
			now:  at(10, 30, 0),
			want: true,
		},
		{
			name: "thirty minute interval rejects quarter hour",
			gate: Gate{IntervalMinutes: 30, QuietStartHour: -1, QuietEndHour: -1},
			now:  at(10, 15, 0),
			want: false,
		},
		{
			name: "quiet window suppresses matching minute",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: 23, QuietEndHour: 6},
			now:  at(23, 15, 0),
			want: false,
		},
		{
			name: "quiet window suppresses early morning",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: 23, QuietEndHour: 6},
			now:  at(3, 0, 0),
			want: false,
		},
		{
			name: "quiet window end is exclusive",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: 23, QuietEndHour: 6},
			now:  at(6, 0, 0),
			want: true,
		},
		{
			name: "non-wrapping quiet window",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: 1, QuietEndHour: 5},
			now:  at(3, 15, 0),
			want: false,
		},
		{
			name: "outside non-wrapping quiet window",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: 1, QuietEndHour: 5},
			now:  at(12, 15, 0),
			want: true,
		},
		{
			name: "evaluates in UTC+8 regardless of input zone",
			gate: Gate{IntervalMinutes: 15, QuietStartHour: -1, QuietEndHour: -1},
			// 02:15 UTC = 10:15 UTC+8
			now:  time.Date(2024, 3, 15, 2, 15, 0, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.gate.ShouldRun(tt.now); got != tt.want {
				t.Errorf("ShouldRun(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
