package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler は毎秒Gateを評価し、成立したtickで取り込みサイクルを起動します。
// 前のサイクルがまだ走っている場合、そのtickはブロックせずにスキップします
// （シングルフライトガード。周期の重複実行を許さない設計判断）。
type Scheduler struct {
	gate    Gate
	run     func(ctx context.Context) error
	cron    *cron.Cron
	running atomic.Bool
}

// New は指定されたゲートと取り込み関数でSchedulerを生成します。
func New(gate Gate, run func(ctx context.Context) error) *Scheduler {
	return &Scheduler{
		gate: gate,
		run:  run,
		cron: cron.New(cron.WithSeconds()),
	}
}

// Start はスケジューラを開始します。停止はStopで行います。
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("* * * * * *", func() { s.Tick(ctx, time.Now()) }); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop はスケジューラを停止し、実行中のジョブの完了を待ちます。
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Tick は1回のtickを処理します。テストから直接呼べるよう公開しています。
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	if !s.gate.ShouldRun(now) {
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("ingest cycle still running, skipping this tick")
		return
	}
	defer s.running.Store(false)

	if err := s.run(ctx); err != nil {
		slog.Error("ingest cycle failed", "error", err)
	}
}
