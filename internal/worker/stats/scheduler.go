package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const jobName = "stats-refresh"

// Scheduler はRefreshJobをgocronで定期実行する。
type Scheduler struct {
	job      *RefreshJob
	logger   *slog.Logger
	interval time.Duration
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
// intervalが0以下の場合はデフォルト値1分を使用する。
func NewScheduler(job *RefreshJob, logger *slog.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		job:      job,
		logger:   logger,
		interval: interval,
	}
}

// Start はスケジューラを起動し、起動直後に1回集計を実行する。
// コンテキストがキャンセルされるまでブロックし、停止時は実行中のジョブの完了を待つ。
func (s *Scheduler) Start(ctx context.Context) error {
	// *slog.Loggerはgocron.Loggerのメソッドセットをそのまま満たす
	sched, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(s.logger.With(slog.String("component", "gocron"))),
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			// 失敗はRunがログに記録する。次回の実行で再試行される
			_ = s.job.Run(ctx)
		}),
		gocron.WithName(jobName),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule job %q: %w", jobName, err)
	}

	sched.Start()
	s.logger.Info("件数集計スケジューラを開始しました",
		slog.Duration("interval", s.interval),
	)

	<-ctx.Done()

	if err := sched.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	s.logger.Info("件数集計スケジューラを停止しました")
	return nil
}
