// Package stats はユーザー数・お気に入り数の定期集計ジョブを提供する。
// 集計値はPrometheusのゲージに書き込む。
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/fxfav/internal/model"
)

// TotalsSource は件数集計の取得元。
type TotalsSource interface {
	Totals(ctx context.Context) (model.Totals, error)
}

// TotalsSink は集計結果の書き込み先。
type TotalsSink interface {
	SetTotals(totals model.Totals)
}

// RefreshJob は件数を集計してゲージを更新するジョブ。
type RefreshJob struct {
	source  TotalsSource
	sink    TotalsSink
	logger  *slog.Logger
	Timeout time.Duration // 1回の集計のタイムアウト（デフォルト: 10秒）
}

// NewRefreshJob は新しいRefreshJobを生成する。
func NewRefreshJob(source TotalsSource, sink TotalsSink, logger *slog.Logger) *RefreshJob {
	return &RefreshJob{
		source:  source,
		sink:    sink,
		logger:  logger,
		Timeout: 10 * time.Second,
	}
}

// Run は件数を1回集計してゲージを更新する。
// 集計に失敗した場合はゲージを更新しない。
func (j *RefreshJob) Run(ctx context.Context) error {
	start := time.Now()

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	totals, err := j.source.Totals(ctx)
	if err != nil {
		j.logger.Error("件数集計ジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("件数集計の実行に失敗: %w", err)
	}

	j.sink.SetTotals(totals)

	duration := time.Since(start)
	j.logger.Debug("件数集計ジョブが完了しました",
		slog.Int("users", totals.Users),
		slog.Int("favorites", totals.Favorites),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
