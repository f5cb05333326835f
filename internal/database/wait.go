package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// initialWaitBackoff は接続待ちの初回遅延。
	initialWaitBackoff = 500 * time.Millisecond
	// maxWaitBackoff は接続待ちの最大遅延。
	maxWaitBackoff = 8 * time.Second
)

// Pinger はPingContextを持つDBハンドル。*sqlx.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// waitBackoff は失敗回数に基づいて指数バックオフ遅延を計算する。
// 初回500ms、2倍ずつ増加、最大8秒。
func waitBackoff(failures int) time.Duration {
	delay := initialWaitBackoff
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay > maxWaitBackoff {
			return maxWaitBackoff
		}
	}
	return delay
}

// WaitReady はDBがPingに応答するまで最大attempts回試行する。
// コンテナ起動直後などDBの準備が遅れる場合に使う。
// 個々のストア操作はリトライしない。
func WaitReady(ctx context.Context, db Pinger, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		delay := waitBackoff(i)
		slog.Warn("database is not ready, retrying",
			slog.Int("attempt", i+1),
			slog.Duration("retry_in", delay),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("database did not become ready after %d attempts: %w", attempts, err)
}
