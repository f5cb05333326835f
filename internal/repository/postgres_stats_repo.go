package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/fxfav/internal/model"
)

// PostgresStatsRepo はPostgreSQLを使用した集計リポジトリ。
type PostgresStatsRepo struct {
	db *sqlx.DB
}

// NewPostgresStatsRepo はPostgresStatsRepoを生成する。
func NewPostgresStatsRepo(db *sqlx.DB) *PostgresStatsRepo {
	return &PostgresStatsRepo{db: db}
}

// Totals はユーザー数とお気に入り数を1クエリで返す。
func (r *PostgresStatsRepo) Totals(ctx context.Context) (model.Totals, error) {
	var totals model.Totals
	err := r.db.GetContext(ctx, &totals,
		`SELECT (SELECT COUNT(*) FROM users) AS users,
		        (SELECT COUNT(*) FROM favorites) AS favorites`,
	)
	if err != nil {
		return model.Totals{}, wrapStoreError("failed to count totals", err)
	}
	return totals, nil
}

// PopularPairs は登録数の降順、同数の場合はbase、targetの辞書順で通貨ペアを返す。
func (r *PostgresStatsRepo) PopularPairs(ctx context.Context, limit int) ([]model.PairStat, error) {
	pairs := []model.PairStat{}
	err := r.db.SelectContext(ctx, &pairs,
		`SELECT base, target, COUNT(*) AS count
		 FROM favorites
		 GROUP BY base, target
		 ORDER BY count DESC, base ASC, target ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, wrapStoreError("failed to aggregate popular pairs", err)
	}
	return pairs, nil
}

// compile-time interface check
var _ StatsRepository = (*PostgresStatsRepo)(nil)
