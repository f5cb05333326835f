package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/fxfav/internal/model"
)

// PostgresFavoriteRepo はPostgreSQLを使用したお気に入りリポジトリ。
type PostgresFavoriteRepo struct {
	db *sqlx.DB
}

// NewPostgresFavoriteRepo はPostgresFavoriteRepoを生成する。
func NewPostgresFavoriteRepo(db *sqlx.DB) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{db: db}
}

// Create はお気に入りを作成する。
// 重複判定は事前チェックせず、(tg_id, base, target)の一意制約に委ねる。
func (r *PostgresFavoriteRepo) Create(ctx context.Context, fav *model.Favorite) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO favorites (tg_id, base, target)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		fav.UserID, fav.Base, fav.Target,
	).Scan(&fav.ID)

	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		apiErr := model.NewDuplicatePairError(fav.Base, fav.Target)
		apiErr.Cause = err
		return apiErr
	case isForeignKeyViolation(err):
		apiErr := model.NewUnknownUserError(fav.UserID)
		apiErr.Cause = err
		return apiErr
	default:
		return wrapStoreError("お気に入りの作成に失敗しました", err)
	}
}

// DeleteByPair は指定ペアのお気に入りを削除し、削除件数を返す。
// 該当行がなくてもエラーにしない。
func (r *PostgresFavoriteRepo) DeleteByPair(ctx context.Context, userID int64, base, target string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE tg_id = $1 AND base = $2 AND target = $3`,
		userID, base, target,
	)
	if err != nil {
		return 0, wrapStoreError("お気に入りの削除に失敗しました", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, wrapStoreError("削除結果の取得に失敗しました", err)
	}
	return removed, nil
}

// DeleteByID は所有者を限定してIDでお気に入りを削除し、削除件数を返す。
func (r *PostgresFavoriteRepo) DeleteByID(ctx context.Context, userID, favoriteID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE id = $1 AND tg_id = $2`,
		favoriteID, userID,
	)
	if err != nil {
		return 0, wrapStoreError("お気に入りの削除に失敗しました", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, wrapStoreError("削除結果の取得に失敗しました", err)
	}
	return removed, nil
}

// FindByID は所有者を限定してIDでお気に入りを取得する。見つからない場合はnilを返す。
func (r *PostgresFavoriteRepo) FindByID(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error) {
	fav := &model.Favorite{}
	err := r.db.GetContext(ctx, fav,
		`SELECT id, tg_id, base, target FROM favorites WHERE id = $1 AND tg_id = $2`,
		favoriteID, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreError("お気に入りの取得に失敗しました", err)
	}
	return fav, nil
}

// ListByUserID はユーザーのお気に入り一覧を返す。
// OrderInsertionではid昇順（登録順）、OrderAlphabeticalではbase、targetの辞書順。
func (r *PostgresFavoriteRepo) ListByUserID(ctx context.Context, userID int64, order model.ListOrder) ([]model.Favorite, error) {
	orderBy := "id ASC"
	if order == model.OrderAlphabetical {
		orderBy = "base ASC, target ASC, id ASC"
	}

	favs := []model.Favorite{}
	err := r.db.SelectContext(ctx, &favs,
		`SELECT id, tg_id, base, target FROM favorites WHERE tg_id = $1 ORDER BY `+orderBy,
		userID,
	)
	if err != nil {
		return nil, wrapStoreError("お気に入り一覧の取得に失敗しました", err)
	}
	return favs, nil
}

// compile-time interface check
var _ FavoriteRepository = (*PostgresFavoriteRepo)(nil)
