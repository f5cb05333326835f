package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/fxfav/internal/model"
)

// first_name、usernameはNULL許容のため、読み出し時は空文字列に正規化する。
const selectUserColumns = `tg_id, COALESCE(first_name, '') AS first_name, COALESCE(username, '') AS username, created_at`

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sqlx.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sqlx.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// Ensure はユーザーが存在しなければ作成し、行を返す。
// INSERT ... ON CONFLICT DO NOTHING のあとに同一トランザクション内でSELECTする。
// READ COMMITTEDでは後続のSELECTが競合相手のコミット済み行を参照できるため、
// 同時の初回登録でも主キー違反は呼び出し側に返らない。
func (r *PostgresUserRepo) Ensure(ctx context.Context, user *model.User) (*model.User, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, wrapStoreError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (tg_id, first_name, username)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		 ON CONFLICT (tg_id) DO NOTHING`,
		user.ID, user.FirstName, user.Username,
	)
	if err != nil {
		return nil, false, wrapStoreError("failed to insert user", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, false, wrapStoreError("failed to get rows affected", err)
	}

	stored := &model.User{}
	if err := tx.GetContext(ctx, stored,
		`SELECT `+selectUserColumns+` FROM users WHERE tg_id = $1`,
		user.ID,
	); err != nil {
		return nil, false, wrapStoreError("failed to select ensured user", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, wrapStoreError("failed to commit transaction", err)
	}

	return stored, inserted > 0, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.GetContext(ctx, user,
		`SELECT `+selectUserColumns+` FROM users WHERE tg_id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreError("failed to find user by ID", err)
	}

	return user, nil
}

// DeleteByID は指定IDのユーザーを削除する。
// favorites、user_rolesは同一文のCASCADEで削除されるため、
// 並行する一覧取得から孤立したお気に入りが見えることはない。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE tg_id = $1`,
		id,
	)
	if err != nil {
		return false, wrapStoreError("failed to delete user", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, wrapStoreError("failed to get rows affected", err)
	}
	return rowsAffected > 0, nil
}

// List はロール付きのユーザー一覧をtg_id昇順で返す。
func (r *PostgresUserRepo) List(ctx context.Context, limit, offset int) ([]model.UserWithRole, error) {
	users := []model.UserWithRole{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT u.tg_id, COALESCE(u.first_name, '') AS first_name, COALESCE(u.username, '') AS username,
		        u.created_at, COALESCE(ur.role, 'user') AS role
		 FROM users u
		 LEFT JOIN user_roles ur ON ur.tg_id = u.tg_id
		 ORDER BY u.tg_id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapStoreError("failed to list users", err)
	}
	return users, nil
}

// Count は登録ユーザー数を返す。
func (r *PostgresUserRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, wrapStoreError("failed to count users", err)
	}
	return count, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
