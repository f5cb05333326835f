package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/fxfav/internal/model"
)

// PostgresRoleRepo はPostgreSQLを使用したロールリポジトリ。
type PostgresRoleRepo struct {
	db *sqlx.DB
}

// NewPostgresRoleRepo はPostgresRoleRepoを生成する。
func NewPostgresRoleRepo(db *sqlx.DB) *PostgresRoleRepo {
	return &PostgresRoleRepo{db: db}
}

// FindByUserID はユーザーのロールを返す。行がない場合はRoleUserを返す。
func (r *PostgresRoleRepo) FindByUserID(ctx context.Context, userID int64) (model.Role, error) {
	var role string
	err := r.db.GetContext(ctx, &role,
		`SELECT role FROM user_roles WHERE tg_id = $1`,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RoleUser, nil
	}
	if err != nil {
		return "", wrapStoreError("failed to find role", err)
	}
	return model.Role(role), nil
}

// Upsert はユーザーのロールを設定する。
func (r *PostgresRoleRepo) Upsert(ctx context.Context, userID int64, role model.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (tg_id, role, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (tg_id) DO UPDATE SET role = EXCLUDED.role, updated_at = now()`,
		userID, string(role),
	)
	if isForeignKeyViolation(err) {
		apiErr := model.NewUnknownUserError(userID)
		apiErr.Cause = err
		return apiErr
	}
	if err != nil {
		return wrapStoreError("failed to upsert role", err)
	}
	return nil
}

// compile-time interface check
var _ RoleRepository = (*PostgresRoleRepo)(nil)
