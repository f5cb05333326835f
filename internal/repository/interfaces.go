// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/fxfav/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Ensure はユーザーが存在しなければ作成し、存在すれば既存行を変更せずに返す。
	// createdは今回の呼び出しで行が作成された場合にtrueとなる。
	// 同一IDの同時初回登録でも主キー違反を返さない。
	Ensure(ctx context.Context, user *model.User) (stored *model.User, created bool, err error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	// favorites、user_rolesはCASCADE削除される。存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// List はロール付きのユーザー一覧をtg_id昇順で返す。
	List(ctx context.Context, limit, offset int) ([]model.UserWithRole, error)

	// Count は登録ユーザー数を返す。
	Count(ctx context.Context) (int, error)
}

// FavoriteRepository はお気に入り通貨ペアの永続化インターフェース。
type FavoriteRepository interface {
	// Create はお気に入りを作成し、採番されたIDをfavに設定する。
	// (tg_id, base, target)が重複する場合はDUPLICATE_PAIR、
	// ユーザーが存在しない場合はUNKNOWN_USERのAPIErrorを返す。
	Create(ctx context.Context, fav *model.Favorite) error

	// DeleteByPair は指定ペアのお気に入りを削除し、削除件数を返す。
	DeleteByPair(ctx context.Context, userID int64, base, target string) (int64, error)

	// DeleteByID は所有者を限定してIDでお気に入りを削除し、削除件数を返す。
	DeleteByID(ctx context.Context, userID, favoriteID int64) (int64, error)

	// FindByID は所有者を限定してIDでお気に入りを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error)

	// ListByUserID はユーザーのお気に入り一覧を返す。0件の場合は空スライスを返す。
	ListByUserID(ctx context.Context, userID int64, order model.ListOrder) ([]model.Favorite, error)
}

// RoleRepository はユーザーロールの永続化インターフェース。
type RoleRepository interface {
	// FindByUserID はユーザーのロールを返す。行がない場合はRoleUserを返す。
	FindByUserID(ctx context.Context, userID int64) (model.Role, error)

	// Upsert はユーザーのロールを設定する。
	// ユーザーが存在しない場合はUNKNOWN_USERのAPIErrorを返す。
	Upsert(ctx context.Context, userID int64, role model.Role) error
}

// StatsRepository は集計クエリのインターフェース。
type StatsRepository interface {
	// Totals はユーザー数とお気に入り数を返す。
	Totals(ctx context.Context) (model.Totals, error)

	// PopularPairs はお気に入り登録数の多い通貨ペアを最大limit件返す。
	PopularPairs(ctx context.Context, limit int) ([]model.PairStat, error)
}
