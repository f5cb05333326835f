// Package model はドメインモデルを定義する。
package model

import "time"

// User はチャットボットの利用者を表す。
// IDはチャットプラットフォームが割り当てる外部IDで、このシステムでは採番しない。
type User struct {
	ID        int64     `db:"tg_id"`
	FirstName string    `db:"first_name"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

// Role はユーザーの権限を表す。
type Role string

const (
	// RoleUser は一般ユーザー。user_rolesに行がない場合もこの扱いになる。
	RoleUser Role = "user"
	// RoleAdmin は管理者。
	RoleAdmin Role = "admin"
)

// Valid はロールが定義済みの値かどうかを返す。
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserWithRole はユーザーとそのロールを結合した読み取りモデル。
type UserWithRole struct {
	User
	Role Role `db:"role"`
}

// UserPage はユーザー一覧の1ページ分を表す。
type UserPage struct {
	Users    []UserWithRole
	Page     int
	PageSize int
	Total    int
}

// TotalPages は総ページ数を返す。ユーザーが0件でも1を返す。
func (p UserPage) TotalPages() int {
	if p.Total == 0 || p.PageSize <= 0 {
		return 1
	}
	return (p.Total-1)/p.PageSize + 1
}
