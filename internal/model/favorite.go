package model

// Favorite はユーザーが保存した通貨ペアを表す。
// (UserID, Base, Target) の組はユーザーごとに一意。
type Favorite struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"tg_id"`
	Base   string `db:"base"`
	Target string `db:"target"`
}

// PairStat は通貨ペアごとのお気に入り登録数。
type PairStat struct {
	Base   string `db:"base"`
	Target string `db:"target"`
	Count  int    `db:"count"`
}

// ListOrder はお気に入り一覧の並び順。
type ListOrder string

const (
	// OrderInsertion は登録順（id昇順）。デフォルト。
	OrderInsertion ListOrder = "insertion"
	// OrderAlphabetical はbase、targetの辞書順。
	OrderAlphabetical ListOrder = "alpha"
)

// ParseListOrder は文字列から並び順を解析する。未知の値は登録順として扱う。
func ParseListOrder(s string) ListOrder {
	if ListOrder(s) == OrderAlphabetical {
		return OrderAlphabetical
	}
	return OrderInsertion
}

// Totals はユーザー数とお気に入り数の集計値。
type Totals struct {
	Users     int `db:"users"`
	Favorites int `db:"favorites"`
}
