// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: user, favorite, validation, auth, system
	Action   string // 利用者向け対処方法
	Cause    error  // 下位レイヤーの元エラー（任意）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は元エラーを返す。
func (e *APIError) Unwrap() error {
	return e.Cause
}

// 定義済みエラーコード
const (
	ErrCodeUnknownUser      = "UNKNOWN_USER"
	ErrCodeDuplicatePair    = "DUPLICATE_PAIR"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeFavoriteNotFound = "FAVORITE_NOT_FOUND"
	ErrCodeInvalidPair      = "INVALID_PAIR"
	ErrCodeInvalidRole      = "INVALID_ROLE"
	ErrCodeInvalidUserID    = "INVALID_USER_ID"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// IsCode はerrのチェーン中に指定コードのAPIErrorが含まれるかを返す。
func IsCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// NewUnknownUserError は登録されていないユーザーを参照した場合のエラーを生成する。
func NewUnknownUserError(userID int64) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownUser,
		Message:  fmt.Sprintf("登録されていないユーザーです: %d", userID),
		Category: "user",
		Action:   "先にユーザーを登録してください。",
	}
}

// NewDuplicatePairError は同じ通貨ペアを二重に保存しようとした場合のエラーを生成する。
func NewDuplicatePairError(base, target string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicatePair,
		Message:  fmt.Sprintf("この通貨ペアは既にお気に入りに保存されています: %s → %s", base, target),
		Category: "favorite",
		Action:   "お気に入り一覧から該当ペアを確認してください。",
	}
}

// NewStoreUnavailableError はデータストアへの接続失敗・タイムアウトのエラーを生成する。
// リトライは呼び出し側の責務とする。
func NewStoreUnavailableError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodeStoreUnavailable,
		Message:  "データストアに接続できません。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
		Cause:    cause,
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID int64) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("ユーザーが見つかりません: %d", userID),
		Category: "user",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewFavoriteNotFoundError はお気に入りが見つからない場合のエラーを生成する。
func NewFavoriteNotFoundError(favoriteID int64) *APIError {
	return &APIError{
		Code:     ErrCodeFavoriteNotFound,
		Message:  fmt.Sprintf("指定されたお気に入りが見つかりません: %d", favoriteID),
		Category: "favorite",
		Action:   "お気に入りIDを確認してください。",
	}
}

// NewInvalidPairError は通貨コードの形式が不正な場合のエラーを生成する。
func NewInvalidPairError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPair,
		Message:  fmt.Sprintf("無効な通貨ペアです: %s", reason),
		Category: "validation",
		Action:   "通貨コードは1〜10文字で指定してください。",
	}
}

// NewInvalidRoleError は未定義のロールを指定した場合のエラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効なロールです: %s", role),
		Category: "validation",
		Action:   "ロールには user または admin を指定してください。",
	}
}

// NewInvalidUserIDError はユーザーIDが数値として解釈できない場合のエラーを生成する。
func NewInvalidUserIDError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidUserID,
		Message:  fmt.Sprintf("無効なユーザーIDです: %s", raw),
		Category: "validation",
		Action:   "ユーザーIDには数値を指定してください。",
	}
}

// NewInvalidRequestError はリクエストボディやクエリが解釈できない場合のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエストの形式を確認してください。",
	}
}

// NewUnauthorizedError は管理APIの認証に失敗した場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証に失敗しました。",
		Category: "auth",
		Action:   "Authorizationヘッダーに正しいトークンを指定してください。",
	}
}

// NewRateLimitedError はレート制限を超過した場合のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "Retry-Afterヘッダーの秒数だけ待ってから再度お試しください。",
	}
}

// NewInternalError は分類できない内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
