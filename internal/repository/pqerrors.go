package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/lib/pq"

	"github.com/hitoshi/fxfav/internal/model"
)

// PostgreSQLのSQLSTATEコード
const (
	pqUniqueViolation     = pq.ErrorCode("23505")
	pqForeignKeyViolation = pq.ErrorCode("23503")
	pqQueryCanceled       = pq.ErrorCode("57014")
	pqAdminShutdown       = pq.ErrorCode("57P01")
	pqCrashShutdown       = pq.ErrorCode("57P02")
	pqCannotConnectNow    = pq.ErrorCode("57P03")
)

// isUniqueViolation はerrが一意制約違反かどうかを返す。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// isForeignKeyViolation はerrが外部キー制約違反かどうかを返す。
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

// isUnavailable は接続断・タイムアウトなど、呼び出し側のリトライで回復しうるエラーかを返す。
func isUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53": // connection_exception, insufficient_resources
			return true
		}
		switch pqErr.Code {
		case pqQueryCanceled, pqAdminShutdown, pqCrashShutdown, pqCannotConnectNow:
			return true
		}
	}
	return false
}

// wrapStoreError は操作失敗のエラーをラップする。
// 接続断・タイムアウトはSTORE_UNAVAILABLEのAPIErrorに変換する。
func wrapStoreError(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	if isUnavailable(err) {
		return model.NewStoreUnavailableError(wrapped)
	}
	return wrapped
}
