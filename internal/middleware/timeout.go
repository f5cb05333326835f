package middleware

import (
	"context"
	"net/http"
	"time"
)

// NewTimeoutMiddleware はリクエストコンテキストにタイムアウトを設定するミドルウェアを返す。
// タイムアウト時のレスポンスはハンドラー側（STORE_UNAVAILABLE）に任せる。
func NewTimeoutMiddleware(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
