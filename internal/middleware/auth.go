package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/fxfav/internal/model"
)

const bearerPrefix = "Bearer "

// NewAdminAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証するミドルウェアを返す。
// トークンが一致しない場合は401 Unauthorizedを返す。
// tokenが空の場合はすべてのリクエストを拒否する。
func NewAdminAuthMiddleware(token string) func(next http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if len(expected) == 0 || !strings.HasPrefix(header, bearerPrefix) {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			given := []byte(strings.TrimPrefix(header, bearerPrefix))
			if subtle.ConstantTimeCompare(given, expected) != 1 {
				slog.Warn("admin authentication failed",
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("remote_addr", r.RemoteAddr),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
