package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicRecorder はハンドラーのpanic発生回数の記録先。
type PanicRecorder interface {
	RecordPanic()
}

// NewRecoveryMiddleware はハンドラーのpanicを捕捉してINTERNAL_ERRORの500を返すミドルウェアを生成する。
// http.ErrAbortHandlerはnet/httpの中断シグナルのため再送出する。
func NewRecoveryMiddleware(logger *slog.Logger, recorder PanicRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("stack", string(debug.Stack())),
				)
				if recorder != nil {
					recorder.RecordPanic()
				}
				WriteInternalServerError(w)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
