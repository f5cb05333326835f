package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitoshi/fxfav/internal/model"
)

// storeRetryAfterSeconds はSTORE_UNAVAILABLE応答で返す再試行までの秒数。
const storeRetryAfterSeconds = 5

// ErrorResponseBody は管理APIのエラーレスポンス。
// request_idはRequestIDミドルウェアを通った場合のみ含まれる。
type ErrorResponseBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Category  string `json:"category"`
	Action    string `json:"action"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteErrorResponse はAPIErrorをJSONで書き込む。
// ストア到達不能（503）の場合はRetry-Afterを付与する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	if apiErr.Code == model.ErrCodeStoreUnavailable && h.Get("Retry-After") == "" {
		h.Set("Retry-After", strconv.Itoa(storeRetryAfterSeconds))
	}
	w.WriteHeader(statusCode)

	body := ErrorResponseBody{
		Code:      apiErr.Code,
		Message:   apiErr.Message,
		Category:  apiErr.Category,
		Action:    apiErr.Action,
		RequestID: h.Get(RequestIDHeader),
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode error response",
			slog.String("code", apiErr.Code),
			slog.String("error", err.Error()),
		)
	}
}

// WriteInternalServerError はINTERNAL_ERRORの500を書き込む。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}
