package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/fxfav/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	EnsureUser(ctx context.Context, userID int64, firstName, username string) (*model.User, error)
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	// DeleteUser はユーザーを削除する。お気に入りとロールも同時に削除される。
	DeleteUser(ctx context.Context, userID int64) (bool, error)
	ListUsers(ctx context.Context, page, pageSize int) (*model.UserPage, error)
	SetRole(ctx context.Context, userID int64, role model.Role) error
	Role(ctx context.Context, userID int64) (model.Role, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        int64     `json:"tg_id"`
	FirstName string    `json:"first_name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Role      string    `json:"role,omitempty"`
}

// userPageResponse はユーザー一覧のAPIレスポンス。
type userPageResponse struct {
	Users      []userResponse `json:"users"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// ensureUserRequest はユーザー登録リクエストのボディ。
type ensureUserRequest struct {
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// setRoleRequest はロール設定リクエストのボディ。
type setRoleRequest struct {
	Role string `json:"role"`
}

func toUserResponse(u *model.User, role model.Role) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		Role:      string(role),
	}
}

// ListUsers はロール付きのユーザー一覧をページ単位で返す。
// GET /api/users?page=N&page_size=M
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListUsers(r.Context(), queryInt(r, "page", 1), queryInt(r, "page_size", 0))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	users := make([]userResponse, len(page.Users))
	for i := range page.Users {
		users[i] = toUserResponse(&page.Users[i].User, page.Users[i].Role)
	}

	writeJSON(w, http.StatusOK, userPageResponse{
		Users:      users,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages(),
	})
}

// EnsureUser はユーザーを登録する。登録済みの場合は既存のユーザーを返す。
// PUT /api/users/{id}
func (h *UserHandler) EnsureUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(w, r, "id")
	if !ok {
		return
	}

	var req ensureUserRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	user, err := h.service.EnsureUser(r.Context(), userID, req.FirstName, req.Username)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user, ""))
}

// GetUser はユーザーをロール付きで返す。
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(w, r, "id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	role, err := h.service.Role(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user, role))
}

// DeleteUser はユーザーを削除する。未登録ユーザーでも200を返し、deletedで結果を示す。
// DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.service.DeleteUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// SetRole はユーザーのロールを設定する。
// PUT /api/users/{id}/role
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(w, r, "id")
	if !ok {
		return
	}

	var req setRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SetRole(r.Context(), userID, model.Role(req.Role)); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
