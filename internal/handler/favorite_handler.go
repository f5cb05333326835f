package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/fxfav/internal/middleware"
	"github.com/hitoshi/fxfav/internal/model"
)

// FavoriteServiceInterface はお気に入りハンドラーが必要とするサービスインターフェース。
type FavoriteServiceInterface interface {
	AddFavorite(ctx context.Context, userID int64, base, target string) (*model.Favorite, error)
	RemoveFavorite(ctx context.Context, userID int64, base, target string) (int64, error)
	RemoveFavoriteByID(ctx context.Context, userID, favoriteID int64) (int64, error)
	GetFavorite(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error)
	ListFavorites(ctx context.Context, userID int64, order model.ListOrder) ([]model.Favorite, error)
}

// FavoriteHandler はお気に入り管理のHTTPハンドラー。
type FavoriteHandler struct {
	service FavoriteServiceInterface
}

// NewFavoriteHandler はFavoriteHandlerを生成する。
func NewFavoriteHandler(service FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
	}
}

// favoriteResponse はお気に入りのAPIレスポンス。
type favoriteResponse struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"tg_id"`
	Base   string `json:"base"`
	Target string `json:"target"`
}

// pairRequest は通貨ペア指定のリクエストボディ。
type pairRequest struct {
	Base   string `json:"base"`
	Target string `json:"target"`
}

// removedResponse は削除件数のAPIレスポンス。
type removedResponse struct {
	Removed int64 `json:"removed"`
}

func toFavoriteResponse(f *model.Favorite) favoriteResponse {
	return favoriteResponse{
		ID:     f.ID,
		UserID: f.UserID,
		Base:   f.Base,
		Target: f.Target,
	}
}

// ListFavorites はユーザーのお気に入り一覧を返す。
// GET /api/users/{id}/favorites?order=alpha
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(w, r, "id")
	if !ok {
		return
	}

	order := model.ParseListOrder(r.URL.Query().Get("order"))
	favs, err := h.service.ListFavorites(r.Context(), userID, order)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]favoriteResponse, len(favs))
	for i := range favs {
		resp[i] = toFavoriteResponse(&favs[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddFavorite はお気に入りに通貨ペアを追加する。
// POST /api/users/{id}/favorites
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(w, r, "id")
	if !ok {
		return
	}

	var req pairRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fav, err := h.service.AddFavorite(r.Context(), userID, req.Base, req.Target)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFavoriteResponse(fav))
}

// RemoveFavorite は通貨ペアを指定してお気に入りから削除する。
// DELETE /api/users/{id}/favorites?base=USD&target=EUR
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(w, r, "id")
	if !ok {
		return
	}

	q := r.URL.Query()
	base, target := q.Get("base"), q.Get("target")
	if base == "" || target == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidPairError("baseとtargetを指定してください"))
		return
	}

	removed, err := h.service.RemoveFavorite(r.Context(), userID, base, target)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, removedResponse{Removed: removed})
}

// GetFavorite はIDを指定してお気に入りを1件返す。
// GET /api/users/{id}/favorites/{favID}
func (h *FavoriteHandler) GetFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(w, r, "id")
	if !ok {
		return
	}
	favID, ok := parseInt64Param(w, r, "favID")
	if !ok {
		return
	}

	fav, err := h.service.GetFavorite(r.Context(), userID, favID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFavoriteResponse(fav))
}

// RemoveFavoriteByID はIDを指定してお気に入りを削除する。
// DELETE /api/users/{id}/favorites/{favID}
func (h *FavoriteHandler) RemoveFavoriteByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseInt64Param(w, r, "id")
	if !ok {
		return
	}
	favID, ok := parseInt64Param(w, r, "favID")
	if !ok {
		return
	}

	removed, err := h.service.RemoveFavoriteByID(r.Context(), userID, favID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, removedResponse{Removed: removed})
}
