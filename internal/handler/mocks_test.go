package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/fxfav/internal/model"
)

// --- モック定義 ---

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	ensureUserFn func(ctx context.Context, userID int64, firstName, username string) (*model.User, error)
	getUserFn    func(ctx context.Context, userID int64) (*model.User, error)
	deleteUserFn func(ctx context.Context, userID int64) (bool, error)
	listUsersFn  func(ctx context.Context, page, pageSize int) (*model.UserPage, error)
	setRoleFn    func(ctx context.Context, userID int64, role model.Role) error
	roleFn       func(ctx context.Context, userID int64) (model.Role, error)
}

func (m *mockUserService) EnsureUser(ctx context.Context, userID int64, firstName, username string) (*model.User, error) {
	return m.ensureUserFn(ctx, userID, firstName, username)
}
func (m *mockUserService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return m.getUserFn(ctx, userID)
}
func (m *mockUserService) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	return m.deleteUserFn(ctx, userID)
}
func (m *mockUserService) ListUsers(ctx context.Context, page, pageSize int) (*model.UserPage, error) {
	return m.listUsersFn(ctx, page, pageSize)
}
func (m *mockUserService) SetRole(ctx context.Context, userID int64, role model.Role) error {
	return m.setRoleFn(ctx, userID, role)
}
func (m *mockUserService) Role(ctx context.Context, userID int64) (model.Role, error) {
	if m.roleFn != nil {
		return m.roleFn(ctx, userID)
	}
	return model.RoleUser, nil
}

// mockFavoriteService はFavoriteServiceInterfaceのモック実装。
type mockFavoriteService struct {
	addFn        func(ctx context.Context, userID int64, base, target string) (*model.Favorite, error)
	removeFn     func(ctx context.Context, userID int64, base, target string) (int64, error)
	removeByIDFn func(ctx context.Context, userID, favoriteID int64) (int64, error)
	getFn        func(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error)
	listFn       func(ctx context.Context, userID int64, order model.ListOrder) ([]model.Favorite, error)
}

func (m *mockFavoriteService) AddFavorite(ctx context.Context, userID int64, base, target string) (*model.Favorite, error) {
	return m.addFn(ctx, userID, base, target)
}
func (m *mockFavoriteService) RemoveFavorite(ctx context.Context, userID int64, base, target string) (int64, error) {
	return m.removeFn(ctx, userID, base, target)
}
func (m *mockFavoriteService) RemoveFavoriteByID(ctx context.Context, userID, favoriteID int64) (int64, error) {
	return m.removeByIDFn(ctx, userID, favoriteID)
}
func (m *mockFavoriteService) GetFavorite(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error) {
	return m.getFn(ctx, userID, favoriteID)
}
func (m *mockFavoriteService) ListFavorites(ctx context.Context, userID int64, order model.ListOrder) ([]model.Favorite, error) {
	return m.listFn(ctx, userID, order)
}

// mockStatsService はStatsServiceInterfaceのモック実装。
type mockStatsService struct {
	totalsFn       func(ctx context.Context) (model.Totals, error)
	popularPairsFn func(ctx context.Context, limit int) ([]model.PairStat, error)
}

func (m *mockStatsService) Totals(ctx context.Context) (model.Totals, error) {
	return m.totalsFn(ctx)
}
func (m *mockStatsService) PopularPairs(ctx context.Context, limit int) ([]model.PairStat, error) {
	return m.popularPairsFn(ctx, limit)
}

// mockPinger はPingerのモック実装。
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

// withURLParams はchiのURLパラメータをリクエストに設定する。
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest はJSONボディ付きのリクエストを生成する。
func newJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
