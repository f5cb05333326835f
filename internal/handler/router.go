package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/fxfav/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger         *slog.Logger
	StatusRecorder middleware.StatusRecorder
	PanicRecorder  middleware.PanicRecorder
	RateLimiter    *middleware.RateLimiter
	AdminToken     string
	RequestTimeout time.Duration

	// 運用エンドポイント
	DB             Pinger
	MetricsHandler http.Handler

	// サービス
	UserService         UserServiceInterface
	FavoriteService     FavoriteServiceInterface
	StatsService        StatsServiceInterface
	PopularPairsDefault int
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → RequestID → Logging → Recovery → (/api のみ) Timeout → RateLimit → AdminAuth
//
// /health と /metrics は認証とレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimw.RealIP)
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, deps.StatusRecorder))
	r.Use(middleware.NewRecoveryMiddleware(logger, deps.PanicRecorder))

	userHandler := NewUserHandler(deps.UserService)
	favHandler := NewFavoriteHandler(deps.FavoriteService)
	statsHandler := NewStatsHandler(deps.StatsService, deps.PopularPairsDefault)

	// --- 認証不要のルート ---
	if deps.DB != nil {
		r.Get("/health", HealthHandler(deps.DB))
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 管理API ---
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewTimeoutMiddleware(deps.RequestTimeout))
		// 認証失敗もレート制限の対象にするため、認証より先に適用する
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}
		r.Use(middleware.NewAdminAuthMiddleware(deps.AdminToken))

		r.Get("/stats", statsHandler.GetStats)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Put("/", userHandler.EnsureUser)
				r.Delete("/", userHandler.DeleteUser)
				r.Put("/role", userHandler.SetRole)

				r.Route("/favorites", func(r chi.Router) {
					r.Get("/", favHandler.ListFavorites)
					r.Post("/", favHandler.AddFavorite)
					r.Delete("/", favHandler.RemoveFavorite)
					r.Get("/{favID}", favHandler.GetFavorite)
					r.Delete("/{favID}", favHandler.RemoveFavoriteByID)
				})
			})
		})
	})

	return r
}
