package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/fxfav/internal/model"
)

// StatsServiceInterface は統計ハンドラーが必要とするサービスインターフェース。
type StatsServiceInterface interface {
	Totals(ctx context.Context) (model.Totals, error)
	PopularPairs(ctx context.Context, limit int) ([]model.PairStat, error)
}

// StatsHandler は統計情報のHTTPハンドラー。
type StatsHandler struct {
	service      StatsServiceInterface
	defaultLimit int
}

// NewStatsHandler はStatsHandlerを生成する。
func NewStatsHandler(service StatsServiceInterface, defaultLimit int) *StatsHandler {
	return &StatsHandler{
		service:      service,
		defaultLimit: defaultLimit,
	}
}

type pairStatResponse struct {
	Base   string `json:"base"`
	Target string `json:"target"`
	Count  int    `json:"count"`
}

type statsResponse struct {
	Users        int                `json:"users"`
	Favorites    int                `json:"favorites"`
	PopularPairs []pairStatResponse `json:"popular_pairs"`
}

// GetStats はユーザー数・お気に入り数と人気の通貨ペアを返す。
// GET /api/stats?limit=N
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.Totals(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	pairs, err := h.service.PopularPairs(r.Context(), queryInt(r, "limit", h.defaultLimit))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	popular := make([]pairStatResponse, len(pairs))
	for i, p := range pairs {
		popular[i] = pairStatResponse{Base: p.Base, Target: p.Target, Count: p.Count}
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Users:        totals.Users,
		Favorites:    totals.Favorites,
		PopularPairs: popular,
	})
}
