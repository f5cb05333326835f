package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/fxfav/internal/model"
)

func TestStatsHandler_GetStats(t *testing.T) {
	var gotLimit int
	svc := &mockStatsService{
		totalsFn: func(ctx context.Context) (model.Totals, error) {
			return model.Totals{Users: 3, Favorites: 5}, nil
		},
		popularPairsFn: func(ctx context.Context, limit int) ([]model.PairStat, error) {
			gotLimit = limit
			return []model.PairStat{
				{Base: "USD", Target: "EUR", Count: 3},
				{Base: "GBP", Target: "JPY", Count: 1},
			}, nil
		},
	}
	h := NewStatsHandler(svc, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()

	h.GetStats(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if gotLimit != 10 {
		t.Errorf("limit = %d, want default 10", gotLimit)
	}

	var body statsResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Users != 3 || body.Favorites != 5 {
		t.Errorf("totals = %d/%d, want 3/5", body.Users, body.Favorites)
	}
	if len(body.PopularPairs) != 2 || body.PopularPairs[0].Count != 3 {
		t.Errorf("unexpected popular pairs: %+v", body.PopularPairs)
	}
}

func TestStatsHandler_GetStats_LimitQuery(t *testing.T) {
	var gotLimit int
	svc := &mockStatsService{
		totalsFn: func(ctx context.Context) (model.Totals, error) {
			return model.Totals{}, nil
		},
		popularPairsFn: func(ctx context.Context, limit int) ([]model.PairStat, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	h := NewStatsHandler(svc, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/stats?limit=3", nil)
	w := httptest.NewRecorder()

	h.GetStats(w, req)

	if gotLimit != 3 {
		t.Errorf("limit = %d, want 3", gotLimit)
	}
}

func TestStatsHandler_GetStats_Error(t *testing.T) {
	svc := &mockStatsService{
		totalsFn: func(ctx context.Context) (model.Totals, error) {
			return model.Totals{}, model.NewStoreUnavailableError(errors.New("connection refused"))
		},
	}
	h := NewStatsHandler(svc, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()

	h.GetStats(w, req)

	if w.Result().StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusServiceUnavailable)
	}
}
