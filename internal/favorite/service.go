// Package favorite はお気に入り通貨ペアのドメインロジックを提供する。
package favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/fxfav/internal/metrics"
	"github.com/hitoshi/fxfav/internal/model"
	"github.com/hitoshi/fxfav/internal/repository"
)

const (
	// DefaultPopularLimit は人気ペア集計のデフォルト件数。
	DefaultPopularLimit = 10
	// MaxPopularLimit は人気ペア集計で返す最大件数。
	MaxPopularLimit = 100
)

// pairInput は通貨ペアの入力形式。列定義 VARCHAR(10) NOT NULL に合わせる。
// 通貨コード自体の妥当性は検証しない。
type pairInput struct {
	Base   string `validate:"required,max=10"`
	Target string `validate:"required,max=10"`
}

// Service はお気に入り管理のサービス層。
type Service struct {
	favRepo   repository.FavoriteRepository
	statsRepo repository.StatsRepository
	metrics   metrics.MetricsCollector
	validate  *validator.Validate
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	favRepo repository.FavoriteRepository,
	statsRepo repository.StatsRepository,
	collector metrics.MetricsCollector,
) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		favRepo:   favRepo,
		statsRepo: statsRepo,
		metrics:   collector,
		validate:  validator.New(),
	}
}

// storable はPostgreSQLのテキスト列に保存できる文字列かどうかを返す。
// 不正なUTF-8とNULバイトはSQLSTATE 22021で拒否される。
func storable(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// validatePair は通貨ペアの形式を検証する。
func (s *Service) validatePair(base, target string) error {
	for _, f := range []struct{ name, value string }{{"base", base}, {"target", target}} {
		if !storable(f.value) {
			return model.NewInvalidPairError(f.name + "に使用できない文字が含まれています")
		}
	}

	err := s.validate.Struct(pairInput{Base: base, Target: target})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewInvalidPairError(err.Error())
	}
	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			reasons = append(reasons, field+"が空です")
		case "max":
			reasons = append(reasons, field+"が10文字を超えています")
		default:
			reasons = append(reasons, field+"が不正です")
		}
	}
	return model.NewInvalidPairError(strings.Join(reasons, ", "))
}

// AddFavorite はお気に入りに通貨ペアを追加する。
// 重複はDBの一意制約で判定し、DUPLICATE_PAIR を返す。
// ユーザーが未登録の場合は UNKNOWN_USER を返す。
func (s *Service) AddFavorite(ctx context.Context, userID int64, base, target string) (*model.Favorite, error) {
	if err := s.validatePair(base, target); err != nil {
		return nil, err
	}

	fav := &model.Favorite{UserID: userID, Base: base, Target: target}

	start := time.Now()
	err := s.favRepo.Create(ctx, fav)
	s.metrics.RecordStoreOperation("add_favorite", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("お気に入りの追加に失敗しました: %w", err)
	}

	slog.Info("お気に入りを追加しました",
		slog.Int64("user_id", userID),
		slog.String("base", base),
		slog.String("target", target),
	)
	return fav, nil
}

// RemoveFavorite は通貨ペアをお気に入りから削除し、削除件数を返す。
// 登録されていないペアの場合は0を返す。
func (s *Service) RemoveFavorite(ctx context.Context, userID int64, base, target string) (int64, error) {
	// 保存できない文字列のペアは存在し得ない
	if !storable(base) || !storable(target) {
		return 0, nil
	}

	start := time.Now()
	removed, err := s.favRepo.DeleteByPair(ctx, userID, base, target)
	s.metrics.RecordStoreOperation("remove_favorite", err, time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	return removed, nil
}

// RemoveFavoriteByID はIDを指定してお気に入りを削除する。
// 他ユーザーのお気に入りは削除しない。
func (s *Service) RemoveFavoriteByID(ctx context.Context, userID, favoriteID int64) (int64, error) {
	start := time.Now()
	removed, err := s.favRepo.DeleteByID(ctx, userID, favoriteID)
	s.metrics.RecordStoreOperation("remove_favorite", err, time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("お気に入りの削除に失敗しました: %w", err)
	}
	return removed, nil
}

// GetFavorite はユーザーのお気に入りを1件取得する。
func (s *Service) GetFavorite(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error) {
	start := time.Now()
	fav, err := s.favRepo.FindByID(ctx, userID, favoriteID)
	s.metrics.RecordStoreOperation("get_favorite", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("お気に入りの取得に失敗しました: %w", err)
	}
	if fav == nil {
		return nil, model.NewFavoriteNotFoundError(favoriteID)
	}
	return fav, nil
}

// ListFavorites はユーザーのお気に入り一覧を返す。
// 未登録ユーザーやお気に入りがない場合は空スライスを返す。
func (s *Service) ListFavorites(ctx context.Context, userID int64, order model.ListOrder) ([]model.Favorite, error) {
	start := time.Now()
	favs, err := s.favRepo.ListByUserID(ctx, userID, order)
	s.metrics.RecordStoreOperation("list_favorites", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("お気に入り一覧の取得に失敗しました: %w", err)
	}
	return favs, nil
}

// PopularPairs は登録数の多い通貨ペアを返す。
// limitは1〜MaxPopularLimitに補正する。
func (s *Service) PopularPairs(ctx context.Context, limit int) ([]model.PairStat, error) {
	if limit < 1 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}

	start := time.Now()
	pairs, err := s.statsRepo.PopularPairs(ctx, limit)
	s.metrics.RecordStoreOperation("popular_pairs", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("人気ペアの集計に失敗しました: %w", err)
	}
	return pairs, nil
}

// Totals はユーザー数とお気に入り数を返す。
func (s *Service) Totals(ctx context.Context) (model.Totals, error) {
	start := time.Now()
	totals, err := s.statsRepo.Totals(ctx)
	s.metrics.RecordStoreOperation("totals", err, time.Since(start))
	if err != nil {
		return model.Totals{}, fmt.Errorf("件数の集計に失敗しました: %w", err)
	}
	return totals, nil
}
