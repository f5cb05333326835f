// Package user はユーザー登録とロール管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hitoshi/fxfav/internal/metrics"
	"github.com/hitoshi/fxfav/internal/model"
	"github.com/hitoshi/fxfav/internal/repository"
)

// DefaultPageSize は管理画面のユーザー一覧の1ページあたりの件数。
const DefaultPageSize = 10

// maxPageSize はページサイズの上限。
const maxPageSize = 100

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	metrics  metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorがnilの場合はメトリクスを記録しない。
func NewService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	collector metrics.MetricsCollector,
) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		userRepo: userRepo,
		roleRepo: roleRepo,
		metrics:  collector,
	}
}

// EnsureUser はユーザーが未登録なら登録し、登録済みなら既存の行を返す。
// 既存ユーザーの名前は更新しない。
func (s *Service) EnsureUser(ctx context.Context, userID int64, firstName, username string) (*model.User, error) {
	start := time.Now()
	user, created, err := s.userRepo.Ensure(ctx, &model.User{
		ID:        userID,
		FirstName: firstName,
		Username:  username,
	})
	s.metrics.RecordStoreOperation("ensure_user", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("ユーザーの登録に失敗しました: %w", err)
	}

	if created {
		s.metrics.RecordUserRegistered()
		slog.Info("ユーザーを登録しました",
			slog.Int64("user_id", userID),
		)
	}
	return user, nil
}

// GetUser はユーザーを取得する。存在しない場合はUSER_NOT_FOUNDを返す。
func (s *Service) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	start := time.Now()
	user, err := s.userRepo.FindByID(ctx, userID)
	s.metrics.RecordStoreOperation("get_user", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}
	return user, nil
}

// DeleteUser はユーザーを削除する。お気に入りとロールはCASCADEで同時に削除される。
// 未登録ユーザーの場合はfalseを返し、エラーにはしない。
func (s *Service) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	start := time.Now()
	deleted, err := s.userRepo.DeleteByID(ctx, userID)
	s.metrics.RecordStoreOperation("delete_user", err, time.Since(start))
	if err != nil {
		return false, fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	if deleted {
		slog.Info("ユーザーを削除しました",
			slog.Int64("user_id", userID),
		)
	}
	return deleted, nil
}

// ListUsers はロール付きのユーザー一覧をページ単位で返す。
// pageは1始まり。範囲外の値は補正する。
func (s *Service) ListUsers(ctx context.Context, page, pageSize int) (*model.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	start := time.Now()
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		s.metrics.RecordStoreOperation("list_users", err, time.Since(start))
		return nil, fmt.Errorf("ユーザー数の取得に失敗しました: %w", err)
	}

	// オフセットがintに収まらないページは必ず範囲外なので、問い合わせずに空ページを返す
	if page-1 > math.MaxInt/pageSize {
		s.metrics.RecordStoreOperation("list_users", nil, time.Since(start))
		return &model.UserPage{
			Users:    []model.UserWithRole{},
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		}, nil
	}

	users, err := s.userRepo.List(ctx, pageSize, (page-1)*pageSize)
	s.metrics.RecordStoreOperation("list_users", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}

	return &model.UserPage{
		Users:    users,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// SetRole はユーザーのロールを設定する。
func (s *Service) SetRole(ctx context.Context, userID int64, role model.Role) error {
	if !role.Valid() {
		return model.NewInvalidRoleError(string(role))
	}

	start := time.Now()
	err := s.roleRepo.Upsert(ctx, userID, role)
	s.metrics.RecordStoreOperation("set_role", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("ロールの設定に失敗しました: %w", err)
	}

	slog.Info("ロールを変更しました",
		slog.Int64("user_id", userID),
		slog.String("role", string(role)),
	)
	return nil
}

// Role はユーザーのロールを返す。ロール未設定のユーザーはRoleUserとなる。
func (s *Service) Role(ctx context.Context, userID int64) (model.Role, error) {
	start := time.Now()
	role, err := s.roleRepo.FindByUserID(ctx, userID)
	s.metrics.RecordStoreOperation("get_role", err, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("ロールの取得に失敗しました: %w", err)
	}
	return role, nil
}

// IsAdmin はユーザーが管理者かどうかを返す。
func (s *Service) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	role, err := s.Role(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == model.RoleAdmin, nil
}
