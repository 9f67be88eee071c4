package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"budgetbook/models"
	"budgetbook/normalize"
	"budgetbook/store"
)

// Identity 令牌中的用户信息
type Identity struct {
	ID    int
	Name  string
	Email string
}

// ProfileService 用户资料，资料 ID 即用户 ID
type ProfileService struct {
	store  store.Store
	logger *slog.Logger
}

func NewProfileService(st store.Store, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{store: st, logger: logger}
}

// Lookup 实现 ProfileLookup
func (s *ProfileService) Lookup(ctx context.Context, userID int) (models.Profile, bool, error) {
	rec, err := s.store.Table(store.TableProfile).FetchByID(ctx, userID, nil)
	if errors.Is(err, store.ErrNotFound) {
		return models.Profile{}, false, nil
	}
	if err != nil {
		return models.Profile{}, false, fetchError(store.TableProfile, err)
	}
	return normalize.Profile(rec), true, nil
}

// Get 资料不存在时以令牌中的姓名和邮箱创建
func (s *ProfileService) Get(ctx context.Context, id Identity) (models.Profile, error) {
	p, ok, err := s.Lookup(ctx, id.ID)
	if err != nil {
		return models.Profile{}, err
	}
	if ok {
		return p, nil
	}

	p = models.Profile{ID: id.ID, Name: strings.TrimSpace(id.Name), Email: strings.TrimSpace(id.Email)}
	resp, err := s.store.Table(store.TableProfile).Create(ctx, []store.Record{normalize.ProfileRecord(p)})
	if _, err := firstResult("create", store.TableProfile, resp, err); err != nil {
		return models.Profile{}, err
	}
	s.logger.InfoContext(ctx, "已创建用户资料", "user_id", id.ID)
	return p, nil
}

// Update 只能修改自己的资料，ID 以当前用户为准
func (s *ProfileService) Update(ctx context.Context, userID int, p models.Profile) (models.Profile, error) {
	p.ID = userID
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.Name == "" {
		return models.Profile{}, models.NewValidationError("name", "姓名不能为空")
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return models.Profile{}, models.NewValidationError("email", "邮箱格式错误")
	}

	_, exists, err := s.Lookup(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}

	tbl := s.store.Table(store.TableProfile)
	rec := normalize.ProfileRecord(p)
	if exists {
		resp, err := tbl.Update(ctx, []store.Record{rec})
		_, err = firstResult("update", store.TableProfile, resp, err)
		if err != nil {
			return models.Profile{}, err
		}
		return p, nil
	}
	resp, err := tbl.Create(ctx, []store.Record{rec})
	if _, err := firstResult("create", store.TableProfile, resp, err); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}
