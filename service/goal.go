package service

import (
	"context"
	"log/slog"
	"time"

	"budgetbook/models"
	"budgetbook/normalize"
	"budgetbook/store"
)

// GoalService 储蓄目标
type GoalService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewGoalService(st store.Store, logger *slog.Logger) *GoalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoalService{store: st, logger: logger, now: time.Now}
}

func (s *GoalService) List(ctx context.Context) ([]models.Goal, error) {
	records, err := s.store.Table(store.TableGoal).FetchAll(ctx, nil)
	if err != nil {
		return nil, fetchError(store.TableGoal, err)
	}
	return normalize.Goals(records), nil
}

func (s *GoalService) Get(ctx context.Context, id int) (models.Goal, error) {
	rec, err := s.store.Table(store.TableGoal).FetchByID(ctx, id, nil)
	if err != nil {
		return models.Goal{}, fetchError(store.TableGoal, err)
	}
	return normalize.Goal(rec), nil
}

func (s *GoalService) Create(ctx context.Context, g models.Goal) (models.Goal, error) {
	if err := g.Validate(); err != nil {
		return models.Goal{}, err
	}
	g.ID = 0
	g.CreatedAt = s.now().UTC()

	resp, err := s.store.Table(store.TableGoal).Create(ctx, []store.Record{normalize.GoalRecord(g)})
	res, err := firstResult("create", store.TableGoal, resp, err)
	if err != nil {
		return models.Goal{}, err
	}
	g.ID = res.ID
	s.logger.InfoContext(ctx, "储蓄目标已创建", "goal_id", g.ID, "name", g.Name)
	return g, nil
}

// Update 不修改创建时间
func (s *GoalService) Update(ctx context.Context, g models.Goal) (models.Goal, error) {
	if err := g.Validate(); err != nil {
		return models.Goal{}, err
	}
	resp, err := s.store.Table(store.TableGoal).Update(ctx, []store.Record{normalize.GoalUpdateRecord(g)})
	res, err := firstResult("update", store.TableGoal, resp, err)
	if err != nil {
		return models.Goal{}, err
	}
	if len(res.Data) > 0 {
		return normalize.Goal(res.Data), nil
	}
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, id int) error {
	resp, err := s.store.Table(store.TableGoal).Delete(ctx, []int{id})
	_, err = firstResult("delete", store.TableGoal, resp, err)
	return err
}
