package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budgetbook/budgeting"
	"budgetbook/models"
	"budgetbook/normalize"
	"budgetbook/store"

	"golang.org/x/sync/errgroup"
)

// BudgetService 预算管理与概览
type BudgetService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewBudgetService(st store.Store, logger *slog.Logger) *BudgetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BudgetService{store: st, logger: logger, now: time.Now}
}

func (s *BudgetService) List(ctx context.Context) ([]models.Budget, error) {
	records, err := s.store.Table(store.TableBudget).FetchAll(ctx, nil)
	if err != nil {
		return nil, fetchError(store.TableBudget, err)
	}
	return normalize.Budgets(records), nil
}

func (s *BudgetService) Get(ctx context.Context, id int) (models.Budget, error) {
	rec, err := s.store.Table(store.TableBudget).FetchByID(ctx, id, nil)
	if err != nil {
		return models.Budget{}, fetchError(store.TableBudget, err)
	}
	return normalize.Budget(rec), nil
}

// Create 月份和年份缺省为当前月
func (s *BudgetService) Create(ctx context.Context, b models.Budget) (models.Budget, error) {
	now := s.now()
	if b.Month == "" {
		b.Month = models.MonthName(now.Month())
	}
	if b.Year == 0 {
		b.Year = now.Year()
	}
	if err := s.prepare(ctx, &b); err != nil {
		return models.Budget{}, err
	}
	b.ID = 0

	resp, err := s.store.Table(store.TableBudget).Create(ctx, []store.Record{normalize.BudgetRecord(b)})
	res, err := firstResult("create", store.TableBudget, resp, err)
	if err != nil {
		return models.Budget{}, err
	}
	b.ID = res.ID
	s.logger.InfoContext(ctx, "预算已创建", "budget_id", b.ID, "label", normalize.BudgetLabel(b))
	return b, nil
}

// Update keepSpent 为 true 时不写 spent_c，返回存储中的已支出金额
func (s *BudgetService) Update(ctx context.Context, b models.Budget, keepSpent bool) (models.Budget, error) {
	if err := s.prepare(ctx, &b); err != nil {
		return models.Budget{}, err
	}
	rec := normalize.BudgetRecord(b)
	if keepSpent {
		delete(rec, "spent_c")
	}
	resp, err := s.store.Table(store.TableBudget).Update(ctx, []store.Record{rec})
	res, err := firstResult("update", store.TableBudget, resp, err)
	if err != nil {
		return models.Budget{}, err
	}
	if keepSpent && len(res.Data) > 0 {
		b.Spent = normalize.Budget(res.Data).Spent
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, id int) error {
	resp, err := s.store.Table(store.TableBudget).Delete(ctx, []int{id})
	_, err = firstResult("delete", store.TableBudget, resp, err)
	return err
}

// prepare 校验字段，类别必须存在且为支出类别
func (s *BudgetService) prepare(ctx context.Context, b *models.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	rec, err := s.store.Table(store.TableCategory).FetchByID(ctx, b.CategoryID, nil)
	if errors.Is(err, store.ErrNotFound) {
		return models.NewValidationError("category", "类别不存在")
	}
	if err != nil {
		return fetchError(store.TableCategory, err)
	}
	category := normalize.Category(rec)
	if category.Type != models.TypeExpense {
		return models.NewValidationError("category", fmt.Sprintf("类别「%s」不是支出类别", category.Name))
	}
	b.CategoryName = category.Name
	return nil
}

// snapshot 概览所需的三张表
type snapshot struct {
	budgets      []models.Budget
	categories   []models.Category
	transactions []models.Transaction
}

// load 并发读取预算、类别和交易
func (s *BudgetService) load(ctx context.Context) (*snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := s.store.Table(store.TableBudget).FetchAll(gctx, nil)
		if err != nil {
			return fetchError(store.TableBudget, err)
		}
		snap.budgets = normalize.Budgets(records)
		return nil
	})
	g.Go(func() error {
		records, err := s.store.Table(store.TableCategory).FetchAll(gctx, nil)
		if err != nil {
			return fetchError(store.TableCategory, err)
		}
		snap.categories = normalize.Categories(records)
		return nil
	})
	g.Go(func() error {
		records, err := s.store.Table(store.TableTransaction).FetchAll(gctx, nil)
		if err != nil {
			return fetchError(store.TableTransaction, err)
		}
		snap.transactions = normalize.Transactions(records)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Overview 预算概览，period 为零值时包含全部预算
func (s *BudgetService) Overview(ctx context.Context, period budgeting.Period) ([]budgeting.View, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	budgets := make([]models.Budget, 0, len(snap.budgets))
	for _, b := range snap.budgets {
		year, month, _ := b.Period()
		if period.Year != 0 && year != period.Year {
			continue
		}
		if period.Month != 0 && month != period.Month {
			continue
		}
		budgets = append(budgets, b)
	}
	return budgeting.Overview(budgets, snap.categories, snap.transactions), nil
}

// ReconcileReport 回写结果
type ReconcileReport struct {
	Checked int           `json:"checked"`
	Updated []int         `json:"updated"`
	Failed  []ItemFailure `json:"failed"`
}

// Reconcile 将按交易汇总的支出写回存储中不一致的预算
func (s *BudgetService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	views, err := s.Overview(ctx, budgeting.Period{})
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{Checked: len(views), Updated: []int{}, Failed: []ItemFailure{}}
	records := make([]store.Record, 0)
	for _, v := range views {
		if !v.Diverged {
			continue
		}
		records = append(records, store.Record{"Id": v.Budget.ID, "spent_c": v.Spent})
	}
	if len(records) == 0 {
		return report, nil
	}

	resp, err := s.store.Table(store.TableBudget).Update(ctx, records)
	if err != nil {
		return nil, &models.PersistenceError{Op: "reconcile", Table: store.TableBudget, Err: err}
	}
	if !resp.Success {
		msg, _ := resp.Failure()
		return nil, &models.PersistenceError{Op: "reconcile", Table: store.TableBudget, Message: msg}
	}
	for _, res := range resp.Results {
		if res.Success {
			report.Updated = append(report.Updated, res.ID)
			continue
		}
		report.Failed = append(report.Failed, ItemFailure{ID: res.ID, Message: res.Message})
	}

	s.logger.InfoContext(ctx, "预算支出已回写", "updated", len(report.Updated), "failed", len(report.Failed))
	return report, nil
}

// CategoryReport 按类别汇总指定类型的交易
func (s *BudgetService) CategoryReport(ctx context.Context, t models.EntryType, period budgeting.Period) (budgeting.Report, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return budgeting.Report{}, err
	}
	return budgeting.CategoryTotals(snap.categories, snap.transactions, t, period), nil
}
