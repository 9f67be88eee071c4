package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"budgetbook/models"
	"budgetbook/normalize"
	"budgetbook/store"
)

// ProfileLookup 按用户 ID 查询资料，不存在时返回 false
type ProfileLookup interface {
	Lookup(ctx context.Context, userID int) (models.Profile, bool, error)
}

// TransactionService 交易生命周期：校验、持久化、通知
type TransactionService struct {
	store    store.Store
	profiles ProfileLookup
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewTransactionService notifier 为 nil 时所有创建都记为 notification-skipped
func NewTransactionService(st store.Store, profiles ProfileLookup, notifier Notifier, logger *slog.Logger) *TransactionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionService{
		store:    st,
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateResult 创建结果，Warnings 只描述通知问题，交易已保存
type CreateResult struct {
	Transaction models.Transaction           `json:"transaction"`
	Warnings    []models.NotificationWarning `json:"warnings"`
	Notified    bool                         `json:"notified"`
}

// TransactionFilter 列表筛选条件，零值表示不限
type TransactionFilter struct {
	Type       models.EntryType
	CategoryID int
	Start      time.Time
	End        time.Time
}

func (f TransactionFilter) match(tx models.Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.CategoryID > 0 && tx.CategoryID != f.CategoryID {
		return false
	}
	if !f.Start.IsZero() && tx.Date.Before(models.TruncateDate(f.Start)) {
		return false
	}
	if !f.End.IsZero() && tx.Date.After(models.TruncateDate(f.End)) {
		return false
	}
	return true
}

// List 按日期倒序返回交易
func (s *TransactionService) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	records, err := s.store.Table(store.TableTransaction).FetchAll(ctx, nil)
	if err != nil {
		return nil, fetchError(store.TableTransaction, err)
	}

	all := normalize.Transactions(records)
	list := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if filter.match(tx) {
			list = append(list, tx)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (s *TransactionService) Get(ctx context.Context, id int) (models.Transaction, error) {
	rec, err := s.store.Table(store.TableTransaction).FetchByID(ctx, id, nil)
	if err != nil {
		return models.Transaction{}, fetchError(store.TableTransaction, err)
	}
	return normalize.Transaction(rec), nil
}

// Create 校验后写入交易，成功后再发送通知。通知失败不影响返回结果
func (s *TransactionService) Create(ctx context.Context, userID int, draft models.TransactionDraft) (*CreateResult, error) {
	tx, err := draft.Validate()
	if err != nil {
		return nil, err
	}
	category, err := s.checkCategory(ctx, tx)
	if err != nil {
		return nil, err
	}
	tx.CategoryName = category.Name
	tx.CreatedAt = s.now().UTC()

	resp, err := s.store.Table(store.TableTransaction).Create(ctx, []store.Record{normalize.TransactionRecord(tx)})
	res, err := firstResult("create", store.TableTransaction, resp, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "保存交易失败", "error", err, "title", tx.Title)
		return nil, err
	}
	tx = s.saved(res, tx)

	result := &CreateResult{Transaction: tx, Warnings: []models.NotificationWarning{}}
	if warning := s.notify(ctx, userID, tx, category.Name); warning != nil {
		result.Warnings = append(result.Warnings, *warning)
	} else {
		result.Notified = true
	}

	s.logger.InfoContext(ctx, "交易已创建",
		"transaction_id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"notified", result.Notified)
	return result, nil
}

// Update 校验后更新交易，不发送通知，不修改创建时间
func (s *TransactionService) Update(ctx context.Context, id int, draft models.TransactionDraft) (models.Transaction, error) {
	tx, err := draft.Validate()
	if err != nil {
		return models.Transaction{}, err
	}
	category, err := s.checkCategory(ctx, tx)
	if err != nil {
		return models.Transaction{}, err
	}
	tx.ID = id
	tx.CategoryName = category.Name

	resp, err := s.store.Table(store.TableTransaction).Update(ctx, []store.Record{normalize.TransactionUpdateRecord(tx)})
	res, err := firstResult("update", store.TableTransaction, resp, err)
	if err != nil {
		return models.Transaction{}, err
	}
	return s.saved(res, tx), nil
}

func (s *TransactionService) Delete(ctx context.Context, id int) error {
	resp, err := s.store.Table(store.TableTransaction).Delete(ctx, []int{id})
	_, err = firstResult("delete", store.TableTransaction, resp, err)
	return err
}

// DeleteReport 批量删除结果
type DeleteReport struct {
	Deleted []int         `json:"deleted"`
	Failed  []ItemFailure `json:"failed"`
}

// DeleteMany 尽力删除，单条失败记入 Failed，整体失败返回 PersistenceError
func (s *TransactionService) DeleteMany(ctx context.Context, ids []int) (*DeleteReport, error) {
	report := &DeleteReport{Deleted: []int{}, Failed: []ItemFailure{}}
	if len(ids) == 0 {
		return report, nil
	}

	resp, err := s.store.Table(store.TableTransaction).Delete(ctx, ids)
	if err != nil {
		return nil, &models.PersistenceError{Op: "delete", Table: store.TableTransaction, Err: err}
	}
	if !resp.Success {
		msg, _ := resp.Failure()
		return nil, &models.PersistenceError{Op: "delete", Table: store.TableTransaction, Message: msg}
	}

	for _, res := range resp.Results {
		if res.Success {
			report.Deleted = append(report.Deleted, res.ID)
			continue
		}
		report.Failed = append(report.Failed, ItemFailure{ID: res.ID, Message: res.Message})
	}
	if len(report.Failed) > 0 {
		s.logger.WarnContext(ctx, "部分交易删除失败", "failed", len(report.Failed), "deleted", len(report.Deleted))
	}
	return report, nil
}

// checkCategory 类别必须存在且与交易类型一致
func (s *TransactionService) checkCategory(ctx context.Context, tx models.Transaction) (models.Category, error) {
	rec, err := s.store.Table(store.TableCategory).FetchByID(ctx, tx.CategoryID, nil)
	if errors.Is(err, store.ErrNotFound) {
		return models.Category{}, models.NewValidationError("category", "类别不存在")
	}
	if err != nil {
		return models.Category{}, fetchError(store.TableCategory, err)
	}
	category := normalize.Category(rec)
	if category.Type != tx.Type {
		return models.Category{}, models.NewValidationError("category",
			fmt.Sprintf("类别「%s」不是%s类别", category.Name, typeLabel(tx.Type)))
	}
	return category, nil
}

// saved 以存储返回的数据为准，没有返回数据时沿用写入值
func (s *TransactionService) saved(res store.Result, tx models.Transaction) models.Transaction {
	if len(res.Data) == 0 {
		tx.ID = res.ID
		return tx
	}
	out := normalize.Transaction(res.Data)
	if out.ID == 0 {
		out.ID = res.ID
	}
	if out.CategoryName == "" {
		out.CategoryName = tx.CategoryName
	}
	return out
}

// notify 返回 nil 表示通知成功
func (s *TransactionService) notify(ctx context.Context, userID int, tx models.Transaction, label string) (warning *models.NotificationWarning) {
	if s.notifier == nil {
		return skipped("未配置通知渠道")
	}
	if s.profiles == nil {
		return skipped("未配置用户资料")
	}

	profile, ok, err := s.profiles.Lookup(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "查询用户资料失败，跳过通知", "error", err, "user_id", userID)
		return skipped("查询用户资料失败")
	}
	if !ok {
		return skipped("用户资料不存在")
	}
	recipient := profile.NotificationEmail()
	if recipient == "" {
		return skipped("用户未设置通知邮箱")
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "通知渠道异常", "panic", r, "transaction_id", tx.ID)
			warning = failed(fmt.Sprintf("通知渠道异常: %v", r))
		}
	}()

	result, err := s.notifier.Notify(ctx, Notification{
		RecipientEmail: recipient,
		Transaction:    tx,
		CategoryLabel:  label,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "发送交易通知失败", "error", err, "transaction_id", tx.ID)
		return failed(err.Error())
	}
	if !result.Success {
		reason := result.Message
		if reason == "" {
			reason = "通知渠道返回失败"
		}
		return failed(reason)
	}
	return nil
}

func skipped(reason string) *models.NotificationWarning {
	return &models.NotificationWarning{Code: models.NotificationSkipped, Reason: reason}
}

func failed(reason string) *models.NotificationWarning {
	return &models.NotificationWarning{Code: models.NotificationFailed, Reason: reason}
}

func typeLabel(t models.EntryType) string {
	if t == models.TypeIncome {
		return "收入"
	}
	return "支出"
}
