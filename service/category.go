package service

import (
	"context"
	"log/slog"

	"budgetbook/catfilter"
	"budgetbook/models"
	"budgetbook/normalize"
	"budgetbook/store"
)

// CategoryService 类别管理
type CategoryService struct {
	store  store.Store
	logger *slog.Logger
}

func NewCategoryService(st store.Store, logger *slog.Logger) *CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{store: st, logger: logger}
}

// List 按录入顺序返回全部类别
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	records, err := s.store.Table(store.TableCategory).FetchAll(ctx, nil)
	if err != nil {
		return nil, fetchError(store.TableCategory, err)
	}
	return normalize.Categories(records), nil
}

func (s *CategoryService) Get(ctx context.Context, id int) (models.Category, error) {
	rec, err := s.store.Table(store.TableCategory).FetchByID(ctx, id, nil)
	if err != nil {
		return models.Category{}, fetchError(store.TableCategory, err)
	}
	return normalize.Category(rec), nil
}

// Options 表单下拉选项
func (s *CategoryService) Options(ctx context.Context, t models.EntryType, order catfilter.Order) ([]catfilter.Option, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return catfilter.FilterByType(categories, t, order), nil
}

func (s *CategoryService) Stats(ctx context.Context) (catfilter.Stats, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return catfilter.Stats{}, err
	}
	return catfilter.Counts(categories), nil
}

// Search 按名称搜索，term 为空时返回全部
func (s *CategoryService) Search(ctx context.Context, term string) ([]models.Category, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return catfilter.Search(categories, term), nil
}

// Create 用户创建的类别都不是默认类别
func (s *CategoryService) Create(ctx context.Context, c models.Category) (models.Category, error) {
	if err := c.Validate(); err != nil {
		return models.Category{}, err
	}
	c.ID = 0
	c.IsDefault = false

	resp, err := s.store.Table(store.TableCategory).Create(ctx, []store.Record{normalize.CategoryRecord(c)})
	res, err := firstResult("create", store.TableCategory, resp, err)
	if err != nil {
		return models.Category{}, err
	}
	c.ID = res.ID
	s.logger.InfoContext(ctx, "类别已创建", "category_id", c.ID, "name", c.Name)
	return c, nil
}

// Update 更新名称、类型和颜色，默认标记保持不变
func (s *CategoryService) Update(ctx context.Context, c models.Category) (models.Category, error) {
	if err := c.Validate(); err != nil {
		return models.Category{}, err
	}
	existing, err := s.Get(ctx, c.ID)
	if err != nil {
		return models.Category{}, err
	}
	c.IsDefault = existing.IsDefault

	resp, err := s.store.Table(store.TableCategory).Update(ctx, []store.Record{normalize.CategoryRecord(c)})
	if _, err := firstResult("update", store.TableCategory, resp, err); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// Delete 默认类别不能删除，此检查在访问存储之前完成。
// 被交易或预算引用的类别可以删除，读取时显示为 Unknown category
func (s *CategoryService) Delete(ctx context.Context, c models.Category) error {
	if c.IsDefault {
		return &models.ProtectedEntityError{Entity: "类别", ID: c.ID, Name: c.Name}
	}

	resp, err := s.store.Table(store.TableCategory).Delete(ctx, []int{c.ID})
	if _, err := firstResult("delete", store.TableCategory, resp, err); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "类别已删除", "category_id", c.ID, "name", c.Name)
	return nil
}

// SeedDefaults 类别表为空时写入默认类别，返回写入数量
func (s *CategoryService) SeedDefaults(ctx context.Context) (int, error) {
	tbl := s.store.Table(store.TableCategory)
	existing, err := tbl.FetchAll(ctx, []string{"name_c"})
	if err != nil {
		return 0, fetchError(store.TableCategory, err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	defaults := models.DefaultCategories()
	records := make([]store.Record, 0, len(defaults))
	for _, d := range defaults {
		records = append(records, normalize.CategoryRecord(models.Category{
			Name:      d.Name,
			Type:      d.Type,
			Color:     d.Color,
			IsDefault: true,
		}))
	}
	if err := store.Check(tbl.Create(ctx, records)); err != nil {
		return 0, &models.PersistenceError{Op: "seed", Table: store.TableCategory, Err: err}
	}
	s.logger.InfoContext(ctx, "已写入默认类别", "count", len(records))
	return len(records), nil
}
