package store

import (
	"context"
	"errors"
	"fmt"

	"budgetbook/logger"
	"budgetbook/models"
	"budgetbook/normalize"

	"gorm.io/gorm"
)

// GormStore 基于 gorm 的存储，支持 mysql、postgres、sqlite
type GormStore struct {
	db     *gorm.DB
	tables map[string]Table
}

// NewGormStore 创建 gorm 存储，表结构需已迁移
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
		tables: map[string]Table{
			TableTransaction: &gormTable[models.TransactionRow]{db: db, name: TableTransaction, codec: transactionCodec},
			TableCategory:    &gormTable[models.CategoryRow]{db: db, name: TableCategory, codec: categoryCodec},
			TableBudget:      &gormTable[models.BudgetRow]{db: db, name: TableBudget, codec: budgetCodec},
			TableGoal:        &gormTable[models.GoalRow]{db: db, name: TableGoal, codec: goalCodec},
			TableProfile:     &gormTable[models.ProfileRow]{db: db, name: TableProfile, codec: profileCodec},
		},
	}
}

// Table 获取表操作句柄
func (s *GormStore) Table(name string) Table {
	if t, ok := s.tables[normalizeTable(name)]; ok {
		return t
	}
	return unknownTable{name: name}
}

// codec 表模型与记录之间的转换
type codec[R any] struct {
	toRecord func(*R) Record
	// apply 只写入记录中出现的字段
	apply func(*R, Record)
	id    func(*R) int
	setID func(*R, int)
	// clientID 创建时使用记录中的 Id
	clientID bool
	// categoryRef category_c 为类别引用，读取时展开为 {Id, Name}
	categoryRef bool
}

type gormTable[R any] struct {
	db    *gorm.DB
	name  string
	codec codec[R]
}

func (t *gormTable[R]) FetchAll(ctx context.Context, fields []string) ([]Record, error) {
	var rows []R
	if err := t.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询 %s 失败: %w", t.name, err)
	}
	records := make([]Record, 0, len(rows))
	for i := range rows {
		records = append(records, t.codec.toRecord(&rows[i]))
	}
	if err := t.expand(ctx, records); err != nil {
		return nil, err
	}
	for i := range records {
		records[i] = Project(records[i], fields)
	}
	return records, nil
}

func (t *gormTable[R]) FetchByID(ctx context.Context, id int, fields []string) (Record, error) {
	row, err := t.first(ctx, id)
	if err != nil {
		return nil, err
	}
	records := []Record{t.codec.toRecord(row)}
	if err := t.expand(ctx, records); err != nil {
		return nil, err
	}
	return Project(records[0], fields), nil
}

func (t *gormTable[R]) first(ctx context.Context, id int) (*R, error) {
	var row R
	err := t.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询 %s 失败: %w", t.name, err)
	}
	return &row, nil
}

// expand 批量查询被引用的类别名称，类别不存在时只保留 Id
func (t *gormTable[R]) expand(ctx context.Context, records []Record) error {
	if !t.codec.categoryRef || len(records) == 0 {
		return nil
	}
	seen := make(map[int]bool)
	var ids []int
	for _, rec := range records {
		if id := normalize.RefID(rec["category_c"]); id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var cats []models.CategoryRow
	if err := t.db.WithContext(ctx).Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return fmt.Errorf("查询类别失败: %w", err)
	}
	names := make(map[int]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.NameC
	}
	for _, rec := range records {
		id := normalize.RefID(rec["category_c"])
		if id <= 0 {
			continue
		}
		ref := map[string]any{"Id": id}
		if name, ok := names[id]; ok {
			ref["Name"] = name
		}
		rec["category_c"] = ref
	}
	return nil
}

// expandAfterWrite 写入已成功，展开失败只记录警告，category_c 保留为 Id
func (t *gormTable[R]) expandAfterWrite(ctx context.Context, records []Record) {
	if err := t.expand(ctx, records); err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "展开类别引用失败", "table", t.name, "error", err)
	}
}

func (t *gormTable[R]) Create(ctx context.Context, records []Record) (*BulkResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return systemic("没有需要创建的记录"), nil
	}

	resp := &BulkResponse{Success: true, Results: make([]Result, 0, len(records))}
	for _, rec := range records {
		var row R
		t.codec.apply(&row, rec)
		if t.codec.clientID {
			t.codec.setID(&row, normalize.Int(rec["Id"]))
		}
		if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
			resp.Results = append(resp.Results, Result{Message: err.Error()})
			continue
		}
		data := []Record{t.codec.toRecord(&row)}
		t.expandAfterWrite(ctx, data)
		resp.Results = append(resp.Results, Result{ID: t.codec.id(&row), Success: true, Data: data[0]})
	}
	return resp, nil
}

func (t *gormTable[R]) Update(ctx context.Context, records []Record) (*BulkResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return systemic("没有需要更新的记录"), nil
	}

	resp := &BulkResponse{Success: true, Results: make([]Result, 0, len(records))}
	for _, rec := range records {
		id := normalize.Int(rec["Id"])
		if id <= 0 {
			resp.Results = append(resp.Results, Result{ID: id, Message: MsgRecordNotExist})
			continue
		}
		row, err := t.first(ctx, id)
		if errors.Is(err, ErrNotFound) {
			resp.Results = append(resp.Results, Result{ID: id, Message: MsgRecordNotExist})
			continue
		}
		if err != nil {
			resp.Results = append(resp.Results, Result{ID: id, Message: err.Error()})
			continue
		}

		t.codec.apply(row, rec)
		t.codec.setID(row, id)
		if err := t.db.WithContext(ctx).Save(row).Error; err != nil {
			resp.Results = append(resp.Results, Result{ID: id, Message: err.Error()})
			continue
		}
		data := []Record{t.codec.toRecord(row)}
		t.expandAfterWrite(ctx, data)
		resp.Results = append(resp.Results, Result{ID: id, Success: true, Data: data[0]})
	}
	return resp, nil
}

func (t *gormTable[R]) Delete(ctx context.Context, ids []int) (*BulkResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return systemic("没有需要删除的记录"), nil
	}

	resp := &BulkResponse{Success: true, Results: make([]Result, 0, len(ids))}
	for _, id := range ids {
		res := t.db.WithContext(ctx).Delete(new(R), id)
		switch {
		case res.Error != nil:
			resp.Results = append(resp.Results, Result{ID: id, Message: res.Error.Error()})
		case res.RowsAffected == 0:
			resp.Results = append(resp.Results, Result{ID: id, Message: MsgRecordNotExist})
		default:
			resp.Results = append(resp.Results, Result{ID: id, Success: true})
		}
	}
	return resp, nil
}
