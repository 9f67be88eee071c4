package store

import (
	"context"
	"sync"

	"budgetbook/normalize"
)

// MemoryStore 进程内存储，用于测试、命令行演示和 memory 驱动
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*memTable
}

type memTable struct {
	nextID int
	rows   map[int]Record
}

// NewMemoryStore 创建包含全部表的空存储
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{tables: make(map[string]*memTable)}
	for _, name := range TableNames() {
		s.tables[name] = &memTable{nextID: 1, rows: make(map[int]Record)}
	}
	return s
}

// Table 获取表操作句柄
func (s *MemoryStore) Table(name string) Table {
	name = normalizeTable(name)
	if _, ok := s.tables[name]; !ok {
		return unknownTable{name: name}
	}
	return &memoryTable{store: s, name: name}
}

type memoryTable struct {
	store *MemoryStore
	name  string
}

func (t *memoryTable) data() *memTable {
	return t.store.tables[t.name]
}

// hasCategoryRef 该表的 category_c 为类别引用
func (t *memoryTable) hasCategoryRef() bool {
	return t.name == TableTransaction || t.name == TableBudget
}

// expand 将 category_c 展开为 {Id, Name}，类别不存在时只保留 Id。调用方需持有读锁
func (t *memoryTable) expand(rec Record) Record {
	out := Clone(rec)
	if !t.hasCategoryRef() {
		return out
	}
	id := normalize.RefID(rec["category_c"])
	if id <= 0 {
		return out
	}
	ref := map[string]any{"Id": id}
	if cat, ok := t.store.tables[TableCategory].rows[id]; ok {
		ref["Name"] = cat["name_c"]
	}
	out["category_c"] = ref
	return out
}

// prepare 写入前将引用字段统一为裸 ID
func (t *memoryTable) prepare(rec Record) Record {
	out := Clone(rec)
	delete(out, "Id")
	if t.hasCategoryRef() {
		if v, ok := out["category_c"]; ok && v != nil {
			out["category_c"] = normalize.RefID(v)
		}
	}
	return out
}

func (t *memoryTable) FetchAll(ctx context.Context, fields []string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	records := make([]Record, 0, len(t.data().rows))
	for _, rec := range t.data().rows {
		records = append(records, Project(t.expand(rec), fields))
	}
	SortByID(records)
	return records, nil
}

func (t *memoryTable) FetchByID(ctx context.Context, id int, fields []string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	rec, ok := t.data().rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return Project(t.expand(rec), fields), nil
}

func (t *memoryTable) Create(ctx context.Context, records []Record) (*BulkResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return systemic("没有需要创建的记录"), nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	data := t.data()
	resp := &BulkResponse{Success: true, Results: make([]Result, 0, len(records))}
	for _, rec := range records {
		id := 0
		if t.name == TableProfile {
			id = normalize.Int(rec["Id"])
		}
		if id > 0 {
			if _, exists := data.rows[id]; exists {
				resp.Results = append(resp.Results, Result{ID: id, Message: "Record already exists"})
				continue
			}
			if id >= data.nextID {
				data.nextID = id + 1
			}
		} else {
			id = data.nextID
			data.nextID++
		}

		row := t.prepare(rec)
		row["Id"] = id
		data.rows[id] = row
		resp.Results = append(resp.Results, Result{ID: id, Success: true, Data: t.expand(row)})
	}
	return resp, nil
}

func (t *memoryTable) Update(ctx context.Context, records []Record) (*BulkResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return systemic("没有需要更新的记录"), nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	data := t.data()
	resp := &BulkResponse{Success: true, Results: make([]Result, 0, len(records))}
	for _, rec := range records {
		id := normalize.Int(rec["Id"])
		row, ok := data.rows[id]
		if id <= 0 || !ok {
			resp.Results = append(resp.Results, Result{ID: id, Message: MsgRecordNotExist})
			continue
		}
		for k, v := range t.prepare(rec) {
			row[k] = v
		}
		resp.Results = append(resp.Results, Result{ID: id, Success: true, Data: t.expand(row)})
	}
	return resp, nil
}

func (t *memoryTable) Delete(ctx context.Context, ids []int) (*BulkResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return systemic("没有需要删除的记录"), nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	data := t.data()
	resp := &BulkResponse{Success: true, Results: make([]Result, 0, len(ids))}
	for _, id := range ids {
		if _, ok := data.rows[id]; !ok {
			resp.Results = append(resp.Results, Result{ID: id, Message: MsgRecordNotExist})
			continue
		}
		delete(data.rows, id)
		resp.Results = append(resp.Results, Result{ID: id, Success: true})
	}
	return resp, nil
}
