// Package store 定义记录存储接口：按表进行记录的增删改查，ID 由服务端分配。
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// 表名
const (
	TableTransaction = "transaction"
	TableCategory    = "category"
	TableBudget      = "budget"
	TableGoal        = "goal"
	TableProfile     = "profile"
)

// TableNames 全部表名
func TableNames() []string {
	return []string{TableTransaction, TableCategory, TableBudget, TableGoal, TableProfile}
}

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// MsgRecordNotExist 批量操作中单条记录不存在时的提示
const MsgRecordNotExist = "Record does not exist"

// Record 原始记录，字段名为规范字段，系统字段为 Id 和 Name
type Record = map[string]any

// Result 批量操作中单条记录的结果
type Result struct {
	ID      int    `json:"id"`
	Success bool   `json:"success"`
	Data    Record `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// BulkResponse 批量操作结果
// Success 为 false 表示整体失败，与单条记录失败相互独立
type BulkResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Results []Result `json:"results"`
}

// Failure 返回整体失败或第一条失败记录的信息
func (r *BulkResponse) Failure() (string, bool) {
	if r == nil {
		return "存储未返回结果", true
	}
	if !r.Success {
		if r.Message == "" {
			return "存储操作失败", true
		}
		return r.Message, true
	}
	for _, res := range r.Results {
		if !res.Success {
			if res.Message == "" {
				return fmt.Sprintf("记录 %d 操作失败", res.ID), true
			}
			return res.Message, true
		}
	}
	return "", false
}

// Succeeded 成功的记录
func (r *BulkResponse) Succeeded() []Result {
	if r == nil {
		return nil
	}
	out := make([]Result, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Success {
			out = append(out, res)
		}
	}
	return out
}

// Table 单表操作
type Table interface {
	// FetchAll fields 为空时返回全部字段
	FetchAll(ctx context.Context, fields []string) ([]Record, error)
	// FetchByID 记录不存在时返回 ErrNotFound
	FetchByID(ctx context.Context, id int, fields []string) (Record, error)
	Create(ctx context.Context, records []Record) (*BulkResponse, error)
	// Update 按记录中的 Id 更新，只写入记录中出现的字段
	Update(ctx context.Context, records []Record) (*BulkResponse, error)
	Delete(ctx context.Context, ids []int) (*BulkResponse, error)
}

// Store 按表名获取 Table，未知表名的所有写操作返回整体失败
type Store interface {
	Table(name string) Table
}

func systemic(format string, args ...any) *BulkResponse {
	return &BulkResponse{Success: false, Message: fmt.Sprintf(format, args...), Results: []Result{}}
}

// unknownTable 未知表名
type unknownTable struct {
	name string
}

func (t unknownTable) FetchAll(context.Context, []string) ([]Record, error) {
	return nil, fmt.Errorf("未知的表: %s", t.name)
}

func (t unknownTable) FetchByID(context.Context, int, []string) (Record, error) {
	return nil, fmt.Errorf("未知的表: %s", t.name)
}

func (t unknownTable) Create(context.Context, []Record) (*BulkResponse, error) {
	return systemic("未知的表: %s", t.name), nil
}

func (t unknownTable) Update(context.Context, []Record) (*BulkResponse, error) {
	return systemic("未知的表: %s", t.name), nil
}

func (t unknownTable) Delete(context.Context, []int) (*BulkResponse, error) {
	return systemic("未知的表: %s", t.name), nil
}

// Project 只保留 fields 中的字段，Id 和 Name 始终保留
func Project(rec Record, fields []string) Record {
	if len(fields) == 0 {
		return rec
	}
	out := Record{}
	keep := append([]string{"Id", "Name"}, fields...)
	for _, f := range keep {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}

// Clone 浅拷贝记录，嵌套的引用对象一并拷贝
func Clone(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		if m, ok := v.(map[string]any); ok {
			out[k] = Clone(m)
			continue
		}
		out[k] = v
	}
	return out
}

// SortByID 按 Id 升序
func SortByID(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return idOf(records[i]) < idOf(records[j])
	})
}

func idOf(rec Record) int {
	switch v := rec["Id"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func normalizeTable(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Check 将传输错误、整体失败和单条记录失败统一为 error
func Check(resp *BulkResponse, err error) error {
	if err != nil {
		return err
	}
	if msg, failed := resp.Failure(); failed {
		return errors.New(msg)
	}
	return nil
}
