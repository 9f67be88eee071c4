package service

import (
	"context"
	"sync"
	"testing"

	"budgetbook/models"
	"budgetbook/store"

	"github.com/stretchr/testify/require"
)

// stubStore 替换指定表，其余表走内存存储
type stubStore struct {
	*store.MemoryStore
	tables map[string]store.Table
}

func (s *stubStore) Table(name string) store.Table {
	if t, ok := s.tables[name]; ok {
		return t
	}
	return s.MemoryStore.Table(name)
}

// scriptedTable 写操作返回预设结果并记录调用次数
type scriptedTable struct {
	store.Table
	mu    sync.Mutex
	calls int
	resp  *store.BulkResponse
	err   error
}

func (t *scriptedTable) record() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
}

func (t *scriptedTable) Create(context.Context, []store.Record) (*store.BulkResponse, error) {
	t.record()
	return t.resp, t.err
}

func (t *scriptedTable) Update(context.Context, []store.Record) (*store.BulkResponse, error) {
	t.record()
	return t.resp, t.err
}

func (t *scriptedTable) Delete(context.Context, []int) (*store.BulkResponse, error) {
	t.record()
	return t.resp, t.err
}

type fakeProfiles struct {
	profile models.Profile
	found   bool
	err     error
	calls   int
}

func (f *fakeProfiles) Lookup(_ context.Context, userID int) (models.Profile, bool, error) {
	f.calls++
	return f.profile, f.found, f.err
}

type recordingNotifier struct {
	calls []Notification
	fn    func(Notification) (NotifyResult, error)
}

func (n *recordingNotifier) Notify(_ context.Context, note Notification) (NotifyResult, error) {
	n.calls = append(n.calls, note)
	if n.fn != nil {
		return n.fn(note)
	}
	return NotifyResult{Success: true}, nil
}

func seedCategory(t *testing.T, st store.Store, c models.Category) models.Category {
	t.Helper()
	svc := NewCategoryService(st, nil)
	out, err := svc.Create(context.Background(), c)
	require.NoError(t, err)
	return out
}
