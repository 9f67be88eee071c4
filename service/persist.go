package service

import (
	"errors"

	"budgetbook/models"
	"budgetbook/store"
)

// persistenceError 将存储调用结果转换为 PersistenceError
func persistenceError(op, table string, resp *store.BulkResponse, err error) error {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return &models.PersistenceError{Op: op, Table: table, Err: err}
	}
	msg, failed := resp.Failure()
	if !failed {
		return nil
	}
	pe := &models.PersistenceError{Op: op, Table: table, Message: msg}
	if msg == store.MsgRecordNotExist {
		pe.Err = store.ErrNotFound
	}
	return pe
}

// firstResult 单条记录写入，返回该记录的结果
func firstResult(op, table string, resp *store.BulkResponse, err error) (store.Result, error) {
	if perr := persistenceError(op, table, resp, err); perr != nil {
		return store.Result{}, perr
	}
	if len(resp.Results) == 0 {
		return store.Result{}, &models.PersistenceError{Op: op, Table: table, Message: "存储未返回记录"}
	}
	return resp.Results[0], nil
}

// fetchError 读取失败，记录不存在时保持 ErrNotFound
func fetchError(table string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	return &models.PersistenceError{Op: "fetch", Table: table, Err: err}
}

// ItemFailure 批量操作中失败的一条记录
type ItemFailure struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}
