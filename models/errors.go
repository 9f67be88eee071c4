package models

import "fmt"

// ValidationError 写入前的输入校验失败
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersistenceError 存储调用失败（传输错误、整体失败或单条记录失败）
type PersistenceError struct {
	Op      string
	Table   string
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %s 失败: %s", e.Table, e.Op, msg)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ProtectedEntityError 试图删除受保护的实体
type ProtectedEntityError struct {
	Entity string
	ID     int
	Name   string
}

func (e *ProtectedEntityError) Error() string {
	return fmt.Sprintf("默认%s「%s」不能删除", e.Entity, e.Name)
}

// WarningCode 通知警告代码
type WarningCode string

const (
	NotificationSkipped WarningCode = "notification-skipped"
	NotificationFailed  WarningCode = "notification-failed"
)

// NotificationWarning 交易已保存但通知未送达，不影响创建结果
type NotificationWarning struct {
	Code   WarningCode `json:"code"`
	Reason string      `json:"reason"`
}

func (w NotificationWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Reason)
}
