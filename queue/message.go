package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"budgetbook/models"
)

// NotificationMessage 交易通知消息，消费端据此发送邮件
type NotificationMessage struct {
	RecipientEmail string             `json:"recipientEmail"`
	Transaction    models.Transaction `json:"transaction"`
	CategoryLabel  string             `json:"categoryLabel,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
}

// NewNotificationMessage 创建通知消息
func NewNotificationMessage(recipient string, tx models.Transaction, label string) *NotificationMessage {
	return &NotificationMessage{
		RecipientEmail: recipient,
		Transaction:    tx,
		CategoryLabel:  label,
		Timestamp:      time.Now(),
	}
}

// ToJSON 序列化消息
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON 反序列化并校验收件人
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(msg.RecipientEmail) == "" {
		return nil, fmt.Errorf("消息缺少收件人")
	}
	return &msg, nil
}
