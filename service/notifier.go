package service

import (
	"context"
	"fmt"
	"strings"

	"budgetbook/models"
	"budgetbook/queue"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notification 交易创建后发送的通知内容
type Notification struct {
	RecipientEmail string             `json:"recipientEmail"`
	Transaction    models.Transaction `json:"transaction"`
	CategoryLabel  string             `json:"categoryLabel"`
}

// NotifyResult 通知渠道返回的结果，Success 为 false 视为发送失败
type NotifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Notifier 交易通知渠道
type Notifier interface {
	Notify(ctx context.Context, n Notification) (NotifyResult, error)
}

// EmailNotifier 直接通过 SMTP 发送通知邮件
type EmailNotifier struct {
	email *EmailService
}

func NewEmailNotifier(email *EmailService) *EmailNotifier {
	return &EmailNotifier{email: email}
}

func (n *EmailNotifier) Notify(_ context.Context, note Notification) (NotifyResult, error) {
	if err := n.email.SendTransactionEmail(note.RecipientEmail, note.Transaction, note.CategoryLabel); err != nil {
		return NotifyResult{Message: err.Error()}, err
	}
	return NotifyResult{Success: true, Message: "邮件已发送"}, nil
}

// Publisher 通知消息投递接口，由 queue.Client 实现
type Publisher interface {
	PublishNotification(ctx context.Context, msg *queue.NotificationMessage) error
}

// QueueNotifier 将通知投递到消息队列，由 notify-worker 异步发送邮件
type QueueNotifier struct {
	publisher Publisher
}

func NewQueueNotifier(p Publisher) *QueueNotifier {
	return &QueueNotifier{publisher: p}
}

func (n *QueueNotifier) Notify(ctx context.Context, note Notification) (NotifyResult, error) {
	msg := queue.NewNotificationMessage(note.RecipientEmail, note.Transaction, note.CategoryLabel)
	if err := n.publisher.PublishNotification(ctx, msg); err != nil {
		return NotifyResult{Message: err.Error()}, err
	}
	return NotifyResult{Success: true, Message: "通知已投递"}, nil
}

// TelegramSender tgbotapi.BotAPI 的发送方法
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier 向配置的聊天发送交易通知
type TelegramNotifier struct {
	bot    TelegramSender
	chatID int64
}

func NewTelegramNotifier(bot TelegramSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) Notify(_ context.Context, note Notification) (NotifyResult, error) {
	if n.chatID == 0 {
		return NotifyResult{Message: "未配置 Telegram chat_id"}, nil
	}
	msg := tgbotapi.NewMessage(n.chatID, telegramText(note))
	if _, err := n.bot.Send(msg); err != nil {
		return NotifyResult{Message: err.Error()}, fmt.Errorf("发送 Telegram 消息失败: %w", err)
	}
	return NotifyResult{Success: true, Message: "Telegram 消息已发送"}, nil
}

func telegramText(note Notification) string {
	tx := note.Transaction
	var b strings.Builder
	sign := "-"
	if tx.Type == models.TypeIncome {
		sign = "+"
	}
	fmt.Fprintf(&b, "💰 新交易: %s\n", tx.Title)
	fmt.Fprintf(&b, "金额: %s%s\n", sign, tx.Amount.StringFixed(2))
	fmt.Fprintf(&b, "类别: %s\n", note.CategoryLabel)
	if !tx.Date.IsZero() {
		fmt.Fprintf(&b, "日期: %s\n", tx.Date.Format(models.DateLayout))
	}
	if tx.Description != "" {
		fmt.Fprintf(&b, "描述: %s\n", tx.Description)
	}
	fmt.Fprintf(&b, "通知邮箱: %s", note.RecipientEmail)
	return b.String()
}
