package service

import (
	"errors"
	"fmt"

	"budgetbook/config"
	"budgetbook/queue"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NewNotifier 按 notify.channel 创建通知渠道，none 返回 nil
// 返回的 closer 用于释放连接，总是非 nil
func NewNotifier(cfg *config.Config) (Notifier, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Notify.Channel {
	case config.ChannelEmail:
		if !cfg.Email.Enabled {
			return nil, noop, errors.New("通知渠道为 email 但邮件服务未启用")
		}
		return NewEmailNotifier(NewEmailService(&cfg.Email)), noop, nil

	case config.ChannelAMQP:
		client, err := queue.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			return nil, noop, err
		}
		return NewQueueNotifier(client), client.Close, nil

	case config.ChannelTelegram:
		if cfg.Telegram.Token == "" {
			return nil, noop, errors.New("未配置 Telegram token")
		}
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return nil, noop, fmt.Errorf("连接 Telegram 失败: %w", err)
		}
		return NewTelegramNotifier(bot, cfg.Telegram.ChatID), noop, nil

	case config.ChannelNone, "":
		return nil, noop, nil

	default:
		return nil, noop, fmt.Errorf("不支持的通知渠道: %s", cfg.Notify.Channel)
	}
}
