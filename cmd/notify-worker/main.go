// notify-worker 消费交易通知队列并发送邮件
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"budgetbook/config"
	"budgetbook/logger"
	"budgetbook/queue"
	"budgetbook/service"

	"github.com/joho/godotenv"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（可选）")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		slog.Error("加载配置失败", "error", err)
		os.Exit(1)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		slog.Error("初始化日志失败", "error", err)
		os.Exit(1)
	}
	if !cfg.Email.Enabled {
		slog.Error("邮件服务未启用，notify-worker 无法发送通知")
		os.Exit(1)
	}

	client, err := queue.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		slog.Error("连接消息队列失败", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	email := service.NewEmailService(&cfg.Email)
	err = client.Consume(ctx, func(ctx context.Context, msg *queue.NotificationMessage) error {
		return email.SendTransactionEmail(msg.RecipientEmail, msg.Transaction, msg.CategoryLabel)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("消费中断", "error", err)
		os.Exit(1)
	}
	slog.Info("notify-worker 已退出")
}
