package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"budgetbook/config"
	"budgetbook/database"
	"budgetbook/logger"
	"budgetbook/middleware"
	"budgetbook/router"
	"budgetbook/service"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// @title 记账本 API
// @version 1.0
// @description 个人记账 API，支持交易、类别、月度预算、储蓄目标和数据导出
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		slog.Info("记账本 v1.0.0")
		return
	}

	if err := run(); err != nil {
		slog.Error("记账本退出", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env 可选，用于本地开发时提供 BUDGETBOOK_* 环境变量
	_ = godotenv.Load()

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		slog.Info("命令行指定端口", "port", port)
	}

	// 金额以 JSON 数字输出
	decimal.MarshalJSONWithoutQuotes = true

	// 打印配置信息
	config.PrintConfig()

	// 初始化存储
	st, err := database.Init(cfg)
	if err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	notifier, closeNotifier, err := service.NewNotifier(cfg)
	if err != nil {
		return fmt.Errorf("初始化通知渠道失败: %w", err)
	}
	defer func() {
		if err := closeNotifier(); err != nil {
			slog.Warn("关闭通知渠道失败", "error", err)
		}
	}()

	base := slog.Default()
	categories := service.NewCategoryService(st, base)
	n, err := categories.SeedDefaults(context.Background())
	if err != nil {
		return fmt.Errorf("写入默认类别失败: %w", err)
	}
	if n > 0 {
		slog.Info("已初始化默认类别", "count", n)
	}

	profiles := service.NewProfileService(st, base)
	svc := router.Services{
		Categories:   categories,
		Transactions: service.NewTransactionService(st, profiles, notifier, base),
		Budgets:      service.NewBudgetService(st, base),
		Goals:        service.NewGoalService(st, base),
		Profiles:     profiles,
	}

	// 设置路由
	r, stopRouter := router.SetupRouter(cfg, svc, base)
	defer stopRouter()

	// 启动服务器
	slog.Info("记账本已启动",
		"swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html",
		"api", "http://localhost"+cfg.Server.Port+"/api/v1/",
		"notify", cfg.Notify.Channel,
	)

	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("服务器启动失败: %w", err)
	}
	return nil
}
