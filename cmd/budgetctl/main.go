// budgetctl 记账本命令行工具：查看预算、类别，回写预算支出，签发测试令牌，测试邮件配置
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"budgetbook/config"
	"budgetbook/database"
	"budgetbook/logger"
	"budgetbook/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:               "budgetctl",
		Short:             "记账本命令行工具",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "外部配置文件路径（可选）")

	rootCmd.AddCommand(budgetsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(testEmailCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	// 命令行默认只输出警告
	if cfg.Log.Level == "" || cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}
	return logger.Setup(cfg.Log)
}

func openStore() (store.Store, error) {
	st, err := database.Init(cfg)
	if err != nil {
		return nil, fmt.Errorf("打开存储失败: %w", err)
	}
	return st, nil
}
