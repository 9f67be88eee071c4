package main

import (
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"budgetbook/budgeting"
	"budgetbook/catfilter"
	"budgetbook/middleware"
	"budgetbook/models"
	"budgetbook/service"

	"github.com/spf13/cobra"
)

// parsePeriod year 为 0 表示全部
func parsePeriod(month string, year int) (budgeting.Period, error) {
	p := budgeting.Period{Year: year}
	if month == "" {
		return p, nil
	}
	m, ok := models.ParseMonth(month)
	if !ok {
		return p, fmt.Errorf("月份无效: %s", month)
	}
	p.Month = m
	return p, nil
}

func budgetsCmd() *cobra.Command {
	var (
		month string
		year  int
	)
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "查看预算概览",
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := parsePeriod(month, year)
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			views, err := service.NewBudgetService(st, nil).Overview(cmd.Context(), period)
			if err != nil {
				return err
			}
			renderBudgets(cmd.OutOrStdout(), views)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "月份（英文名或 1-12）")
	cmd.Flags().IntVar(&year, "year", 0, "年份")
	return cmd
}

func categoriesCmd() *cobra.Command {
	var (
		typ   string
		order string
	)
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "按类型列出类别",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, ok := models.ParseEntryType(typ)
			if !ok {
				return fmt.Errorf("类型必须为 income 或 expense")
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			opts, err := service.NewCategoryService(st, nil).Options(cmd.Context(), t, catfilter.ParseOrder(order))
			if err != nil {
				return err
			}
			renderOptions(cmd.OutOrStdout(), opts)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "expense", "类型 income/expense")
	cmd.Flags().StringVar(&order, "order", "name", "排序 name/insertion")
	return cmd
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "将按交易汇总的支出写回预算",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			report, err := service.NewBudgetService(st, nil).Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "检查 %d 个预算，回写 %d 个\n", report.Checked, len(report.Updated))
			for _, f := range report.Failed {
				fmt.Fprintf(out, "%s 预算 %d: %s\n", statusStyle[budgeting.StatusOverBudget].Render("失败"), f.ID, f.Message)
			}
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		name  string
		email string
		hours int
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "签发访问令牌",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil || id == 0 {
				return fmt.Errorf("无效的用户ID: %s", args[0])
			}
			middleware.InitJWT(cfg)
			expire := cfg.JWT.ExpireTime
			if hours > 0 {
				expire = time.Duration(hours) * time.Hour
			}
			token, err := middleware.GenerateToken(uint(id), name, email, expire)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "用户名")
	cmd.Flags().StringVar(&email, "email", "", "通知邮箱")
	cmd.Flags().IntVar(&hours, "hours", 0, "有效期（小时），默认取配置")
	return cmd
}

func testEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-email <address>",
		Short: "发送测试邮件，检查 SMTP 配置",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := mail.ParseAddress(args[0])
			if err != nil {
				return fmt.Errorf("邮箱地址无效: %s", args[0])
			}
			if err := service.NewEmailService(&cfg.Email).SendTestEmail(addr.Address); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "测试邮件已发送至 %s\n", addr.Address)
			return nil
		},
	}
}
