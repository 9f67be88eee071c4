package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"budgetbook/budgeting"
	"budgetbook/catfilter"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = map[budgeting.Status]lipgloss.Style{
		budgeting.StatusOnTrack:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		budgeting.StatusNearLimit:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		budgeting.StatusOverBudget: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
)

func renderStatus(s budgeting.Status) string {
	if style, ok := statusStyle[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

// renderBudgets 预算概览表，存储中的 spent 与交易汇总不一致时标记 *
func renderBudgets(w io.Writer, views []budgeting.View) {
	if len(views) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("没有预算"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("预算"),
		headerStyle.Render("月份"),
		headerStyle.Render("额度"),
		headerStyle.Render("已支出"),
		headerStyle.Render("使用率"),
		headerStyle.Render("状态"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 4),
		strings.Repeat("-", 16),
		strings.Repeat("-", 14),
		strings.Repeat("-", 10),
		strings.Repeat("-", 10),
		strings.Repeat("-", 6),
		strings.Repeat("-", 11))

	for _, v := range views {
		spent := v.Spent.StringFixed(2)
		if v.Diverged {
			spent += "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s %d\t%s\t%s\t%s%%\t%s\n",
			v.Budget.ID,
			v.Label,
			v.Budget.Month, v.Budget.Year,
			v.Budget.Limit.StringFixed(2),
			spent,
			v.PercentageText(),
			renderStatus(v.Status))
	}
}

func renderOptions(w io.Writer, opts []catfilter.Option) {
	if len(opts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("没有匹配的类别"))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintf(tw, "%s\t%s\n", headerStyle.Render("ID"), headerStyle.Render("名称"))
	for _, o := range opts {
		fmt.Fprintf(tw, "%d\t%s\n", o.ID, o.Label)
	}
}
