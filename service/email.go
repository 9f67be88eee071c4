package service

import (
	"fmt"
	"html"

	"budgetbook/config"
	"budgetbook/models"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// SendTransactionEmail 发送交易创建通知
func (s *EmailService) SendTransactionEmail(toEmail string, tx models.Transaction, categoryLabel string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 BUDGETBOOK_EMAIL_ENABLED=true")
	}

	subject := fmt.Sprintf("【记账本】新交易：%s", tx.Title)
	body := s.generateTransactionEmailBody(tx, categoryLabel)

	return s.sendEmail(toEmail, subject, body)
}

// generateTransactionEmailBody 生成交易通知邮件内容
func (s *EmailService) generateTransactionEmailBody(tx models.Transaction, categoryLabel string) string {
	typeText, color, sign := "支出", "#ef4444", "-"
	if tx.Type == models.TypeIncome {
		typeText, color, sign = "收入", "#10b981", "+"
	}
	date := ""
	if !tx.Date.IsZero() {
		date = tx.Date.Format(models.DateLayout)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .amount { font-size: 32px; font-weight: bold; text-align: center; margin: 10px 0 30px; }
        table { width: 100%%; border-collapse: collapse; }
        td { padding: 10px 0; border-bottom: 1px solid #eee; color: #333; }
        td.label { color: #6c757d; width: 30%%; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 记账本</h1>
        </div>
        <div class="content">
            <p>您有一笔新的%s记录：</p>
            <div class="amount" style="color: %s;">%s%s</div>
            <table>
                <tr><td class="label">标题</td><td>%s</td></tr>
                <tr><td class="label">类别</td><td>%s</td></tr>
                <tr><td class="label">日期</td><td>%s</td></tr>
                <tr><td class="label">描述</td><td>%s</td></tr>
            </table>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 记账本 - 您的个人财务管理助手</p>
        </div>
    </div>
</body>
</html>
`, typeText, color, sign, tx.Amount.StringFixed(2),
		html.EscapeString(tx.Title),
		html.EscapeString(categoryLabel),
		date,
		html.EscapeString(tx.Description))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}

// SendTestEmail 发送测试邮件
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	subject := "【记账本】邮件配置测试"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ 邮件配置成功</h2>
    <p>如果您收到这封邮件，说明交易通知邮件可以正常送达。</p>
    <p style="color: #666;">—— 记账本</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}
