package service

import (
	"errors"
	"testing"
	"time"

	"budgetbook/config"
	"budgetbook/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func newTestEmailService(enabled bool) (*EmailService, *[]*gomail.Message) {
	s := NewEmailService(&config.EmailConfig{Enabled: enabled, Username: "noreply@example.com", From: "记账本"})
	sent := []*gomail.Message{}
	s.send = func(m *gomail.Message) error {
		sent = append(sent, m)
		return nil
	}
	return s, &sent
}

func testTransaction() models.Transaction {
	return models.Transaction{
		ID:          3,
		Title:       "午餐 <外卖>",
		Amount:      decimal.RequireFromString("35.5"),
		Type:        models.TypeExpense,
		CategoryID:  1,
		Description: "工作日午餐",
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateTransactionEmailBody(t *testing.T) {
	s, _ := newTestEmailService(true)

	body := s.generateTransactionEmailBody(testTransaction(), "餐饮")
	assert.Contains(t, body, "-35.50")
	assert.Contains(t, body, "午餐 &lt;外卖&gt;")
	assert.Contains(t, body, "餐饮")
	assert.Contains(t, body, "2024-03-15")
	assert.Contains(t, body, "支出")

	income := testTransaction()
	income.Type = models.TypeIncome
	body = s.generateTransactionEmailBody(income, "工资")
	assert.Contains(t, body, "+35.50")
	assert.Contains(t, body, "收入")
}

func TestSendTransactionEmail(t *testing.T) {
	s, sent := newTestEmailService(true)

	require.NoError(t, s.SendTransactionEmail("ada@example.com", testTransaction(), "餐饮"))
	require.Len(t, *sent, 1)
	m := (*sent)[0]
	assert.Equal(t, []string{"ada@example.com"}, m.GetHeader("To"))
	assert.Contains(t, m.GetHeader("Subject")[0], "午餐")
}

func TestSendTransactionEmail_Disabled(t *testing.T) {
	s, sent := newTestEmailService(false)

	err := s.SendTransactionEmail("ada@example.com", testTransaction(), "餐饮")
	assert.Error(t, err)
	assert.Empty(t, *sent)

	assert.Error(t, s.SendTestEmail("ada@example.com"))
}

func TestSendEmail_WrapsDialError(t *testing.T) {
	s, _ := newTestEmailService(true)
	dialErr := errors.New("connection refused")
	s.send = func(*gomail.Message) error { return dialErr }

	err := s.SendTestEmail("ada@example.com")
	assert.ErrorIs(t, err, dialErr)
	assert.Contains(t, err.Error(), "发送邮件失败")
}
