package service

import (
	"testing"

	"budgetbook/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifier(t *testing.T) {
	n, closer, err := NewNotifier(&config.Config{Notify: config.NotifyConfig{Channel: config.ChannelNone}})
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.NoError(t, closer())

	n, _, err = NewNotifier(&config.Config{
		Notify: config.NotifyConfig{Channel: config.ChannelEmail},
		Email:  config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 465},
	})
	require.NoError(t, err)
	assert.IsType(t, &EmailNotifier{}, n)

	_, _, err = NewNotifier(&config.Config{Notify: config.NotifyConfig{Channel: config.ChannelEmail}})
	assert.Error(t, err)

	_, _, err = NewNotifier(&config.Config{Notify: config.NotifyConfig{Channel: config.ChannelTelegram}})
	assert.Error(t, err)

	_, _, err = NewNotifier(&config.Config{Notify: config.NotifyConfig{Channel: "sms"}})
	assert.Error(t, err)
}
