package main

import (
	"bytes"
	"testing"

	"budgetbook/config"

	"github.com/stretchr/testify/assert"
)

func TestTestEmailCmd(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = &config.Config{Email: config.EmailConfig{Enabled: false}}

	run := func(args ...string) error {
		cmd := testEmailCmd()
		cmd.SetArgs(args)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		return cmd.Execute()
	}

	err := run("not-an-address")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "邮箱地址无效")
	}

	err = run("ada@example.com")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "邮件服务未启用")
	}

	assert.Error(t, run())
}
