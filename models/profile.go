package models

import "strings"

// Profile 用户资料，ID 与外部用户 ID 相同
type Profile struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
	Website string `json:"website"`
	Bio     string `json:"bio"`
	Email   string `json:"email"`
}

// NotificationEmail 通知邮箱，未配置时返回空串
func (p Profile) NotificationEmail() string {
	return strings.TrimSpace(p.Email)
}
