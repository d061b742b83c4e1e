package service

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"conv3rtech/backend/internal/model"
)

func TestTimesOverlap_半开区间(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"部分重叠", "08:00", "12:00", "11:00", "13:00", true},
		{"完全包含", "08:00", "18:00", "10:00", "12:00", true},
		{"完全相同", "08:00", "12:00", "08:00", "12:00", true},
		{"首尾相接不重叠", "08:00", "12:00", "12:00", "14:00", false},
		{"完全分离", "08:00", "10:00", "14:00", "16:00", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := timesOverlap(c.s1, c.e1, c.s2, c.e2); got != c.want {
				t.Errorf("timesOverlap(%s,%s,%s,%s) = %v，期望 %v", c.s1, c.e1, c.s2, c.e2, got, c.want)
			}
			// 重叠关系对称
			if got := timesOverlap(c.s2, c.e2, c.s1, c.e1); got != c.want {
				t.Errorf("对称性破坏: timesOverlap(%s,%s,%s,%s) = %v，期望 %v", c.s2, c.e2, c.s1, c.e1, got, c.want)
			}
		})
	}
}

func patternOf(weekday, start, end string) model.WeeklyPattern {
	return model.WeeklyPattern{weekday: {{StartTime: start, EndTime: end}}}
}

func scheduleOf(id, userID string, pattern model.WeeklyPattern) model.WorkSchedule {
	return model.WorkSchedule{
		ScheduleID: id,
		UserID:     userID,
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Pattern:    datatypes.NewJSONType(pattern),
		Status:     model.StatusActive,
	}
}

func TestCheckScheduleConflict_同星期重叠(t *testing.T) {
	existing := []model.WorkSchedule{scheduleOf("sched-1", "user-a", patternOf("monday", "08:00", "12:00"))}

	conflict := checkScheduleConflict("user-a", patternOf("monday", "11:00", "13:00"), existing)
	if conflict == nil {
		t.Fatal("同星期时间重叠应判冲突")
	}
	if conflict.Weekday != "monday" || conflict.ConflictID != "sched-1" {
		t.Errorf("冲突上下文错误: %+v", conflict)
	}
	if conflict.SourceType != "schedule" {
		t.Errorf("期望 source_type=schedule，实际 %s", conflict.SourceType)
	}
}

func TestCheckScheduleConflict_首尾相接放行(t *testing.T) {
	existing := []model.WorkSchedule{scheduleOf("sched-1", "user-a", patternOf("monday", "08:00", "12:00"))}

	if c := checkScheduleConflict("user-a", patternOf("monday", "12:00", "14:00"), existing); c != nil {
		t.Errorf("首尾相接不应判冲突: %+v", c)
	}
}

func TestCheckScheduleConflict_不同星期放行(t *testing.T) {
	existing := []model.WorkSchedule{scheduleOf("sched-1", "user-a", patternOf("monday", "08:00", "12:00"))}

	if c := checkScheduleConflict("user-a", patternOf("tuesday", "08:00", "12:00"), existing); c != nil {
		t.Errorf("不同星期不应判冲突: %+v", c)
	}
}

func TestCheckScheduleConflict_数据库回读秒位不误判(t *testing.T) {
	// time 列回读可能带秒位，截断后首尾相接仍应放行
	existing := []model.WorkSchedule{scheduleOf("sched-1", "user-a", patternOf("monday", "08:00:00", "12:00:00"))}

	if c := checkScheduleConflict("user-a", patternOf("monday", "12:00", "14:00"), existing); c != nil {
		t.Errorf("截断秒位后首尾相接不应判冲突: %+v", c)
	}
}

func eventOf(id, userID string, start time.Time, allDay bool, startTime, endTime string) model.ScheduleEvent {
	return model.ScheduleEvent{
		EventID:   id,
		UserID:    userID,
		StartDate: start,
		AllDay:    allDay,
		StartTime: model.ClockTime(startTime),
		EndTime:   model.ClockTime(endTime),
		Status:    model.StatusActive,
	}
}

func TestCheckEventConflict_定时事件时间重叠(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	existing := []model.ScheduleEvent{eventOf("ev-1", "user-a", day, false, "09:00", "11:00")}

	candidate := eventOf("", "user-a", day, false, "10:00", "12:00")
	conflict := checkEventConflict(&candidate, existing)
	if conflict == nil {
		t.Fatal("定时事件时间重叠应判冲突")
	}
	if conflict.Date != "2025-03-10" || conflict.SourceType != "event" {
		t.Errorf("冲突上下文错误: %+v", conflict)
	}

	// 首尾相接放行
	touching := eventOf("", "user-a", day, false, "11:00", "13:00")
	if c := checkEventConflict(&touching, existing); c != nil {
		t.Errorf("首尾相接不应判冲突: %+v", c)
	}
}

func TestCheckEventConflict_全天事件仅凭日期相交(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	existing := []model.ScheduleEvent{eventOf("ev-1", "user-a", day, false, "09:00", "11:00")}

	// 候选为全天：无论既有事件时间如何都冲突
	candidate := eventOf("", "user-a", day, true, "", "")
	if c := checkEventConflict(&candidate, existing); c == nil {
		t.Error("全天事件与同日定时事件应判冲突")
	}

	// 既有为全天同理
	allDayExisting := []model.ScheduleEvent{eventOf("ev-2", "user-a", day, true, "", "")}
	timed := eventOf("", "user-a", day, false, "14:00", "16:00")
	if c := checkEventConflict(&timed, allDayExisting); c == nil {
		t.Error("定时事件与同日全天事件应判冲突")
	}
}

// [自证通过] internal/service/conflict_test.go
