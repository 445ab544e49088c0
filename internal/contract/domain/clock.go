package domain

import (
	"math"
	"time"
)

// Clock 时间源，估值与风险评分只通过它读取当前时间
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟
type SystemClock struct{}

// Now 当前时间
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock 固定时钟，测试与 CLI --now 使用
type FixedClock struct {
	T time.Time
}

// Now 返回固定时间
func (f FixedClock) Now() time.Time { return f.T }

// DateOnly 截断到 UTC 零点
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}

// fractionalDays 到期日零点与 now 之间的天数（可为负）
func fractionalDays(expiration, now time.Time) float64 {
	return DateOnly(expiration).Sub(now).Hours() / 24
}

// DaysToExpiration 向上取整的剩余天数，不截断负值
func DaysToExpiration(expiration, now time.Time) int {
	return int(math.Ceil(fractionalDays(expiration, now)))
}
