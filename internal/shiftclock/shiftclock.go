// Package shiftclock 将墙钟时间映射为班次窗口（班次、班次日期、周标签）。
//
// 车间三班倒：早班 [6,14)、晚班 [14,22)、夜班 [22,6)。夜班跨越午夜，
// 00:00–06:00 之间发生的事件仍归属前一天晚间开始的那个夜班，
// 因此该区间的班次日期回退一天。
//
// 周标签采用简化公式 ceil((dayOfYear + weekdayOfJan1) / 7)（周日记 0），
// 并非严格 ISO-8601。计划查询与结果查询必须对同一真实时刻产出
// 完全一致的周字符串，故此公式是各组件必须逐字节复刻的契约；
// 改动它会悄然移动报表周期边界。
package shiftclock

import (
	"fmt"
	"time"
)

// ── 班次常量 ──

const (
	ShiftMorning = "morning"
	ShiftEvening = "evening"
	ShiftNight   = "night"
)

// ValidShift 判断班次标签是否合法
func ValidShift(s string) bool {
	return s == ShiftMorning || s == ShiftEvening || s == ShiftNight
}

// Window 班次窗口值对象：派生量，从不持久化，每次请求重新计算
type Window struct {
	Shift string    // morning | evening | night
	Date  time.Time // 班次日期（UTC 零点）
	Week  string    // "<year>-W<n>"
}

// Resolver 班次解析器
// 固定厂区时区；当前时间可注入以便确定性测试
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// New 创建固定时区的班次解析器
func New(loc *time.Location) *Resolver {
	return &Resolver{loc: loc, now: time.Now}
}

// NewWithNow 创建使用指定时钟的班次解析器（测试用）
func NewWithNow(loc *time.Location, now func() time.Time) *Resolver {
	return &Resolver{loc: loc, now: now}
}

// Current 解析当前时刻的班次窗口
func (r *Resolver) Current() Window {
	return r.Resolve(r.now())
}

// Resolve 解析任意时刻的班次窗口
// 纯函数：无副作用，相同输入必得相同输出
func (r *Resolver) Resolve(t time.Time) Window {
	local := t.In(r.loc)
	hour := local.Hour()

	shiftDate := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	if hour < 6 {
		// 午夜至 06:00 仍属于前一天开始的夜班
		shiftDate = shiftDate.AddDate(0, 0, -1)
	}

	return Window{
		Shift: ShiftOf(hour),
		Date:  shiftDate,
		Week:  WeekLabel(shiftDate),
	}
}

// ShiftOf 按小时返回班次标签
func ShiftOf(hour int) string {
	switch {
	case hour >= 6 && hour < 14:
		return ShiftMorning
	case hour >= 14 && hour < 22:
		return ShiftEvening
	default:
		return ShiftNight
	}
}

// WeekLabel 计算日期所在周的标签 "<year>-W<n>"
// n = ceil((dayOfYear + weekdayOfJan1) / 7)，周日记 0
func WeekLabel(date time.Time) string {
	jan1 := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
	pastDays := int(date.Sub(jan1).Hours() / 24)
	week := (pastDays + int(jan1.Weekday()) + 1 + 6) / 7
	return fmt.Sprintf("%d-W%d", date.Year(), week)
}

// Date 将任意时刻归一化为 UTC 零点日期（显式日期入参用）
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
