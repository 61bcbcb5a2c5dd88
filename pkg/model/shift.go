// Package model 定义排班核心的数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Schedule 排班表（一个组织一周一张，惰性创建）
type Schedule struct {
	BaseModel
	OrgID         uuid.UUID      `json:"org_id" db:"org_id"`
	WeekStartDate string         `json:"week_start_date" db:"week_start_date"` // 周一，YYYY-MM-DD
	Status        ScheduleStatus `json:"status" db:"status"`
	PublishedAt   *time.Time     `json:"published_at,omitempty" db:"published_at"`
}

// Shift 班次（某员工某天某地点某岗位的一段工作时间）
type Shift struct {
	BaseModel
	ScheduleID      uuid.UUID   `json:"schedule_id" db:"schedule_id"`
	EmployeeID      uuid.UUID   `json:"employee_id" db:"employee_id"`
	LocationID      uuid.UUID   `json:"location_id" db:"location_id"`
	RoleID          uuid.UUID   `json:"role_id" db:"role_id"`
	Date            string      `json:"date" db:"date"`             // YYYY-MM-DD
	StartTime       string      `json:"start_time" db:"start_time"`       // HH:MM
	EndTime         string      `json:"end_time" db:"end_time"`           // HH:MM
	BreakMinutes    int         `json:"break_minutes" db:"break_minutes"` // 不计入覆盖统计
	Status          ShiftStatus `json:"status" db:"status"`
	IsAutoGenerated bool        `json:"is_auto_generated" db:"is_auto_generated"`
	Notes           string      `json:"notes,omitempty" db:"notes"`
}

// IsActive 班次是否生效（仅生效班次计入覆盖/工时/冲突）
func (s *Shift) IsActive() bool {
	return s.Status == ShiftActive
}

// Minutes 班次时长（分钟），结束早于开始视为跨午夜
func (s *Shift) Minutes() int {
	start := ParseTimeMinutes(s.StartTime)
	end := ParseTimeMinutes(s.EndTime)
	if end <= start {
		end += MinutesPerDay
	}
	return end - start
}

// Hours 班次时长（小时）
func (s *Shift) Hours() float64 {
	return float64(s.Minutes()) / 60.0
}

// MinutesInWeek 返回班次落在 [weekStart, weekStart+7d) 窗口内的分钟数
// 跨午夜的班次按两天拆分后分别裁剪
func (s *Shift) MinutesInWeek(weekStart string) int {
	ws, err := time.Parse(DateLayout, weekStart)
	if err != nil {
		return 0
	}
	d, err := time.Parse(DateLayout, s.Date)
	if err != nil {
		return 0
	}
	weekEnd := ws.AddDate(0, 0, 7)

	start := ParseTimeMinutes(s.StartTime)
	end := ParseTimeMinutes(s.EndTime)

	clip := func(day time.Time, from, to int) int {
		abs0 := day.Add(time.Duration(from) * time.Minute)
		abs1 := day.Add(time.Duration(to) * time.Minute)
		if abs0.Before(ws) {
			abs0 = ws
		}
		if abs1.After(weekEnd) {
			abs1 = weekEnd
		}
		if !abs1.After(abs0) {
			return 0
		}
		return int(abs1.Sub(abs0).Minutes())
	}

	if end <= start {
		// 跨午夜：当天 start..24:00 + 次日 00:00..end
		return clip(d, start, MinutesPerDay) + clip(d.AddDate(0, 0, 1), 0, end)
	}
	return clip(d, start, end)
}
