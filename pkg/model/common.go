// Package model 定义排班核心的数据模型
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ShiftPeriod 班次时段（人力需求的粒度）
type ShiftPeriod string

const (
	PeriodMorning ShiftPeriod = "morning" // 早班
	PeriodEvening ShiftPeriod = "evening" // 晚班
)

// ParseShiftPeriod 解析班次时段，未知值拒绝
func ParseShiftPeriod(s string) (ShiftPeriod, error) {
	switch ShiftPeriod(s) {
	case PeriodMorning, PeriodEvening:
		return ShiftPeriod(s), nil
	}
	return "", fmt.Errorf("无效的班次时段: %q", s)
}

// AvailabilityPeriod 可用性时段（比班次时段多 afternoon 一档）
type AvailabilityPeriod string

const (
	AvailMorning   AvailabilityPeriod = "morning"
	AvailAfternoon AvailabilityPeriod = "afternoon"
	AvailEvening   AvailabilityPeriod = "evening"
)

// ParseAvailabilityPeriod 解析可用性时段，未知值拒绝
func ParseAvailabilityPeriod(s string) (AvailabilityPeriod, error) {
	switch AvailabilityPeriod(s) {
	case AvailMorning, AvailAfternoon, AvailEvening:
		return AvailabilityPeriod(s), nil
	}
	return "", fmt.Errorf("无效的可用性时段: %q", s)
}

// AvailabilityStatus 可用性状态
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"   // 可排
	AvailabilityUnavailable AvailabilityStatus = "unavailable" // 不可排（硬约束）
	AvailabilityPreferred   AvailabilityStatus = "preferred"   // 偏好
	AvailabilityAvoid       AvailabilityStatus = "avoid"       // 尽量避免（软约束）
)

// ParseAvailabilityStatus 解析可用性状态，未知值拒绝
func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	switch AvailabilityStatus(s) {
	case AvailabilityAvailable, AvailabilityUnavailable, AvailabilityPreferred, AvailabilityAvoid:
		return AvailabilityStatus(s), nil
	}
	return "", fmt.Errorf("无效的可用性状态: %q", s)
}

// ShiftStatus 班次状态
type ShiftStatus string

const (
	ShiftActive    ShiftStatus = "active"     // 生效（仅此状态计入覆盖/工时/冲突）
	ShiftCancelled ShiftStatus = "cancelled"  // 已取消
	ShiftSickLeave ShiftStatus = "sick_leave" // 病假
)

// ParseShiftStatus 解析班次状态，未知值拒绝
func ParseShiftStatus(s string) (ShiftStatus, error) {
	switch ShiftStatus(s) {
	case ShiftActive, ShiftCancelled, ShiftSickLeave:
		return ShiftStatus(s), nil
	}
	return "", fmt.Errorf("无效的班次状态: %q", s)
}

// ScheduleStatus 排班表状态
type ScheduleStatus string

const (
	ScheduleDraft                ScheduleStatus = "draft"                  // 草稿
	SchedulePublished            ScheduleStatus = "published"              // 已发布
	ScheduleModifiedAfterPublish ScheduleStatus = "modified_after_publish" // 发布后又被修改
)

// ParseScheduleStatus 解析排班表状态，未知值拒绝
func ParseScheduleStatus(s string) (ScheduleStatus, error) {
	switch ScheduleStatus(s) {
	case ScheduleDraft, SchedulePublished, ScheduleModifiedAfterPublish:
		return ScheduleStatus(s), nil
	}
	return "", fmt.Errorf("无效的排班表状态: %q", s)
}

// TimeOffStatus 请假审批状态
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved" // 仅已批准的请假阻止排班
	TimeOffRejected TimeOffStatus = "rejected"
)

// ParseTimeOffStatus 解析请假状态，未知值拒绝
func ParseTimeOffStatus(s string) (TimeOffStatus, error) {
	switch TimeOffStatus(s) {
	case TimeOffPending, TimeOffApproved, TimeOffRejected:
		return TimeOffStatus(s), nil
	}
	return "", fmt.Errorf("无效的请假状态: %q", s)
}

// PeriodPreference 员工时段偏好
type PeriodPreference string

const (
	PreferenceMorning PeriodPreference = "morning"
	PreferenceEvening PeriodPreference = "evening"
	PreferenceNone    PeriodPreference = "none"
)

// ParsePeriodPreference 解析时段偏好，未知值拒绝
func ParsePeriodPreference(s string) (PeriodPreference, error) {
	switch PeriodPreference(s) {
	case PreferenceMorning, PreferenceEvening, PreferenceNone:
		return PeriodPreference(s), nil
	}
	return "", fmt.Errorf("无效的时段偏好: %q", s)
}

const (
	// DateLayout 日期格式 YYYY-MM-DD
	DateLayout = "2006-01-02"
	// MinutesPerDay 一天的分钟数
	MinutesPerDay = 24 * 60
)

// ParseTimeMinutes 把 HH:MM 转为自午夜起的分钟数，格式错误返回 0
func ParseTimeMinutes(t string) int {
	var h, m int
	if _, err := fmt.Sscanf(t, "%d:%d", &h, &m); err != nil {
		return 0
	}
	return h*60 + m
}

// FormatTimeMinutes 把分钟数转回 HH:MM
func FormatTimeMinutes(mins int) string {
	mins = ((mins % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// WeekStart 返回日期所在周的周一（周以周一为第 0 天）
func WeekStart(dateStr string) string {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return dateStr
	}
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0
	return t.AddDate(0, 0, -offset).Format(DateLayout)
}

// AddDays 日期加减天数
func AddDays(dateStr string, days int) string {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return dateStr
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}

// DayOffset 返回 date 相对 weekStart 的整数天偏移
// 注意：这是相对排班周起点的偏移，不是 ISO 星期几
func DayOffset(weekStart, dateStr string) int {
	ws, err1 := time.Parse(DateLayout, weekStart)
	d, err2 := time.Parse(DateLayout, dateStr)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(d.Sub(ws).Hours() / 24)
}

// BucketPeriod 覆盖统计用的固定两分法：开始时间 >= 14:00 归晚班
// 与组织可配置的时段起止无关，只用于归桶
func BucketPeriod(startTime string) ShiftPeriod {
	if ParseTimeMinutes(startTime) >= 14*60 {
		return PeriodEvening
	}
	return PeriodMorning
}

// DeriveAvailabilityPeriod 可用性校验用的三分法
// <13:00 早、13:00-17:59 下午、>=18:00 晚
func DeriveAvailabilityPeriod(startTime string) AvailabilityPeriod {
	mins := ParseTimeMinutes(startTime)
	switch {
	case mins < 13*60:
		return AvailMorning
	case mins < 18*60:
		return AvailAfternoon
	default:
		return AvailEvening
	}
}
