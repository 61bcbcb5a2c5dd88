// Package model 定义排班核心的数据模型
package model

import "github.com/google/uuid"

// PeriodTime 时段起止时间
type PeriodTime struct {
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
}

// OrganizationSettings 组织级排班设置
type OrganizationSettings struct {
	// PeriodTimes 各时段的默认起止时间，生成班次时作为兜底
	PeriodTimes map[ShiftPeriod]PeriodTime `json:"period_times"`
	// MaxWeeklyHoursDefault 员工未单独配置时的默认周工时上限
	MaxWeeklyHoursDefault int `json:"max_weekly_hours_default"`
	// MinRestHours 相邻班次的最小休息小时数
	MinRestHours float64 `json:"min_rest_hours"`
}

// DefaultSettings 返回组织默认设置（早 08:00-14:00，晚 14:00-23:00）
func DefaultSettings() OrganizationSettings {
	return OrganizationSettings{
		PeriodTimes: map[ShiftPeriod]PeriodTime{
			PeriodMorning: {StartTime: "08:00", EndTime: "14:00"},
			PeriodEvening: {StartTime: "14:00", EndTime: "23:00"},
		},
		MaxWeeklyHoursDefault: 40,
		MinRestHours:          11,
	}
}

// PeriodTime 返回某时段的起止时间，时段缺失时回退到早班默认值
func (s OrganizationSettings) PeriodTime(period ShiftPeriod) PeriodTime {
	if pt, ok := s.PeriodTimes[period]; ok {
		return pt
	}
	if pt, ok := s.PeriodTimes[PeriodMorning]; ok {
		return pt
	}
	return PeriodTime{StartTime: "08:00", EndTime: "14:00"}
}

// Organization 组织/门店集团
type Organization struct {
	BaseModel
	Name     string               `json:"name" db:"name"`
	Code     string               `json:"code" db:"code"`
	Settings OrganizationSettings `json:"settings" db:"settings"`
}

// Location 营业地点/门店
type Location struct {
	BaseModel
	OrgID    uuid.UUID `json:"org_id" db:"org_id"`
	Name     string    `json:"name" db:"name"`
	Address  string    `json:"address,omitempty" db:"address"`
	IsActive bool      `json:"is_active" db:"is_active"`
}

// Role 岗位
type Role struct {
	BaseModel
	OrgID uuid.UUID `json:"org_id" db:"org_id"`
	Name  string    `json:"name" db:"name"`
	Color string    `json:"color,omitempty" db:"color"`
}

// DayAll 班次时间覆盖的星期哨兵值：对一周内每一天都生效
const DayAll = 7

// RoleShiftTime 岗位级班次时间覆盖
// DayOfWeek 0=周一..6=周日，7=每天（DayAll）
type RoleShiftTime struct {
	BaseModel
	OrgID     uuid.UUID   `json:"org_id" db:"org_id"`
	RoleID    uuid.UUID   `json:"role_id" db:"role_id"`
	Period    ShiftPeriod `json:"period" db:"period"`
	DayOfWeek int         `json:"day_of_week" db:"day_of_week"`
	StartTime string      `json:"start_time" db:"start_time"`
	EndTime   string      `json:"end_time" db:"end_time"`
}

// LocationRoleShiftTime 地点+岗位级班次时间覆盖（优先级高于岗位级）
type LocationRoleShiftTime struct {
	BaseModel
	OrgID      uuid.UUID   `json:"org_id" db:"org_id"`
	LocationID uuid.UUID   `json:"location_id" db:"location_id"`
	RoleID     uuid.UUID   `json:"role_id" db:"role_id"`
	Period     ShiftPeriod `json:"period" db:"period"`
	DayOfWeek  int         `json:"day_of_week" db:"day_of_week"`
	StartTime  string      `json:"start_time" db:"start_time"`
	EndTime    string      `json:"end_time" db:"end_time"`
}

// StaffingRequirement 人力需求
// WeekStartDate 为 nil 时是长期模板行，非 nil 时是单周覆盖行
type StaffingRequirement struct {
	BaseModel
	OrgID         uuid.UUID   `json:"org_id" db:"org_id"`
	LocationID    uuid.UUID   `json:"location_id" db:"location_id"`
	RoleID        uuid.UUID   `json:"role_id" db:"role_id"`
	DayOfWeek     int         `json:"day_of_week" db:"day_of_week"` // 0=周一..6=周日
	Period        ShiftPeriod `json:"period" db:"period"`
	RequiredCount int         `json:"required_count" db:"required_count"`
	WeekStartDate *string     `json:"week_start_date,omitempty" db:"week_start_date"` // YYYY-MM-DD
}

// IsTemplate 是否为长期模板行
func (r *StaffingRequirement) IsTemplate() bool {
	return r.WeekStartDate == nil
}

// DailyStaffingOverride 单日人力需求覆盖（最高优先级）
type DailyStaffingOverride struct {
	BaseModel
	OrgID         uuid.UUID   `json:"org_id" db:"org_id"`
	LocationID    uuid.UUID   `json:"location_id" db:"location_id"`
	RoleID        uuid.UUID   `json:"role_id" db:"role_id"`
	Date          string      `json:"date" db:"date"` // YYYY-MM-DD
	Period        ShiftPeriod `json:"period" db:"period"`
	RequiredCount int         `json:"required_count" db:"required_count"`
}
