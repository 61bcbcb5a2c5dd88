// Package model 定义排班核心的数据模型
package model

import "github.com/google/uuid"

// Employee 员工
type Employee struct {
	BaseModel
	OrgID     uuid.UUID `json:"org_id" db:"org_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email,omitempty" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	IsActive  bool      `json:"is_active" db:"is_active"`

	// 排班约束与偏好
	WeeklyHours         int              `json:"weekly_hours" db:"weekly_hours"`                   // 合同周工时
	MaxWeeklyHours      int              `json:"max_weekly_hours" db:"max_weekly_hours"`           // 周工时上限
	PeriodPreference    PeriodPreference `json:"period_preference" db:"period_preference"`         // 时段偏好
	PreferredLocationID *uuid.UUID       `json:"preferred_location_id" db:"preferred_location_id"` // 偏好地点
}

// FullName 员工全名
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// EmployeeRole 员工-岗位关联（一名员工可胜任多个岗位）
type EmployeeRole struct {
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	RoleID     uuid.UUID `json:"role_id" db:"role_id"`
	IsPrimary  bool      `json:"is_primary" db:"is_primary"`
}

// Availability 周期性可用性（按星期+时段）
// DayOfWeek 0=周一..6=周日，与排班周偏移一致
type Availability struct {
	BaseModel
	EmployeeID uuid.UUID          `json:"employee_id" db:"employee_id"`
	DayOfWeek  int                `json:"day_of_week" db:"day_of_week"`
	Period     AvailabilityPeriod `json:"period" db:"period"`
	Status     AvailabilityStatus `json:"status" db:"status"`
}

// AvailabilityException 某个日期区间内的可用性例外
// 在区间内与 DayOfWeek/Period 匹配的日期上覆盖周期性可用性
type AvailabilityException struct {
	BaseModel
	EmployeeID uuid.UUID          `json:"employee_id" db:"employee_id"`
	StartDate  string             `json:"start_date" db:"start_date"` // YYYY-MM-DD
	EndDate    string             `json:"end_date" db:"end_date"`     // YYYY-MM-DD
	DayOfWeek  int                `json:"day_of_week" db:"day_of_week"`
	Period     AvailabilityPeriod `json:"period" db:"period"`
	Status     AvailabilityStatus `json:"status" db:"status"`
}

// Dates 展开例外在区间内实际命中的日期列表
func (x *AvailabilityException) Dates() []string {
	var dates []string
	for d := x.StartDate; d <= x.EndDate; d = AddDays(d, 1) {
		ws := WeekStart(d)
		if DayOffset(ws, d) == x.DayOfWeek {
			dates = append(dates, d)
		}
		if len(dates) > 366 {
			break
		}
	}
	return dates
}

// Incompatibility 员工互斥关系：两人不得出现在同一地点同一天的班表上
// 存储时固定 EmployeeAID < EmployeeBID
type Incompatibility struct {
	BaseModel
	OrgID       uuid.UUID `json:"org_id" db:"org_id"`
	EmployeeAID uuid.UUID `json:"employee_a_id" db:"employee_a_id"`
	EmployeeBID uuid.UUID `json:"employee_b_id" db:"employee_b_id"`
	Reason      string    `json:"reason,omitempty" db:"reason"`
}

// NewIncompatibility 创建互斥关系，自动排序两端
func NewIncompatibility(orgID, a, b uuid.UUID, reason string) Incompatibility {
	if b.String() < a.String() {
		a, b = b, a
	}
	return Incompatibility{
		BaseModel:   NewBaseModel(),
		OrgID:       orgID,
		EmployeeAID: a,
		EmployeeBID: b,
		Reason:      reason,
	}
}

// Involves 检查互斥关系是否涉及某员工
func (i *Incompatibility) Involves(empID uuid.UUID) bool {
	return i.EmployeeAID == empID || i.EmployeeBID == empID
}

// Other 返回互斥关系中的另一方，empID 不在关系中时返回 uuid.Nil
func (i *Incompatibility) Other(empID uuid.UUID) uuid.UUID {
	switch empID {
	case i.EmployeeAID:
		return i.EmployeeBID
	case i.EmployeeBID:
		return i.EmployeeAID
	}
	return uuid.Nil
}

// TimeOff 请假/休假申请
type TimeOff struct {
	BaseModel
	EmployeeID uuid.UUID     `json:"employee_id" db:"employee_id"`
	StartDate  string        `json:"start_date" db:"start_date"` // YYYY-MM-DD
	EndDate    string        `json:"end_date" db:"end_date"`     // YYYY-MM-DD（含）
	Status     TimeOffStatus `json:"status" db:"status"`
	Reason     string        `json:"reason,omitempty" db:"reason"`
}

// Contains 检查日期是否落在请假区间内（闭区间）
func (t *TimeOff) Contains(date string) bool {
	return t.StartDate <= date && date <= t.EndDate
}
