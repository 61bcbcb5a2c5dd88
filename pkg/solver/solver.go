// Package solver 封装外部组合优化求解服务的调用契约
package solver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

// Status 求解结果状态
type Status string

const (
	StatusOptimal    Status = "optimal"    // 最优解
	StatusFeasible   Status = "feasible"   // 可行解
	StatusInfeasible Status = "infeasible" // 硬约束下无解
	StatusError      Status = "error"      // 传输/解析/服务失败
)

// ParseStatus 解析求解状态，未知值拒绝
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOptimal, StatusFeasible, StatusInfeasible, StatusError:
		return Status(s), nil
	}
	return "", fmt.Errorf("无效的求解状态: %q", s)
}

// PeriodWindow 时段起止（契约字段）
type PeriodWindow struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

// SlotInput 需求槽位（契约字段）
type SlotInput struct {
	LocationID uuid.UUID         `json:"locationId"`
	RoleID     uuid.UUID         `json:"roleId"`
	DayOfWeek  int               `json:"dayOfWeek"`
	Period     model.ShiftPeriod `json:"period"`
	Required   int               `json:"required"`
}

// AvailabilityInput 员工可用性行（契约字段）
type AvailabilityInput struct {
	DayOfWeek int                      `json:"dayOfWeek"`
	Period    model.AvailabilityPeriod `json:"period"`
	Status    model.AvailabilityStatus `json:"status"`
}

// EmployeeInput 员工约束数据（契约字段）
type EmployeeInput struct {
	ID               uuid.UUID           `json:"id"`
	RoleIDs          []uuid.UUID         `json:"roleIds"`
	MaxHours         int                 `json:"maxHours"`
	Availability     []AvailabilityInput `json:"availability"`
	TimeOffDates     []string            `json:"timeOffDates"`
	ExceptionDates   []string            `json:"exceptionDates"`
	IncompatibleWith []uuid.UUID         `json:"incompatibleWith"`
	PeriodPreference string              `json:"periodPreference,omitempty"`
}

// Assignment 求解器输入/输出中的一次分配
type Assignment struct {
	EmployeeID uuid.UUID         `json:"employeeId"`
	LocationID uuid.UUID         `json:"locationId"`
	RoleID     uuid.UUID         `json:"roleId"`
	DayOfWeek  int               `json:"dayOfWeek"`
	Period     model.ShiftPeriod `json:"period"`
}

// Input 求解请求
type Input struct {
	WeekStart        string                              `json:"weekStart"`
	PeriodTimes      map[model.ShiftPeriod]PeriodWindow  `json:"periodTimes"`
	Slots            []SlotInput                         `json:"slots"`
	Employees        []EmployeeInput                     `json:"employees"`
	FixedAssignments []Assignment                        `json:"fixedAssignments,omitempty"`
}

// Result 求解响应
type Result struct {
	Status           Status       `json:"status"`
	Shifts           []Assignment `json:"shifts,omitempty"`
	InfeasibleReason string       `json:"infeasibleReason,omitempty"`
	Error            string       `json:"error,omitempty"`
}

// OK 是否返回了可持久化的分配
func (r *Result) OK() bool {
	return r.Status == StatusOptimal || r.Status == StatusFeasible
}

// Gateway 求解服务的注入点，测试时用确定性假实现替代
type Gateway interface {
	Solve(ctx context.Context, in *Input) (*Result, error)
}
