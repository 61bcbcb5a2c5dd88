package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/coverage"
	"github.com/turnario/turnario/pkg/model"
	"github.com/turnario/turnario/pkg/solver"
	"github.com/turnario/turnario/pkg/validator"
)

// ContextLoader 组装校验快照和求解输入的周数据
type ContextLoader struct {
	orgs      *OrganizationRepository
	employees *EmployeeRepository
	schedules *ScheduleRepository
	staffing  *StaffingRepository
}

// NewContextLoader 创建周数据装载器
func NewContextLoader(orgs *OrganizationRepository, employees *EmployeeRepository, schedules *ScheduleRepository, staffing *StaffingRepository) *ContextLoader {
	return &ContextLoader{orgs: orgs, employees: employees, schedules: schedules, staffing: staffing}
}

// LoadSnapshot 加载某周的完整校验上下文
// 班次窗口取 [weekStart-1d, weekStart+6d]：周一凌晨结束的跨午夜班次
// 工时计入本周，且周日晚班参与周一的休息间隔校验
func (l *ContextLoader) LoadSnapshot(ctx context.Context, orgID uuid.UUID, weekStart string) (*validator.Context, error) {
	org, err := l.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("组织 %s 不存在", orgID)
	}

	snapshot := validator.NewContext(orgID, weekStart)
	if org.Settings.MaxWeeklyHoursDefault > 0 {
		snapshot.DefaultMaxWeeklyHours = org.Settings.MaxWeeklyHoursDefault
	}

	employees, err := l.employees.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	snapshot.SetEmployees(employees)

	roles, err := l.employees.ListRoles(ctx, orgID)
	if err != nil {
		return nil, err
	}
	snapshot.SetEmployeeRoles(roles)

	windowStart := model.AddDays(weekStart, -1)
	windowEnd := model.AddDays(weekStart, 6)
	shifts, err := l.schedules.ListEmployeeShiftsInWindow(ctx, orgID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	shiftPtrs := make([]*model.Shift, len(shifts))
	for i := range shifts {
		shiftPtrs[i] = &shifts[i]
	}
	snapshot.SetShifts(shiftPtrs)

	availability, err := l.employees.ListAvailability(ctx, orgID)
	if err != nil {
		return nil, err
	}
	snapshot.SetAvailability(availability)

	incompatibilities, err := l.employees.ListIncompatibilities(ctx, orgID)
	if err != nil {
		return nil, err
	}
	snapshot.SetIncompatibilities(incompatibilities)

	timeOff, err := l.employees.ListTimeOff(ctx, orgID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	snapshot.SetTimeOff(timeOff)

	return snapshot, nil
}

// LoadWeekPlan 加载某周的槽位解析器和班次时间解析器
func (l *ContextLoader) LoadWeekPlan(ctx context.Context, orgID uuid.UUID, weekStart string) (*coverage.Resolver, *coverage.TimeResolver, error) {
	org, err := l.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		return nil, nil, fmt.Errorf("组织 %s 不存在", orgID)
	}

	reqs, err := l.staffing.ListRequirements(ctx, orgID, weekStart)
	if err != nil {
		return nil, nil, err
	}
	overrides, err := l.staffing.ListDailyOverrides(ctx, orgID, weekStart)
	if err != nil {
		return nil, nil, err
	}
	resolver := coverage.NewResolver(weekStart, reqs, overrides)

	roleTimes, err := l.orgs.ListRoleShiftTimes(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	locRoleTimes, err := l.orgs.ListLocationRoleShiftTimes(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	times := coverage.NewTimeResolver(org.Settings, roleTimes, locRoleTimes)

	return resolver, times, nil
}

// LoadConstraintData 加载求解输入所需的全部周数据
func (l *ContextLoader) LoadConstraintData(ctx context.Context, orgID uuid.UUID, weekStart string, fixed []solver.Assignment) (*solver.ConstraintData, error) {
	org, err := l.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("组织 %s 不存在", orgID)
	}

	resolver, _, err := l.LoadWeekPlan(ctx, orgID, weekStart)
	if err != nil {
		return nil, err
	}

	employees, err := l.employees.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	roles, err := l.employees.ListRoles(ctx, orgID)
	if err != nil {
		return nil, err
	}
	availability, err := l.employees.ListAvailability(ctx, orgID)
	if err != nil {
		return nil, err
	}
	weekEnd := model.AddDays(weekStart, 6)
	exceptions, err := l.employees.ListExceptions(ctx, orgID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	incompatibilities, err := l.employees.ListIncompatibilities(ctx, orgID)
	if err != nil {
		return nil, err
	}
	timeOff, err := l.employees.ListTimeOff(ctx, orgID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	return &solver.ConstraintData{
		Settings:          org.Settings,
		Slots:             resolver.ResolveWeek(),
		Employees:         employees,
		EmployeeRoles:     roles,
		Availability:      availability,
		Exceptions:        exceptions,
		Incompatibilities: incompatibilities,
		TimeOff:           timeOff,
		FixedAssignments:  fixed,
	}, nil
}
