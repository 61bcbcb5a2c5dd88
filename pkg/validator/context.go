// Package validator 实现排班分配的约束校验
package validator

import (
	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

type empDateKey struct {
	emp  uuid.UUID
	date string
}

type locDateKey struct {
	schedule uuid.UUID
	loc      uuid.UUID
	date     string
}

type availKey struct {
	emp    uuid.UUID
	dow    int
	period model.AvailabilityPeriod
}

// Context 一周排班数据的不可变快照，校验期间不再回源读取
// 窗口覆盖 [weekStart-1天, weekStart+6天]，以捕捉跨午夜的溢出工时
type Context struct {
	OrgID                 uuid.UUID
	WeekStart             string
	DefaultMaxWeeklyHours int

	employees       map[uuid.UUID]*model.Employee
	rolesByEmp      map[uuid.UUID][]uuid.UUID
	shiftsByEmp     map[uuid.UUID][]*model.Shift
	shiftsByEmpDate map[empDateKey][]*model.Shift
	shiftsByLocDate map[locDateKey][]*model.Shift
	availability    map[availKey]model.AvailabilityStatus
	incompatible    map[uuid.UUID][]uuid.UUID
	timeOff         map[uuid.UUID][]*model.TimeOff
}

// NewContext 创建空快照
func NewContext(orgID uuid.UUID, weekStart string) *Context {
	return &Context{
		OrgID:                 orgID,
		WeekStart:             weekStart,
		DefaultMaxWeeklyHours: 40,
		employees:             make(map[uuid.UUID]*model.Employee),
		rolesByEmp:            make(map[uuid.UUID][]uuid.UUID),
		shiftsByEmp:           make(map[uuid.UUID][]*model.Shift),
		shiftsByEmpDate:       make(map[empDateKey][]*model.Shift),
		shiftsByLocDate:       make(map[locDateKey][]*model.Shift),
		availability:          make(map[availKey]model.AvailabilityStatus),
		incompatible:          make(map[uuid.UUID][]uuid.UUID),
		timeOff:               make(map[uuid.UUID][]*model.TimeOff),
	}
}

// SetEmployees 装载员工
func (c *Context) SetEmployees(employees []*model.Employee) {
	for _, e := range employees {
		c.employees[e.ID] = e
	}
}

// SetEmployeeRoles 装载员工岗位关联
func (c *Context) SetEmployeeRoles(roles []model.EmployeeRole) {
	for _, r := range roles {
		c.rolesByEmp[r.EmployeeID] = append(c.rolesByEmp[r.EmployeeID], r.RoleID)
	}
}

// AddShift 登记一个班次到各索引（仅 active 班次入索引）
// 保存/补缺批次内新插入的班次也通过这里登记，使批内计数即时可见
func (c *Context) AddShift(s *model.Shift) {
	if !s.IsActive() {
		return
	}
	c.shiftsByEmp[s.EmployeeID] = append(c.shiftsByEmp[s.EmployeeID], s)
	edk := empDateKey{emp: s.EmployeeID, date: s.Date}
	c.shiftsByEmpDate[edk] = append(c.shiftsByEmpDate[edk], s)
	ldk := locDateKey{schedule: s.ScheduleID, loc: s.LocationID, date: s.Date}
	c.shiftsByLocDate[ldk] = append(c.shiftsByLocDate[ldk], s)
}

// SetShifts 批量装载班次
func (c *Context) SetShifts(shifts []*model.Shift) {
	for _, s := range shifts {
		c.AddShift(s)
	}
}

// SetAvailability 装载周期性可用性
func (c *Context) SetAvailability(rows []model.Availability) {
	for _, a := range rows {
		c.availability[availKey{emp: a.EmployeeID, dow: a.DayOfWeek, period: a.Period}] = a.Status
	}
}

// SetIncompatibilities 装载员工互斥关系（双向索引）
func (c *Context) SetIncompatibilities(rows []model.Incompatibility) {
	for _, inc := range rows {
		c.incompatible[inc.EmployeeAID] = append(c.incompatible[inc.EmployeeAID], inc.EmployeeBID)
		c.incompatible[inc.EmployeeBID] = append(c.incompatible[inc.EmployeeBID], inc.EmployeeAID)
	}
}

// SetTimeOff 装载请假记录
func (c *Context) SetTimeOff(rows []*model.TimeOff) {
	for _, t := range rows {
		c.timeOff[t.EmployeeID] = append(c.timeOff[t.EmployeeID], t)
	}
}

// Employee 返回员工，不存在时为 nil
func (c *Context) Employee(id uuid.UUID) *model.Employee {
	return c.employees[id]
}

// Employees 返回全部员工
func (c *Context) Employees() []*model.Employee {
	out := make([]*model.Employee, 0, len(c.employees))
	for _, e := range c.employees {
		out = append(out, e)
	}
	return out
}

// EmployeeRoles 返回员工胜任的岗位
func (c *Context) EmployeeRoles(empID uuid.UUID) []uuid.UUID {
	return c.rolesByEmp[empID]
}

// HasRole 员工是否胜任某岗位
func (c *Context) HasRole(empID, roleID uuid.UUID) bool {
	for _, r := range c.rolesByEmp[empID] {
		if r == roleID {
			return true
		}
	}
	return false
}

// IncompatibleWith 返回与某员工互斥的员工列表
func (c *Context) IncompatibleWith(empID uuid.UUID) []uuid.UUID {
	return c.incompatible[empID]
}

// MaxWeeklyHours 员工周工时上限，未配置时用快照默认值
func (c *Context) MaxWeeklyHours(empID uuid.UUID) int {
	if e, ok := c.employees[empID]; ok && e.MaxWeeklyHours > 0 {
		return e.MaxWeeklyHours
	}
	return c.DefaultMaxWeeklyHours
}

// EmployeeWeekMinutes 统计员工本周累计分钟数
// 跨午夜班次按落入周窗口的部分裁剪计入
func (c *Context) EmployeeWeekMinutes(empID uuid.UUID, exclude *uuid.UUID) int {
	total := 0
	for _, s := range c.shiftsByEmp[empID] {
		if exclude != nil && s.ID == *exclude {
			continue
		}
		total += s.MinutesInWeek(c.WeekStart)
	}
	return total
}

// ShiftsThisWeek 员工本周 active 班次数（只计落在本周日期上的班次）
func (c *Context) ShiftsThisWeek(empID uuid.UUID) int {
	count := 0
	for _, s := range c.shiftsByEmp[empID] {
		off := model.DayOffset(c.WeekStart, s.Date)
		if off >= 0 && off <= 6 {
			count++
		}
	}
	return count
}

// ShiftsOn 员工某天的 active 班次
func (c *Context) ShiftsOn(empID uuid.UUID, date string) []*model.Shift {
	return c.shiftsByEmpDate[empDateKey{emp: empID, date: date}]
}

// ShiftsAtLocation 某班表某地点某天的 active 班次
func (c *Context) ShiftsAtLocation(scheduleID, locID uuid.UUID, date string) []*model.Shift {
	return c.shiftsByLocDate[locDateKey{schedule: scheduleID, loc: locID, date: date}]
}

// AvailabilityStatus 查询 (员工, 星期, 时段) 的可用性状态
// 无记录视为可用（宽松默认）
func (c *Context) AvailabilityStatus(empID uuid.UUID, dow int, period model.AvailabilityPeriod) (model.AvailabilityStatus, bool) {
	st, ok := c.availability[availKey{emp: empID, dow: dow, period: period}]
	return st, ok
}

// ApprovedTimeOff 查询覆盖某日期的已批准请假
func (c *Context) ApprovedTimeOff(empID uuid.UUID, date string) *model.TimeOff {
	for _, t := range c.timeOff[empID] {
		if t.Status == model.TimeOffApproved && t.Contains(date) {
			return t
		}
	}
	return nil
}
