package solver

import (
	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/coverage"
	"github.com/turnario/turnario/pkg/model"
)

// ConstraintData 构建求解输入所需的一周数据快照
type ConstraintData struct {
	Settings          model.OrganizationSettings
	Slots             []coverage.Slot
	Employees         []*model.Employee
	EmployeeRoles     []model.EmployeeRole
	Availability      []model.Availability
	Exceptions        []model.AvailabilityException
	Incompatibilities []model.Incompatibility
	TimeOff           []*model.TimeOff
	FixedAssignments  []Assignment
}

// BuildInput 把一周数据快照转换成求解请求
// 需求为 0 的槽位不进入请求；请假/例外日期只展开落在本周内的部分
func BuildInput(data *ConstraintData, weekStart string) *Input {
	in := &Input{
		WeekStart:        weekStart,
		PeriodTimes:      make(map[model.ShiftPeriod]PeriodWindow),
		FixedAssignments: data.FixedAssignments,
	}

	for period, pt := range data.Settings.PeriodTimes {
		in.PeriodTimes[period] = PeriodWindow{Start: pt.StartTime, End: pt.EndTime}
	}

	for _, slot := range data.Slots {
		if slot.Required <= 0 {
			continue
		}
		in.Slots = append(in.Slots, SlotInput{
			LocationID: slot.LocationID,
			RoleID:     slot.RoleID,
			DayOfWeek:  slot.DayOfWeek,
			Period:     slot.Period,
			Required:   slot.Required,
		})
	}

	rolesByEmp := make(map[uuid.UUID][]uuid.UUID)
	for _, r := range data.EmployeeRoles {
		rolesByEmp[r.EmployeeID] = append(rolesByEmp[r.EmployeeID], r.RoleID)
	}
	availByEmp := make(map[uuid.UUID][]AvailabilityInput)
	for _, a := range data.Availability {
		availByEmp[a.EmployeeID] = append(availByEmp[a.EmployeeID], AvailabilityInput{
			DayOfWeek: a.DayOfWeek,
			Period:    a.Period,
			Status:    a.Status,
		})
	}
	incompatByEmp := make(map[uuid.UUID][]uuid.UUID)
	for _, inc := range data.Incompatibilities {
		incompatByEmp[inc.EmployeeAID] = append(incompatByEmp[inc.EmployeeAID], inc.EmployeeBID)
		incompatByEmp[inc.EmployeeBID] = append(incompatByEmp[inc.EmployeeBID], inc.EmployeeAID)
	}

	weekEnd := model.AddDays(weekStart, 6)

	timeOffByEmp := make(map[uuid.UUID][]string)
	for _, t := range data.TimeOff {
		if t.Status != model.TimeOffApproved {
			continue
		}
		for d := weekStart; d <= weekEnd; d = model.AddDays(d, 1) {
			if t.Contains(d) {
				timeOffByEmp[t.EmployeeID] = append(timeOffByEmp[t.EmployeeID], d)
			}
		}
	}

	exceptionByEmp := make(map[uuid.UUID][]string)
	for i := range data.Exceptions {
		x := &data.Exceptions[i]
		if x.Status != model.AvailabilityUnavailable {
			continue
		}
		for _, d := range x.Dates() {
			if d >= weekStart && d <= weekEnd {
				exceptionByEmp[x.EmployeeID] = append(exceptionByEmp[x.EmployeeID], d)
			}
		}
	}

	for _, e := range data.Employees {
		if !e.IsActive {
			continue
		}
		maxHours := e.MaxWeeklyHours
		if maxHours <= 0 {
			maxHours = data.Settings.MaxWeeklyHoursDefault
		}
		emp := EmployeeInput{
			ID:               e.ID,
			RoleIDs:          rolesByEmp[e.ID],
			MaxHours:         maxHours,
			Availability:     availByEmp[e.ID],
			TimeOffDates:     timeOffByEmp[e.ID],
			ExceptionDates:   exceptionByEmp[e.ID],
			IncompatibleWith: incompatByEmp[e.ID],
		}
		if e.PeriodPreference != "" && e.PeriodPreference != model.PreferenceNone {
			emp.PeriodPreference = string(e.PeriodPreference)
		}
		in.Employees = append(in.Employees, emp)
	}

	return in
}
