package validator

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

const weekStart = "2026-01-12" // 周一

func newTestContext(emp *model.Employee) *Context {
	c := NewContext(uuid.New(), weekStart)
	c.SetEmployees([]*model.Employee{emp})
	return c
}

func newEmployee() *model.Employee {
	return &model.Employee{
		BaseModel:      model.NewBaseModel(),
		FirstName:      "Marco",
		LastName:       "Bianchi",
		IsActive:       true,
		MaxWeeklyHours: 40,
	}
}

func activeShift(empID uuid.UUID, date, start, end string) *model.Shift {
	return &model.Shift{
		BaseModel:  model.NewBaseModel(),
		ScheduleID: uuid.New(),
		EmployeeID: empID,
		LocationID: uuid.New(),
		RoleID:     uuid.New(),
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Status:     model.ShiftActive,
	}
}

func TestValidate_NoConflict(t *testing.T) {
	emp := newEmployee()
	c := newTestContext(emp)

	conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		ScheduleID: uuid.New(),
		LocationID: uuid.New(),
		Date:       "2026-01-12",
		StartTime:  "08:00",
		EndTime:    "14:00",
	})
	if conflict != nil {
		t.Fatalf("Expected no conflict, got %+v", conflict)
	}
}

func TestValidate_Overlap(t *testing.T) {
	emp := newEmployee()
	c := newTestContext(emp)
	c.AddShift(activeShift(emp.ID, "2026-01-12", "08:00", "14:00"))

	// 周一 08:00-14:00 已有班次，13:00-18:00 重叠
	conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-12",
		StartTime:  "13:00",
		EndTime:    "18:00",
	})
	if conflict == nil || conflict.Type != ConflictOverlap {
		t.Fatalf("Expected overlap conflict, got %+v", conflict)
	}
	if !strings.Contains(conflict.Message, "08:00-14:00") {
		t.Errorf("Message should name the overlapping shift: %s", conflict.Message)
	}

	// 恰好首尾相接不算重叠
	conflict = Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-12",
		StartTime:  "14:00",
		EndTime:    "18:00",
	})
	if conflict != nil && conflict.Type == ConflictOverlap {
		t.Errorf("Back-to-back shifts should not overlap, got %+v", conflict)
	}
}

func TestValidate_OverlapExcludesShift(t *testing.T) {
	emp := newEmployee()
	c := newTestContext(emp)
	existing := activeShift(emp.ID, "2026-01-12", "08:00", "14:00")
	c.AddShift(existing)

	// 编辑自身班次时排除自身
	conflict := Validate(c, Params{
		EmployeeID:     emp.ID,
		Date:           "2026-01-12",
		StartTime:      "09:00",
		EndTime:        "13:00",
		ExcludeShiftID: &existing.ID,
	})
	if conflict != nil {
		t.Fatalf("Expected no conflict with shift excluded, got %+v", conflict)
	}
}

func TestValidate_MaxHours(t *testing.T) {
	emp := newEmployee()
	emp.MaxWeeklyHours = 20
	c := newTestContext(emp)

	// 已排 18 小时
	c.AddShift(activeShift(emp.ID, "2026-01-12", "08:00", "17:00"))
	c.AddShift(activeShift(emp.ID, "2026-01-14", "08:00", "17:00"))

	// 再加 6 小时会超过 20 小时上限
	conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-16",
		StartTime:  "08:00",
		EndTime:    "14:00",
	})
	if conflict == nil || conflict.Type != ConflictMaxHours {
		t.Fatalf("Expected max_hours conflict, got %+v", conflict)
	}
	if !strings.Contains(conflict.Message, "20h") {
		t.Errorf("Message should include the limit: %s", conflict.Message)
	}
}

func TestValidate_MaxHours_OvernightSpillover(t *testing.T) {
	emp := newEmployee()
	emp.MaxWeeklyHours = 10
	c := newTestContext(emp)

	// 上周日 23:00-06:00：只有周一 00:00-06:00 的 6 小时落入本周
	c.AddShift(activeShift(emp.ID, "2026-01-11", "23:00", "06:00"))

	// 4 小时恰好到上限，通过
	if conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-13",
		StartTime:  "08:00",
		EndTime:    "12:00",
	}); conflict != nil {
		t.Fatalf("Expected no conflict at exactly the limit, got %+v", conflict)
	}

	// 5 小时超限
	if conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-13",
		StartTime:  "08:00",
		EndTime:    "13:00",
	}); conflict == nil || conflict.Type != ConflictMaxHours {
		t.Fatalf("Expected max_hours conflict, got %+v", conflict)
	}
}

func TestValidate_RestPeriod(t *testing.T) {
	emp := newEmployee()
	c := newTestContext(emp)

	// 周一 23:00 下班，周二 06:00 上班：仅 7 小时休息
	c.AddShift(activeShift(emp.ID, "2026-01-12", "15:00", "23:00"))

	conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-13",
		StartTime:  "06:00",
		EndTime:    "14:00",
	})
	if conflict == nil || conflict.Type != ConflictRestPeriod {
		t.Fatalf("Expected rest_period conflict, got %+v", conflict)
	}
	if !strings.Contains(conflict.Message, "7.0h") {
		t.Errorf("Message should include actual rest hours: %s", conflict.Message)
	}

	// 11 小时整不算冲突
	conflict = Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-13",
		StartTime:  "10:00",
		EndTime:    "14:00",
	})
	if conflict != nil {
		t.Fatalf("Expected no conflict with 11h rest, got %+v", conflict)
	}
}

func TestValidate_RestPeriod_SameDay(t *testing.T) {
	emp := newEmployee()
	c := newTestContext(emp)

	// 同一天两班间隔 4 小时
	c.AddShift(activeShift(emp.ID, "2026-01-12", "08:00", "12:00"))

	conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-12",
		StartTime:  "16:00",
		EndTime:    "20:00",
	})
	if conflict == nil || conflict.Type != ConflictRestPeriod {
		t.Fatalf("Expected rest_period conflict, got %+v", conflict)
	}
}

func TestValidate_Incompatibility(t *testing.T) {
	empX := newEmployee()
	empY := newEmployee()
	scheduleID := uuid.New()
	locID := uuid.New()

	c := NewContext(uuid.New(), weekStart)
	c.SetEmployees([]*model.Employee{empX, empY})
	c.SetIncompatibilities([]model.Incompatibility{
		model.NewIncompatibility(uuid.New(), empX.ID, empY.ID, ""),
	})

	// X 已排周三 Location B
	xShift := activeShift(empX.ID, "2026-01-14", "08:00", "14:00")
	xShift.ScheduleID = scheduleID
	xShift.LocationID = locID
	c.AddShift(xShift)

	// Y 提议到同班表同地点同日
	conflict := Validate(c, Params{
		EmployeeID: empY.ID,
		ScheduleID: scheduleID,
		LocationID: locID,
		Date:       "2026-01-14",
		StartTime:  "14:00",
		EndTime:    "22:00",
	})
	if conflict == nil || conflict.Type != ConflictIncompatibility {
		t.Fatalf("Expected incompatibility conflict, got %+v", conflict)
	}

	// 不同地点不触发
	conflict = Validate(c, Params{
		EmployeeID: empY.ID,
		ScheduleID: scheduleID,
		LocationID: uuid.New(),
		Date:       "2026-01-14",
		StartTime:  "14:00",
		EndTime:    "22:00",
	})
	if conflict != nil {
		t.Fatalf("Different location should not conflict, got %+v", conflict)
	}
}

func TestValidate_Availability(t *testing.T) {
	emp := newEmployee()
	c := newTestContext(emp)
	c.SetAvailability([]model.Availability{
		{EmployeeID: emp.ID, DayOfWeek: 0, Period: model.AvailMorning, Status: model.AvailabilityUnavailable},
	})

	// 周一早班不可用
	conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-12",
		StartTime:  "08:00",
		EndTime:    "12:00",
	})
	if conflict == nil || conflict.Type != ConflictAvailability {
		t.Fatalf("Expected availability conflict, got %+v", conflict)
	}

	// 18:00 开始派生为晚班，不受早班不可用影响
	conflict = Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-12",
		StartTime:  "18:00",
		EndTime:    "22:00",
	})
	if conflict != nil {
		t.Fatalf("Evening shift should pass, got %+v", conflict)
	}

	// avoid 状态不阻止
	c2 := newTestContext(emp)
	c2.SetAvailability([]model.Availability{
		{EmployeeID: emp.ID, DayOfWeek: 0, Period: model.AvailMorning, Status: model.AvailabilityAvoid},
	})
	if conflict := Validate(c2, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-12",
		StartTime:  "08:00",
		EndTime:    "12:00",
	}); conflict != nil {
		t.Fatalf("avoid status should not block, got %+v", conflict)
	}
}

func TestValidate_TimeOff(t *testing.T) {
	emp := newEmployee()
	c := newTestContext(emp)
	c.SetTimeOff([]*model.TimeOff{
		{EmployeeID: emp.ID, StartDate: "2026-01-14", EndDate: "2026-01-16", Status: model.TimeOffApproved},
		{EmployeeID: emp.ID, StartDate: "2026-01-12", EndDate: "2026-01-12", Status: model.TimeOffPending},
	})

	conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-15",
		StartTime:  "08:00",
		EndTime:    "14:00",
	})
	if conflict == nil || conflict.Type != ConflictTimeOff {
		t.Fatalf("Expected time_off conflict, got %+v", conflict)
	}

	// 未批准的请假不阻止
	conflict = Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-12",
		StartTime:  "08:00",
		EndTime:    "14:00",
	})
	if conflict != nil {
		t.Fatalf("Pending time off should not block, got %+v", conflict)
	}
}

func TestValidate_CheckOrder(t *testing.T) {
	// 同时触发重叠和请假时，先报重叠（固定顺序短路）
	emp := newEmployee()
	c := newTestContext(emp)
	c.AddShift(activeShift(emp.ID, "2026-01-12", "08:00", "14:00"))
	c.SetTimeOff([]*model.TimeOff{
		{EmployeeID: emp.ID, StartDate: "2026-01-12", EndDate: "2026-01-12", Status: model.TimeOffApproved},
	})

	conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-12",
		StartTime:  "10:00",
		EndTime:    "16:00",
	})
	if conflict == nil || conflict.Type != ConflictOverlap {
		t.Fatalf("Expected overlap reported first, got %+v", conflict)
	}
}

func TestValidate_CancelledShiftsIgnored(t *testing.T) {
	emp := newEmployee()
	c := newTestContext(emp)
	s := activeShift(emp.ID, "2026-01-12", "08:00", "14:00")
	s.Status = model.ShiftCancelled
	c.AddShift(s)

	conflict := Validate(c, Params{
		EmployeeID: emp.ID,
		Date:       "2026-01-12",
		StartTime:  "10:00",
		EndTime:    "16:00",
	})
	if conflict != nil {
		t.Fatalf("Cancelled shift should not conflict, got %+v", conflict)
	}
}
