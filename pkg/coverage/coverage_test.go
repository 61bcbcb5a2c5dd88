package coverage

import (
	"testing"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

func TestCompute_RequiredVsAssigned(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	weekStart := "2026-01-12"

	// 模板要求周一早班 2 人，已排 1 个 active 班次
	reqs := []model.StaffingRequirement{
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 2},
	}
	r := NewResolver(weekStart, reqs, nil)

	empID := uuid.New()
	shifts := []model.Shift{
		{EmployeeID: empID, LocationID: locID, RoleID: roleID, Date: "2026-01-12", StartTime: "08:00", EndTime: "14:00", Status: model.ShiftActive},
	}

	out := Compute(r.ResolveWeek(), shifts, weekStart, map[uuid.UUID]string{empID: "Giulia Rossi"})
	if len(out) != 1 {
		t.Fatalf("Expected 1 slot, got %d", len(out))
	}
	if out[0].Required != 2 || out[0].Assigned != 1 {
		t.Errorf("Expected required=2 assigned=1, got %d/%d", out[0].Required, out[0].Assigned)
	}
	if out[0].Missing() != 1 || out[0].IsCovered() {
		t.Error("slot should be 1 short")
	}
	if len(out[0].EmployeeNames) != 1 || out[0].EmployeeNames[0] != "Giulia Rossi" {
		t.Errorf("Unexpected names: %v", out[0].EmployeeNames)
	}
}

func TestCompute_OnlyActiveShiftsCount(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	weekStart := "2026-01-12"
	reqs := []model.StaffingRequirement{
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 1},
	}
	r := NewResolver(weekStart, reqs, nil)

	shifts := []model.Shift{
		{EmployeeID: uuid.New(), LocationID: locID, RoleID: roleID, Date: "2026-01-12", StartTime: "08:00", EndTime: "14:00", Status: model.ShiftCancelled},
		{EmployeeID: uuid.New(), LocationID: locID, RoleID: roleID, Date: "2026-01-12", StartTime: "08:00", EndTime: "14:00", Status: model.ShiftSickLeave},
	}

	out := Compute(r.ResolveWeek(), shifts, weekStart, nil)
	if out[0].Assigned != 0 {
		t.Errorf("Expected assigned=0, got %d", out[0].Assigned)
	}
}

func TestCompute_PeriodBucketing(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	weekStart := "2026-01-12"
	reqs := []model.StaffingRequirement{
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 1},
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodEvening, RequiredCount: 1},
	}
	r := NewResolver(weekStart, reqs, nil)

	// 13:59 开始算早班，14:00 开始算晚班
	shifts := []model.Shift{
		{EmployeeID: uuid.New(), LocationID: locID, RoleID: roleID, Date: "2026-01-12", StartTime: "13:59", EndTime: "18:00", Status: model.ShiftActive},
		{EmployeeID: uuid.New(), LocationID: locID, RoleID: roleID, Date: "2026-01-12", StartTime: "14:00", EndTime: "22:00", Status: model.ShiftActive},
	}

	out := Compute(r.ResolveWeek(), shifts, weekStart, nil)
	if len(out) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(out))
	}
	for _, c := range out {
		if c.Assigned != 1 {
			t.Errorf("slot %s assigned=%d, want 1", c.Period, c.Assigned)
		}
	}
}

func TestCompute_ZeroRequiredSlotNotReported(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	weekStart := "2026-01-12"
	reqs := []model.StaffingRequirement{
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 0},
	}
	r := NewResolver(weekStart, reqs, nil)
	out := Compute(r.ResolveWeek(), nil, weekStart, nil)
	if len(out) != 0 {
		t.Errorf("Expected no slots, got %d", len(out))
	}
}

func TestCompute_ShiftOutsideWeekIgnored(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	weekStart := "2026-01-12"
	reqs := []model.StaffingRequirement{
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 1},
	}
	r := NewResolver(weekStart, reqs, nil)

	shifts := []model.Shift{
		{EmployeeID: uuid.New(), LocationID: locID, RoleID: roleID, Date: "2026-01-19", StartTime: "08:00", EndTime: "14:00", Status: model.ShiftActive},
	}
	out := Compute(r.ResolveWeek(), shifts, weekStart, nil)
	if out[0].Assigned != 0 {
		t.Errorf("shift in next week should not count, got assigned=%d", out[0].Assigned)
	}
}
