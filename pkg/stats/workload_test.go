package stats

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

func shift(empID uuid.UUID, date, start, end string, status model.ShiftStatus) model.Shift {
	return model.Shift{
		BaseModel:  model.NewBaseModel(),
		EmployeeID: empID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Status:     status,
	}
}

func TestComputeWorkload(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	shifts := []model.Shift{
		shift(a, "2026-01-12", "08:00", "14:00", model.ShiftActive), // 6h
		shift(a, "2026-01-13", "14:00", "22:00", model.ShiftActive), // 8h 晚班
		shift(b, "2026-01-12", "08:00", "14:00", model.ShiftActive), // 6h
		shift(b, "2026-01-14", "08:00", "14:00", model.ShiftCancelled),
	}
	names := map[uuid.UUID]string{a: "Anna Rossi", b: "Marco Verdi"}

	w := ComputeWorkload(shifts, names)
	if len(w.Employees) != 2 {
		t.Fatalf("Expected 2 employees, got %d", len(w.Employees))
	}
	// 工时降序：Anna 14h 在前
	if w.Employees[0].Name != "Anna Rossi" || w.Employees[0].TotalHours != 14 {
		t.Errorf("Unexpected top workload: %+v", w.Employees[0])
	}
	if w.Employees[0].EveningShifts != 1 {
		t.Errorf("Expected 1 evening shift, got %d", w.Employees[0].EveningShifts)
	}
	// 取消的班次不计
	if w.Employees[1].TotalHours != 6 || w.Employees[1].ShiftCount != 1 {
		t.Errorf("Cancelled shift must not count: %+v", w.Employees[1])
	}
	if w.MaxHours != 14 || w.MinHours != 6 {
		t.Errorf("Unexpected range: max=%v min=%v", w.MaxHours, w.MinHours)
	}
	if math.Abs(w.AvgHours-10) > 1e-9 {
		t.Errorf("Expected avg 10h, got %v", w.AvgHours)
	}
	if w.WorkloadGini <= 0 {
		t.Errorf("Uneven workload must have positive gini, got %v", w.WorkloadGini)
	}
}

func TestComputeWorkload_Empty(t *testing.T) {
	w := ComputeWorkload(nil, nil)
	if len(w.Employees) != 0 || w.WorkloadGini != 0 {
		t.Errorf("Expected empty summary, got %+v", w)
	}
}

func TestGini_EqualDistribution(t *testing.T) {
	if g := gini([]float64{8, 8, 8, 8}); math.Abs(g) > 1e-9 {
		t.Errorf("Equal hours must give gini 0, got %v", g)
	}
}
