package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/coverage"
	"github.com/turnario/turnario/pkg/model"
	"github.com/turnario/turnario/pkg/validator"
)

type memWriter struct {
	shifts []*model.Shift
	fail   bool
}

func (w *memWriter) CreateShift(_ context.Context, s *model.Shift) error {
	if w.fail {
		return errors.New("db down")
	}
	w.shifts = append(w.shifts, s)
	return nil
}

type persistFixture struct {
	scheduleID uuid.UUID
	locID      uuid.UUID
	roleID     uuid.UUID
	emps       []*model.Employee
	snapshot   *validator.Context
	resolver   *coverage.Resolver
	times      *coverage.TimeResolver
}

func newPersistFixture(t *testing.T, required, nEmployees int) *persistFixture {
	t.Helper()
	f := &persistFixture{
		scheduleID: uuid.New(),
		locID:      uuid.New(),
		roleID:     uuid.New(),
	}
	f.snapshot = validator.NewContext(uuid.New(), "2026-01-12")
	var roles []model.EmployeeRole
	for i := 0; i < nEmployees; i++ {
		e := &model.Employee{BaseModel: model.NewBaseModel(), FirstName: "Emp", IsActive: true, MaxWeeklyHours: 40}
		f.emps = append(f.emps, e)
		roles = append(roles, model.EmployeeRole{EmployeeID: e.ID, RoleID: f.roleID})
	}
	f.snapshot.SetEmployees(f.emps)
	f.snapshot.SetEmployeeRoles(roles)

	f.resolver = coverage.NewResolver("2026-01-12", []model.StaffingRequirement{
		{LocationID: f.locID, RoleID: f.roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: required},
	}, nil)
	f.times = coverage.NewTimeResolver(model.DefaultSettings(), nil, nil)
	return f
}

func (f *persistFixture) assignment(emp *model.Employee) Assignment {
	return Assignment{
		EmployeeID: emp.ID,
		LocationID: f.locID,
		RoleID:     f.roleID,
		DayOfWeek:  0,
		Period:     model.PeriodMorning,
	}
}

func TestPersister_CapsAtRequired(t *testing.T) {
	// 需求 2 人，求解器返回 3 条：前 2 条入库，第 3 条跳过
	f := newPersistFixture(t, 2, 3)
	writer := &memWriter{}
	p := NewPersister(writer)

	result := p.Save(context.Background(), &SaveRequest{
		ScheduleID: f.scheduleID,
		WeekStart:  "2026-01-12",
		Assignments: []Assignment{
			f.assignment(f.emps[0]),
			f.assignment(f.emps[1]),
			f.assignment(f.emps[2]),
		},
		Resolver: f.resolver,
		Times:    f.times,
		Snapshot: f.snapshot,
	})

	if result.Saved != 2 {
		t.Fatalf("Expected 2 saved, got %d", result.Saved)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != "slot già coperto" {
		t.Fatalf("Expected 1 skip with 'slot già coperto', got %+v", result.Skipped)
	}
	if len(writer.shifts) != 2 {
		t.Fatalf("Expected 2 shifts written, got %d", len(writer.shifts))
	}
	// 跳过的是第 3 条（按输入顺序）
	if result.Skipped[0].Assignment.EmployeeID != f.emps[2].ID {
		t.Error("skip should hit the third proposal by input order")
	}
}

func TestPersister_ZeroRequiredSkipped(t *testing.T) {
	f := newPersistFixture(t, 0, 1)
	p := NewPersister(&memWriter{})

	result := p.Save(context.Background(), &SaveRequest{
		ScheduleID:  f.scheduleID,
		WeekStart:   "2026-01-12",
		Assignments: []Assignment{f.assignment(f.emps[0])},
		Resolver:    f.resolver,
		Times:       f.times,
		Snapshot:    f.snapshot,
	})
	if result.Saved != 0 || len(result.Skipped) != 1 {
		t.Fatalf("Expected 0 saved 1 skipped, got %+v", result)
	}
}

func TestPersister_ConflictSkippedWithReason(t *testing.T) {
	f := newPersistFixture(t, 2, 1)
	// 员工当天已有重叠班次
	f.snapshot.AddShift(&model.Shift{
		BaseModel:  model.NewBaseModel(),
		ScheduleID: f.scheduleID,
		EmployeeID: f.emps[0].ID,
		LocationID: uuid.New(),
		RoleID:     f.roleID,
		Date:       "2026-01-12",
		StartTime:  "10:00",
		EndTime:    "16:00",
		Status:     model.ShiftActive,
	})

	p := NewPersister(&memWriter{})
	result := p.Save(context.Background(), &SaveRequest{
		ScheduleID:  f.scheduleID,
		WeekStart:   "2026-01-12",
		Assignments: []Assignment{f.assignment(f.emps[0])},
		Resolver:    f.resolver,
		Times:       f.times,
		Snapshot:    f.snapshot,
	})
	if result.Saved != 0 || len(result.Skipped) != 1 {
		t.Fatalf("Expected conflict skip, got %+v", result)
	}
	if result.Skipped[0].Reason == "" || result.Skipped[0].Reason == "slot già coperto" {
		t.Errorf("Expected validator reason, got %q", result.Skipped[0].Reason)
	}
}

func TestPersister_ResolvesConcreteTimes(t *testing.T) {
	f := newPersistFixture(t, 1, 1)
	writer := &memWriter{}
	p := NewPersister(writer)

	p.Save(context.Background(), &SaveRequest{
		ScheduleID:  f.scheduleID,
		WeekStart:   "2026-01-12",
		Assignments: []Assignment{f.assignment(f.emps[0])},
		Resolver:    f.resolver,
		Times:       f.times,
		Snapshot:    f.snapshot,
	})
	if len(writer.shifts) != 1 {
		t.Fatal("Expected 1 shift written")
	}
	s := writer.shifts[0]
	if s.StartTime != "08:00" || s.EndTime != "14:00" {
		t.Errorf("Expected org morning default times, got %s-%s", s.StartTime, s.EndTime)
	}
	if s.Date != "2026-01-12" || !s.IsAutoGenerated || s.Status != model.ShiftActive {
		t.Errorf("Unexpected shift fields: %+v", s)
	}
}

func TestPersister_WriterErrorDoesNotAbortBatch(t *testing.T) {
	f := newPersistFixture(t, 2, 2)
	writer := &memWriter{fail: true}
	p := NewPersister(writer)

	result := p.Save(context.Background(), &SaveRequest{
		ScheduleID:  f.scheduleID,
		WeekStart:   "2026-01-12",
		Assignments: []Assignment{f.assignment(f.emps[0]), f.assignment(f.emps[1])},
		Resolver:    f.resolver,
		Times:       f.times,
		Snapshot:    f.snapshot,
	})
	if result.Saved != 0 || len(result.Errors) != 2 {
		t.Fatalf("Expected 2 errors and no aborts, got %+v", result)
	}
}
