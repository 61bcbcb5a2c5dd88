package substitute

import (
	"testing"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
	"github.com/turnario/turnario/pkg/validator"
)

const weekStart = "2026-01-12"

type fixture struct {
	ctx        *validator.Context
	scheduleID uuid.UUID
	locID      uuid.UUID
	roleID     uuid.UUID
	vacating   *model.Employee
}

func newFixture(employees ...*model.Employee) *fixture {
	f := &fixture{
		scheduleID: uuid.New(),
		locID:      uuid.New(),
		roleID:     uuid.New(),
	}
	f.vacating = &model.Employee{
		BaseModel: model.NewBaseModel(),
		FirstName: "Luca",
		IsActive:  true,
	}
	all := append([]*model.Employee{f.vacating}, employees...)
	f.ctx = validator.NewContext(uuid.New(), weekStart)
	f.ctx.SetEmployees(all)
	var roles []model.EmployeeRole
	for _, e := range all {
		roles = append(roles, model.EmployeeRole{EmployeeID: e.ID, RoleID: f.roleID})
	}
	f.ctx.SetEmployeeRoles(roles)
	return f
}

func (f *fixture) vacated() VacatedShift {
	return VacatedShift{
		ScheduleID:        f.scheduleID,
		LocationID:        f.locID,
		RoleID:            f.roleID,
		Date:              "2026-01-14",
		StartTime:         "08:00",
		EndTime:           "14:00",
		ExcludeEmployeeID: f.vacating.ID,
	}
}

func emp(name string, maxHours int) *model.Employee {
	return &model.Employee{
		BaseModel:      model.NewBaseModel(),
		FirstName:      name,
		IsActive:       true,
		MaxWeeklyHours: maxHours,
	}
}

func TestSuggest_ExcludesVacatingEmployee(t *testing.T) {
	f := newFixture(emp("Anna", 40))
	got := Suggest(f.ctx, f.vacated(), Options{})
	for _, s := range got {
		if s.EmployeeID == f.vacating.ID {
			t.Error("vacating employee must not be suggested")
		}
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 suggestion, got %d", len(got))
	}
}

func TestSuggest_ExcludesWrongRoleAndInactive(t *testing.T) {
	inactive := emp("Paolo", 40)
	inactive.IsActive = false
	f := newFixture(inactive)

	// 没有岗位关联的员工
	noRole := emp("Sara", 40)
	f.ctx.SetEmployees([]*model.Employee{noRole})

	got := Suggest(f.ctx, f.vacated(), Options{})
	if len(got) != 0 {
		t.Fatalf("Expected no suggestions, got %v", got)
	}
}

func TestSuggest_ExcludesIncompatible(t *testing.T) {
	enemy := emp("Anna", 40)
	friend := emp("Carla", 40)
	f := newFixture(enemy, friend)
	f.ctx.SetIncompatibilities([]model.Incompatibility{
		model.NewIncompatibility(uuid.New(), f.vacating.ID, enemy.ID, ""),
	})

	got := Suggest(f.ctx, f.vacated(), Options{})
	if len(got) != 1 || got[0].EmployeeID != friend.ID {
		t.Fatalf("Expected only compatible candidate, got %v", got)
	}
}

func TestSuggest_ExcludesIncompatibleWithCoAssigned(t *testing.T) {
	coworker := emp("Marta", 40)
	enemy := emp("Anna", 40)
	f := newFixture(coworker, enemy)

	// Marta 已排同地点同日，Anna 与 Marta 互斥
	f.ctx.SetIncompatibilities([]model.Incompatibility{
		model.NewIncompatibility(uuid.New(), coworker.ID, enemy.ID, ""),
	})
	f.ctx.AddShift(&model.Shift{
		BaseModel:  model.NewBaseModel(),
		ScheduleID: f.scheduleID,
		EmployeeID: coworker.ID,
		LocationID: f.locID,
		RoleID:     f.roleID,
		Date:       "2026-01-14",
		StartTime:  "14:00",
		EndTime:    "20:00",
		Status:     model.ShiftActive,
	})

	got := Suggest(f.ctx, f.vacated(), Options{})
	for _, s := range got {
		if s.EmployeeID == enemy.ID {
			t.Error("candidate incompatible with a co-assigned employee must be dropped")
		}
	}
}

func TestSuggest_FailedValidationDropsCandidate(t *testing.T) {
	busy := emp("Anna", 40)
	free := emp("Carla", 40)
	f := newFixture(busy, free)

	// Anna 当日已有重叠班次
	f.ctx.AddShift(&model.Shift{
		BaseModel:  model.NewBaseModel(),
		ScheduleID: f.scheduleID,
		EmployeeID: busy.ID,
		LocationID: uuid.New(),
		RoleID:     f.roleID,
		Date:       "2026-01-14",
		StartTime:  "10:00",
		EndTime:    "16:00",
		Status:     model.ShiftActive,
	})

	got := Suggest(f.ctx, f.vacated(), Options{})
	if len(got) != 1 || got[0].EmployeeID != free.ID {
		t.Fatalf("Expected conflicting candidate dropped, got %v", got)
	}
}

func TestSuggest_ScoringOrder(t *testing.T) {
	// Anna：偏好该时段 + 偏好该地点；Carla：无加分项
	preferred := emp("Anna", 40)
	plain := emp("Carla", 40)
	f := newFixture(preferred, plain)
	preferred.PreferredLocationID = &f.locID

	f.ctx.SetAvailability([]model.Availability{
		{EmployeeID: preferred.ID, DayOfWeek: 2, Period: model.AvailMorning, Status: model.AvailabilityPreferred},
	})

	got := Suggest(f.ctx, f.vacated(), Options{})
	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(got))
	}
	if got[0].EmployeeID != preferred.ID {
		t.Errorf("Expected preferred candidate first, got %v", got)
	}
	if !got[0].PreferredLocation {
		t.Error("preferred-location flag should be set")
	}
	if got[0].Score > 100 {
		t.Errorf("displayed score must be capped at 100, got %d", got[0].Score)
	}
}

func TestSuggest_AvoidLowersScore(t *testing.T) {
	avoid := emp("Anna", 40)
	plain := emp("Carla", 40)
	f := newFixture(avoid, plain)

	f.ctx.SetAvailability([]model.Availability{
		{EmployeeID: avoid.ID, DayOfWeek: 2, Period: model.AvailMorning, Status: model.AvailabilityAvoid},
	})

	got := Suggest(f.ctx, f.vacated(), Options{})
	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(got))
	}
	if got[0].EmployeeID != plain.ID {
		t.Errorf("avoid status should rank lower, got %v", got)
	}
}

func TestSuggest_LimitDefaultsToFive(t *testing.T) {
	var emps []*model.Employee
	for i := 0; i < 8; i++ {
		emps = append(emps, emp("Emp", 40))
	}
	f := newFixture(emps...)

	got := Suggest(f.ctx, f.vacated(), Options{})
	if len(got) != 5 {
		t.Fatalf("Expected top 5, got %d", len(got))
	}
}

func TestSuggest_FairnessBonus(t *testing.T) {
	rested := emp("Anna", 60)
	loaded := emp("Carla", 60)
	f := newFixture(rested, loaded)

	// Carla 本周已有 3 个班次
	for _, date := range []string{"2026-01-12", "2026-01-13", "2026-01-15"} {
		f.ctx.AddShift(&model.Shift{
			BaseModel:  model.NewBaseModel(),
			ScheduleID: f.scheduleID,
			EmployeeID: loaded.ID,
			LocationID: uuid.New(),
			RoleID:     f.roleID,
			Date:       date,
			StartTime:  "08:00",
			EndTime:    "12:00",
			Status:     model.ShiftActive,
		})
	}

	got := Suggest(f.ctx, f.vacated(), Options{})
	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(got))
	}
	if got[0].EmployeeID != rested.ID {
		t.Errorf("less-loaded candidate should rank first, got %v", got)
	}
	if got[1].ShiftsThisWeek != 3 {
		t.Errorf("Expected 3 shifts this week, got %d", got[1].ShiftsThisWeek)
	}
}
