package coverage

import (
	"testing"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

func TestResolver_TierPrecedence(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	weekStart := "2026-01-12"
	weekly := weekStart

	reqs := []model.StaffingRequirement{
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 2},
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 3, WeekStartDate: &weekly},
	}
	overrides := []model.DailyStaffingOverride{
		{LocationID: locID, RoleID: roleID, Date: "2026-01-12", Period: model.PeriodMorning, RequiredCount: 5},
	}

	r := NewResolver(weekStart, reqs, overrides)

	// 单日覆盖优先
	if got, ok := r.Resolve(locID, roleID, 0, model.PeriodMorning); !ok || got != 5 {
		t.Errorf("Expected (5, true), got (%d, %v)", got, ok)
	}

	// 无单日覆盖时回落到单周层
	r2 := NewResolver(weekStart, reqs, nil)
	if got, ok := r2.Resolve(locID, roleID, 0, model.PeriodMorning); !ok || got != 3 {
		t.Errorf("Expected (3, true), got (%d, %v)", got, ok)
	}

	// 仅模板
	r3 := NewResolver(weekStart, reqs[:1], nil)
	if got, ok := r3.Resolve(locID, roleID, 0, model.PeriodMorning); !ok || got != 2 {
		t.Errorf("Expected (2, true), got (%d, %v)", got, ok)
	}
}

func TestResolver_MissingTemplateMeansNoSlot(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	weekStart := "2026-01-12"

	// 只有单日覆盖、没有模板行：槽位不存在
	overrides := []model.DailyStaffingOverride{
		{LocationID: locID, RoleID: roleID, Date: "2026-01-12", Period: model.PeriodMorning, RequiredCount: 5},
	}
	r := NewResolver(weekStart, nil, overrides)
	if _, ok := r.Resolve(locID, roleID, 0, model.PeriodMorning); ok {
		t.Error("slot without template row should not exist")
	}
}

func TestResolver_OtherWeekOverrideIgnored(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	otherWeek := "2026-01-05"

	reqs := []model.StaffingRequirement{
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 2},
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 9, WeekStartDate: &otherWeek},
	}
	r := NewResolver("2026-01-12", reqs, nil)
	if got, _ := r.Resolve(locID, roleID, 0, model.PeriodMorning); got != 2 {
		t.Errorf("Expected 2 (other week's override ignored), got %d", got)
	}
}

func TestResolver_NegativeClampedToZero(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	reqs := []model.StaffingRequirement{
		{LocationID: locID, RoleID: roleID, DayOfWeek: 3, Period: model.PeriodEvening, RequiredCount: -1},
	}
	r := NewResolver("2026-01-12", reqs, nil)
	if got, ok := r.Resolve(locID, roleID, 3, model.PeriodEvening); !ok || got != 0 {
		t.Errorf("Expected (0, true), got (%d, %v)", got, ok)
	}
}

func TestResolver_ResolveWeek(t *testing.T) {
	locID, roleID := uuid.New(), uuid.New()
	reqs := []model.StaffingRequirement{
		{LocationID: locID, RoleID: roleID, DayOfWeek: 1, Period: model.PeriodEvening, RequiredCount: 1},
		{LocationID: locID, RoleID: roleID, DayOfWeek: 0, Period: model.PeriodMorning, RequiredCount: 2},
	}
	r := NewResolver("2026-01-12", reqs, nil)
	slots := r.ResolveWeek()
	if len(slots) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(slots))
	}
	// 顺序确定：周一早班在前
	if slots[0].DayOfWeek != 0 || slots[0].Period != model.PeriodMorning || slots[0].Date != "2026-01-12" {
		t.Errorf("Unexpected first slot: %+v", slots[0])
	}
	if slots[1].DayOfWeek != 1 || slots[1].Date != "2026-01-13" {
		t.Errorf("Unexpected second slot: %+v", slots[1])
	}
}
