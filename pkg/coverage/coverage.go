package coverage

import (
	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

// CoverageSlot 覆盖统计结果（需求 vs 已排人数）
type CoverageSlot struct {
	Slot
	Assigned      int      `json:"assigned"`
	EmployeeNames []string `json:"employee_names,omitempty"`
}

// IsCovered 槽位是否已排满
func (c *CoverageSlot) IsCovered() bool {
	return c.Assigned >= c.Required
}

// Missing 还缺几人
func (c *CoverageSlot) Missing() int {
	if m := c.Required - c.Assigned; m > 0 {
		return m
	}
	return 0
}

// Compute 对整周槽位统计覆盖情况
// 只计 active 班次；归桶用固定两分法（开始 >= 14:00 算晚班），
// 天按相对 weekStart 的偏移计算；只输出需求 > 0 的槽位
func Compute(slots []Slot, shifts []model.Shift, weekStart string, names map[uuid.UUID]string) []CoverageSlot {
	type countKey struct {
		loc    uuid.UUID
		role   uuid.UUID
		dow    int
		period model.ShiftPeriod
	}
	counts := make(map[countKey]int)
	who := make(map[countKey][]string)

	for i := range shifts {
		s := &shifts[i]
		if !s.IsActive() {
			continue
		}
		dow := model.DayOffset(weekStart, s.Date)
		if dow < 0 || dow > 6 {
			continue
		}
		k := countKey{loc: s.LocationID, role: s.RoleID, dow: dow, period: model.BucketPeriod(s.StartTime)}
		counts[k]++
		if names != nil {
			if name, ok := names[s.EmployeeID]; ok {
				who[k] = append(who[k], name)
			}
		}
	}

	out := make([]CoverageSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Required <= 0 {
			continue
		}
		k := countKey{loc: slot.LocationID, role: slot.RoleID, dow: slot.DayOfWeek, period: slot.Period}
		out = append(out, CoverageSlot{
			Slot:          slot,
			Assigned:      counts[k],
			EmployeeNames: who[k],
		})
	}
	return out
}
