// Package coverage 实现人力需求解析与覆盖统计
package coverage

import (
	"sort"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

// Slot 规范化的人力需求槽位（一周内某地点某岗位某天某时段）
type Slot struct {
	LocationID uuid.UUID         `json:"location_id"`
	RoleID     uuid.UUID         `json:"role_id"`
	DayOfWeek  int               `json:"day_of_week"` // 0=周一..6=周日
	Date       string            `json:"date"`        // YYYY-MM-DD
	Period     model.ShiftPeriod `json:"period"`
	Required   int               `json:"required"`
}

type slotKey struct {
	loc    uuid.UUID
	role   uuid.UUID
	dow    int
	period model.ShiftPeriod
}

type dateKey struct {
	loc    uuid.UUID
	role   uuid.UUID
	date   string
	period model.ShiftPeriod
}

// Resolver 按三层优先级解析人力需求：单日覆盖 > 单周覆盖 > 长期模板
// 三层各自独立成表，合并只在 Resolve 时按优先级发生
type Resolver struct {
	weekStart string
	template  map[slotKey]int
	weekly    map[slotKey]int
	daily     map[dateKey]int
}

// NewResolver 从需求行构建解析器
// reqs 中 WeekStartDate 为 nil 的行进模板层，等于 weekStart 的行进单周层，
// 其余周的覆盖行与本周无关，忽略
func NewResolver(weekStart string, reqs []model.StaffingRequirement, overrides []model.DailyStaffingOverride) *Resolver {
	r := &Resolver{
		weekStart: weekStart,
		template:  make(map[slotKey]int),
		weekly:    make(map[slotKey]int),
		daily:     make(map[dateKey]int),
	}
	for _, req := range reqs {
		k := slotKey{loc: req.LocationID, role: req.RoleID, dow: req.DayOfWeek, period: req.Period}
		if req.WeekStartDate == nil {
			r.template[k] = req.RequiredCount
		} else if *req.WeekStartDate == weekStart {
			r.weekly[k] = req.RequiredCount
		}
	}
	for _, o := range overrides {
		k := dateKey{loc: o.LocationID, role: o.RoleID, date: o.Date, period: o.Period}
		r.daily[k] = o.RequiredCount
	}
	return r
}

// WeekStart 返回解析器绑定的周一日期
func (r *Resolver) WeekStart() string {
	return r.weekStart
}

// Resolve 解析某槽位的需求人数
// 模板层没有该键时槽位不存在（返回 exists=false，而非需求为 0）
func (r *Resolver) Resolve(locID, roleID uuid.UUID, dayOfWeek int, period model.ShiftPeriod) (int, bool) {
	k := slotKey{loc: locID, role: roleID, dow: dayOfWeek, period: period}
	if _, ok := r.template[k]; !ok {
		return 0, false
	}

	date := model.AddDays(r.weekStart, dayOfWeek)
	if n, ok := r.daily[dateKey{loc: locID, role: roleID, date: date, period: period}]; ok {
		return clamp(n), true
	}
	if n, ok := r.weekly[k]; ok {
		return clamp(n), true
	}
	return clamp(r.template[k]), true
}

// ResolveWeek 展开整周的槽位清单，顺序确定（地点、岗位、天、时段）
func (r *Resolver) ResolveWeek() []Slot {
	keys := make([]slotKey, 0, len(r.template))
	for k := range r.template {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.loc != b.loc {
			return a.loc.String() < b.loc.String()
		}
		if a.role != b.role {
			return a.role.String() < b.role.String()
		}
		if a.dow != b.dow {
			return a.dow < b.dow
		}
		return a.period < b.period
	})

	slots := make([]Slot, 0, len(keys))
	for _, k := range keys {
		required, _ := r.Resolve(k.loc, k.role, k.dow, k.period)
		slots = append(slots, Slot{
			LocationID: k.loc,
			RoleID:     k.role,
			DayOfWeek:  k.dow,
			Date:       model.AddDays(r.weekStart, k.dow),
			Period:     k.period,
			Required:   required,
		})
	}
	return slots
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
