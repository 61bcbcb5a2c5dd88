package coverage

import (
	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

type locRoleTimeKey struct {
	loc    uuid.UUID
	role   uuid.UUID
	period model.ShiftPeriod
	dow    int
}

type roleTimeKey struct {
	role   uuid.UUID
	period model.ShiftPeriod
	dow    int
}

// TimeResolver 解析新班次的具体起止时间
// 查找优先级：地点+岗位+具体天 > 地点+岗位+每天 > 岗位+具体天 > 岗位+每天 > 组织时段默认
type TimeResolver struct {
	settings model.OrganizationSettings
	locRole  map[locRoleTimeKey]model.PeriodTime
	role     map[roleTimeKey]model.PeriodTime
}

// NewTimeResolver 从覆盖行构建时间解析器
func NewTimeResolver(settings model.OrganizationSettings, roleTimes []model.RoleShiftTime, locRoleTimes []model.LocationRoleShiftTime) *TimeResolver {
	tr := &TimeResolver{
		settings: settings,
		locRole:  make(map[locRoleTimeKey]model.PeriodTime),
		role:     make(map[roleTimeKey]model.PeriodTime),
	}
	for _, rt := range roleTimes {
		k := roleTimeKey{role: rt.RoleID, period: rt.Period, dow: rt.DayOfWeek}
		tr.role[k] = model.PeriodTime{StartTime: rt.StartTime, EndTime: rt.EndTime}
	}
	for _, lrt := range locRoleTimes {
		k := locRoleTimeKey{loc: lrt.LocationID, role: lrt.RoleID, period: lrt.Period, dow: lrt.DayOfWeek}
		tr.locRole[k] = model.PeriodTime{StartTime: lrt.StartTime, EndTime: lrt.EndTime}
	}
	return tr
}

// ResolveShiftTimes 解析 (地点, 岗位, 时段, 星期) 的班次起止时间
func (tr *TimeResolver) ResolveShiftTimes(locID, roleID uuid.UUID, period model.ShiftPeriod, dayOfWeek int) model.PeriodTime {
	if pt, ok := tr.locRole[locRoleTimeKey{loc: locID, role: roleID, period: period, dow: dayOfWeek}]; ok {
		return pt
	}
	if pt, ok := tr.locRole[locRoleTimeKey{loc: locID, role: roleID, period: period, dow: model.DayAll}]; ok {
		return pt
	}
	if pt, ok := tr.role[roleTimeKey{role: roleID, period: period, dow: dayOfWeek}]; ok {
		return pt
	}
	if pt, ok := tr.role[roleTimeKey{role: roleID, period: period, dow: model.DayAll}]; ok {
		return pt
	}
	return tr.settings.PeriodTime(period)
}
