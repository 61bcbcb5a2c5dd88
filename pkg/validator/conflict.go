// Package validator 实现排班分配的约束校验
package validator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictOverlap         ConflictType = "overlap"         // 时间重叠
	ConflictMaxHours        ConflictType = "max_hours"       // 超过周工时上限
	ConflictRestPeriod      ConflictType = "rest_period"     // 休息时间不足
	ConflictIncompatibility ConflictType = "incompatibility" // 员工互斥
	ConflictAvailability    ConflictType = "availability"    // 不可用
	ConflictTimeOff         ConflictType = "time_off"        // 已批准请假
)

// Conflict 冲突信息，消息面向终端用户（意大利语界面）
type Conflict struct {
	Type       ConflictType `json:"type"`
	EmployeeID uuid.UUID    `json:"employee_id"`
	Date       string       `json:"date"`
	Message    string       `json:"message"`
}

// minRestMinutes 相邻班次的最小休息分钟数（11 小时，固定值）
const minRestMinutes = 11 * 60

// Params 单次校验的分配参数
type Params struct {
	EmployeeID     uuid.UUID
	ScheduleID     uuid.UUID
	LocationID     uuid.UUID
	RoleID         uuid.UUID
	Date           string // YYYY-MM-DD
	StartTime      string // HH:MM
	EndTime        string // HH:MM
	ExcludeShiftID *uuid.UUID
}

// Validate 按固定顺序运行六项检查，遇到第一个冲突立即返回
// 顺序：重叠 > 周工时 > 休息时间 > 互斥 > 可用性 > 请假
func Validate(c *Context, p Params) *Conflict {
	checks := []func(*Context, Params) *Conflict{
		checkOverlap,
		checkMaxHours,
		checkRestPeriod,
		checkIncompatibility,
		checkAvailability,
		checkTimeOff,
	}
	for _, check := range checks {
		if conflict := check(c, p); conflict != nil {
			return conflict
		}
	}
	return nil
}

// checkOverlap 检查与同日其他班次的时间重叠（半开区间相交）
func checkOverlap(c *Context, p Params) *Conflict {
	newStart := model.ParseTimeMinutes(p.StartTime)
	newEnd := model.ParseTimeMinutes(p.EndTime)

	for _, s := range c.ShiftsOn(p.EmployeeID, p.Date) {
		if p.ExcludeShiftID != nil && s.ID == *p.ExcludeShiftID {
			continue
		}
		sStart := model.ParseTimeMinutes(s.StartTime)
		sEnd := model.ParseTimeMinutes(s.EndTime)
		if newStart < sEnd && newEnd > sStart {
			return &Conflict{
				Type:       ConflictOverlap,
				EmployeeID: p.EmployeeID,
				Date:       p.Date,
				Message:    fmt.Sprintf("Si sovrappone con il turno %s-%s", s.StartTime, s.EndTime),
			}
		}
	}
	return nil
}

// checkMaxHours 检查周累计工时（窗口含前一天，捕捉跨午夜溢出）
func checkMaxHours(c *Context, p Params) *Conflict {
	maxHours := c.MaxWeeklyHours(p.EmployeeID)
	if maxHours <= 0 {
		return nil
	}

	current := c.EmployeeWeekMinutes(p.EmployeeID, p.ExcludeShiftID)
	proposed := shiftMinutes(p.StartTime, p.EndTime)

	if current+proposed > maxHours*60 {
		return &Conflict{
			Type:       ConflictMaxHours,
			EmployeeID: p.EmployeeID,
			Date:       p.Date,
			Message:    fmt.Sprintf("Supererebbe il limite di %dh/settimana (attuali ~%.1fh)", maxHours, float64(current)/60.0),
		}
	}
	return nil
}

// checkRestPeriod 检查与前一天、当天、后一天班次的休息间隔
// 跨日间隔按经过午夜的分钟数桥接计算
func checkRestPeriod(c *Context, p Params) *Conflict {
	newStart := model.ParseTimeMinutes(p.StartTime)
	newEnd := model.ParseTimeMinutes(p.EndTime)

	dates := []string{model.AddDays(p.Date, -1), p.Date, model.AddDays(p.Date, 1)}
	for _, date := range dates {
		for _, s := range c.ShiftsOn(p.EmployeeID, date) {
			if p.ExcludeShiftID != nil && s.ID == *p.ExcludeShiftID {
				continue
			}
			sStart := model.ParseTimeMinutes(s.StartTime)
			sEnd := model.ParseTimeMinutes(s.EndTime)

			var restMins int
			switch date {
			case p.Date:
				if sEnd <= newStart {
					restMins = newStart - sEnd
				} else if newEnd <= sStart {
					restMins = sStart - newEnd
				} else {
					continue // 重叠已由第一项检查处理
				}
			default:
				if date < p.Date {
					restMins = (model.MinutesPerDay - sEnd) + newStart
				} else {
					restMins = (model.MinutesPerDay - newEnd) + sStart
				}
			}

			if restMins > 0 && restMins < minRestMinutes {
				return &Conflict{
					Type:       ConflictRestPeriod,
					EmployeeID: p.EmployeeID,
					Date:       p.Date,
					Message:    fmt.Sprintf("Riposo insufficiente (%.1fh, minimo 11h)", float64(restMins)/60.0),
				}
			}
		}
	}
	return nil
}

// checkIncompatibility 检查互斥员工是否已在同班表同地点同日排班
func checkIncompatibility(c *Context, p Params) *Conflict {
	partners := c.IncompatibleWith(p.EmployeeID)
	if len(partners) == 0 {
		return nil
	}

	assigned := make(map[uuid.UUID]bool)
	for _, s := range c.ShiftsAtLocation(p.ScheduleID, p.LocationID, p.Date) {
		assigned[s.EmployeeID] = true
	}
	for _, partner := range partners {
		if assigned[partner] {
			return &Conflict{
				Type:       ConflictIncompatibility,
				EmployeeID: p.EmployeeID,
				Date:       p.Date,
				Message:    "Incompatibilità con dipendente già assegnato in questo turno",
			}
		}
	}
	return nil
}

// checkAvailability 检查周期性可用性，仅 unavailable 阻止排班
func checkAvailability(c *Context, p Params) *Conflict {
	dow := model.DayOffset(c.WeekStart, p.Date)
	period := model.DeriveAvailabilityPeriod(p.StartTime)

	if st, ok := c.AvailabilityStatus(p.EmployeeID, dow, period); ok && st == model.AvailabilityUnavailable {
		return &Conflict{
			Type:       ConflictAvailability,
			EmployeeID: p.EmployeeID,
			Date:       p.Date,
			Message:    "Non disponibile in questo slot",
		}
	}
	return nil
}

// checkTimeOff 检查已批准的请假是否覆盖该日期
func checkTimeOff(c *Context, p Params) *Conflict {
	if t := c.ApprovedTimeOff(p.EmployeeID, p.Date); t != nil {
		return &Conflict{
			Type:       ConflictTimeOff,
			EmployeeID: p.EmployeeID,
			Date:       p.Date,
			Message:    "Assenza/permesso approvato in questa data",
		}
	}
	return nil
}

// shiftMinutes 计算班次时长，结束早于开始视为跨午夜
func shiftMinutes(startTime, endTime string) int {
	start := model.ParseTimeMinutes(startTime)
	end := model.ParseTimeMinutes(endTime)
	if end <= start {
		end += model.MinutesPerDay
	}
	return end - start
}
