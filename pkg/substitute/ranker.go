// Package substitute 实现替班候选人推荐
package substitute

import (
	"sort"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
	"github.com/turnario/turnario/pkg/validator"
)

// Suggestion 候选人建议
type Suggestion struct {
	EmployeeID           uuid.UUID `json:"employee_id"`
	Name                 string    `json:"name"`
	Score                int       `json:"score"` // 展示分，封顶 100
	WeeklyHoursRemaining float64   `json:"weekly_hours_remaining"`
	ShiftsThisWeek       int       `json:"shifts_this_week"`
	PreferredLocation    bool      `json:"preferred_location"`
}

// VacatedShift 空出的班次
type VacatedShift struct {
	ScheduleID        uuid.UUID
	LocationID        uuid.UUID
	RoleID            uuid.UUID
	Date              string
	StartTime         string
	EndTime           string
	ExcludeEmployeeID uuid.UUID // 空出班次的员工
	ShiftID           *uuid.UUID
}

// Options 推荐选项
type Options struct {
	Limit int // 返回的候选人数，默认 5
}

const (
	baseScore          = 50
	preferredBonus     = 15
	avoidPenalty       = 10
	locationBonus      = 15
	capacityBonusCap   = 20.0
	fairnessBonusCap   = 20
	fairnessShiftCost  = 2
	displayScoreCeil   = 100
	defaultSuggestions = 5
)

// Suggest 返回按得分排序的替班候选人
// 候选池：在职且胜任该岗位的员工，排除空班员工本人、
// 与其互斥的员工、以及与该地点当日已排员工互斥的员工；
// 幸存者还必须完整通过约束校验，任何一项失败即整体剔除
func Suggest(c *validator.Context, shift VacatedShift, opts Options) []Suggestion {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSuggestions
	}

	excluded := make(map[uuid.UUID]bool)
	excluded[shift.ExcludeEmployeeID] = true
	for _, id := range c.IncompatibleWith(shift.ExcludeEmployeeID) {
		excluded[id] = true
	}
	// 与当日同地点已排员工互斥的也排除
	for _, s := range c.ShiftsAtLocation(shift.ScheduleID, shift.LocationID, shift.Date) {
		for _, id := range c.IncompatibleWith(s.EmployeeID) {
			excluded[id] = true
		}
	}

	type scored struct {
		suggestion Suggestion
		raw        int
	}
	var candidates []scored

	for _, emp := range c.Employees() {
		if !emp.IsActive || excluded[emp.ID] {
			continue
		}
		if !c.HasRole(emp.ID, shift.RoleID) {
			continue
		}

		conflict := validator.Validate(c, validator.Params{
			EmployeeID:     emp.ID,
			ScheduleID:     shift.ScheduleID,
			LocationID:     shift.LocationID,
			RoleID:         shift.RoleID,
			Date:           shift.Date,
			StartTime:      shift.StartTime,
			EndTime:        shift.EndTime,
			ExcludeShiftID: shift.ShiftID,
		})
		if conflict != nil {
			continue
		}

		score := baseScore

		// 可用性偏好
		dow := model.DayOffset(c.WeekStart, shift.Date)
		period := model.DeriveAvailabilityPeriod(shift.StartTime)
		if st, ok := c.AvailabilityStatus(emp.ID, dow, period); ok {
			switch st {
			case model.AvailabilityPreferred:
				score += preferredBonus
			case model.AvailabilityAvoid:
				score -= avoidPenalty
			}
		}

		// 接班后的剩余周工时容量
		currentMins := c.EmployeeWeekMinutes(emp.ID, nil)
		shiftMins := shiftMinutes(shift.StartTime, shift.EndTime)
		hoursRemaining := float64(c.MaxWeeklyHours(emp.ID)) - float64(currentMins+shiftMins)/60.0
		if hoursRemaining > 0 {
			bonus := hoursRemaining / 2
			if bonus > capacityBonusCap {
				bonus = capacityBonusCap
			}
			score += int(bonus)
		}

		// 偏好地点
		preferredLoc := emp.PreferredLocationID != nil && *emp.PreferredLocationID == shift.LocationID
		if preferredLoc {
			score += locationBonus
		}

		// 公平性：本周班次越少加分越多
		shiftsThisWeek := c.ShiftsThisWeek(emp.ID)
		if bonus := fairnessBonusCap - fairnessShiftCost*shiftsThisWeek; bonus > 0 {
			score += bonus
		}

		display := score
		if display > displayScoreCeil {
			display = displayScoreCeil
		}
		candidates = append(candidates, scored{
			suggestion: Suggestion{
				EmployeeID:           emp.ID,
				Name:                 emp.FullName(),
				Score:                display,
				WeeklyHoursRemaining: hoursRemaining,
				ShiftsThisWeek:       shiftsThisWeek,
				PreferredLocation:    preferredLoc,
			},
			raw: score,
		})
	}

	// 按原始分降序，同分按姓名稳定排序
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].raw != candidates[j].raw {
			return candidates[i].raw > candidates[j].raw
		}
		return candidates[i].suggestion.Name < candidates[j].suggestion.Name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Suggestion, len(candidates))
	for i, cand := range candidates {
		out[i] = cand.suggestion
	}
	return out
}

func shiftMinutes(startTime, endTime string) int {
	start := model.ParseTimeMinutes(startTime)
	end := model.ParseTimeMinutes(endTime)
	if end <= start {
		end += model.MinutesPerDay
	}
	return end - start
}
