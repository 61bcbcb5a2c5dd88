// Package gapfill 实现确定性的排班缺口填补
package gapfill

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/coverage"
	"github.com/turnario/turnario/pkg/logger"
	"github.com/turnario/turnario/pkg/model"
	"github.com/turnario/turnario/pkg/validator"
)

// ShiftWriter 班次写入接口
type ShiftWriter interface {
	CreateShift(ctx context.Context, s *model.Shift) error
}

// UnfilledGap 未能填补的缺口单位
type UnfilledGap struct {
	Slot   coverage.Slot `json:"slot"`
	Reason string        `json:"reason"`
}

// FillResult 填补汇总
type FillResult struct {
	Filled   int           `json:"filled"`
	Unfilled []UnfilledGap `json:"unfilled,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
}

// Request 一次填补批次的输入
type Request struct {
	ScheduleID uuid.UUID
	WeekStart  string
	Slots      []coverage.Slot // 已解析的整周槽位
	Times      *coverage.TimeResolver
	Snapshot   *validator.Context
}

// Filler 贪心补缺器：用速度和确定性换全局最优，不回调求解器
type Filler struct {
	writer ShiftWriter
}

// NewFiller 创建补缺器
func NewFiller(writer ShiftWriter) *Filler {
	return &Filler{writer: writer}
}

// Fill 逐槽位填补 assigned < required 的缺口
// 候选人按当前累计周分钟数升序（负载最小优先）；每填入一人即更新快照，
// 批内计数即时生效；某个缺口单位无人可用时记录原因并继续，从不中止批次
func (f *Filler) Fill(ctx context.Context, req *Request) *FillResult {
	log := logger.NewGenerationLogger()
	started := time.Now()
	result := &FillResult{}

	for _, slot := range req.Slots {
		if slot.Required <= 0 {
			continue
		}
		assigned := f.countAssigned(req.Snapshot, req.ScheduleID, slot)

		for assigned < slot.Required {
			filled, reason, err := f.fillUnit(ctx, req, slot)
			if err != nil {
				result.Errors = append(result.Errors, err.Error())
				break
			}
			if !filled {
				result.Unfilled = append(result.Unfilled, UnfilledGap{Slot: slot, Reason: reason})
				break
			}
			result.Filled++
			assigned++
		}
	}

	log.GapFillDone(req.WeekStart, result.Filled, len(result.Unfilled), time.Since(started))
	return result
}

// fillUnit 为一个缺口单位找第一个通过校验的候选人
func (f *Filler) fillUnit(ctx context.Context, req *Request, slot coverage.Slot) (bool, string, error) {
	times := req.Times.ResolveShiftTimes(slot.LocationID, slot.RoleID, slot.Period, slot.DayOfWeek)

	candidates := f.candidates(req.Snapshot, slot.RoleID)
	if len(candidates) == 0 {
		return false, "Nessun dipendente idoneo per questo ruolo", nil
	}

	for _, emp := range candidates {
		conflict := validator.Validate(req.Snapshot, validator.Params{
			EmployeeID: emp.ID,
			ScheduleID: req.ScheduleID,
			LocationID: slot.LocationID,
			RoleID:     slot.RoleID,
			Date:       slot.Date,
			StartTime:  times.StartTime,
			EndTime:    times.EndTime,
		})
		if conflict != nil {
			continue
		}

		shift := &model.Shift{
			BaseModel:       model.NewBaseModel(),
			ScheduleID:      req.ScheduleID,
			EmployeeID:      emp.ID,
			LocationID:      slot.LocationID,
			RoleID:          slot.RoleID,
			Date:            slot.Date,
			StartTime:       times.StartTime,
			EndTime:         times.EndTime,
			Status:          model.ShiftActive,
			IsAutoGenerated: true,
		}
		if err := f.writer.CreateShift(ctx, shift); err != nil {
			return false, "", fmt.Errorf("创建补缺班次失败 (%s %s): %w", emp.ID, slot.Date, err)
		}
		req.Snapshot.AddShift(shift)
		return true, "", nil
	}
	return false, "Nessun dipendente disponibile senza conflitti", nil
}

// candidates 返回胜任该岗位的在职员工，按累计周分钟数升序
func (f *Filler) candidates(c *validator.Context, roleID uuid.UUID) []*model.Employee {
	var out []*model.Employee
	for _, emp := range c.Employees() {
		if emp.IsActive && c.HasRole(emp.ID, roleID) {
			out = append(out, emp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		mi := c.EmployeeWeekMinutes(out[i].ID, nil)
		mj := c.EmployeeWeekMinutes(out[j].ID, nil)
		if mi != mj {
			return mi < mj
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (f *Filler) countAssigned(c *validator.Context, scheduleID uuid.UUID, slot coverage.Slot) int {
	count := 0
	for _, s := range c.ShiftsAtLocation(scheduleID, slot.LocationID, slot.Date) {
		if s.RoleID == slot.RoleID && model.BucketPeriod(s.StartTime) == slot.Period {
			count++
		}
	}
	return count
}
