package solver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/coverage"
	"github.com/turnario/turnario/pkg/logger"
	"github.com/turnario/turnario/pkg/model"
	"github.com/turnario/turnario/pkg/validator"
)

// ShiftWriter 班次写入接口，由仓储层实现
type ShiftWriter interface {
	CreateShift(ctx context.Context, s *model.Shift) error
}

// SkippedShift 被跳过的分配及原因
type SkippedShift struct {
	Assignment Assignment `json:"assignment"`
	Reason     string     `json:"reason"`
}

// SaveResult 持久化汇总
type SaveResult struct {
	Saved   int            `json:"saved"`
	Skipped []SkippedShift `json:"skipped,omitempty"`
	Errors  []string       `json:"errors,omitempty"`
}

// SaveRequest 一次持久化批次的输入
type SaveRequest struct {
	ScheduleID  uuid.UUID
	WeekStart   string
	Assignments []Assignment
	Resolver    *coverage.Resolver
	Times       *coverage.TimeResolver
	Snapshot    *validator.Context
}

// Persister 把求解器返回的分配写入班表
type Persister struct {
	writer ShiftWriter
}

// NewPersister 创建持久化器
func NewPersister(writer ShiftWriter) *Persister {
	return &Persister{writer: writer}
}

// Save 逐条处理求解器返回的分配
// 每条都重算槽位需求与已排数（含本批次已插入的），满员或需求为 0 跳过；
// 再过一遍完整校验（防御求解器的过期输出），冲突跳过并记录原因；
// 全部通过才解析具体时间并写入。批次内任何槽位都不会超出需求人数
func (p *Persister) Save(ctx context.Context, req *SaveRequest) *SaveResult {
	log := logger.NewGenerationLogger()
	result := &SaveResult{}

	for _, a := range req.Assignments {
		required, exists := req.Resolver.Resolve(a.LocationID, a.RoleID, a.DayOfWeek, a.Period)
		if !exists || required <= 0 {
			result.Skipped = append(result.Skipped, SkippedShift{Assignment: a, Reason: "slot già coperto"})
			continue
		}

		date := model.AddDays(req.WeekStart, a.DayOfWeek)
		assigned := p.countAssigned(req.Snapshot, req.ScheduleID, a, date)
		if assigned >= required {
			result.Skipped = append(result.Skipped, SkippedShift{Assignment: a, Reason: "slot già coperto"})
			log.ShiftSkipped(a.EmployeeID.String(), date, "slot già coperto")
			continue
		}

		times := req.Times.ResolveShiftTimes(a.LocationID, a.RoleID, a.Period, a.DayOfWeek)

		conflict := validator.Validate(req.Snapshot, validator.Params{
			EmployeeID: a.EmployeeID,
			ScheduleID: req.ScheduleID,
			LocationID: a.LocationID,
			RoleID:     a.RoleID,
			Date:       date,
			StartTime:  times.StartTime,
			EndTime:    times.EndTime,
		})
		if conflict != nil {
			result.Skipped = append(result.Skipped, SkippedShift{Assignment: a, Reason: conflict.Message})
			log.ShiftSkipped(a.EmployeeID.String(), date, conflict.Message)
			continue
		}

		shift := &model.Shift{
			BaseModel:       model.NewBaseModel(),
			ScheduleID:      req.ScheduleID,
			EmployeeID:      a.EmployeeID,
			LocationID:      a.LocationID,
			RoleID:          a.RoleID,
			Date:            date,
			StartTime:       times.StartTime,
			EndTime:         times.EndTime,
			Status:          model.ShiftActive,
			IsAutoGenerated: true,
		}
		if err := p.writer.CreateShift(ctx, shift); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("创建班次失败 (%s %s): %v", a.EmployeeID, date, err))
			continue
		}

		// 登记到快照，使批内后续分配看到新计数
		req.Snapshot.AddShift(shift)
		result.Saved++
	}

	return result
}

// countAssigned 统计槽位当前已排人数（快照含本批次已插入的班次）
func (p *Persister) countAssigned(c *validator.Context, scheduleID uuid.UUID, a Assignment, date string) int {
	count := 0
	for _, s := range c.ShiftsAtLocation(scheduleID, a.LocationID, date) {
		if s.RoleID == a.RoleID && model.BucketPeriod(s.StartTime) == a.Period {
			count++
		}
	}
	return count
}
