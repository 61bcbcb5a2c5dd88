package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/turnario/turnario/pkg/errors"
	"github.com/turnario/turnario/pkg/model"
)

// ScheduleRepository 排班表仓储
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository 创建排班表仓储
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetOrCreate 惰性获取某组织某周的排班表，不存在时创建草稿
func (r *ScheduleRepository) GetOrCreate(ctx context.Context, orgID uuid.UUID, weekStart string) (*model.Schedule, error) {
	query := `
		SELECT id, org_id, week_start_date, status, published_at, created_at, updated_at
		FROM schedules
		WHERE org_id = $1 AND week_start_date = $2 AND deleted_at IS NULL
	`
	s := &model.Schedule{}
	err := r.db.QueryRowContext(ctx, query, orgID, weekStart).Scan(
		&s.ID, &s.OrgID, &s.WeekStartDate, &s.Status, &s.PublishedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == nil {
		return s, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("查询排班表失败: %w", err)
	}

	s = &model.Schedule{
		BaseModel:     model.NewBaseModel(),
		OrgID:         orgID,
		WeekStartDate: weekStart,
		Status:        model.ScheduleDraft,
	}
	insert := `
		INSERT INTO schedules (id, org_id, week_start_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, insert, s.ID, s.OrgID, s.WeekStartDate, s.Status, s.CreatedAt, s.UpdatedAt); err != nil {
		// 并发创建时撞唯一约束，回读已有行
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return r.GetOrCreate(ctx, orgID, weekStart)
		}
		return nil, fmt.Errorf("创建排班表失败: %w", err)
	}
	return s, nil
}

// Publish 发布排班表（draft/modified_after_publish -> published）
func (r *ScheduleRepository) Publish(ctx context.Context, scheduleID uuid.UUID) (*model.Schedule, error) {
	now := time.Now()
	query := `
		UPDATE schedules
		SET status = $2, published_at = $3, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
			AND status IN ($4, $5)
		RETURNING id, org_id, week_start_date, status, published_at, created_at, updated_at
	`
	s := &model.Schedule{}
	err := r.db.QueryRowContext(ctx, query,
		scheduleID, model.SchedulePublished, now,
		model.ScheduleDraft, model.ScheduleModifiedAfterPublish,
	).Scan(&s.ID, &s.OrgID, &s.WeekStartDate, &s.Status, &s.PublishedAt, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrAlreadyPublished
	}
	if err != nil {
		return nil, fmt.Errorf("发布排班表失败: %w", err)
	}
	return s, nil
}

// markModified 发布后的班次变动把排班表打回 modified_after_publish
func (r *ScheduleRepository) markModified(ctx context.Context, scheduleID uuid.UUID) error {
	query := `
		UPDATE schedules SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, scheduleID, model.ScheduleModifiedAfterPublish, time.Now(), model.SchedulePublished)
	if err != nil {
		return fmt.Errorf("更新排班表状态失败: %w", err)
	}
	return nil
}

// ListShifts 列出排班表下的全部班次
func (r *ScheduleRepository) ListShifts(ctx context.Context, scheduleID uuid.UUID) ([]model.Shift, error) {
	query := `
		SELECT id, schedule_id, employee_id, location_id, role_id, date,
			start_time, end_time, break_minutes, status, is_auto_generated, notes,
			created_at, updated_at
		FROM shifts
		WHERE schedule_id = $1 AND deleted_at IS NULL
		ORDER BY date, start_time
	`
	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("查询班次失败: %w", err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		var s model.Shift
		if err := rows.Scan(
			&s.ID, &s.ScheduleID, &s.EmployeeID, &s.LocationID, &s.RoleID, &s.Date,
			&s.StartTime, &s.EndTime, &s.BreakMinutes, &s.Status, &s.IsAutoGenerated, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描班次失败: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// ListEmployeeShiftsInWindow 列出员工在日期窗口内的 active 班次（跨排班表）
func (r *ScheduleRepository) ListEmployeeShiftsInWindow(ctx context.Context, orgID uuid.UUID, startDate, endDate string) ([]model.Shift, error) {
	query := `
		SELECT sh.id, sh.schedule_id, sh.employee_id, sh.location_id, sh.role_id, sh.date,
			sh.start_time, sh.end_time, sh.break_minutes, sh.status, sh.is_auto_generated, sh.notes,
			sh.created_at, sh.updated_at
		FROM shifts sh
		JOIN schedules sc ON sc.id = sh.schedule_id
		WHERE sc.org_id = $1 AND sh.date BETWEEN $2 AND $3
			AND sh.status = $4 AND sh.deleted_at IS NULL
	`
	rows, err := r.db.QueryContext(ctx, query, orgID, startDate, endDate, model.ShiftActive)
	if err != nil {
		return nil, fmt.Errorf("查询窗口班次失败: %w", err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		var s model.Shift
		if err := rows.Scan(
			&s.ID, &s.ScheduleID, &s.EmployeeID, &s.LocationID, &s.RoleID, &s.Date,
			&s.StartTime, &s.EndTime, &s.BreakMinutes, &s.Status, &s.IsAutoGenerated, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描窗口班次失败: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// CreateShift 写入班次；排班表已发布时顺带打回 modified_after_publish
// 存储层的唯一约束是批内去重的最后防线
func (r *ScheduleRepository) CreateShift(ctx context.Context, shift *model.Shift) error {
	if shift.ID == uuid.Nil {
		shift.BaseModel = model.NewBaseModel()
	}

	query := `
		INSERT INTO shifts (
			id, schedule_id, employee_id, location_id, role_id, date,
			start_time, end_time, break_minutes, status, is_auto_generated, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.ScheduleID, shift.EmployeeID, shift.LocationID, shift.RoleID, shift.Date,
		shift.StartTime, shift.EndTime, shift.BreakMinutes, shift.Status, shift.IsAutoGenerated, shift.Notes,
		shift.CreatedAt, shift.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.ScheduleConflict(shift.EmployeeID.String(), shift.Date, "班次已存在")
		}
		return fmt.Errorf("创建班次失败: %w", err)
	}

	return r.markModified(ctx, shift.ScheduleID)
}

// UpdateShiftStatus 更新班次状态（取消/病假）
func (r *ScheduleRepository) UpdateShiftStatus(ctx context.Context, shiftID uuid.UUID, status model.ShiftStatus) error {
	query := `
		UPDATE shifts SET status = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING schedule_id
	`
	var scheduleID uuid.UUID
	err := r.db.QueryRowContext(ctx, query, shiftID, status, time.Now()).Scan(&scheduleID)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("班次", shiftID.String())
	}
	if err != nil {
		return fmt.Errorf("更新班次状态失败: %w", err)
	}
	return r.markModified(ctx, scheduleID)
}

// DeleteShift 软删除班次
func (r *ScheduleRepository) DeleteShift(ctx context.Context, shiftID uuid.UUID) error {
	query := `
		UPDATE shifts SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING schedule_id
	`
	var scheduleID uuid.UUID
	err := r.db.QueryRowContext(ctx, query, shiftID, time.Now()).Scan(&scheduleID)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("班次", shiftID.String())
	}
	if err != nil {
		return fmt.Errorf("删除班次失败: %w", err)
	}
	return r.markModified(ctx, scheduleID)
}

// WeekStats 一周的汇总统计
type WeekStats struct {
	TotalShifts        int     `json:"total_shifts"`
	TotalHours         float64 `json:"total_hours"`
	EmployeesScheduled int     `json:"employees_scheduled"`
}

// GetWeekStats 统计某排班表的班次数、总工时、排班人数
func (r *ScheduleRepository) GetWeekStats(ctx context.Context, scheduleID uuid.UUID) (*WeekStats, error) {
	shifts, err := r.ListShifts(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	stats := &WeekStats{}
	seen := make(map[uuid.UUID]bool)
	for i := range shifts {
		s := &shifts[i]
		if !s.IsActive() {
			continue
		}
		stats.TotalShifts++
		stats.TotalHours += s.Hours()
		seen[s.EmployeeID] = true
	}
	stats.EmployeesScheduled = len(seen)
	return stats, nil
}
