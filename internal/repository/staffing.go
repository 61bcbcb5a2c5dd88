package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

// StaffingRepository 人员需求仓储
type StaffingRepository struct {
	db DB
}

// NewStaffingRepository 创建人员需求仓储
func NewStaffingRepository(db DB) *StaffingRepository {
	return &StaffingRepository{db: db}
}

// ListRequirements 列出组织的模板需求和指定周的周需求
// week_start_date 为 NULL 的行是每周循环模板，等于 weekStart 的行是该周覆盖
func (r *StaffingRepository) ListRequirements(ctx context.Context, orgID uuid.UUID, weekStart string) ([]model.StaffingRequirement, error) {
	query := `
		SELECT id, org_id, location_id, role_id, day_of_week, period, required_count,
			week_start_date, created_at, updated_at
		FROM staffing_requirements
		WHERE org_id = $1 AND (week_start_date IS NULL OR week_start_date = $2)
			AND deleted_at IS NULL
		ORDER BY location_id, role_id, day_of_week, period
	`
	rows, err := r.db.QueryContext(ctx, query, orgID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("查询人员需求失败: %w", err)
	}
	defer rows.Close()

	var reqs []model.StaffingRequirement
	for rows.Next() {
		var sr model.StaffingRequirement
		if err := rows.Scan(
			&sr.ID, &sr.OrgID, &sr.LocationID, &sr.RoleID, &sr.DayOfWeek, &sr.Period, &sr.RequiredCount,
			&sr.WeekStartDate, &sr.CreatedAt, &sr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描人员需求失败: %w", err)
		}
		reqs = append(reqs, sr)
	}
	return reqs, rows.Err()
}

// ListDailyOverrides 列出指定周内的按日覆盖
func (r *StaffingRepository) ListDailyOverrides(ctx context.Context, orgID uuid.UUID, weekStart string) ([]model.DailyStaffingOverride, error) {
	weekEnd := model.AddDays(weekStart, 6)
	query := `
		SELECT id, org_id, location_id, role_id, date, period, required_count,
			created_at, updated_at
		FROM daily_staffing_overrides
		WHERE org_id = $1 AND date BETWEEN $2 AND $3 AND deleted_at IS NULL
		ORDER BY date, location_id, role_id, period
	`
	rows, err := r.db.QueryContext(ctx, query, orgID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("查询按日覆盖失败: %w", err)
	}
	defer rows.Close()

	var overrides []model.DailyStaffingOverride
	for rows.Next() {
		var o model.DailyStaffingOverride
		if err := rows.Scan(
			&o.ID, &o.OrgID, &o.LocationID, &o.RoleID, &o.Date, &o.Period, &o.RequiredCount,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描按日覆盖失败: %w", err)
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}
