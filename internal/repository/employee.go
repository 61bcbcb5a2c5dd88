package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// ListByOrg 列出组织下的员工
func (r *EmployeeRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*model.Employee, error) {
	query := `
		SELECT id, org_id, first_name, last_name, email, phone, is_active,
			weekly_hours, max_weekly_hours, period_preference, preferred_location_id,
			created_at, updated_at
		FROM employees
		WHERE org_id = $1 AND deleted_at IS NULL
		ORDER BY last_name, first_name
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		e := &model.Employee{}
		if err := rows.Scan(
			&e.ID, &e.OrgID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.IsActive,
			&e.WeeklyHours, &e.MaxWeeklyHours, &e.PeriodPreference, &e.PreferredLocationID,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描员工失败: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// ListRoles 列出组织下全部员工-岗位关联
func (r *EmployeeRepository) ListRoles(ctx context.Context, orgID uuid.UUID) ([]model.EmployeeRole, error) {
	query := `
		SELECT er.employee_id, er.role_id, er.is_primary
		FROM employee_roles er
		JOIN employees e ON e.id = er.employee_id
		WHERE e.org_id = $1 AND e.deleted_at IS NULL
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询员工岗位失败: %w", err)
	}
	defer rows.Close()

	var roles []model.EmployeeRole
	for rows.Next() {
		var er model.EmployeeRole
		if err := rows.Scan(&er.EmployeeID, &er.RoleID, &er.IsPrimary); err != nil {
			return nil, fmt.Errorf("扫描员工岗位失败: %w", err)
		}
		roles = append(roles, er)
	}
	return roles, rows.Err()
}

// ListAvailability 列出组织下全部周期性可用性
func (r *EmployeeRepository) ListAvailability(ctx context.Context, orgID uuid.UUID) ([]model.Availability, error) {
	query := `
		SELECT a.id, a.employee_id, a.day_of_week, a.period, a.status
		FROM availability a
		JOIN employees e ON e.id = a.employee_id
		WHERE e.org_id = $1 AND e.deleted_at IS NULL
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询可用性失败: %w", err)
	}
	defer rows.Close()

	var out []model.Availability
	for rows.Next() {
		var a model.Availability
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.DayOfWeek, &a.Period, &a.Status); err != nil {
			return nil, fmt.Errorf("扫描可用性失败: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListExceptions 列出与日期区间相交的可用性例外
func (r *EmployeeRepository) ListExceptions(ctx context.Context, orgID uuid.UUID, startDate, endDate string) ([]model.AvailabilityException, error) {
	query := `
		SELECT x.id, x.employee_id, x.start_date, x.end_date, x.day_of_week, x.period, x.status
		FROM availability_exceptions x
		JOIN employees e ON e.id = x.employee_id
		WHERE e.org_id = $1 AND e.deleted_at IS NULL
			AND x.start_date <= $3 AND x.end_date >= $2
	`
	rows, err := r.db.QueryContext(ctx, query, orgID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("查询可用性例外失败: %w", err)
	}
	defer rows.Close()

	var out []model.AvailabilityException
	for rows.Next() {
		var x model.AvailabilityException
		if err := rows.Scan(&x.ID, &x.EmployeeID, &x.StartDate, &x.EndDate, &x.DayOfWeek, &x.Period, &x.Status); err != nil {
			return nil, fmt.Errorf("扫描可用性例外失败: %w", err)
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

// ListIncompatibilities 列出组织下的员工互斥关系
func (r *EmployeeRepository) ListIncompatibilities(ctx context.Context, orgID uuid.UUID) ([]model.Incompatibility, error) {
	query := `
		SELECT id, org_id, employee_a_id, employee_b_id, reason
		FROM incompatibilities
		WHERE org_id = $1 AND deleted_at IS NULL
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询互斥关系失败: %w", err)
	}
	defer rows.Close()

	var out []model.Incompatibility
	for rows.Next() {
		var inc model.Incompatibility
		if err := rows.Scan(&inc.ID, &inc.OrgID, &inc.EmployeeAID, &inc.EmployeeBID, &inc.Reason); err != nil {
			return nil, fmt.Errorf("扫描互斥关系失败: %w", err)
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

// ListTimeOff 列出与日期区间相交的请假记录
func (r *EmployeeRepository) ListTimeOff(ctx context.Context, orgID uuid.UUID, startDate, endDate string) ([]*model.TimeOff, error) {
	query := `
		SELECT t.id, t.employee_id, t.start_date, t.end_date, t.status, t.reason
		FROM time_off t
		JOIN employees e ON e.id = t.employee_id
		WHERE e.org_id = $1 AND e.deleted_at IS NULL
			AND t.start_date <= $3 AND t.end_date >= $2
	`
	rows, err := r.db.QueryContext(ctx, query, orgID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("查询请假记录失败: %w", err)
	}
	defer rows.Close()

	var out []*model.TimeOff
	for rows.Next() {
		t := &model.TimeOff{}
		if err := rows.Scan(&t.ID, &t.EmployeeID, &t.StartDate, &t.EndDate, &t.Status, &t.Reason); err != nil {
			return nil, fmt.Errorf("扫描请假记录失败: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
