package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

// OrganizationRepository 组织仓储
type OrganizationRepository struct {
	db DB
}

// NewOrganizationRepository 创建组织仓储
func NewOrganizationRepository(db DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// GetByID 根据ID获取组织（含排班设置）
func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	query := `
		SELECT id, name, code, settings, created_at, updated_at
		FROM organizations
		WHERE id = $1 AND deleted_at IS NULL
	`
	org := &model.Organization{}
	var settingsRaw []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Code, &settingsRaw, &org.CreatedAt, &org.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询组织失败: %w", err)
	}

	org.Settings = model.DefaultSettings()
	if len(settingsRaw) > 0 {
		if err := json.Unmarshal(settingsRaw, &org.Settings); err != nil {
			return nil, fmt.Errorf("解析组织设置失败: %w", err)
		}
	}
	return org, nil
}

// Create 创建组织
func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if org.ID == uuid.Nil {
		org.BaseModel = model.NewBaseModel()
	}
	settingsRaw, err := json.Marshal(org.Settings)
	if err != nil {
		return fmt.Errorf("序列化组织设置失败: %w", err)
	}

	query := `
		INSERT INTO organizations (id, name, code, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.ExecContext(ctx, query,
		org.ID, org.Name, org.Code, settingsRaw, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建组织失败: %w", err)
	}
	return nil
}

// UpdateSettings 更新组织排班设置
func (r *OrganizationRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings model.OrganizationSettings) error {
	settingsRaw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("序列化组织设置失败: %w", err)
	}

	query := `UPDATE organizations SET settings = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, settingsRaw, time.Now())
	if err != nil {
		return fmt.Errorf("更新组织设置失败: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("组织不存在")
	}
	return nil
}

// ListLocations 列出组织下的地点
func (r *OrganizationRepository) ListLocations(ctx context.Context, orgID uuid.UUID) ([]model.Location, error) {
	query := `
		SELECT id, org_id, name, address, is_active, created_at, updated_at
		FROM locations
		WHERE org_id = $1 AND deleted_at IS NULL
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询地点失败: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.ID, &loc.OrgID, &loc.Name, &loc.Address, &loc.IsActive, &loc.CreatedAt, &loc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("扫描地点失败: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// ListRoles 列出组织下的岗位
func (r *OrganizationRepository) ListRoles(ctx context.Context, orgID uuid.UUID) ([]model.Role, error) {
	query := `
		SELECT id, org_id, name, color, created_at, updated_at
		FROM roles
		WHERE org_id = $1 AND deleted_at IS NULL
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询岗位失败: %w", err)
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.OrgID, &role.Name, &role.Color, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("扫描岗位失败: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// ListRoleShiftTimes 列出岗位级班次时间覆盖
func (r *OrganizationRepository) ListRoleShiftTimes(ctx context.Context, orgID uuid.UUID) ([]model.RoleShiftTime, error) {
	query := `
		SELECT id, org_id, role_id, period, day_of_week, start_time, end_time
		FROM role_shift_times
		WHERE org_id = $1 AND deleted_at IS NULL
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询岗位班次时间失败: %w", err)
	}
	defer rows.Close()

	var times []model.RoleShiftTime
	for rows.Next() {
		var rt model.RoleShiftTime
		if err := rows.Scan(&rt.ID, &rt.OrgID, &rt.RoleID, &rt.Period, &rt.DayOfWeek, &rt.StartTime, &rt.EndTime); err != nil {
			return nil, fmt.Errorf("扫描岗位班次时间失败: %w", err)
		}
		times = append(times, rt)
	}
	return times, rows.Err()
}

// ListLocationRoleShiftTimes 列出地点+岗位级班次时间覆盖
func (r *OrganizationRepository) ListLocationRoleShiftTimes(ctx context.Context, orgID uuid.UUID) ([]model.LocationRoleShiftTime, error) {
	query := `
		SELECT id, org_id, location_id, role_id, period, day_of_week, start_time, end_time
		FROM location_role_shift_times
		WHERE org_id = $1 AND deleted_at IS NULL
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("查询地点岗位班次时间失败: %w", err)
	}
	defer rows.Close()

	var times []model.LocationRoleShiftTime
	for rows.Next() {
		var lrt model.LocationRoleShiftTime
		if err := rows.Scan(&lrt.ID, &lrt.OrgID, &lrt.LocationID, &lrt.RoleID, &lrt.Period, &lrt.DayOfWeek, &lrt.StartTime, &lrt.EndTime); err != nil {
			return nil, fmt.Errorf("扫描地点岗位班次时间失败: %w", err)
		}
		times = append(times, lrt)
	}
	return times, rows.Err()
}
