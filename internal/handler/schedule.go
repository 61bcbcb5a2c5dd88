package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/turnario/turnario/internal/metrics"
	apperrors "github.com/turnario/turnario/pkg/errors"
	"github.com/turnario/turnario/pkg/gapfill"
	"github.com/turnario/turnario/pkg/model"
	"github.com/turnario/turnario/pkg/solver"
	"github.com/turnario/turnario/pkg/stats"
	"github.com/turnario/turnario/pkg/substitute"
	"github.com/turnario/turnario/pkg/validator"
)

// ValidateShiftRequest 班次校验请求
type ValidateShiftRequest struct {
	OrgID          string `json:"organization_id" validate:"required,uuid"`
	ScheduleID     string `json:"schedule_id" validate:"required,uuid"`
	EmployeeID     string `json:"employee_id" validate:"required,uuid"`
	LocationID     string `json:"location_id" validate:"required,uuid"`
	RoleID         string `json:"role_id" validate:"required,uuid"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time" validate:"required"`
	EndTime        string `json:"end_time" validate:"required"`
	ExcludeShiftID string `json:"exclude_shift_id,omitempty" validate:"omitempty,uuid"`
}

// ValidateShiftResponse 班次校验响应
type ValidateShiftResponse struct {
	Valid    bool                `json:"valid"`
	Conflict *validator.Conflict `json:"conflict,omitempty"`
}

// ValidateShift 对一个拟排班次跑完整冲突校验
func (h *Handler) ValidateShift(w http.ResponseWriter, r *http.Request) {
	var req ValidateShiftRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(w, appErr)
		return
	}

	orgID, appErr := parseUUID("organization_id", req.OrgID)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	scheduleID, _ := parseUUID("schedule_id", req.ScheduleID)
	employeeID, _ := parseUUID("employee_id", req.EmployeeID)
	locationID, _ := parseUUID("location_id", req.LocationID)
	roleID, _ := parseUUID("role_id", req.RoleID)

	weekStart := model.WeekStart(req.Date)
	snapshot, err := h.loader.LoadSnapshot(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}

	params := validator.Params{
		EmployeeID: employeeID,
		ScheduleID: scheduleID,
		LocationID: locationID,
		RoleID:     roleID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if req.ExcludeShiftID != "" {
		id, appErr := parseUUID("exclude_shift_id", req.ExcludeShiftID)
		if appErr != nil {
			respondError(w, appErr)
			return
		}
		params.ExcludeShiftID = &id
	}

	conflict := validator.Validate(snapshot, params)
	metrics.IncValidations(conflict == nil)
	respondJSON(w, http.StatusOK, ValidateShiftResponse{Valid: conflict == nil, Conflict: conflict})
}

// SubstitutesRequest 替班推荐请求
type SubstitutesRequest struct {
	OrgID      string `json:"organization_id" validate:"required,uuid"`
	ScheduleID string `json:"schedule_id" validate:"required,uuid"`
	EmployeeID string `json:"employee_id" validate:"required,uuid"` // 空出班次的员工
	LocationID string `json:"location_id" validate:"required,uuid"`
	RoleID     string `json:"role_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	ShiftID    string `json:"shift_id,omitempty" validate:"omitempty,uuid"`
	Limit      int    `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

// Substitutes 为空出的班次推荐替班候选人
func (h *Handler) Substitutes(w http.ResponseWriter, r *http.Request) {
	var req SubstitutesRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(w, appErr)
		return
	}

	orgID, appErr := parseUUID("organization_id", req.OrgID)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	scheduleID, _ := parseUUID("schedule_id", req.ScheduleID)
	employeeID, _ := parseUUID("employee_id", req.EmployeeID)
	locationID, _ := parseUUID("location_id", req.LocationID)
	roleID, _ := parseUUID("role_id", req.RoleID)

	weekStart := model.WeekStart(req.Date)
	snapshot, err := h.loader.LoadSnapshot(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}

	vacated := substitute.VacatedShift{
		ScheduleID:        scheduleID,
		LocationID:        locationID,
		RoleID:            roleID,
		Date:              req.Date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		ExcludeEmployeeID: employeeID,
	}
	if req.ShiftID != "" {
		id, appErr := parseUUID("shift_id", req.ShiftID)
		if appErr != nil {
			respondError(w, appErr)
			return
		}
		vacated.ShiftID = &id
	}

	suggestions := substitute.Suggest(snapshot, vacated, substitute.Options{Limit: req.Limit})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// GenerateRequest 排班生成请求
type GenerateRequest struct {
	OrgID            string              `json:"organization_id" validate:"required,uuid"`
	WeekStart        string              `json:"week_start" validate:"required,datetime=2006-01-02"`
	FixedAssignments []solver.Assignment `json:"fixed_assignments,omitempty"`
}

// GenerateResponse 排班生成响应
type GenerateResponse struct {
	Status     solver.Status        `json:"status"`
	ScheduleID string               `json:"schedule_id"`
	Saved      int                  `json:"saved"`
	Skipped    []solver.SkippedShift `json:"skipped,omitempty"`
	Errors     []string             `json:"errors,omitempty"`
	Duration   string               `json:"duration"`
}

// Generate 调用求解服务生成整周排班并持久化
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req GenerateRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(w, appErr)
		return
	}
	orgID, appErr := parseUUID("organization_id", req.OrgID)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	weekStart := model.WeekStart(req.WeekStart)

	data, err := h.loader.LoadConstraintData(r.Context(), orgID, weekStart, req.FixedAssignments)
	if err != nil {
		respondError(w, err)
		return
	}
	input := solver.BuildInput(data, weekStart)

	result, err := h.gateway.Solve(r.Context(), input)
	if err != nil {
		respondError(w, apperrors.Wrap(err, apperrors.CodeInternal, "构造求解请求失败"))
		return
	}
	metrics.IncSolverCalls(string(result.Status))

	switch result.Status {
	case solver.StatusInfeasible:
		reason := result.InfeasibleReason
		if reason == "" {
			reason = "无可行解"
		}
		respondError(w, apperrors.NoFeasibleSolution(reason))
		return
	case solver.StatusError:
		respondError(w, apperrors.SolverError(result.Error))
		return
	}

	schedule, err := h.schedules.GetOrCreate(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}
	snapshot, err := h.loader.LoadSnapshot(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}
	resolver, times, err := h.loader.LoadWeekPlan(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}

	saved := h.persister.Save(r.Context(), &solver.SaveRequest{
		ScheduleID:  schedule.ID,
		WeekStart:   weekStart,
		Assignments: result.Shifts,
		Resolver:    resolver,
		Times:       times,
		Snapshot:    snapshot,
	})

	respondJSON(w, http.StatusOK, GenerateResponse{
		Status:     result.Status,
		ScheduleID: schedule.ID.String(),
		Saved:      saved.Saved,
		Skipped:    saved.Skipped,
		Errors:     saved.Errors,
		Duration:   time.Since(started).String(),
	})
}

// FillGapsRequest 补缺请求
type FillGapsRequest struct {
	OrgID     string `json:"organization_id" validate:"required,uuid"`
	WeekStart string `json:"week_start" validate:"required,datetime=2006-01-02"`
}

// FillGaps 对一周的未满槽位执行确定性补缺
func (h *Handler) FillGaps(w http.ResponseWriter, r *http.Request) {
	var req FillGapsRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(w, appErr)
		return
	}
	orgID, appErr := parseUUID("organization_id", req.OrgID)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	weekStart := model.WeekStart(req.WeekStart)

	schedule, err := h.schedules.GetOrCreate(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}
	resolver, times, err := h.loader.LoadWeekPlan(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}
	snapshot, err := h.loader.LoadSnapshot(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}

	result := h.filler.Fill(r.Context(), &gapfill.Request{
		ScheduleID: schedule.ID,
		WeekStart:  weekStart,
		Slots:      resolver.ResolveWeek(),
		Times:      times,
		Snapshot:   snapshot,
	})
	metrics.AddGapsFilled(result.Filled)
	respondJSON(w, http.StatusOK, result)
}

// GetSchedule 返回某周的排班表、班次和汇总统计
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseUUID("organization_id", r.URL.Query().Get("organization_id"))
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	weekStart, appErr := parseWeekStart(r.URL.Query().Get("week_start"))
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	schedule, err := h.schedules.GetOrCreate(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}
	shifts, err := h.schedules.ListShifts(r.Context(), schedule.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	weekStats, err := h.schedules.GetWeekStats(r.Context(), schedule.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	employees, err := h.employees.ListByOrg(r.Context(), orgID)
	if err != nil {
		respondError(w, err)
		return
	}
	names := make(map[uuid.UUID]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.FullName()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"schedule": schedule,
		"shifts":   shifts,
		"stats":    weekStats,
		"workload": stats.ComputeWorkload(shifts, names),
	})
}

// PublishRequest 发布请求
type PublishRequest struct {
	OrgID     string `json:"organization_id" validate:"required,uuid"`
	WeekStart string `json:"week_start" validate:"required,datetime=2006-01-02"`
}

// Publish 发布某周排班表
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if appErr := h.decodeAndValidate(r, &req); appErr != nil {
		respondError(w, appErr)
		return
	}
	orgID, appErr := parseUUID("organization_id", req.OrgID)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	weekStart := model.WeekStart(req.WeekStart)

	schedule, err := h.schedules.GetOrCreate(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
		return
	}
	published, err := h.schedules.Publish(r.Context(), schedule.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, published)
}
