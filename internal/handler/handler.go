// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/turnario/turnario/internal/metrics"
	"github.com/turnario/turnario/internal/repository"
	apperrors "github.com/turnario/turnario/pkg/errors"
	"github.com/turnario/turnario/pkg/gapfill"
	"github.com/turnario/turnario/pkg/model"
	"github.com/turnario/turnario/pkg/solver"
)

// Handler 排班服务处理器
type Handler struct {
	loader    *repository.ContextLoader
	schedules *repository.ScheduleRepository
	employees *repository.EmployeeRepository
	gateway   solver.Gateway
	persister *solver.Persister
	filler    *gapfill.Filler
	validate  *validator.Validate
}

// New 创建处理器
func New(
	loader *repository.ContextLoader,
	schedules *repository.ScheduleRepository,
	employees *repository.EmployeeRepository,
	gateway solver.Gateway,
) *Handler {
	return &Handler{
		loader:    loader,
		schedules: schedules,
		employees: employees,
		gateway:   gateway,
		persister: solver.NewPersister(schedules),
		filler:    gapfill.NewFiller(schedules),
		validate:  validator.New(),
	}
}

// decodeAndValidate 解析并校验请求体
func (h *Handler) decodeAndValidate(r *http.Request, dst interface{}) *apperrors.AppError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败")
	}
	if err := h.validate.Struct(dst); err != nil {
		ve := &apperrors.ValidationErrors{}
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				ve.Add(fe.Field(), "校验失败: "+fe.Tag())
			}
			return ve.ToAppError()
		}
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "请求校验失败")
	}
	return nil
}

// parseWeekStart 校验并归一化周起始日期（回退到所在周的周一）
func parseWeekStart(raw string) (string, *apperrors.AppError) {
	if raw == "" {
		return "", apperrors.InvalidInput("week_start", "不能为空")
	}
	if _, err := time.Parse(model.DateLayout, raw); err != nil {
		return "", apperrors.InvalidInput("week_start", "日期格式无效，应为YYYY-MM-DD")
	}
	return model.WeekStart(raw), nil
}

func parseUUID(field, raw string) (uuid.UUID, *apperrors.AppError) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput(field, "无效的UUID格式")
	}
	return id, nil
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err error) {
	status := apperrors.GetHTTPStatus(err)
	metrics.IncErrors()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if appErr, ok := err.(*apperrors.AppError); ok {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":   true,
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    apperrors.CodeInternal,
		"message": err.Error(),
	})
}
