package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/coverage"
)

// Coverage 返回某周每个槽位的需求与已排对照
func (h *Handler) Coverage(w http.ResponseWriter, r *http.Request) {
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

	resolver, _, err := h.loader.LoadWeekPlan(r.Context(), orgID, weekStart)
	if err != nil {
		respondError(w, err)
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
	employees, err := h.employees.ListByOrg(r.Context(), orgID)
	if err != nil {
		respondError(w, err)
		return
	}

	names := make(map[uuid.UUID]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.FullName()
	}

	slots := coverage.Compute(resolver.ResolveWeek(), shifts, weekStart, names)
	missing := 0
	for i := range slots {
		missing += slots[i].Missing()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"week_start": weekStart,
		"slots":      slots,
		"missing":    missing,
	})
}
