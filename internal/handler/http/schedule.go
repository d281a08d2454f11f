package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/schedule"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

type ScheduleHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Replace(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.WorkScheduleService
}

func NewScheduleHandler(scheduleService schedule.WorkScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{scheduleService: scheduleService}
}

// Get implements ScheduleHandler.
func (h *scheduleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.Get(r.Context(), chi.URLParam(r, "companyId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Replace implements ScheduleHandler.
func (h *scheduleHandlerImpl) Replace(w http.ResponseWriter, r *http.Request) {
	var req schedule.ReplaceWorkScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.scheduleService.Replace(r.Context(), chi.URLParam(r, "companyId"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work schedule updated successfully", result)
}
