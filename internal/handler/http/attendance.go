package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/attendance"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	MarkAbsence(w http.ResponseWriter, r *http.Request)
	MarkHalfDay(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	filter := attendance.AttendanceFilter{
		EmployeeID:  queryString(r, "employeeId"),
		Status:      queryString(r, "status"),
		From:        queryString(r, "from"),
		To:          queryString(r, "to"),
		IsValidated: queryBool(r, "isValidated"),
		Page:        p.Page,
		Limit:       p.Limit,
		SortBy:      p.SortBy,
		SortOrder:   p.SortOrder,
	}

	records, total, err := h.attendanceService.List(r.Context(), chi.URLParam(r, "companyId"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithPagination(w, records, response.NewPagination(p.Page, p.Limit, total))
}

// GetByID implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetByID(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), chi.URLParam(r, "companyId"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-in recorded successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), chi.URLParam(r, "companyId"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-out recorded successfully", result)
}

// MarkAbsence implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkAbsence(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAbsenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.MarkAbsence(r.Context(), chi.URLParam(r, "companyId"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence recorded successfully", result)
}

// MarkHalfDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkHalfDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.HalfDayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.MarkHalfDay(r.Context(), chi.URLParam(r, "companyId"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Half day recorded successfully", result)
}

// Validate implements AttendanceHandler.
func (h *attendanceHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Validate(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance validated successfully", result)
}
