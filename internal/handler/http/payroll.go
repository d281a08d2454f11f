package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payrun"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payslip"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

type PayRunHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type payRunHandlerImpl struct {
	payRunService payrun.PayRunService
}

func NewPayRunHandler(payRunService payrun.PayRunService) PayRunHandler {
	return &payRunHandlerImpl{payRunService: payRunService}
}

// List implements PayRunHandler.
func (h *payRunHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	filter := payrun.PayRunFilter{
		Status:    queryString(r, "status"),
		Page:      p.Page,
		Limit:     p.Limit,
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
	}

	runs, total, err := h.payRunService.List(r.Context(), chi.URLParam(r, "companyId"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithPagination(w, runs, response.NewPagination(p.Page, p.Limit, total))
}

// Create implements PayRunHandler.
func (h *payRunHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req payrun.CreatePayRunRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payRunService.Create(r.Context(), chi.URLParam(r, "companyId"), actor.ID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pay run created successfully", result)
}

// GetByID implements PayRunHandler.
func (h *payRunHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.payRunService.GetByID(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements PayRunHandler.
func (h *payRunHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.payRunService.Delete(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run deleted successfully", nil)
}

// Approve implements PayRunHandler.
func (h *payRunHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	result, err := h.payRunService.Approve(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"), actor.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run approved successfully", result)
}

// UpdateStatus implements PayRunHandler.
func (h *payRunHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req payrun.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payRunService.UpdateStatus(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"), actor.ID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run status updated successfully", result)
}

type PayslipHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
}

type payslipHandlerImpl struct {
	payslipService payslip.PayslipService
}

func NewPayslipHandler(payslipService payslip.PayslipService) PayslipHandler {
	return &payslipHandlerImpl{payslipService: payslipService}
}

// List implements PayslipHandler.
func (h *payslipHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	filter := payslip.PayslipFilter{
		Status:     queryString(r, "status"),
		PayRunID:   queryString(r, "payRunId"),
		EmployeeID: queryString(r, "employeeId"),
		Page:       p.Page,
		Limit:      p.Limit,
		SortBy:     p.SortBy,
		SortOrder:  p.SortOrder,
	}

	payslips, total, err := h.payslipService.List(r.Context(), chi.URLParam(r, "companyId"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithPagination(w, payslips, response.NewPagination(p.Page, p.Limit, total))
}

// GetByID implements PayslipHandler.
func (h *payslipHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.payslipService.GetByID(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateStatus implements PayslipHandler.
func (h *payslipHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req payslip.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payslipService.UpdateStatus(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip status updated successfully", result)
}

// Download implements PayslipHandler.
func (h *payslipHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	doc, err := h.payslipService.Download(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Content)
}
