package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/employee"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	filter := employee.EmployeeFilter{
		Search:       queryString(r, "search"),
		ContractType: queryString(r, "contractType"),
		IsActive:     queryBool(r, "isActive"),
		Page:         p.Page,
		Limit:        p.Limit,
		SortBy:       p.SortBy,
		SortOrder:    p.SortOrder,
	}

	employees, total, err := h.employeeService.List(r.Context(), chi.URLParam(r, "companyId"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithPagination(w, employees, response.NewPagination(p.Page, p.Limit, total))
}

// Create implements EmployeeHandler.
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.employeeService.Create(r.Context(), chi.URLParam(r, "companyId"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// GetByID implements EmployeeHandler.
func (h *employeeHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetByID(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements EmployeeHandler.
func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.employeeService.Update(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// SetStatus implements EmployeeHandler.
func (h *employeeHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req employee.SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.SetActive(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"), *req.IsActive)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee status updated successfully", result)
}

// Delete implements EmployeeHandler.
func (h *employeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.Delete(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}
