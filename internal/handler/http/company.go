package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

type CompanyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
}

type companyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &companyHandlerImpl{companyService: companyService}
}

// List implements CompanyHandler.
func (h *companyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	filter := company.CompanyFilter{
		Search:    queryString(r, "search"),
		IsActive:  queryBool(r, "isActive"),
		Page:      p.Page,
		Limit:     p.Limit,
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
	}

	companies, total, err := h.companyService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithPagination(w, companies, response.NewPagination(p.Page, p.Limit, total))
}

// Create implements CompanyHandler.
func (h *companyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.companyService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created successfully", result)
}

// GetByID implements CompanyHandler.
func (h *companyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.companyService.GetByID(r.Context(), chi.URLParam(r, "companyId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements CompanyHandler.
func (h *companyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.companyService.Update(r.Context(), chi.URLParam(r, "companyId"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company updated successfully", result)
}

// SetStatus implements CompanyHandler.
func (h *companyHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req company.SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.companyService.SetActive(r.Context(), chi.URLParam(r, "companyId"), *req.IsActive)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company status updated successfully", result)
}

// Delete implements CompanyHandler.
func (h *companyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.companyService.Delete(r.Context(), chi.URLParam(r, "companyId")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company deleted successfully", nil)
}

// UploadLogo implements CompanyHandler. Expects a multipart form with a
// "logo" file field.
func (h *companyHandlerImpl) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, company.MaxLogoSize+(512<<10))
	if err := r.ParseMultipartForm(company.MaxLogoSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, company.ErrLogoTooLarge)
			return
		}
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		response.BadRequest(w, "Field 'logo' is required", nil)
		return
	}
	defer file.Close()

	result, err := h.companyService.UploadLogo(r.Context(), company.UploadCompanyLogoRequest{
		CompanyID:   chi.URLParam(r, "companyId"),
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logo uploaded successfully", result)
}
