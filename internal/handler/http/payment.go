package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/payment"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/handler/http/response"
)

type PaymentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Record(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	ListByPayslip(w http.ResponseWriter, r *http.Request)
}

type paymentHandlerImpl struct {
	paymentService payment.PaymentService
}

func NewPaymentHandler(paymentService payment.PaymentService) PaymentHandler {
	return &paymentHandlerImpl{paymentService: paymentService}
}

// List implements PaymentHandler.
func (h *paymentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	filter := payment.PaymentFilter{
		PayslipID: queryString(r, "payslipId"),
		Method:    queryString(r, "method"),
		From:      queryString(r, "from"),
		To:        queryString(r, "to"),
		Page:      p.Page,
		Limit:     p.Limit,
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
	}

	payments, total, err := h.paymentService.List(r.Context(), chi.URLParam(r, "companyId"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithPagination(w, payments, response.NewPagination(p.Page, p.Limit, total))
}

// Record implements PaymentHandler.
func (h *paymentHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req payment.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.paymentService.Record(r.Context(), chi.URLParam(r, "companyId"), actor.ID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment recorded successfully", result)
}

// GetByID implements PaymentHandler.
func (h *paymentHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.paymentService.GetByID(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stats implements PaymentHandler.
func (h *paymentHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	filter := payment.StatsFilter{
		From: queryString(r, "from"),
		To:   queryString(r, "to"),
	}

	result, err := h.paymentService.Stats(r.Context(), chi.URLParam(r, "companyId"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByPayslip implements PaymentHandler.
func (h *paymentHandlerImpl) ListByPayslip(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentService.ListByPayslip(r.Context(), chi.URLParam(r, "companyId"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payments)
}
