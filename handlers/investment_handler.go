package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finware/finance-manager/middleware"
	"github.com/finware/finance-manager/models"
	"github.com/finware/finance-manager/services"
	"github.com/finware/finance-manager/utils"
)

// InvestmentRequest represents the body of create and update calls. Status
// is optional on create and defaults to Active.
type InvestmentRequest struct {
	Type         string     `json:"type" validate:"required,oneof=SIP Stocks FD Other"`
	Name         string     `json:"name" validate:"required"`
	Amount       float64    `json:"amount" validate:"required,gt=0"`
	StartDate    time.Time  `json:"startDate" validate:"required"`
	MaturityDate *time.Time `json:"maturityDate,omitempty"`
	Status       string     `json:"status,omitempty" validate:"omitempty,oneof=Active Matured Withdrawn"`
}

// InvestmentHandler handles investment HTTP requests
type InvestmentHandler struct {
	investmentService *services.InvestmentService
	logger            *zap.Logger
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *services.InvestmentService, logger *zap.Logger) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
		logger:            logger,
	}
}

// HandleList handles GET /api/investments
func (h *InvestmentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	investments, err := h.investmentService.List(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, investments)
}

// HandleCreate handles POST /api/investments
func (h *InvestmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	inv, err := h.investmentService.Create(r.Context(), userID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, inv)
}

// HandleUpdate handles PUT /api/investments/{id}
func (h *InvestmentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid investment ID", nil)
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	inv, err := h.investmentService.Update(r.Context(), userID, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, inv)
}

// HandleDelete handles DELETE /api/investments/{id}
func (h *InvestmentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid investment ID", nil)
		return
	}

	if err := h.investmentService.Delete(r.Context(), userID, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// decodeInput decodes and validates the request body
func (h *InvestmentHandler) decodeInput(w http.ResponseWriter, r *http.Request) (services.InvestmentInput, bool) {
	var req InvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return services.InvestmentInput{}, false
	}

	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return services.InvestmentInput{}, false
	}

	return services.InvestmentInput{
		Type:         models.InvestmentType(req.Type),
		Name:         req.Name,
		Amount:       req.Amount,
		StartDate:    req.StartDate,
		MaturityDate: req.MaturityDate,
		Status:       models.InvestmentStatus(req.Status),
	}, true
}

func (h *InvestmentHandler) callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == uuid.Nil {
		h.logger.Error("missing user ID in context",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))
		_ = utils.WriteUnauthorized(w, "")
		return uuid.Nil, false
	}
	return userID, true
}
