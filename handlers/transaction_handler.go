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

// TransactionRequest represents the body of create and update calls. The
// owner is never part of the body; it always comes from the session token.
type TransactionRequest struct {
	Description   string    `json:"description" validate:"required"`
	Amount        float64   `json:"amount" validate:"required,gt=0"`
	Type          string    `json:"type" validate:"required,oneof=income expense"`
	PaymentMethod string    `json:"paymentMethod" validate:"required,oneof=UPI 'Net Banking' Cash Cheque"`
	Date          time.Time `json:"date" validate:"required"`
}

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *services.TransactionService
	logger             *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *services.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// HandleList handles GET /api/transactions
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	transactions, err := h.transactionService.List(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, transactions)
}

// HandleCreate handles POST /api/transactions
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	tx, err := h.transactionService.Create(r.Context(), userID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, tx)
}

// HandleUpdate handles PUT /api/transactions/{id}
func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid transaction ID", nil)
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	tx, err := h.transactionService.Update(r.Context(), userID, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, tx)
}

// HandleDelete handles DELETE /api/transactions/{id}
func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid transaction ID", nil)
		return
	}

	if err := h.transactionService.Delete(r.Context(), userID, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// decodeInput decodes and validates the request body
func (h *TransactionHandler) decodeInput(w http.ResponseWriter, r *http.Request) (services.TransactionInput, bool) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return services.TransactionInput{}, false
	}

	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return services.TransactionInput{}, false
	}

	return services.TransactionInput{
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          models.TransactionType(req.Type),
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Date:          req.Date,
	}, true
}

func (h *TransactionHandler) callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == uuid.Nil {
		h.logger.Error("missing user ID in context",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))
		_ = utils.WriteUnauthorized(w, "")
		return uuid.Nil, false
	}
	return userID, true
}
