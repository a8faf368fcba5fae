package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"phone-auth/internal/dto/request"
	"phone-auth/internal/usecase"
	"phone-auth/pkg/utils"

	"go.uber.org/zap"
)

type VerificationHandler struct {
	service usecase.VerificationService
	log     *zap.Logger
}

func NewVerificationHandler(service usecase.VerificationService, log *zap.Logger) *VerificationHandler {
	return &VerificationHandler{
		service: service,
		log:     log,
	}
}

// CheckNumber handles POST /api/check-number
func (h *VerificationHandler) CheckNumber(w http.ResponseWriter, r *http.Request) {
	var req request.CheckNumberRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	_, err := h.service.Issue(r.Context(), utils.ClientIP(r), req.Number)
	if err != nil {
		if errors.Is(err, usecase.ErrAlreadyRegistered) {
			utils.ResponseSuccess(w, "already exists", nil)
			return
		}
		h.handleServiceError(w, err, "check number")
		return
	}

	utils.ResponseSuccess(w, "you should receive an sms in a moment", nil)
}

// VerifyCode handles POST /api/code-verification
func (h *VerificationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	err := h.service.Verify(r.Context(), utils.ClientIP(r), req.Number, req.Code)
	if err != nil {
		h.handleServiceError(w, err, "verify code")
		return
	}

	utils.ResponseSuccess(w, "correct code", nil)
}

// handleServiceError maps usecase sentinel errors onto HTTP responses
func (h *VerificationHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrPhoneRequired):
		utils.ResponseBadRequest(w, "phone number is required", nil)

	case errors.Is(err, usecase.ErrBlocked):
		h.log.Warn(operation+" denied - actor blocked", zap.Error(err))
		utils.ResponseForbidden(w, "We are sorry you have been blocked for an hour.")

	case errors.Is(err, usecase.ErrCodeNotFound):
		utils.ResponseNotAcceptable(w, "provided code is wrong please try again.")

	case errors.Is(err, usecase.ErrCodeExpired):
		utils.ResponseNotAcceptable(w, "provided code is not valid anymore. please request new one")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
