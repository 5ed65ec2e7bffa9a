package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/workshop-payments/internal/logger"
	"github.com/xavierca1/workshop-payments/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithComponent("http").WithError(err).Warn("falha ao escrever resposta")
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError traduz o código do erro tipado para o status HTTP.
func writeError(w http.ResponseWriter, err error) {
	code := usecase.ErrorCode(err)
	status := StatusForCode(code)
	if code == "" {
		code = "INTERNAL_ERROR"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.WithComponent("http").WithError(err).Error("❌ erro interno")
		message = "Erro interno, tente novamente"
	}
	writeErrorResponse(w, status, code, message)
}

func StatusForCode(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeSignatureInvalid:
		return http.StatusUnauthorized
	case usecase.CodeLeadNotFound, usecase.CodePaymentNotFound:
		return http.StatusNotFound
	case usecase.CodeInvalidState:
		return http.StatusConflict
	case usecase.CodeGatewayUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "JSON inválido: "+err.Error())
		return false
	}
	return true
}
