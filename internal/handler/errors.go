package handler

import (
	"errors"
	"log"
	"net/http"
	"vendor-upload-portal/internal/security"
	"vendor-upload-portal/internal/service"
	"vendor-upload-portal/internal/util"
)

const (
	messageAccessDenied = "доступ запрещён"
	messageInternal     = "внутренняя ошибка сервера"
)

// writePortalError : ответ поставщику. Отказ и конфликт неотличимы снаружи,
// но в счётчик неудачных попыток идёт только отказ
func writePortalError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		util.HandleError(w, service.Reason(err), http.StatusBadRequest)
	case errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrNotFound):
		security.MarkFailedAttempt(r.Context())
		util.HandleError(w, messageAccessDenied, http.StatusForbidden)
	case errors.Is(err, service.ErrConflict):
		util.HandleError(w, messageAccessDenied, http.StatusForbidden)
	default:
		log.Printf("[PortalHandler] внутренняя ошибка: %v", err)
		util.HandleError(w, messageInternal, http.StatusInternalServerError)
	}
}

// writeStaffError : внутренние эндпоинты могут сообщать причину
func writeStaffError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		util.HandleError(w, service.Reason(err), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		util.HandleError(w, service.Reason(err), http.StatusNotFound)
	case errors.Is(err, service.ErrAccessDenied):
		util.HandleError(w, messageAccessDenied, http.StatusForbidden)
	case errors.Is(err, service.ErrConflict):
		util.HandleError(w, service.Reason(err), http.StatusConflict)
	default:
		log.Printf("[UploadRequestHandler] внутренняя ошибка: %v", err)
		util.HandleError(w, messageInternal, http.StatusInternalServerError)
	}
}
