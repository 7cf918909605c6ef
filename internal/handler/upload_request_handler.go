package handler

import (
	"context"
	"net/http"
	"time"
	"vendor-upload-portal/internal/model"
	requestresponse "vendor-upload-portal/internal/model/requestresponse"
	"vendor-upload-portal/internal/ports"
	"vendor-upload-portal/internal/security"
	"vendor-upload-portal/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// UploadRequestHandler : эндпоинты сотрудников, организация берётся из JWT
type UploadRequestHandler struct {
	ports.UploadRequestService
	validate *validator.Validate
}

func NewUploadRequestHandler(uploadRequestService ports.UploadRequestService) *UploadRequestHandler {
	return &UploadRequestHandler{uploadRequestService, validator.New()}
}

// CreateUploadRequest godoc
// @Summary Выдать поставщику ссылку на загрузку
// @Description Создаёт запрос на загрузку по заказ-наряду и отправляет поставщику письмо со ссылкой.
// @Tags UploadRequests
// @Accept json
// @Produce json
// @Param workOrderId path string true "ID заказ-наряда"
// @Param request body requestresponse.CreateUploadRequestRequest true "Параметры запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.CreateUploadRequestResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неверные параметры"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} requestresponse.ErrorResponse "Заказ-наряд или поставщик не найден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /work-orders/{workOrderId}/upload-requests [post]
func (h *UploadRequestHandler) CreateUploadRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.CreateUploadRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		util.HandleError(w, "неверные параметры: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.Create(ctx, model.StaffActor{OrgID: claims.OrgUUID, ActorID: claims.UserUUID}, ports.CreateUploadRequestParams{
		WorkOrderID:     chi.URLParam(r, "workOrderId"),
		VendorID:        req.VendorID,
		RequestEmail:    req.RequestEmail,
		AllowedDocTypes: req.AllowedDocTypes,
		ExpiresInHours:  req.ExpiresInHours,
		MaxFiles:        req.MaxFiles,
		MaxTotalBytes:   req.MaxTotalBytes,
		Message:         req.Message,
	})
	if err != nil {
		writeStaffError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, resp)
}

// ListUploadRequests godoc
// @Summary Запросы на загрузку по заказ-наряду
// @Tags UploadRequests
// @Produce json
// @Param workOrderId path string true "ID заказ-наряда"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListUploadRequestsResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} requestresponse.ErrorResponse "Заказ-наряд не найден"
// @Router /work-orders/{workOrderId}/upload-requests [get]
func (h *UploadRequestHandler) ListUploadRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	summaries, err := h.List(ctx, claims.OrgUUID, chi.URLParam(r, "workOrderId"))
	if err != nil {
		writeStaffError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ListUploadRequestsResponse{Data: summaries})
}

// RevokeUploadRequest godoc
// @Summary Отозвать ссылку
// @Description Все последующие обращения поставщика по ссылке получат 403. Загруженные файлы остаются.
// @Tags UploadRequests
// @Produce json
// @Param requestId path string true "ID запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} requestresponse.ErrorResponse "Запрос не найден"
// @Router /upload-requests/{requestId}/revoke [post]
func (h *UploadRequestHandler) RevokeUploadRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.Revoke(ctx, claims.OrgUUID, chi.URLParam(r, "requestId"), claims.UserUUID); err != nil {
		writeStaffError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Success: true})
}
