package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
	"vendor-upload-portal/internal/model"
	requestresponse "vendor-upload-portal/internal/model/requestresponse"
	"vendor-upload-portal/internal/ports"
	"vendor-upload-portal/internal/util"

	"github.com/go-chi/chi/v5"
)

const maxPortalBodyBytes = 64 << 10

// PortalHandler : эндпоинты поставщика, доступ только по токену из ссылки
type PortalHandler struct {
	uploadRequests ports.UploadRequestService
	uploadURLs     ports.UploadURLService
	finalize       ports.FinalizeService
}

func NewPortalHandler(uploadRequests ports.UploadRequestService, uploadURLs ports.UploadURLService, finalize ports.FinalizeService) *PortalHandler {
	return &PortalHandler{
		uploadRequests: uploadRequests,
		uploadURLs:     uploadURLs,
		finalize:       finalize,
	}
}

// Status godoc
// @Summary Состояние запроса на загрузку
// @Description Политика запроса, уже загруженные файлы и остаток квоты. Завершённый запрос доступен только на чтение.
// @Tags Portal
// @Produce json
// @Param requestId path string true "ID запроса"
// @Param t query string true "Токен из ссылки"
// @Success 200 {object} requestresponse.PortalStatusResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Доступ запрещён"
// @Failure 429 {object} requestresponse.ErrorResponse "Слишком много неудачных попыток"
// @Router /upload/{requestId}/status [get]
func (h *PortalHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status, err := h.uploadRequests.Status(ctx, chi.URLParam(r, "requestId"), portalToken(r), clientInfo(r))
	if err != nil {
		writePortalError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.PortalStatusResponse{Data: *status})
}

// CreateUploadURL godoc
// @Summary Подписанная ссылка для загрузки файла
// @Description Резервирует место под файл в квоте запроса и возвращает ссылку на PUT в хранилище.
// @Tags Portal
// @Accept json
// @Produce json
// @Param requestId path string true "ID запроса"
// @Param t query string true "Токен из ссылки"
// @Param request body requestresponse.CreateUploadURLRequest true "Мета-данные файла"
// @Success 200 {object} requestresponse.CreateUploadURLResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Файл не подходит под политику или превышена квота"
// @Failure 403 {object} requestresponse.ErrorResponse "Доступ запрещён"
// @Failure 429 {object} requestresponse.ErrorResponse "Слишком много неудачных попыток"
// @Router /upload/{requestId}/create-upload-url [post]
func (h *PortalHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req requestresponse.CreateUploadURLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.rejectMalformed(ctx, w, r, model.PortalActionCreateUploadURL)
		return
	}

	meta := ports.FileMeta{
		FileName:  req.FileName,
		MimeType:  req.MimeType,
		SizeBytes: req.SizeBytes,
		DocType:   req.DocType,
	}
	data, err := h.uploadURLs.CreateUploadURL(ctx, chi.URLParam(r, "requestId"), portalToken(r), meta, clientInfo(r))
	if err != nil {
		writePortalError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.CreateUploadURLResponse{Data: *data})
}

// Finalize godoc
// @Summary Подтверждение загрузки файла
// @Description Переводит файл в finalized и добавляет документ в заказ-наряд. Повторный вызов отклоняется.
// @Tags Portal
// @Accept json
// @Produce json
// @Param requestId path string true "ID запроса"
// @Param t query string true "Токен из ссылки"
// @Param request body requestresponse.FinalizeRequest true "ID файла и контрольная сумма"
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Файл не загружен или больше заявленного"
// @Failure 403 {object} requestresponse.ErrorResponse "Доступ запрещён"
// @Failure 429 {object} requestresponse.ErrorResponse "Слишком много неудачных попыток"
// @Router /upload/{requestId}/finalize [post]
func (h *PortalHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var req requestresponse.FinalizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.rejectMalformed(ctx, w, r, model.PortalActionFinalize)
		return
	}

	meta := ports.FinalizeMeta{SizeBytes: req.SizeBytes}
	if req.Sha256 != "" {
		meta.Sha256 = &req.Sha256
	}

	err := h.finalize.Finalize(ctx, chi.URLParam(r, "requestId"), portalToken(r), req.UploadFileID, meta, clientInfo(r))
	if err != nil {
		writePortalError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Success: true})
}

// Complete godoc
// @Summary Завершение загрузки
// @Description Поставщик закончил загрузку. После этого ссылка работает только на чтение.
// @Tags Portal
// @Produce json
// @Param requestId path string true "ID запроса"
// @Param t query string true "Токен из ссылки"
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Нет ни одного загруженного файла"
// @Failure 403 {object} requestresponse.ErrorResponse "Доступ запрещён"
// @Failure 429 {object} requestresponse.ErrorResponse "Слишком много неудачных попыток"
// @Router /upload/{requestId}/complete [post]
func (h *PortalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.uploadRequests.Complete(ctx, chi.URLParam(r, "requestId"), portalToken(r), clientInfo(r)); err != nil {
		writePortalError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Success: true})
}

// rejectMalformed : токен проверяется раньше, чем сообщается об ошибке разбора тела
func (h *PortalHandler) rejectMalformed(ctx context.Context, w http.ResponseWriter, r *http.Request, action model.PortalAction) {
	err := h.uploadRequests.RejectMalformedBody(ctx, chi.URLParam(r, "requestId"), portalToken(r), action, clientInfo(r))
	writePortalError(w, r, err)
}

func portalToken(r *http.Request) string {
	return r.URL.Query().Get(util.TokenQueryParam)
}

func clientInfo(r *http.Request) model.ClientInfo {
	return model.ClientInfo{
		SourceIP:  util.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// decodeJSON : пустое тело считается пустым объектом
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxPortalBodyBytes)
	err := json.NewDecoder(body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
