package requestresponse

import (
	"time"
	"vendor-upload-portal/internal/model"
)

// CreateUploadRequestRequest : тело запроса сотрудника на выдачу ссылки поставщику
type CreateUploadRequestRequest struct {
	VendorID        string   `json:"vendorId" validate:"required,uuid" example:"1c9b5d8e-1111-4e4e-9a9a-123456789abc"`
	RequestEmail    string   `json:"requestEmail" validate:"required,email,max=320" example:"billing@vendor.example"`
	AllowedDocTypes []string `json:"allowedDocTypes,omitempty" validate:"omitempty,dive,required,max=64" example:"invoice"`
	ExpiresInHours  *int     `json:"expiresInHours,omitempty" example:"72"`
	MaxFiles        *int     `json:"maxFiles,omitempty" example:"3"`
	MaxTotalBytes   *int64   `json:"maxTotalBytes,omitempty" example:"104857600"`
	Message         *string  `json:"message,omitempty" validate:"omitempty,max=2000" example:"Пожалуйста, загрузите счёт за август"`
}

// CreateUploadRequestResponse : ответ при создании
type CreateUploadRequestResponse struct {
	RequestID string    `json:"requestId" example:"4f1c2d3e-aaaa-bbbb-cccc-1234567890ab"`
	PortalURL string    `json:"portalUrl" example:"https://vendors.example.com/upload/4f1c...?t=..."`
	ExpiresAt time.Time `json:"expiresAt" example:"2025-08-26T12:34:56Z"`
}

// ListUploadRequestsResponse : список запросов по заказ-наряду
type ListUploadRequestsResponse struct {
	Data []model.UploadRequestSummary `json:"data"`
}

// SuccessResponse : стандартный ответ успешного выполнения операции
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error   string `json:"error" example:"Forbidden"`
	Message string `json:"message" example:"доступ запрещён"`
	Code    int    `json:"code" example:"403"`
}
