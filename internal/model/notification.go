package model

import "time"

// UploadRequestNotification : письмо поставщику со ссылкой на портал
type UploadRequestNotification struct {
	To          string    `json:"to"`
	Template    string    `json:"template"`
	RequestID   string    `json:"request_id"`
	WorkOrderID string    `json:"work_order_id"`
	PortalURL   string    `json:"portal_url"`
	Message     string    `json:"message,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}
