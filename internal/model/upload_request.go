package model

import (
	"github.com/lib/pq"
	"time"
)

// RequestStatus : состояние запроса на загрузку
type RequestStatus string

const (
	RequestStatusActive    RequestStatus = "active"
	RequestStatusRevoked   RequestStatus = "revoked"
	RequestStatusExpired   RequestStatus = "expired"
	RequestStatusCompleted RequestStatus = "completed"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusActive, RequestStatusRevoked, RequestStatusExpired, RequestStatusCompleted:
		return true
	default:
		return false
	}
}

// Terminal : из терминального состояния переходов больше нет
func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestStatusRevoked, RequestStatusExpired, RequestStatusCompleted:
		return true
	case RequestStatusActive:
		return false
	default:
		return true
	}
}

type UploadRequest struct {
	ID              string         `db:"id" json:"id"`
	OrgID           string         `db:"org_id" json:"org_id"`
	WorkOrderID     string         `db:"work_order_id" json:"work_order_id"`
	VendorID        string         `db:"vendor_id" json:"vendor_id"`
	TokenHash       string         `db:"token_hash" json:"-"`
	ExpiresAt       time.Time      `db:"expires_at" json:"expires_at"`
	Status          RequestStatus  `db:"status" json:"status"`
	AllowedDocTypes pq.StringArray `db:"allowed_doc_types" json:"allowed_doc_types"`
	MaxFiles        int            `db:"max_files" json:"max_files"`
	MaxTotalBytes   int64          `db:"max_total_bytes" json:"max_total_bytes"`
	RequestEmail    string         `db:"request_email" json:"request_email"`
	Message         string         `db:"message" json:"message"`
	CreatedBy       string         `db:"created_by" json:"created_by"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	RevokedAt       *time.Time     `db:"revoked_at" json:"revoked_at,omitempty"`
	RevokedBy       *string        `db:"revoked_by" json:"revoked_by,omitempty"`
	CompletedAt     *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
}

// EffectiveStatus : статус с учётом ленивого истечения срока.
// Хранимое значение может остаться active, но после expires_at запрос считается expired.
// Отозванный запрос остаётся revoked независимо от времени
func (r *UploadRequest) EffectiveStatus(now time.Time) RequestStatus {
	switch r.Status {
	case RequestStatusRevoked:
		return RequestStatusRevoked
	case RequestStatusExpired:
		return RequestStatusExpired
	case RequestStatusActive, RequestStatusCompleted:
		if now.After(r.ExpiresAt) {
			return RequestStatusExpired
		}
		return r.Status
	default:
		return RequestStatusExpired
	}
}

// AllowsDocType : входит ли тип документа в разрешённый список
func (r *UploadRequest) AllowsDocType(docType string) bool {
	for _, allowed := range r.AllowedDocTypes {
		if allowed == docType {
			return true
		}
	}
	return false
}

// UploadRequestSummary : строка для внутренней панели по заказ-наряду
type UploadRequestSummary struct {
	ID             string        `db:"id" json:"id"`
	VendorID       string        `db:"vendor_id" json:"vendor_id"`
	RequestEmail   string        `db:"request_email" json:"request_email"`
	Status         RequestStatus `db:"status" json:"status"`
	ExpiresAt      time.Time     `db:"expires_at" json:"expires_at"`
	CreatedBy      string        `db:"created_by" json:"created_by"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	FileCount      int           `db:"file_count" json:"file_count"`
	FinalizedCount int           `db:"finalized_count" json:"finalized_count"`
	ReservedBytes  int64         `db:"reserved_bytes" json:"reserved_bytes"`
}
