package ports

import (
	"context"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/model/requestresponse"
)

// CreateUploadRequestParams : параметры создания запроса; nil означает значение по умолчанию
type CreateUploadRequestParams struct {
	WorkOrderID     string
	VendorID        string
	RequestEmail    string
	AllowedDocTypes []string
	ExpiresInHours  *int
	MaxFiles        *int
	MaxTotalBytes   *int64
	Message         *string
}

type FileMeta struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	DocType   string
}

type FinalizeMeta struct {
	Sha256    *string
	SizeBytes *int64
}

type UploadRequestService interface {
	Create(ctx context.Context, actor model.StaffActor, params CreateUploadRequestParams) (*requestresponse.CreateUploadRequestResponse, error)
	List(ctx context.Context, orgID, workOrderID string) ([]model.UploadRequestSummary, error)
	Revoke(ctx context.Context, orgID, requestID, actorID string) error
	Status(ctx context.Context, requestID, token string, client model.ClientInfo) (*requestresponse.PortalStatus, error)
	Complete(ctx context.Context, requestID, token string, client model.ClientInfo) error
	RejectMalformedBody(ctx context.Context, requestID, token string, action model.PortalAction, client model.ClientInfo) error
}

type UploadURLService interface {
	CreateUploadURL(ctx context.Context, requestID, token string, meta FileMeta, client model.ClientInfo) (*requestresponse.CreateUploadURLData, error)
}

type FinalizeService interface {
	Finalize(ctx context.Context, requestID, token, uploadFileID string, meta FinalizeMeta, client model.ClientInfo) error
}
