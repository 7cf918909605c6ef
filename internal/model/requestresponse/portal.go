package requestresponse

import "time"

// CreateUploadURLRequest : мета-данные файла, который поставщик собирается загрузить
type CreateUploadURLRequest struct {
	FileName  string `json:"fileName" example:"invoice.pdf"`
	MimeType  string `json:"mimeType" example:"application/pdf"`
	SizeBytes int64  `json:"sizeBytes" example:"2000000"`
	DocType   string `json:"docType" example:"invoice"`
}

// CreateUploadURLData : подписанная ссылка для PUT в хранилище
type CreateUploadURLData struct {
	SignedURL    string            `json:"signedUrl" example:"https://bucket.s3.amazonaws.com/orgs/...?X-Amz-Signature=..."`
	UploadFileID string            `json:"uploadFileId" example:"5b0d7a3e-3f7e-4c4f-9a55-0e3b6f1f7c11"`
	StoragePath  string            `json:"storagePath" example:"orgs/.../invoice.pdf"`
	ExpiresAt    time.Time         `json:"expiresAt" example:"2025-08-23T12:44:56Z"`
	Headers      map[string]string `json:"headers"`
}

// CreateUploadURLResponse : ответ create-upload-url
type CreateUploadURLResponse struct {
	Data CreateUploadURLData `json:"data"`
}

// FinalizeRequest : подтверждение того, что файл загружен в хранилище
type FinalizeRequest struct {
	UploadFileID string `json:"uploadFileId" example:"5b0d7a3e-3f7e-4c4f-9a55-0e3b6f1f7c11"`
	Sha256       string `json:"sha256,omitempty" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
	SizeBytes    *int64 `json:"sizeBytes,omitempty" example:"2000000"`
}

// UploadedFile : файл, уже зарегистрированный в запросе
type UploadedFile struct {
	ID         string     `json:"id"`
	FileName   string     `json:"fileName"`
	MimeType   string     `json:"mimeType"`
	SizeBytes  int64      `json:"sizeBytes"`
	DocType    string     `json:"docType"`
	Status     string     `json:"status"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

// PortalStatus : то, что видит поставщик, открыв ссылку
type PortalStatus struct {
	RequestID        string         `json:"requestId"`
	Status           string         `json:"status"`
	AllowedDocTypes  []string       `json:"allowedDocTypes"`
	AllowedMimeTypes []string       `json:"allowedMimeTypes"`
	MaxFiles         int            `json:"maxFiles"`
	MaxTotalBytes    int64          `json:"maxTotalBytes"`
	MaxFileSizeBytes int64          `json:"maxFileSizeBytes"`
	ExpiresAt        time.Time      `json:"expiresAt"`
	Message          string         `json:"message"`
	UploadedFiles    []UploadedFile `json:"uploadedFiles"`
	RemainingFiles   int            `json:"remainingFiles"`
	RemainingBytes   int64          `json:"remainingBytes"`
}

// PortalStatusResponse : ответ status
type PortalStatusResponse struct {
	Data PortalStatus `json:"data"`
}
