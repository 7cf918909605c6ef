package model

import "time"

// FileStatus : состояние файла внутри запроса
type FileStatus string

const (
	FileStatusPending   FileStatus = "pending"
	FileStatusFinalized FileStatus = "finalized"
	FileStatusError     FileStatus = "error"
)

func (s FileStatus) Valid() bool {
	switch s {
	case FileStatusPending, FileStatusFinalized, FileStatusError:
		return true
	default:
		return false
	}
}

// CountsTowardBytes : файл в статусе error освобождает зарезервированный объём
func (s FileStatus) CountsTowardBytes() bool {
	switch s {
	case FileStatusPending, FileStatusFinalized:
		return true
	case FileStatusError:
		return false
	default:
		return false
	}
}

type UploadFile struct {
	ID                string     `db:"id" json:"id"`
	UploadRequestID   string     `db:"upload_request_id" json:"upload_request_id"`
	FileName          string     `db:"file_name" json:"file_name"`
	MimeType          string     `db:"mime_type" json:"mime_type"`
	DeclaredSizeBytes int64      `db:"declared_size_bytes" json:"declared_size_bytes"`
	DocType           string     `db:"doc_type" json:"doc_type"`
	StoragePath       string     `db:"storage_path" json:"storage_path"`
	Status            FileStatus `db:"status" json:"status"`
	Sha256            *string    `db:"sha256" json:"sha256,omitempty"`
	ObservedSizeBytes *int64     `db:"observed_size_bytes" json:"observed_size_bytes,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UploadedAt        *time.Time `db:"uploaded_at" json:"uploaded_at,omitempty"`
}

// QuotaUsage : текущее потребление квоты запроса.
// FileCount считает все файлы, ReservedBytes только pending и finalized
type QuotaUsage struct {
	FileCount     int   `db:"file_count"`
	ReservedBytes int64 `db:"reserved_bytes"`
}

// ObjectInfo : что хранилище знает о загруженном объекте
type ObjectInfo struct {
	SizeBytes   int64
	ContentType string
}
