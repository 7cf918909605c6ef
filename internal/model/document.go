package model

import "time"

const DocumentSourceVendorPortal = "vendor_portal"

// Document : запись в наборе документов заказ-наряда, создаётся при finalize
type Document struct {
	UUID             string    `db:"uuid" json:"uuid"`
	OrgID            string    `db:"org_id" json:"org_id"`
	WorkOrderID      string    `db:"work_order_id" json:"work_order_id"`
	VendorID         string    `db:"vendor_id" json:"vendor_id"`
	UploadFileID     string    `db:"upload_file_id" json:"upload_file_id"`
	FilenameOriginal string    `db:"filename_original" json:"filename_original"`
	SizeBytes        int64     `db:"size_bytes" json:"size_bytes"`
	MimeType         string    `db:"mime_type" json:"mime_type"`
	Sha256           *string   `db:"sha256" json:"sha256,omitempty"`
	StoragePath      string    `db:"storage_path" json:"storage_path"`
	DocType          string    `db:"doc_type" json:"doc_type"`
	Source           string    `db:"source" json:"source"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
