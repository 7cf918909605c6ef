package model

import "time"

type PortalAction string

const (
	PortalActionStatus          PortalAction = "status"
	PortalActionCreateUploadURL PortalAction = "create_upload_url"
	PortalActionFinalize        PortalAction = "finalize"
	PortalActionComplete        PortalAction = "complete"
)

// AccessLogEntry : запись аудита обращения поставщика к порталу
type AccessLogEntry struct {
	UploadRequestID string       `db:"upload_request_id"`
	Action          PortalAction `db:"action"`
	Outcome         string       `db:"outcome"`
	Reason          string       `db:"reason"`
	SourceIP        string       `db:"source_ip"`
	UserAgent       string       `db:"user_agent"`
	CreatedAt       time.Time    `db:"created_at"`
}

// ClientInfo : сведения о вызывающем, которые нужны для аудита и ограничения попыток
type ClientInfo struct {
	SourceIP  string
	UserAgent string
}

// StaffActor : сотрудник организации, аутентифицированный снаружи портала
type StaffActor struct {
	OrgID   string
	ActorID string
}
