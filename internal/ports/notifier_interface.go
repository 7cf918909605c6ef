package ports

import (
	"context"
	"vendor-upload-portal/internal/model"
)

// Notifier : отправка письма поставщику со ссылкой
type Notifier interface {
	NotifyUploadRequested(ctx context.Context, notification *model.UploadRequestNotification) error
}
