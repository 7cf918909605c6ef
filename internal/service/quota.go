package service

import (
	"fmt"
	"vendor-upload-portal/internal/model"
)

// QuotaLedger : решает, помещается ли ещё один файл в лимиты запроса.
// Вызывается под блокировкой строки запроса, поэтому usage актуален
type QuotaLedger struct {
	MaxFiles      int
	MaxTotalBytes int64
}

func NewQuotaLedger(request *model.UploadRequest) QuotaLedger {
	return QuotaLedger{MaxFiles: request.MaxFiles, MaxTotalBytes: request.MaxTotalBytes}
}

// Admit : ValidationError, если файл не помещается по числу или объёму
func (l QuotaLedger) Admit(usage model.QuotaUsage, sizeBytes int64) error {
	if usage.FileCount+1 > l.MaxFiles {
		return validationError(fmt.Sprintf("превышено количество файлов: максимум %d", l.MaxFiles))
	}
	if usage.ReservedBytes+sizeBytes > l.MaxTotalBytes {
		return validationError(fmt.Sprintf("превышен общий объём: осталось %d байт", l.remainingBytes(usage)))
	}
	return nil
}

// Remaining : остаток квоты, никогда не отрицательный
func (l QuotaLedger) Remaining(usage model.QuotaUsage) (int, int64) {
	files := l.MaxFiles - usage.FileCount
	if files < 0 {
		files = 0
	}
	return files, l.remainingBytes(usage)
}

func (l QuotaLedger) remainingBytes(usage model.QuotaUsage) int64 {
	bytes := l.MaxTotalBytes - usage.ReservedBytes
	if bytes < 0 {
		return 0
	}
	return bytes
}

// usageOf : то же, что UploadFileRepository.Usage, но по уже загруженному списку
func usageOf(files []model.UploadFile) model.QuotaUsage {
	usage := model.QuotaUsage{FileCount: len(files)}
	for _, file := range files {
		if file.Status.CountsTowardBytes() {
			usage.ReservedBytes += file.DeclaredSizeBytes
		}
	}
	return usage
}
