package service

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/ports"

	"github.com/go-playground/validator/v10"
)

const (
	maxStoredFileNameLength = 128
	// fileNameRules : исходное имя сохраняется в upload_files и documents как есть
	fileNameRules = "max=255,filename"
)

// FilePolicy : глобальные ограничения на файлы, общие для всех запросов
type FilePolicy struct {
	maxFileBytes     int64
	allowedMimeTypes []string
	allowed          map[string]struct{}
	validate         *validator.Validate
}

func NewFilePolicy(cfg *config.UploadPolicyConfig) *FilePolicy {
	validate := validator.New()
	// имя из валидного UTF-8 без управляющих символов, Postgres не принимает 0x00 в TEXT
	_ = validate.RegisterValidation("filename", func(fl validator.FieldLevel) bool {
		return validFileName(fl.Field().String())
	})

	policy := &FilePolicy{
		maxFileBytes: cfg.MaxFileBytes,
		allowed:      make(map[string]struct{}, len(cfg.AllowedMimeTypes)),
		validate:     validate,
	}
	for _, mimeType := range cfg.AllowedMimeTypes {
		normalized := normalizeMimeType(mimeType)
		if _, ok := policy.allowed[normalized]; ok || normalized == "" {
			continue
		}
		policy.allowed[normalized] = struct{}{}
		policy.allowedMimeTypes = append(policy.allowedMimeTypes, normalized)
	}
	return policy
}

func (p *FilePolicy) MaxFileBytes() int64 {
	return p.maxFileBytes
}

func (p *FilePolicy) AllowedMimeTypes() []string {
	return append([]string(nil), p.allowedMimeTypes...)
}

// Check : тип, размер и имя файла
func (p *FilePolicy) Check(meta ports.FileMeta) error {
	if strings.TrimSpace(meta.FileName) == "" {
		return validationError("не указано имя файла")
	}
	if err := p.validate.Var(meta.FileName, fileNameRules); err != nil {
		return validationError("недопустимое имя файла: не длиннее 255 символов и без управляющих символов")
	}
	if _, ok := p.allowed[normalizeMimeType(meta.MimeType)]; !ok {
		return validationError(fmt.Sprintf("тип файла %q не разрешён", meta.MimeType))
	}
	if meta.SizeBytes <= 0 {
		return validationError("размер файла должен быть больше нуля")
	}
	if meta.SizeBytes > p.maxFileBytes {
		return validationError(fmt.Sprintf("файл больше допустимого размера %d байт", p.maxFileBytes))
	}
	return nil
}

func validFileName(name string) bool {
	if !utf8.ValidString(name) {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func normalizeMimeType(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mediaType
}

// SanitizeFileName : имя файла, безопасное для ключа в хранилище
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	sanitized := strings.Trim(b.String(), "._")
	if sanitized == "" {
		return "file"
	}

	if len(sanitized) > maxStoredFileNameLength {
		ext := path.Ext(sanitized)
		if len(ext) > 16 {
			ext = ""
		}
		sanitized = sanitized[:maxStoredFileNameLength-len(ext)] + ext
	}

	return sanitized
}

// StoragePath : ключ объекта. Файл всегда лежит под своим запросом и заказ-нарядом
func StoragePath(request *model.UploadRequest, fileID, fileName string) string {
	return fmt.Sprintf("orgs/%s/work-orders/%s/upload-requests/%s/%s/%s",
		request.OrgID, request.WorkOrderID, request.ID, fileID, SanitizeFileName(fileName))
}
