package ports

import "context"

// TokenCodec : выпуск и проверка токена доступа к порталу
type TokenCodec interface {
	Issue() (secret string, hash string, err error)
	Verify(candidate, storedHash string) bool
	// DummyHash : хэш для сверки, когда запрос не найден, чтобы время ответа не отличалось
	DummyHash() string
}

// AttemptLimiter : учёт неудачных попыток доступа по IP
type AttemptLimiter interface {
	Blocked(ctx context.Context, sourceIP string) (bool, error)
	RecordFailure(ctx context.Context, sourceIP string) error
}
