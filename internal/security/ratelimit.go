package security

import (
	"context"
	"log"
	"net/http"
	"vendor-upload-portal/internal/ports"
	"vendor-upload-portal/internal/util"
)

type attemptKey struct{}

// attemptMark : обработчик отмечает в нём отказ в доступе по токену
type attemptMark struct {
	failed bool
}

// MarkFailedAttempt : вызов поставщика отклонён из-за токена или состояния запроса.
// Конфликты повторного finalize сюда не попадают
func MarkFailedAttempt(ctx context.Context) {
	if mark, ok := ctx.Value(attemptKey{}).(*attemptMark); ok {
		mark.failed = true
	}
}

// FailedTokenThrottle : отсекает IP, который накопил слишком много отказов в доступе на портале.
// IP берётся из RemoteAddr, за прокси его выставляет util.TrustedRealIP
func FailedTokenThrottle(limiter ports.AttemptLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ClientIP(r)

			blocked, err := limiter.Blocked(r.Context(), ip)
			if err != nil {
				log.Printf("[FailedTokenThrottle] лимитер недоступен, запрос пропущен: %v", err)
			}
			if blocked {
				util.HandleError(w, "слишком много неудачных попыток, повторите позже", http.StatusTooManyRequests)
				return
			}

			mark := &attemptMark{}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), attemptKey{}, mark)))

			if mark.failed {
				if err := limiter.RecordFailure(r.Context(), ip); err != nil {
					log.Printf("[FailedTokenThrottle] не удалось учесть попытку для %s: %v", ip, err)
				}
			}
		})
	}
}
