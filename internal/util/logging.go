package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// TokenQueryParam : имя query-параметра с токеном портала
const TokenQueryParam = "t"

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ошибка кодирования ответа: %v", err)
	}
}

// RedactURL : убирает токен портала из URL перед записью в лог
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	query := u.Query()
	if !query.Has(TokenQueryParam) {
		return u.RequestURI()
	}

	query.Set(TokenQueryParam, "REDACTED")
	redacted := *u
	redacted.RawQuery = query.Encode()
	return redacted.RequestURI()
}

// ClientIP : адрес клиента без порта. За доверенным прокси TrustedRealIP уже подставил адрес из заголовков
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestLogger : журнал запросов без токенов в query
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Printf("%s %s %d %dB %s ip=%s", r.Method, RedactURL(r.URL), ww.Status(), ww.BytesWritten(), time.Since(start), ClientIP(r))
	})
}
