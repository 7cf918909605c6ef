package security

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	StaffContextKey contextKey = "staff"
)

// Claims : токены сотрудников выпускает основная платформа, здесь они только проверяются
type Claims struct {
	UserUUID string `json:"user_uuid"`
	OrgUUID  string `json:"org_uuid"`
	jwt.RegisteredClaims
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

func (service *JWTService) ValidateJWT(jwtTokenStr string) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return []byte(service.SecretKey), nil
	})

	if err != nil || !jwtToken.Valid {
		return nil, util.LogError("невалидный токен", err)
	}
	if claims.UserUUID == "" || claims.OrgUUID == "" {
		return nil, fmt.Errorf("в токене нет сотрудника или организации")
	}

	return claims, nil
}

func JWTMiddleware(jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, next))
	}
}

func handleAuthentication(jwtService *JWTService, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		claims, err := jwtService.ValidateJWT(token)
		if err != nil {
			log.Printf("невалидный токен: %v", err)
			util.HandleError(writer, "невалидный токен", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), StaffContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(StaffContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}

// WithClaims : кладёт claims в контекст, нужен хендлерам в тестах
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, StaffContextKey, claims)
}
