package middleware

import (
	"coursestudio/internal/logger"
	"coursestudio/internal/reqctx"
	helpers "coursestudio/internal/utils/helpers"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var errNoSubject = errors.New("в токене нет subject")

// JWTAuth проверяет bearer-токен провайдера авторизации (HS256) и кладёт subject в контекст.
// Токены выпускает внешний провайдер, здесь только проверка подписи и срока.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
				helpers.Error(w, http.StatusUnauthorized, "Отсутствует access token")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			userID, err := ParseSubject(tokenString, secret)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
				helpers.Error(w, http.StatusUnauthorized, "Неверный или просроченный токен")
				return
			}

			ctx := reqctx.WithUserID(r.Context(), userID)
			logger.WithCtx(ctx).Debug("JWTAuth: токен валиден")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseSubject проверяет токен и возвращает идентификатор пользователя из claim "sub".
func ParseSubject(tokenString, secret string) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errNoSubject
	}
	return claims.Subject, nil
}
