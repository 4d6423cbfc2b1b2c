package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pawhome/adoption-api/internal/domain"
)

const tokenTTL = time.Hour

var ClaimsCtxKey = &contextKey{"Claims"}

type contextKey struct {
	name string
}

type AuthClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *server) issueToken(user domain.User) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *server) verifyToken(tokenStr string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *server) jwtVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorizationHeader := r.Header.Get("Authorization")
		tokenStr := strings.TrimPrefix(authorizationHeader, "Bearer ")
		if tokenStr == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		claims, err := s.verifyToken(tokenStr)
		if err != nil {
			s.logger.Error("failed to verify token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		ctx := NewClaimsContext(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func NewClaimsContext(ctx context.Context, claims *AuthClaims) context.Context {
	return context.WithValue(ctx, ClaimsCtxKey, claims)
}

func ClaimsFromContext(ctx context.Context) *AuthClaims {
	claims, _ := ctx.Value(ClaimsCtxKey).(*AuthClaims)
	return claims
}
