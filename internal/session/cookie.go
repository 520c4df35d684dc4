package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCookie подпись или срок cookie не прошли проверку.
var ErrInvalidCookie = errors.New("session: невалидная cookie")

// CookieSigner выпускает и проверяет подписанное значение cookie с id сессии.
type CookieSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewCookieSigner создаёт подписчик.
func NewCookieSigner(secret string, ttl time.Duration) *CookieSigner {
	return &CookieSigner{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Sign формирует HS256 токен с id сессии в sub.
func (cs *CookieSigner) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cs.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cs.secret)
}

// Parse проверяет подпись и срок и возвращает id сессии.
func (cs *CookieSigner) Parse(value string) (string, error) {
	parsed, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return cs.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", ErrInvalidCookie
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidCookie
	}
	return claims.Subject, nil
}
