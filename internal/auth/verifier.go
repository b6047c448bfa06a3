package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/votojudicial/backend/internal/utils"
)

var (
	ErrNoKey        = errors.New("auth: no verification key configured")
	ErrInvalidToken = errors.New("auth: invalid session token")
	ErrExpiredToken = errors.New("auth: session token expired")
)

// Verifier checks session tokens issued by the identity provider. RS256
// tokens are verified against the provider's public key; HS256 tokens are
// accepted only when a shared secret is configured.
type Verifier struct {
	rsaKey *rsa.PublicKey
	secret []byte
}

func NewVerifier(publicKeyPEM, secret string) (*Verifier, error) {
	v := &Verifier{}
	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse AUTH_JWT_PUBLIC_KEY: %w", err)
		}
		v.rsaKey = key
	}
	if secret != "" {
		v.secret = []byte(secret)
	}
	if v.rsaKey == nil && v.secret == nil {
		return nil, ErrNoKey
	}
	return v, nil
}

// VerifyToken validates tokenString and returns the identity in its sub claim.
func (v *Verifier) VerifyToken(tokenString string) (utils.SessionData, error) {
	token, err := jwt.Parse(tokenString, v.keyFunc)
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return utils.SessionData{}, ErrExpiredToken
		}
		return utils.SessionData{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return utils.SessionData{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return utils.SessionData{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	session := utils.SessionData{UserID: sub}
	if exp, ok := claims["exp"].(float64); ok {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return session, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodRSA:
		if v.rsaKey != nil {
			return v.rsaKey, nil
		}
	case *jwt.SigningMethodHMAC:
		if v.secret != nil {
			return v.secret, nil
		}
	}
	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}
