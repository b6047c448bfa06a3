package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/votojudicial/backend/internal/auth"
)

func signHS(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestNewVerifier_NoKey(t *testing.T) {
	if _, err := auth.NewVerifier("", ""); !errors.Is(err, auth.ErrNoKey) {
		t.Fatalf("expected ErrNoKey, got %v", err)
	}
}

func TestVerifyToken_HS256(t *testing.T) {
	v, err := auth.NewVerifier("", "dev-secret")
	if err != nil {
		t.Fatal(err)
	}
	exp := time.Now().Add(time.Hour).Unix()
	tok := signHS(t, "dev-secret", jwt.MapClaims{"sub": "user_2abc", "exp": exp})

	s, err := v.VerifyToken(tok)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if s.UserID != "user_2abc" || s.ExpiresAt.Unix() != exp {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestVerifyToken_Rejections(t *testing.T) {
	v, err := auth.NewVerifier("", "dev-secret")
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]struct {
		token string
		want  error
	}{
		"wrong secret": {signHS(t, "other", jwt.MapClaims{"sub": "u"}), auth.ErrInvalidToken},
		"missing sub":  {signHS(t, "dev-secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}), auth.ErrInvalidToken},
		"expired":      {signHS(t, "dev-secret", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}), auth.ErrExpiredToken},
		"garbage":      {"not-a-jwt", auth.ErrInvalidToken},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := v.VerifyToken(tc.token); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestVerifyToken_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	v, err := auth.NewVerifier(pemKey, "")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "user_rsa",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	s, err := v.VerifyToken(tok)
	if err != nil || s.UserID != "user_rsa" {
		t.Fatalf("expected user_rsa, got %+v, %v", s, err)
	}

	// An HMAC token must not be accepted when only the RSA key is configured.
	hs := signHS(t, pemKey, jwt.MapClaims{"sub": "attacker"})
	if _, err := v.VerifyToken(hs); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected HS256 rejection, got %v", err)
	}
}
