package httpkit

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	perr "jangat/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPort authenticates bearer credentials: static tokens, each mapped to a client name,
// and HS256 JWTs signed with a shared secret, named after their subject
type TokenPort struct {
	tokens map[string]string
	secret []byte
}

// NewTokenPort builds a port from token to client name and an optional JWT secret;
// nil when both are empty so auth is off
func NewTokenPort(tokens map[string]string, jwtSecret string) *TokenPort {
	if len(tokens) == 0 && jwtSecret == "" {
		return nil
	}
	p := &TokenPort{tokens: tokens}
	if jwtSecret != "" {
		p.secret = []byte(jwtSecret)
	}
	return p
}

// ParseTokenList reads "client:token" pairs; a bare token is named "default"
func ParseTokenList(items []string) map[string]string {
	out := make(map[string]string, len(items))
	for _, it := range items {
		client, tok, ok := strings.Cut(it, ":")
		if !ok {
			client, tok = "default", it
		}
		if tok = strings.TrimSpace(tok); tok != "" {
			out[tok] = strings.TrimSpace(client)
		}
	}
	return out
}

// IssueToken signs an HS256 JWT for subject valid for ttl
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", perr.Validationf("jwt secret is required")
	}
	if strings.TrimSpace(subject) == "" {
		return "", perr.WithField(perr.Validationf("subject is required"), "subject")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "jangat",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse implements middleware.AuthPort
func (p *TokenPort) Parse(r *http.Request) (string, error) {
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(s) < len("bearer") || !strings.EqualFold(s[:len("bearer")], "bearer") {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(s[len("bearer"):])
	if raw == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	for tok, client := range p.tokens {
		if subtle.ConstantTimeCompare([]byte(tok), []byte(raw)) == 1 {
			return client, nil
		}
	}
	if p.secret != nil && strings.Count(raw, ".") == 2 {
		return p.parseJWT(raw)
	}
	return "", perr.Unauthorizedf("invalid bearer token")
}

func (p *TokenPort) parseJWT(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuer("jangat"))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnauthorized, "invalid bearer token")
	}
	if claims.Subject == "" {
		return "", perr.Unauthorizedf("token has no subject")
	}
	return claims.Subject, nil
}
