package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedURLSigner creates and validates short-lived download tokens for generated documents.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate returns a token binding the session and document kind until the TTL elapses.
func (s *SignedURLSigner) Generate(sessionID, kind string) (string, time.Time, error) {
	if sessionID == "" || kind == "" {
		return "", time.Time{}, fmt.Errorf("session id and document kind required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	encodedKind := base64.RawURLEncoding.EncodeToString([]byte(kind))
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	signature := s.sign(sessionID, ts, encodedKind)
	return strings.Join([]string{sessionID, ts, encodedKind, signature}, "."), expiresAt, nil
}

// Parse validates a token and returns the embedded session id and document kind.
func (s *SignedURLSigner) Parse(token string) (sessionID, kind string, expiresAt time.Time, err error) {
	if len(s.secret) == 0 {
		return "", "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, fmt.Errorf("invalid token format")
	}
	sessionID, ts, encodedKind, signature := parts[0], parts[1], parts[2], parts[3]

	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("invalid timestamp")
	}
	if !hmac.Equal([]byte(s.sign(sessionID, ts, encodedKind)), []byte(signature)) {
		return "", "", time.Time{}, fmt.Errorf("invalid token signature")
	}
	rawKind, err := base64.RawURLEncoding.DecodeString(encodedKind)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode kind: %w", err)
	}
	expiresAt = time.Unix(expUnix, 0)
	if s.now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("token expired")
	}
	return sessionID, string(rawKind), expiresAt, nil
}

func (s *SignedURLSigner) sign(sessionID, ts, encodedKind string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(sessionID + "|" + ts + "|" + encodedKind))
	return hex.EncodeToString(mac.Sum(nil))
}
