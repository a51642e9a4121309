package blob

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrBadSignature is returned when a URL's signature does not verify.
	ErrBadSignature = errors.New("invalid media signature")
	// ErrExpired is returned when a signed URL's deadline has passed.
	ErrExpired = errors.New("media link expired")
)

// Signer issues and verifies HMAC-signed media URLs. Links carry the object
// key and an expiry; anyone holding a live link can fetch the object, which
// is what lets media markup render without a session on the media path.
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{key: []byte(secret), ttl: ttl, now: time.Now}
}

// SignedPath returns a relative URL for the object, valid for the signer's TTL.
func (s *Signer) SignedPath(key string) string {
	exp := s.now().Add(s.ttl).Unix()
	sig := s.sign(key, exp)
	return fmt.Sprintf("/media/%s?exp=%d&sig=%s", key, exp, sig)
}

// Verify checks the signature and expiry taken from a request's query values.
func (s *Signer) Verify(key string, query url.Values) error {
	expStr := query.Get("exp")
	sig := query.Get("sig")
	if expStr == "" || sig == "" {
		return ErrBadSignature
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	want := s.sign(key, exp)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadSignature
	}
	if s.now().Unix() > exp {
		return ErrExpired
	}
	return nil
}

func (s *Signer) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.key)
	fmt.Fprintf(mac, "%s\n%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}
