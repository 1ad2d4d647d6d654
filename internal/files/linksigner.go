package files

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strconv"
	"time"

	dErrors "gatepass/pkg/domainerrors"
)

// LinkSigner produces and verifies HMAC-signed public download links of the
// form /static/access?file=<rel>&expires=<unix>&sig=<mac>.
type LinkSigner struct {
	secret []byte
}

func NewLinkSigner(secret string) *LinkSigner {
	return &LinkSigner{secret: []byte(secret)}
}

// Sign returns the signature over relPath valid until expires.
func (s *LinkSigner) Sign(relPath string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(relPath + ":" + strconv.FormatInt(expires, 10)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// SignedURL builds a complete access URL for relPath with the given lifetime.
// Query encoding keeps paths with spaces or reserved characters verifiable.
func (s *LinkSigner) SignedURL(relPath string, ttl time.Duration) string {
	expires := time.Now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("file", relPath)
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", s.Sign(relPath, expires))
	return "/static/access?" + q.Encode()
}

// Verify checks the signature and expiry for relPath.
func (s *LinkSigner) Verify(relPath string, expires int64, sig string) error {
	if time.Now().Unix() > expires {
		return dErrors.New(dErrors.CodeForbidden, "Link has expired")
	}
	want := s.Sign(relPath, expires)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return dErrors.New(dErrors.CodeForbidden, "Invalid signature")
	}
	return nil
}
