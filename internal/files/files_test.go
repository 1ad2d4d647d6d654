package files

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gatepass/pkg/domainerrors"
)

func TestSaveUpload(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveUpload(dir, "user", "photo.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "user_"))
	assert.True(t, strings.HasSuffix(path, "_photo.png"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveUploadSanitizesFilename(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveUpload(dir, "user", "../../evil file.png", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_evil_file.png"))
}

func TestDeleteMissingFileIsNoError(t *testing.T) {
	assert.NoError(t, Delete(filepath.Join(t.TempDir(), "nope.png")))
}

func TestLinkSignerRoundTrip(t *testing.T) {
	signer := NewLinkSigner("secret")

	expires := time.Now().Add(time.Hour).Unix()
	sig := signer.Sign("cards/a.png", expires)

	assert.NoError(t, signer.Verify("cards/a.png", expires, sig))
}

func TestSignedURLEncodesPath(t *testing.T) {
	signer := NewLinkSigner("secret")

	link := signer.SignedURL("cards/my card+1.png", time.Hour)
	u, err := url.Parse(link)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "cards/my card+1.png", q.Get("file"))
	expires, err := strconv.ParseInt(q.Get("expires"), 10, 64)
	require.NoError(t, err)
	assert.NoError(t, signer.Verify(q.Get("file"), expires, q.Get("sig")))
}

func TestLinkSignerRejectsTamperedPath(t *testing.T) {
	signer := NewLinkSigner("secret")

	expires := time.Now().Add(time.Hour).Unix()
	sig := signer.Sign("cards/a.png", expires)

	err := signer.Verify("cards/b.png", expires, sig)
	require.Error(t, err)
	assert.Equal(t, "Invalid signature", dErrors.DetailOf(err))
}

func TestLinkSignerRejectsExpired(t *testing.T) {
	signer := NewLinkSigner("secret")

	expires := time.Now().Add(-time.Minute).Unix()
	sig := signer.Sign("cards/a.png", expires)

	err := signer.Verify("cards/a.png", expires, sig)
	require.Error(t, err)
	assert.Equal(t, "Link has expired", dErrors.DetailOf(err))
}

func TestLinkSignerRejectsWrongSecret(t *testing.T) {
	signer := NewLinkSigner("secret")
	other := NewLinkSigner("other")

	expires := time.Now().Add(time.Hour).Unix()
	sig := other.Sign("cards/a.png", expires)

	assert.Error(t, signer.Verify("cards/a.png", expires, sig))
}
