// Package files handles uploaded file storage and signed public links.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	dErrors "gatepass/pkg/domainerrors"
)

// SaveUpload streams r into dir under a collision-proof name and returns the
// stored path. The original filename is kept as a suffix for operators who
// browse the directory.
func SaveUpload(dir, prefix, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to store file", err)
	}

	base := sanitizeFilename(filename)
	name := fmt.Sprintf("%s_%s_%s", prefix, uuid.NewString(), base)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to store file", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to store file", err)
	}

	return path, nil
}

// Delete removes a stored file. A missing file is not an error.
func Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to delete file", err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload"
	}
	return base
}
