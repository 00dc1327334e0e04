// Package fingerprint computes content identity signatures for files.
//
// A fingerprint is the (size, mtime, SHA-256) triple used by change
// detection. Hashing the full content is intentional: size and mtime alone
// miss copies that preserve timestamps and filesystems with coarse mtime
// granularity.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/domain"
)

// Compute returns the fingerprint of the file at path.
// Failure to read the file propagates as an error; callers treat it as
// "needs reindex" rather than aborting the walk.
func Compute(path string) (domain.Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}

	hash, err := hashFile(path)
	if err != nil {
		return domain.Fingerprint{}, err
	}

	return domain.Fingerprint{
		Size:           info.Size(),
		ModifiedMillis: info.ModTime().UnixMilli(),
		Hash:           hash,
	}, nil
}

// hashFile computes the SHA-256 hex digest of the file content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
