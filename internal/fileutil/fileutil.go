package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HashChunkSize is the read size used when streaming files into the hasher.
const HashChunkSize = 4096

// HashFile streams path into SHA-256 in HashChunkSize blocks and returns the
// lowercase hex digest. Bytes are hashed as stored on disk.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer f.Close()

	sum, err := HashReader(f)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return sum, nil
}

// HashReader consumes r in HashChunkSize blocks and returns its SHA-256 hex digest.
func HashReader(r io.Reader) (string, error) {
	hasher := sha256.New()
	buf := make([]byte, HashChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// WriteFile creates or truncates path with data using the given mode and
// reports close errors, which matter for files hashed right after writing.
func WriteFile(path string, data []byte, mode os.FileMode) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
