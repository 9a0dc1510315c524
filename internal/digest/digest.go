// Package digest computes the SHA-256 and BLAKE3 hashes logged for every
// file a collation run writes.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/JuniperCollate/core/errors"
)

// Result contains both hashes of a blob.
type Result struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
	Size   int64  `json:"size"`
}

// Sum hashes data.
func Sum(data []byte) Result {
	s := sha256.Sum256(data)
	b := blake3.Sum256(data)
	return Result{
		SHA256: hex.EncodeToString(s[:]),
		BLAKE3: hex.EncodeToString(b[:]),
		Size:   int64(len(data)),
	}
}

// Reader hashes everything read from r in one pass.
func Reader(r io.Reader) (Result, error) {
	s := sha256.New()
	b := blake3.New()
	n, err := io.Copy(io.MultiWriter(s, b), r)
	if err != nil {
		return Result{}, err
	}
	return Result{
		SHA256: hex.EncodeToString(s.Sum(nil)),
		BLAKE3: hex.EncodeToString(b.Sum(nil)),
		Size:   n,
	}, nil
}

// File hashes the file at path.
func File(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, errors.NewNotFound("file", path)
		}
		return Result{}, errors.NewIO("open", path, err)
	}
	defer f.Close()

	res, err := Reader(f)
	if err != nil {
		return Result{}, errors.NewIO("read", path, err)
	}
	return res, nil
}

// LogArgs returns the hashes as slog key-value pairs.
func (r Result) LogArgs() []any {
	return []any{"sha256", r.SHA256, "blake3", r.BLAKE3}
}

// String formats the result as "sha256  blake3".
func (r Result) String() string {
	return fmt.Sprintf("%s  %s", r.SHA256, r.BLAKE3)
}
