package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// DefaultMaxBytes caps a single encoded upload
	DefaultMaxBytes int64 = 5 << 20

	prefix = "data:"
	marker = ";base64,"
)

var (
	ErrEmpty           = errors.New("image is empty")
	ErrTooLarge        = errors.New("image exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// allowed mirrors the upload accept list: png, jpeg, gif
var allowed = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// Encode reads an image and returns it as a self-contained
// data:<mime>;base64,<payload> string. The type is sniffed from content,
// never taken from a file name.
func Encode(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	if !allowed[mtype.String()] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	return prefix + mtype.String() + marker + base64.StdEncoding.EncodeToString(data), nil
}

// MaxEncodedLen is the longest data URL Encode can return for maxBytes
func MaxEncodedLen(maxBytes int64) int64 {
	longest := 0
	for mime := range allowed {
		longest = max(longest, len(mime))
	}
	return int64(len(prefix)+longest+len(marker)) + (maxBytes+2)/3*4
}

// IsImage reports whether s is a base64 data URL with an image media type
// and a decodable payload
func IsImage(s string) bool {
	if !strings.HasPrefix(s, prefix+"image/") {
		return false
	}
	i := strings.Index(s, marker)
	if i < 0 {
		return false
	}
	payload := s[i+len(marker):]
	if payload == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(payload)
	return err == nil
}
