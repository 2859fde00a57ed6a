// Package attachment converts uploaded binary files to and from the
// embedded data-URL representation stored inside a record field.
package attachment

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	ErrOversizedFile    = errors.New("file exceeds the maximum allowed size")
	ErrMalformedPayload = errors.New("malformed embedded payload")
)

const (
	// Pre-encoding size ceilings; anything larger is rejected outright.
	MaxImageBytes = 5 << 20
	MaxPDFBytes   = 10 << 20

	// Images wider than this are downscaled before embedding to bound
	// record size.
	maxImageWidth = 1200
	jpegQuality   = 85
)

// Encode wraps raw bytes in a data URL. It applies no validation; use
// EncodeImage / EncodePDF for uploaded content.
func Encode(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode strips the data-URL prefix and base64-decodes the payload.
func Decode(payload string) ([]byte, error) {
	i := strings.Index(payload, ",")
	if i < 0 {
		return nil, fmt.Errorf("%w: no separator", ErrMalformedPayload)
	}
	b, err := base64.StdEncoding.DecodeString(payload[i+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}
	return b, nil
}

// MIMEType extracts the declared media type from a data URL, or "" if the
// payload does not carry one.
func MIMEType(payload string) string {
	if !strings.HasPrefix(payload, "data:") {
		return ""
	}
	rest := payload[len("data:"):]
	if i := strings.IndexAny(rest, ";,"); i >= 0 {
		return rest[:i]
	}
	return ""
}

// EncodeImage embeds an uploaded image. Images over MaxImageBytes are
// rejected; images wider than maxImageWidth are resized preserving aspect
// ratio and re-encoded as JPEG. Smaller images are embedded verbatim so
// the payload round-trips byte-identically.
func EncodeImage(mimeType string, data []byte) (string, error) {
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("%w: image is %d bytes (max %d)", ErrOversizedFile, len(data), MaxImageBytes)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if img.Bounds().Dx() <= maxImageWidth {
		return Encode(mimeType, data), nil
	}
	resized := imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("re-encode resized image: %w", err)
	}
	return Encode("image/jpeg", buf.Bytes()), nil
}

// EncodePDF embeds an uploaded PDF. PDFs over MaxPDFBytes are rejected.
func EncodePDF(data []byte) (string, error) {
	if len(data) > MaxPDFBytes {
		return "", fmt.Errorf("%w: pdf is %d bytes (max %d)", ErrOversizedFile, len(data), MaxPDFBytes)
	}
	return Encode("application/pdf", data), nil
}

// NormalizeImage re-validates an image payload submitted as a data URL:
// decode, enforce the size ceiling, downscale if needed, re-embed.
func NormalizeImage(payload string) (string, error) {
	data, err := Decode(payload)
	if err != nil {
		return "", err
	}
	mime := MIMEType(payload)
	if mime == "" {
		mime = "image/jpeg"
	}
	return EncodeImage(mime, data)
}

// NormalizePDF re-validates a PDF payload submitted as a data URL.
func NormalizePDF(payload string) (string, error) {
	data, err := Decode(payload)
	if err != nil {
		return "", err
	}
	return EncodePDF(data)
}
