package photoshoot

import (
	"bytes"
	"fmt"

	"admaker/internal/domain"
)

// MaxUploadSize caps the source photo at 4 MiB.
const MaxUploadSize = 4 << 20

// sniffImage detects the real image format from magic bytes. The
// client-declared content type is never trusted.
func sniffImage(data []byte) (mimeType, ext string, ok bool) {
	if len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}) {
		return "image/jpeg", "jpg", true
	}
	if len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}) {
		return "image/png", "png", true
	}
	if len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "image/webp", "webp", true
	}
	return "", "", false
}

// validateUpload checks the source photo before any credits are charged or
// rows are written.
func validateUpload(data []byte) (mimeType, ext string, err error) {
	if len(data) == 0 {
		return "", "", domain.NewValidationError("please upload a product photo")
	}
	if len(data) > MaxUploadSize {
		return "", "", domain.NewValidationError(fmt.Sprintf("image is too large, the limit is %d MB", MaxUploadSize>>20))
	}
	mimeType, ext, ok := sniffImage(data)
	if !ok {
		return "", "", domain.NewValidationError("unsupported image format, please upload a JPEG, PNG or WebP file")
	}
	return mimeType, ext, nil
}
