package catalog

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
)

// maxImageBytes bounds the decoded image payload stored inline
const maxImageBytes = 5 << 20

// EncodeImageDataURL re-encodes a stored image payload as a data URL for
// API responses. Returns "" for an empty payload.
func EncodeImageDataURL(image []byte) string {
	if len(image) == 0 {
		return ""
	}
	mime := http.DetectContentType(image)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// DecodeImageDataURL decodes an uploaded image, accepting either a full
// data URL or bare base64. Returns nil for an empty input.
func DecodeImageDataURL(input string) ([]byte, error) {
	if input == "" {
		return nil, nil
	}

	encoded := input
	if strings.HasPrefix(input, "data:") {
		_, rest, found := strings.Cut(input, ",")
		if !found {
			return nil, shared.NewDomainError("INVALID_IMAGE", "Malformed image data URL")
		}
		encoded = rest
	}

	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image is not valid base64")
	}
	if len(image) > maxImageBytes {
		return nil, shared.NewDomainError("IMAGE_TOO_LARGE", "Image exceeds the 5MB limit")
	}
	return image, nil
}
