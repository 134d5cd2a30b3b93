package port

import "vtobot/internal/core/domain"

type ImageNormalizer interface {
	// Normalize decodes raw JPEG or PNG bytes, corrects the orientation, fits
	// the dimensions into the bounds the try-on model accepts and re-encodes
	// the result in the requested format as a base64 string.
	Normalize(data []byte, format domain.ImageFormat) (string, error)
}
