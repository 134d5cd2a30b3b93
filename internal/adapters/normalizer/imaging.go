package normalizer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"vtobot/internal/core/domain"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// Dimension bounds enforced by the try-on model. The long side is capped at
// SoftCap pre-emptively, strictly tighter than the HardCap the API rejects at.
const (
	MinSide = 320
	SoftCap = 3072
	HardCap = 4096
)

const jpegQuality = 92

// ImagingNormalizer rewrites arbitrary JPEG/PNG uploads into compliant,
// correctly oriented images. It is stateless and safe for concurrent use.
type ImagingNormalizer struct{}

func NewImagingNormalizer() *ImagingNormalizer {
	return &ImagingNormalizer{}
}

// Normalize decodes the input, bakes any EXIF orientation into the pixel
// order, rescales to fit the dimension bounds and returns the re-encoded
// image as base64 text.
func (n *ImagingNormalizer) Normalize(data []byte, format domain.ImageFormat) (string, error) {
	// Sniff the actual content, client-supplied names and headers lie.
	detected := http.DetectContentType(data)
	if detected != "image/jpeg" && detected != "image/png" {
		return "", fmt.Errorf("%w: unsupported content type %s", domain.ErrImageDecode, detected)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrImageDecode, err)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w < 1 || h < 1 {
		return "", fmt.Errorf("%w: image has zero dimension", domain.ErrImageResize)
	}

	if newW, newH, resized := capLongSide(w, h); resized {
		log.Debug().Int("width", newW).Int("height", newH).Msg("capping long side")

		if newW < 1 || newH < 1 {
			return "", fmt.Errorf("%w: extreme aspect ratio", domain.ErrImageResize)
		}

		img = imaging.Resize(img, newW, newH, imaging.Lanczos)
		w, h = newW, newH
	}

	// Decided on the possibly already downscaled dimensions, never the
	// original ones.
	if newW, newH, resized := raiseShortSide(w, h); resized {
		log.Debug().Int("width", newW).Int("height", newH).Msg("raising short side")
		img = imaging.Resize(img, newW, newH, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	switch format {
	case domain.JPEG:
		// JPEG carries no alpha, encoding drops the channel.
		err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	case domain.PNG:
		err = imaging.Encode(buf, img, imaging.PNG)
	default:
		return "", fmt.Errorf("%w: unsupported target format %q", domain.ErrImageEncode, format)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrImageEncode, err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// capLongSide shrinks dimensions whose long side exceeds SoftCap, preserving
// the aspect ratio with truncating division.
func capLongSide(w, h int) (int, int, bool) {
	long := max(w, h)
	if long <= SoftCap {
		return w, h, false
	}

	return w * SoftCap / long, h * SoftCap / long, true
}

// raiseShortSide grows dimensions whose short side falls below MinSide. If
// that overshoots HardCap on the other axis, a second truncating rescale
// brings the long side back under the ceiling; the guarantee that holds
// either way is long side <= HardCap.
func raiseShortSide(w, h int) (int, int, bool) {
	short := min(w, h)
	if short >= MinSide {
		return w, h, false
	}

	newW, newH := w*MinSide/short, h*MinSide/short

	if long := max(newW, newH); long > HardCap {
		newW, newH = newW*HardCap/long, newH*HardCap/long
	}

	return newW, newH, true
}
