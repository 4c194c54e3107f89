package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/disintegration/imaging"
)

// ImageProcessor downsizes uploaded photos before they reach the blob store.
type ImageProcessor struct {
	maxWidth int
}

// NewImageProcessor returns a processor that scales images wider than
// maxWidth down to it. A maxWidth of zero disables resizing.
func NewImageProcessor(maxWidth int) *ImageProcessor {
	return &ImageProcessor{maxWidth: maxWidth}
}

// Prepare fills in the attachment's content type and shrinks oversized JPEG
// and PNG images. Anything it cannot decode is passed through untouched.
func (ip *ImageProcessor) Prepare(att models.Attachment) models.Attachment {
	att.ContentType = ResolveContentType(att.Data, att.ContentType)
	if ip.maxWidth <= 0 {
		return att
	}

	var format imaging.Format
	switch att.ContentType {
	case "image/jpeg":
		format = imaging.JPEG
	case "image/png":
		format = imaging.PNG
	default:
		return att
	}

	resized, err := ip.resize(att.Data, format)
	if err != nil || resized == nil {
		return att
	}
	att.Data = resized
	return att
}

// resize returns nil when the image already fits.
func (ip *ImageProcessor) resize(data []byte, format imaging.Format) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= ip.maxWidth {
		return nil, nil
	}

	origImg, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	// Height 0 keeps the aspect ratio.
	thumb := imaging.Resize(origImg, ip.maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}
