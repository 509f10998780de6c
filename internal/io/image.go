package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"

	_ "image/gif" // GIF decoder registration
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ImageOptions controls ImageService.Normalize.
type ImageOptions struct {
	// ConvertToJPG re-encodes non-JPEG images as JPEG.
	ConvertToJPG bool

	// MaxDimension bounds the longer side in pixels. Zero disables resizing.
	MaxDimension int

	// Quality is the JPEG quality, 1-100. Zero means 90.
	Quality int
}

// ImageService prepares downloaded images for the asset directory.
//
// ImageService is used to:
//   - Convert PNG, GIF and WebP sources to JPEG so every asset matches its .jpg name
//   - Optionally shrink oversized images
//
// JPEG input that needs no resizing is returned unchanged.
//
// Example usage:
//
//	svc := NewImageService(ImageOptions{ConvertToJPG: true})
//	data, err := svc.Normalize(ctx, downloaded)
type ImageService struct {
	opts ImageOptions
}

// NewImageService creates a new ImageService.
func NewImageService(opts ImageOptions) *ImageService {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 90
	}
	return &ImageService{opts: opts}
}

// Normalize returns the bytes to store for a downloaded image.
//
// Data is passed through untouched when conversion is disabled and no
// resize is configured, or when it is already a JPEG within MaxDimension.
// Otherwise it is decoded, scaled with Catmull-Rom and encoded as JPEG.
func (s *ImageService) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.opts.ConvertToJPG && s.opts.MaxDimension == 0 {
		return data, nil
	}

	isJPEG := http.DetectContentType(data) == "image/jpeg"
	if isJPEG && s.opts.MaxDimension == 0 {
		return data, nil
	}
	if !isJPEG && !s.opts.ConvertToJPG {
		return data, nil
	}

	if isJPEG {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if !s.oversized(cfg.Width, cfg.Height) {
			return data, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if s.oversized(img.Bounds().Dx(), img.Bounds().Dy()) {
		img = s.resize(img)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.opts.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ImageService) oversized(width, height int) bool {
	limit := s.opts.MaxDimension
	return limit > 0 && (width > limit || height > limit)
}

// resize scales img so its longer side equals MaxDimension, keeping the
// aspect ratio.
func (s *ImageService) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	limit := s.opts.MaxDimension

	if width >= height {
		height = int(float64(height) * float64(limit) / float64(width))
		width = limit
	} else {
		width = int(float64(width) * float64(limit) / float64(height))
		height = limit
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
