package imaging

import (
	"github.com/h2non/bimg"

	"lupain/internal/domain/service"
	"lupain/pkg/config"
	"lupain/pkg/errors"
)

const (
	minDimension = 100
	maxDimension = 5000
)

// Processor is the image pipeline: validate, resize/crop to a target aspect
// ratio, watermark, re-encode. Resize and encode failures surface to the
// caller; only the watermark step is fail-open (handled inside the engine).
type Processor struct {
	cfg       config.ImageConfig
	watermark *WatermarkEngine
	wmEnabled bool
}

func NewProcessor(cfg config.ImageConfig, watermark *WatermarkEngine, wmEnabled bool) *Processor {
	return &Processor{
		cfg:       cfg,
		watermark: watermark,
		wmEnabled: wmEnabled,
	}
}

var _ service.ImageProcessor = (*Processor)(nil)

func (p *Processor) Validate(data []byte) error {
	size, err := bimg.NewImage(data).Size()
	if err != nil {
		return errors.BadRequest("Image has no decodable dimensions", err)
	}
	if size.Width < minDimension || size.Height < minDimension {
		return errors.BadRequest("Image is smaller than 100x100", nil)
	}
	if size.Width > maxDimension || size.Height > maxDimension {
		return errors.BadRequest("Image is larger than 5000x5000", nil)
	}
	return nil
}

func (p *Processor) Process(data []byte, spec service.ResizeSpec) ([]byte, string, error) {
	ratio := spec.AspectRatio
	if ratio == "" {
		ratio = p.cfg.AspectRatio
	}

	quality := spec.Quality
	if quality <= 0 || quality > 100 {
		quality = p.cfg.Quality
	}

	format := spec.Format
	if format == "" {
		format = p.cfg.Format
	}
	imageType, contentType, err := resolveFormat(format)
	if err != nil {
		return nil, "", err
	}

	opts := bimg.Options{
		Quality: quality,
		Type:    imageType,
	}

	if ratio != "original" {
		width, height := resolveDimensions(ratio, spec.Width, spec.Height)
		opts.Width = width
		opts.Height = height
		// Default fit is cover: crop to the exact target box, centered.
		if spec.Fit == "" || spec.Fit == "cover" {
			opts.Crop = true
			opts.Gravity = bimg.GravityCentre
		}
	}

	out, err := bimg.NewImage(data).Process(opts)
	if err != nil {
		return nil, "", errors.Processing("Failed to process image", err)
	}

	if p.wmEnabled {
		out = p.watermark.Apply(out)
	}

	return out, contentType, nil
}

func resolveFormat(format string) (bimg.ImageType, string, error) {
	switch format {
	case "jpeg", "jpg":
		return bimg.JPEG, "image/jpeg", nil
	case "png":
		return bimg.PNG, "image/png", nil
	case "webp":
		return bimg.WEBP, "image/webp", nil
	}
	return bimg.UNKNOWN, "", errors.BadRequest("Unsupported output format: "+format, nil)
}

// resolveDimensions derives the missing dimension from the ratio's fixed
// proportion, falling back to ratio-specific defaults when neither side was
// supplied.
func resolveDimensions(ratio string, width, height int) (int, int) {
	type proportion struct {
		num, den            int
		defWidth, defHeight int
	}

	var p proportion
	switch ratio {
	case "16:9":
		p = proportion{16, 9, 1920, 1080}
	case "1:1":
		p = proportion{1, 1, 800, 800}
	default: // 4:3
		p = proportion{4, 3, 1200, 900}
	}

	switch {
	case width > 0 && height > 0:
		return width, height
	case width > 0:
		return width, width * p.den / p.num
	case height > 0:
		return height * p.num / p.den, height
	default:
		return p.defWidth, p.defHeight
	}
}
