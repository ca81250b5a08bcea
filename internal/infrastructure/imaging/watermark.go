package imaging

import (
	"sync"

	"github.com/h2non/bimg"

	"lupain/pkg/config"
	"lupain/pkg/logger"
)

// Logo footprint after scaling, chosen for legibility regardless of the host
// image size.
const (
	logoWidth  = 200
	logoHeight = 60
)

// WatermarkEngine composites one fixed logo over processed images. It is
// fail-open throughout: a missing or broken logo must never block an upload,
// so every failure path returns the input bytes untouched.
type WatermarkEngine struct {
	mu   sync.RWMutex
	logo []byte
	cfg  config.WatermarkConfig
}

func NewWatermarkEngine(cfg config.WatermarkConfig) *WatermarkEngine {
	return &WatermarkEngine{cfg: cfg}
}

// SetLogo scales the raw logo to its fixed footprint and caches it. On a
// decode or resize failure the previous logo (possibly none) is kept.
func (e *WatermarkEngine) SetLogo(raw []byte) error {
	scaled, err := bimg.NewImage(raw).Process(bimg.Options{
		Width:  e.scaledWidth(),
		Height: e.scaledHeight(),
		Force:  true,
	})
	if err != nil {
		logger.Warn("Failed to prepare watermark logo: %v", err)
		return err
	}

	e.mu.Lock()
	e.logo = scaled
	e.mu.Unlock()
	return nil
}

func (e *WatermarkEngine) scaledWidth() int {
	return scaleDimension(logoWidth, e.cfg.Scale)
}

func (e *WatermarkEngine) scaledHeight() int {
	return scaleDimension(logoHeight, e.cfg.Scale)
}

func scaleDimension(base int, scale float64) int {
	if scale <= 0 {
		return base
	}
	return int(float64(base) * scale)
}

// Apply composites the cached logo onto img at the configured position.
func (e *WatermarkEngine) Apply(img []byte) []byte {
	e.mu.RLock()
	logo := e.logo
	e.mu.RUnlock()

	if logo == nil {
		return img
	}

	size, err := bimg.NewImage(img).Size()
	if err != nil {
		logger.Warn("Watermark skipped, target image unreadable: %v", err)
		return img
	}

	left, top := overlayOffset(e.cfg.Position, size.Width, size.Height, e.scaledWidth(), e.scaledHeight(), e.cfg.Margin)

	out, err := bimg.NewImage(img).Process(bimg.Options{
		WatermarkImage: bimg.WatermarkImage{
			Left:    left,
			Top:     top,
			Buf:     logo,
			Opacity: float32(e.cfg.Opacity),
		},
	})
	if err != nil {
		logger.Warn("Watermark compositing failed: %v", err)
		return img
	}
	return out
}

// overlayOffset computes the logo's pixel offset for a corner or center
// placement with the given margin. Offsets are clamped at zero for hosts
// smaller than the logo.
func overlayOffset(position string, imgW, imgH, logoW, logoH, margin int) (int, int) {
	var left, top int
	switch position {
	case "top-left":
		left, top = margin, margin
	case "top-right":
		left, top = imgW-logoW-margin, margin
	case "bottom-left":
		left, top = margin, imgH-logoH-margin
	case "center":
		left, top = (imgW-logoW)/2, (imgH-logoH)/2
	default: // bottom-right
		left, top = imgW-logoW-margin, imgH-logoH-margin
	}

	if left < 0 {
		left = 0
	}
	if top < 0 {
		top = 0
	}
	return left, top
}
