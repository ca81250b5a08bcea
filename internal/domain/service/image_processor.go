package service

// ResizeSpec describes one processing pass. A zero Width/Height pair falls
// back to the ratio defaults.
type ResizeSpec struct {
	AspectRatio string
	Width       int
	Height      int
	Fit         string
	Quality     int
	Format      string
}

type ImageProcessor interface {
	// Process validates, resizes, watermarks and re-encodes the image,
	// returning the final bytes and their content type.
	Process(data []byte, spec ResizeSpec) ([]byte, string, error)
	// Validate rejects images with no decodable dimensions, or outside the
	// 100x100..5000x5000 bounds.
	Validate(data []byte) error
}
