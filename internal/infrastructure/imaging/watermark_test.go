package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lupain/pkg/config"
)

func TestApplyWithoutLogoReturnsInput(t *testing.T) {
	engine := NewWatermarkEngine(config.WatermarkConfig{Position: "bottom-right"})

	input := []byte("untouched bytes")
	out := engine.Apply(input)
	assert.Equal(t, input, out)
}

func TestSetLogoRejectsGarbage(t *testing.T) {
	engine := NewWatermarkEngine(config.WatermarkConfig{})

	err := engine.SetLogo([]byte("definitely not an image"))
	require.Error(t, err)

	// A failed SetLogo leaves no logo behind, so Apply stays a no-op.
	input := []byte("original")
	assert.Equal(t, input, engine.Apply(input))
}

func TestOverlayOffset(t *testing.T) {
	tests := []struct {
		name     string
		position string
		imgW     int
		imgH     int
		wantLeft int
		wantTop  int
	}{
		{"bottom-right default", "", 1000, 800, 1000 - 200 - 20, 800 - 60 - 20},
		{"bottom-right explicit", "bottom-right", 1000, 800, 780, 720},
		{"top-left", "top-left", 1000, 800, 20, 20},
		{"top-right", "top-right", 1000, 800, 780, 20},
		{"bottom-left", "bottom-left", 1000, 800, 20, 720},
		{"center", "center", 1000, 800, 400, 370},
		{"host smaller than logo clamps to zero", "bottom-right", 100, 40, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, top := overlayOffset(tt.position, tt.imgW, tt.imgH, 200, 60, 20)
			assert.Equal(t, tt.wantLeft, left)
			assert.Equal(t, tt.wantTop, top)
		})
	}
}

func TestScaleDimension(t *testing.T) {
	assert.Equal(t, 200, scaleDimension(200, 0))
	assert.Equal(t, 200, scaleDimension(200, -1))
	assert.Equal(t, 100, scaleDimension(200, 0.5))
	assert.Equal(t, 300, scaleDimension(200, 1.5))
}
