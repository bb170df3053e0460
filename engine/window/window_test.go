package window

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		in   glfw.Key
		want Key
	}{
		{glfw.KeyEqual, KeyPlus},
		{glfw.KeyKPAdd, KeyPlus},
		{glfw.KeyMinus, KeyMinus},
		{glfw.KeyKPSubtract, KeyMinus},
		{glfw.KeyEscape, KeyEscape},
		{glfw.KeyR, KeyR},
		{glfw.KeyF12, KeyUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, translateKey(tt.in), "glfw key %d", tt.in)
	}
}

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{minWidth: 320, minHeight: 240}
	WithTitle("fractal")(w)
	WithSize(100, 900)(w)

	assert.Equal(t, "fractal", w.title)
	assert.Equal(t, 320, w.width)
	assert.Equal(t, 900, w.height)

	WithMinSize(0, 0)(w)
	assert.Equal(t, 1, w.minWidth)
	assert.Equal(t, 1, w.minHeight)
}

func TestClosedWindowState(t *testing.T) {
	w := &engineWindow{}
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	assert.NotPanics(t, func() { w.SetTitle("closed") })
}
