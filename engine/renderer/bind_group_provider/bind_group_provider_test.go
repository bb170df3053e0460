package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("level_0")

	assert.Equal(t, "level_0", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Zero(t, p.BufferSize(0))
	assert.Zero(t, p.IndexCount())
}

func TestReleaseClearsBookkeeping(t *testing.T) {
	p := NewBindGroupProvider("instances")
	p.SetBuffer(0, nil, 48*25)
	p.SetIndexCount(36)
	assert.Equal(t, uint64(48*25), p.BufferSize(0))

	p.Release()
	assert.Zero(t, p.BufferSize(0))
	assert.Zero(t, p.IndexCount())

	assert.NotPanics(t, p.Release)
}

func TestBufferWriteTargetsProvider(t *testing.T) {
	p := NewBindGroupProvider("camera")
	w := BufferWrite{Provider: p, Binding: 0, Data: make([]byte, 80)}
	assert.Equal(t, "camera", w.Provider.Label())
	assert.Len(t, w.Data, 80)
}
