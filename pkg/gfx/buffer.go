package gfx

import "fmt"

// VertexBuffer holds the single live vertex buffer of a shape. Uploading new
// data allocates a fresh device buffer and releases the previous one.
type VertexBuffer struct {
	dev        Device
	handle     Buffer
	components int
	count      int
	uploads    int
}

func NewVertexBuffer(dev Device, components int) *VertexBuffer {
	if components <= 0 {
		components = 2
	}
	return &VertexBuffer{dev: dev, components: components}
}

// Upload replaces the buffer contents. On failure the previous buffer stays
// live and untouched.
func (b *VertexBuffer) Upload(data []float32) error {
	if len(data)%b.components != 0 {
		return fmt.Errorf("upload %d floats: not a multiple of %d components: %w", len(data), b.components, ErrBufferAlloc)
	}
	handle, err := b.dev.CreateBuffer(data)
	if err != nil {
		return fmt.Errorf("upload %d floats: %w", len(data), err)
	}
	if b.handle != 0 {
		b.dev.DeleteBuffer(b.handle)
	}
	b.handle = handle
	b.count = len(data) / b.components
	b.uploads++
	return nil
}

// Bind attaches the buffer to an attribute location.
func (b *VertexBuffer) Bind(loc Location) {
	b.dev.VertexAttrib(loc, b.handle, b.components)
}

func (b *VertexBuffer) Handle() Buffer {
	return b.handle
}

// Count returns the number of vertices in the live buffer.
func (b *VertexBuffer) Count() int {
	return b.count
}

// Uploads returns how many buffers have been allocated so far.
func (b *VertexBuffer) Uploads() int {
	return b.uploads
}

func (b *VertexBuffer) Release() {
	if b == nil || b.handle == 0 {
		return
	}
	b.dev.DeleteBuffer(b.handle)
	b.handle = 0
	b.count = 0
}
