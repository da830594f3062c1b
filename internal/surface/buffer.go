package surface

import "github.com/san-kum/physlab/internal/gfx"

// Buffer is an always-mounted Element that records into a gfx.Recorder.
// Headless runs and tests draw into it.
type Buffer struct {
	Rec     *gfx.Recorder
	W, H    int
	Resizes int
	mounted bool
}

func NewBuffer() *Buffer {
	return &Buffer{Rec: gfx.NewRecorder(), mounted: true}
}

func (b *Buffer) Mounted() bool { return b.mounted }

func (b *Buffer) SetBackingSize(w, h int) {
	b.W, b.H = w, h
	b.Resizes++
}

func (b *Buffer) Painter() gfx.Painter { return b.Rec }

// Detach marks the buffer as unmounted.
func (b *Buffer) Detach() { b.mounted = false }
