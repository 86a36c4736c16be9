package system

import (
	"image"
	"sync"
)

// CellPool hands out cleared RGBA buffers of a fixed size, one sync.Pool
// per distinct cell size.
type CellPool struct {
	mu    sync.Mutex
	sizes map[image.Point]*sync.Pool
}

var cells = NewCellPool()

func NewCellPool() *CellPool {
	return &CellPool{sizes: make(map[image.Point]*sync.Pool)}
}

// AcquireCell returns a zeroed w×h buffer anchored at the origin
func AcquireCell(w, h int) *image.RGBA {
	return cells.Acquire(w, h)
}

func ReleaseCell(img *image.RGBA) {
	cells.Release(img)
}

func (p *CellPool) pool(size image.Point) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	sp, ok := p.sizes[size]
	if !ok {
		sp = &sync.Pool{New: func() any {
			return image.NewRGBA(image.Rectangle{Max: size})
		}}
		p.sizes[size] = sp
	}
	return sp
}

func (p *CellPool) Acquire(w, h int) *image.RGBA {
	img := p.pool(image.Pt(w, h)).Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Release returns a buffer obtained from Acquire. Foreign or nil images
// are dropped.
func (p *CellPool) Release(img *image.RGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return
	}
	p.mu.Lock()
	sp, ok := p.sizes[img.Rect.Max]
	p.mu.Unlock()
	if ok {
		sp.Put(img)
	}
}
