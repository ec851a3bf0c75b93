package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"

	"pdf-viewer/internal/domain"
)

// ImageCanvas is an image-backed implementation of domain.Canvas. The backing
// store holds display-size times devicePixelRatio pixels while the logical
// size stays at display size, which keeps output crisp on high-density
// screens: the raster is drawn at full backing resolution and presented
// scaled down by 1/devicePixelRatio.
type ImageCanvas struct {
	mu      sync.Mutex
	logical domain.ViewportSize
	dpr     float64
	backing *image.RGBA
}

// NewImageCanvas allocates a canvas for the given display size.
func NewImageCanvas(display domain.ViewportSize, devicePixelRatio float64) *ImageCanvas {
	if devicePixelRatio <= 0 {
		devicePixelRatio = 1
	}
	w := int(math.Ceil(display.Width * devicePixelRatio))
	h := int(math.Ceil(display.Height * devicePixelRatio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &ImageCanvas{
		logical: display,
		dpr:     devicePixelRatio,
		backing: image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// DrawImage scales src to fill the backing store.
func (c *ImageCanvas) DrawImage(src image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if src.Bounds() == c.backing.Bounds() {
		draw.Draw(c.backing, c.backing.Bounds(), src, src.Bounds().Min, draw.Src)
		return
	}
	xdraw.ApproxBiLinear.Scale(c.backing, c.backing.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}

// BackingBounds returns the backing-store pixel bounds.
func (c *ImageCanvas) BackingBounds() image.Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backing.Bounds()
}

// LogicalSize returns the CSS-equivalent display size.
func (c *ImageCanvas) LogicalSize() domain.ViewportSize {
	return c.logical
}

// DevicePixelRatio returns the ratio the backing store was sized with.
func (c *ImageCanvas) DevicePixelRatio() float64 {
	return c.dpr
}

// Clear resets the backing store to opaque white.
func (c *ImageCanvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	draw.Draw(c.backing, c.backing.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
}

// Image exposes the backing store for presentation or tests.
func (c *ImageCanvas) Image() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backing
}
